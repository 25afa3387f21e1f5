package domain

import (
	"context"
	"time"
)

// User represents a dog owner's account. Accounts are managed by the wider
// platform; the engine reads contact details for notifications and trusts the
// authenticated user ID supplied by the identity middleware.
// swagger:model User
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines read access to user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}
