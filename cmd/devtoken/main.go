package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"pawgather/internal/adapters/auth"
)

// devtoken mints a Bearer token for local API testing:
//
//	go run ./cmd/devtoken -user <user-uuid> -email someone@example.com
func main() {
	secret := flag.String("secret", "dev-secret-do-not-use-in-production", "JWT signing secret (must match the server's JWT_SECRET)")
	userID := flag.String("user", "00000000-0000-0000-0000-000000000001", "User ID for the token subject")
	email := flag.String("email", "dev@pawgather.local", "Email claim for the token")
	expHours := flag.Int("exp", 24*7, "Token expiration in hours")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	issuer := auth.NewJWTIssuer(*secret)
	token, err := issuer.Issue(*userID, *email, time.Duration(*expHours)*time.Hour)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   *expHours * 3600,
			"user_id":      *userID,
			"email":        *email,
		})
		return
	}
	fmt.Println(token)
}
