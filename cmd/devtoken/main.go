// Command devtoken prints an identity token for a local user so the command
// API and the session routes can be exercised without the identity backend.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/BuzzLyutic/life-command/internal/auth"
	"github.com/BuzzLyutic/life-command/internal/config"
)

func main() {
	userID := flag.String("user", "", "user id to put in the token subject")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "devtoken: -user is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}

	verifier := auth.NewJWTVerifier(auth.JWTConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
	})

	token, err := verifier.Issue(*userID, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
