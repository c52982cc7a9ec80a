// Package main provides a CLI tool for minting admin session tokens for
// local development. Tokens use the dev signing key and will NOT work
// against a production deployment.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"folio/internal/auth/token"
	"folio/pkg/secrets"
)

const (
	// Dev signing key - matches config.go when JWT_SIGNING_KEY is not set
	devSigningKey = "dev-secret-key-change-in-production"

	defaultTokenTTL = 30 * time.Minute
)

type tokenOutput struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	ExpiresIn string `json:"expires_in"`
	Usage     string `json:"usage"`
}

func main() {
	email := flag.String("email", "", "Admin email to embed in the token (required)")
	key := flag.String("key", devSigningKey, "Signing key. Defaults to the dev key.")
	ttl := flag.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	asJSON := flag.Bool("json", false, "Output as JSON")
	newKey := flag.Bool("new-key", false, "Generate a fresh signing key for JWT_SIGNING_KEY and exit")
	flag.Parse()

	if *newKey {
		key, err := secrets.Generate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: generate key: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(key)
		return
	}

	if *email == "" {
		fmt.Fprintln(os.Stderr, "error: -email is required")
		flag.Usage()
		os.Exit(2)
	}

	svc := token.NewService(*key, *ttl)
	tok, err := svc.Issue(*email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: issue token: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		out := tokenOutput{
			Token:     tok,
			Email:     *email,
			ExpiresIn: ttl.String(),
			Usage:     fmt.Sprintf("curl -H 'Authorization: Bearer %s' http://localhost:8080/api/admin/projects", tok),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "error: encode output: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(tok)
}
