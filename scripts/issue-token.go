package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/piadas/piadas/internal/auth"
	"github.com/piadas/piadas/internal/repository"
)

type output struct {
	Email     string    `json:"email"`
	Name      string    `json:"nome,omitempty"`
	Token     string    `json:"jwt"`
	ExpiresAt time.Time `json:"expires_at"`
}

func main() {
	// A missing .env is fine; flags and the environment still apply.
	_ = godotenv.Load()

	var (
		secret      = flag.String("secret", os.Getenv("SECRET_KEY"), "HMAC signing secret")
		databaseURL = flag.String("database-url", "", "PostgreSQL URL; when set the user must exist and its name is used")
		email       = flag.String("email", "", "Subject email")
		name        = flag.String("name", "", "Optional name claim")
		ttl         = flag.Duration("ttl", auth.DefaultTokenTTL, "Token lifetime")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "SECRET_KEY or -secret is required")
		os.Exit(1)
	}
	if *email == "" {
		fmt.Fprintln(os.Stderr, "-email is required")
		os.Exit(1)
	}

	if *databaseURL != "" {
		n, err := lookupName(*databaseURL, *email)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		if *name == "" {
			*name = n
		}
	}

	tokens := auth.NewTokenService([]byte(*secret), *ttl)
	token, err := tokens.Issue(*email, *name, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "issue token:", err)
		os.Exit(1)
	}

	authCtx, err := tokens.Parse(token)
	if err != nil {
		fmt.Fprintln(os.Stderr, "verify issued token:", err)
		os.Exit(1)
	}

	result := output{
		Email:     authCtx.Subject,
		Name:      authCtx.Name,
		Token:     token,
		ExpiresAt: authCtx.ExpiresAt,
	}

	if *format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
		return
	}

	fmt.Printf("Email: %s\n", result.Email)
	if result.Name != "" {
		fmt.Printf("Nome: %s\n", result.Name)
	}
	fmt.Printf("Expires: %s\n", result.ExpiresAt.Format(time.RFC3339))
	fmt.Printf("JWT: %s\n", result.Token)
}

func lookupName(databaseURL, email string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, databaseURL)
	if err != nil {
		return "", fmt.Errorf("connect database: %w", err)
	}
	defer repo.Close()

	user, err := repo.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", fmt.Errorf("user %s is not registered", email)
	}
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	return user.Name, nil
}
