package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iamadmin/iamadmin/internal/auth"
	"github.com/iamadmin/iamadmin/internal/model"
	"github.com/iamadmin/iamadmin/internal/repository"
)

type output struct {
	Subject   string    `json:"subject"`
	Email     string    `json:"email"`
	IsRoot    bool      `json:"is_root"`
	Scopes    []string  `json:"scopes"`
	ExpiresAt time.Time `json:"expires_at"`
	Token     string    `json:"token"`
}

func main() {
	var (
		secret      = flag.String("secret", os.Getenv("JWT_SECRET"), "HMAC secret shared with the API")
		issuer      = flag.String("issuer", os.Getenv("JWT_ISSUER"), "Token issuer (optional)")
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string; when set the operator must exist")
		email       = flag.String("email", "", "Operator email")
		subject     = flag.String("subject", "", "Token subject (defaults to the email)")
		isRoot      = flag.Bool("root", false, "Mark the operator as root")
		scopesInput = flag.String("scopes", "", "Comma-separated scopes")
		ttl         = flag.Duration("ttl", time.Hour, "Token lifetime")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}
	if strings.TrimSpace(*email) == "" {
		fmt.Fprintln(os.Stderr, "-email is required")
		os.Exit(1)
	}
	if *ttl <= 0 {
		fmt.Fprintln(os.Stderr, "-ttl must be positive")
		os.Exit(1)
	}

	if *databaseURL != "" {
		if err := ensureOperator(*databaseURL, *email); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
	}

	caller := model.Caller{
		Subject: *subject,
		Email:   *email,
		IsRoot:  *isRoot,
		Scopes:  parseScopes(*scopesInput),
	}
	if caller.Subject == "" {
		caller.Subject = caller.Email
	}

	now := time.Now().UTC()
	token, err := auth.Sign(*secret, *issuer, caller, *ttl, now)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	out := output{
		Subject:   caller.Subject,
		Email:     caller.Email,
		IsRoot:    caller.IsRoot,
		Scopes:    caller.Scopes,
		ExpiresAt: now.Add(*ttl),
		Token:     token,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.Token)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func parseScopes(input string) []string {
	var scopes []string
	for _, part := range strings.Split(input, ",") {
		if scope := strings.TrimSpace(part); scope != "" {
			scopes = append(scopes, scope)
		}
	}
	return scopes
}

// ensureOperator checks that the email belongs to an active directory user.
func ensureOperator(databaseURL, email string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, databaseURL, repository.DefaultOptions())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer repo.Close()

	user, err := repo.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("no directory user with email %s", email)
	}
	if err != nil {
		return fmt.Errorf("lookup operator: %w", err)
	}
	if !user.IsActive {
		return fmt.Errorf("user %s is not active", email)
	}
	return nil
}
