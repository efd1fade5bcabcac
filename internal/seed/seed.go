// Package seed creates the two default accounts (an admin and a client)
// when they are absent.
package seed

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gridwell/snftrack/internal/auth"
	"github.com/gridwell/snftrack/internal/model"
	"github.com/gridwell/snftrack/internal/store"
)

// Options configures the seeded accounts. Empty passwords are replaced by
// generated ones, printed to stdout exactly once.
type Options struct {
	AdminUsername  string
	AdminPassword  string
	ClientUsername string
	ClientPassword string
}

// EnsureDefaultUsers creates the admin and client accounts if they do not
// exist. It is idempotent and safe to call on every startup.
func EnsureDefaultUsers(repo store.Repository, opts Options, log *slog.Logger) error {
	if err := ensureUser(repo, opts.AdminUsername, opts.AdminPassword, model.RoleAdmin, log); err != nil {
		return err
	}
	return ensureUser(repo, opts.ClientUsername, opts.ClientPassword, model.RoleClient, log)
}

func ensureUser(repo store.Repository, username, password, role string, log *slog.Logger) error {
	if username == "" {
		return fmt.Errorf("seed %s username is empty", role)
	}
	if _, err := repo.GetUserByUsername(username); err == nil {
		log.Info("seed account already exists", "username", username)
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("look up seed account %q: %w", username, err)
	}

	if password == "" {
		generated, err := generatePassword()
		if err != nil {
			return fmt.Errorf("generate seed password: %w", err)
		}
		password = generated
		// Print the generated password to stdout exactly once.
		fmt.Printf("[snftrack] seed %s password (%s): %s\n", role, username, password)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	_, err = repo.CreateUser(model.User{
		Username:  username,
		Password:  hash,
		Role:      role,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("insert seed account %q: %w", username, err)
	}
	log.Info("seed account created", "username", username, "role", role)
	return nil
}

func generatePassword() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
