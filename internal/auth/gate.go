package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nhle/lacquer/internal/model"
	"github.com/nhle/lacquer/internal/store"
)

// UserStore is the subset of the store the gate needs.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
}

// Gate maps verified identities to local users, creating the user row the
// first time an identity is seen.
type Gate struct {
	verifier *Verifier
	users    UserStore
	logger   *log.Logger
}

// NewGate creates a Gate.
func NewGate(v *Verifier, users UserStore, logger *log.Logger) *Gate {
	return &Gate{verifier: v, users: users, logger: logger}
}

// Resolve verifies token and returns the caller's user id.
func (g *Gate) Resolve(ctx context.Context, token string) (string, error) {
	id, err := g.verifier.Verify(token)
	if err != nil {
		return "", err
	}
	user, err := g.EnsureUser(ctx, id)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// EnsureUser returns the local user for id, provisioning it if absent. A
// concurrent first request may win the insert; the loser re-reads by id
// and then by email.
func (g *Gate) EnsureUser(ctx context.Context, id Identity) (*model.User, error) {
	user, err := g.users.GetUser(ctx, id.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("looking up user %s: %w", id.Subject, err)
	}

	user = &model.User{
		ID:                 id.Subject,
		Username:           usernameFromEmail(id.Email),
		Email:              id.Email,
		AutoLocationFilter: true,
	}
	err = g.users.CreateUser(ctx, user)
	if err == nil {
		if g.logger != nil {
			g.logger.Info("provisioned user", "user", user.ID)
		}
		return user, nil
	}
	if !errors.Is(err, store.ErrConflict) {
		return nil, fmt.Errorf("provisioning user %s: %w", id.Subject, err)
	}

	if existing, err := g.users.GetUser(ctx, id.Subject); err == nil {
		return existing, nil
	}
	if existing, err := g.users.GetUserByEmail(ctx, id.Email); err == nil {
		return existing, nil
	}
	return nil, fmt.Errorf("provisioning user %s: %w", id.Subject, err)
}

func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "user"
	}
	return local
}
