// Package session models the signed-in user. The role only gates which
// controls the UI shows; the Remote Store enforces real access control.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/five82/stockpile/internal/inventory"
	"github.com/five82/stockpile/internal/prefs"
)

// RoleAdmin is the role allowed to add, edit and delete records.
const RoleAdmin = "admin"

var (
	// ErrInvalidCredentials is wrapped when the Remote Store rejects a login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingCredentials is returned before any request is sent.
	ErrMissingCredentials = errors.New("username and password are required")
)

// Authenticator exchanges credentials for an account.
type Authenticator interface {
	Login(ctx context.Context, creds inventory.Credentials) (inventory.Account, error)
}

// Session is the signed-in user, passed explicitly to whatever needs it.
type Session struct {
	Username string
	Role     string
}

// Valid reports whether the session carries a role.
func (s Session) Valid() bool { return s.Role != "" }

// IsAdmin reports whether admin-only controls should be shown.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// FromPrefs restores a persisted session. The result is invalid when no one
// is signed in.
func FromPrefs(p prefs.Prefs) Session {
	return Session{Username: p.Username, Role: p.Role}
}

// Apply stores the session in p.
func (s Session) Apply(p prefs.Prefs) prefs.Prefs {
	p.Username = s.Username
	p.Role = s.Role
	return p
}

// Login authenticates creds. Rejections wrap ErrInvalidCredentials and carry
// the server's message; transport failures are reported as a connection
// problem.
func Login(ctx context.Context, auth Authenticator, creds inventory.Credentials) (Session, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		return Session{}, ErrMissingCredentials
	}

	account, err := auth.Login(ctx, creds)
	if err != nil {
		var apiErr *inventory.APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			msg := apiErr.Message
			if msg == "" {
				msg = "login rejected"
			}
			return Session{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
		}
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return Session{}, fmt.Errorf("login failed: %s", apiErr.Message)
		}
		return Session{}, fmt.Errorf("connection failed, is the server running? (%w)", err)
	}

	username := account.Username
	if username == "" {
		username = creds.Username
	}
	return Session{Username: username, Role: account.Role}, nil
}
