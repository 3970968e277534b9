package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/five82/stockpile/internal/inventory"
	"github.com/five82/stockpile/internal/prefs"
)

type fakeAuth struct {
	account inventory.Account
	err     error
	calls   int
}

func (f *fakeAuth) Login(_ context.Context, _ inventory.Credentials) (inventory.Account, error) {
	f.calls++
	return f.account, f.err
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name      string
		creds     inventory.Credentials
		auth      *fakeAuth
		wantErr   error
		wantText  string
		wantRole  string
		wantCalls int
	}{
		{
			name:      "admin",
			creds:     inventory.Credentials{Username: " sam ", Password: "pw"},
			auth:      &fakeAuth{account: inventory.Account{Role: "admin"}},
			wantRole:  "admin",
			wantCalls: 1,
		},
		{
			name:    "missing password",
			creds:   inventory.Credentials{Username: "sam"},
			auth:    &fakeAuth{},
			wantErr: ErrMissingCredentials,
		},
		{
			name:      "rejected",
			creds:     inventory.Credentials{Username: "sam", Password: "bad"},
			auth:      &fakeAuth{err: &inventory.APIError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}},
			wantErr:   ErrInvalidCredentials,
			wantText:  "Invalid credentials",
			wantCalls: 1,
		},
		{
			name:      "unreachable",
			creds:     inventory.Credentials{Username: "sam", Password: "pw"},
			auth:      &fakeAuth{err: errors.New("dial tcp: connection refused")},
			wantText:  "is the server running",
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := Login(context.Background(), tt.auth, tt.creds)
			if tt.auth.calls != tt.wantCalls {
				t.Fatalf("auth calls = %d, want %d", tt.auth.calls, tt.wantCalls)
			}
			if tt.wantErr == nil && tt.wantText == "" {
				if err != nil {
					t.Fatalf("Login returned error: %v", err)
				}
				if sess.Role != tt.wantRole || sess.Username != "sam" {
					t.Fatalf("session = %#v, want sam/%s", sess, tt.wantRole)
				}
				return
			}
			if err == nil {
				t.Fatalf("Login returned nil error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantText != "" && !strings.Contains(err.Error(), tt.wantText) {
				t.Fatalf("Login error = %q, want it to contain %q", err, tt.wantText)
			}
		})
	}
}

func TestSession_PrefsRoundTrip(t *testing.T) {
	sess := Session{Username: "ana", Role: "staff"}
	p := sess.Apply(prefs.Prefs{Theme: "Slate"})
	if p.Theme != "Slate" || p.Role != "staff" {
		t.Fatalf("Apply = %#v", p)
	}
	got := FromPrefs(p)
	if got != sess {
		t.Fatalf("FromPrefs = %#v, want %#v", got, sess)
	}
	if got.IsAdmin() {
		t.Fatalf("staff should not be admin")
	}
	if !(Session{Role: RoleAdmin}).IsAdmin() {
		t.Fatalf("admin should be admin")
	}
	if FromPrefs(prefs.Prefs{}).Valid() {
		t.Fatalf("empty prefs should not restore a session")
	}
}
