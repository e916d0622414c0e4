// Package auth holds the logged-in identity for the running app: the
// persisted token and, once fetched, the user profile behind it.
package auth

import (
	"context"
	"sync"

	"github.com/akhaled/eduterm/internal/api"
	"github.com/akhaled/eduterm/internal/store"
)

// Context is the app's auth state. It implements api.TokenSource so the
// HTTP client reads tokens straight from it, and it writes through to
// the credential store so logins survive restarts.
type Context struct {
	creds store.CredentialRepo

	mu    sync.Mutex
	token string
	user  *api.User
}

// NewContext creates a Context backed by the credential store.
func NewContext(creds store.CredentialRepo) *Context {
	return &Context{creds: creds}
}

var _ api.TokenSource = (*Context)(nil)

// Load restores a persisted token, if any. Call once at startup.
func (c *Context) Load(ctx context.Context) error {
	token, err := c.creds.LoadToken(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

// Token returns the current auth token, or "" when logged out.
func (c *Context) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// LoggedIn reports whether a token is present. It says nothing about
// whether the server still accepts it.
func (c *Context) LoggedIn() bool {
	return c.Token() != ""
}

// SetToken stores a fresh token in memory and the credential store.
func (c *Context) SetToken(ctx context.Context, token string) error {
	c.mu.Lock()
	c.token = token
	c.user = nil
	c.mu.Unlock()
	return c.creds.SaveToken(ctx, token)
}

// Clear logs out: drops the in-memory state and the persisted token.
func (c *Context) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.token = ""
	c.user = nil
	c.mu.Unlock()
	return c.creds.ClearToken(ctx)
}

// SetUser caches the fetched profile.
func (c *Context) SetUser(u *api.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = u
}

// User returns the cached profile, or nil if none has been fetched.
func (c *Context) User() *api.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// DisplayName returns the best available name for the header.
func (c *Context) DisplayName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user != nil && c.user.FullName != "" {
		return c.user.FullName
	}
	return ""
}
