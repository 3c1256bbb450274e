package auth

import (
	"context"
	"crypto/subtle"
	"strings"
)

type contextKey string

const userKey contextKey = "user"

// AnonymousUser is recorded as the author when no credentials were presented.
const AnonymousUser = "anonymous"

// ContextWithUser returns a new context that carries the authenticated user name.
func ContextWithUser(ctx context.Context, user string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the authenticated user name from the context, if any.
func UserFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	user, ok := ctx.Value(userKey).(string)
	if !ok || strings.TrimSpace(user) == "" {
		return "", false
	}
	return user, true
}

// UserOrAnonymous returns the authenticated user or AnonymousUser.
func UserOrAnonymous(ctx context.Context) string {
	if user, ok := UserFromContext(ctx); ok {
		return user
	}
	return AnonymousUser
}

// Credentials is the single shared login guarding the dashboard.
type Credentials struct {
	Username string
	Password string
}

// Configured reports whether both halves of the credential pair are set.
func (c Credentials) Configured() bool {
	return c.Username != "" && c.Password != ""
}

// Matches compares the presented credentials in constant time.
func (c Credentials) Matches(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	return userOK && passOK && c.Configured()
}
