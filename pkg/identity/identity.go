package identity

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnauthenticated is returned by credential checks when the presented
// credentials don't belong to any user. Other errors from a check mean the
// caller could not be verified at all.
var ErrUnauthenticated = errors.New("invalid credentials")

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Method names how a caller proved who they are.
type Method string

const (
	MethodClientSecret Method = "client-secret"
	MethodToken        Method = "token"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Method Method

	// ExpiresAt is set for token authentication
	ExpiresAt time.Time

	// Request context
	RemoteIP net.IP
}

// New creates an Identity for an authenticated user.
func New(userID uuid.UUID, email string, method Method) *Identity {
	return &Identity{UserID: userID, Email: email, Method: method}
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// WithExpiry sets the expiry of the credential used.
func (i *Identity) WithExpiry(t time.Time) *Identity {
	i.ExpiresAt = t
	return i
}

// ClientIP returns the address of the request's peer. X-Forwarded-For is
// not trusted.
func ClientIP(r *http.Request) net.IP {
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return net.ParseIP(strings.TrimSpace(host))
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok && id != nil
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
