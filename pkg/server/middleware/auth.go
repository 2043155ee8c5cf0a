package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/feedbox/pkg/audit"
	"github.com/doodlesbykumbi/feedbox/pkg/identity"
	"github.com/doodlesbykumbi/feedbox/pkg/log"
	"github.com/doodlesbykumbi/feedbox/pkg/model"
	"github.com/doodlesbykumbi/feedbox/pkg/token"
	"github.com/doodlesbykumbi/feedbox/pkg/validation"
)

const (
	HeaderUserID       = "X-User-Id"
	HeaderClientSecret = "X-Client-Secret"
)

// CredentialChecker verifies the credentials a request presents.
type CredentialChecker interface {
	AuthenticateSecret(ctx context.Context, userID uuid.UUID, secret string) (*model.User, error)
	AuthenticateToken(ctx context.Context, bearer string) (*model.User, time.Time, error)
}

// Authenticator is middleware that resolves the caller of a request from
// either a bearer token or a user id and client secret pair.
type Authenticator struct {
	checker CredentialChecker
}

// NewAuthenticator creates a new authenticator middleware
func NewAuthenticator(checker CredentialChecker) *Authenticator {
	return &Authenticator{checker: checker}
}

// Middleware returns an HTTP middleware that rejects unauthenticated requests
// with 401 and stores the identity of authenticated ones in the context. When
// the checker fails for any other reason the request gets 503.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := a.authenticate(r)
		if errors.Is(err, errUnavailable) {
			respond(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="feedbox"`)
			respond(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

var (
	errMissingCredentials = errors.New("authentication required")
	errMalformedHeader    = errors.New("malformed authorization header")
	errMalformedUserID    = errors.New("malformed user id")
	errInvalidCredentials = errors.New("invalid credentials")
	errExpiredToken       = errors.New("token expired")
	errUnavailable        = errors.New("service temporarily unavailable, please retry")
)

// checkFailure maps an error from the credential checker onto the error the
// caller sees.
func checkFailure(err error) error {
	switch {
	case errors.Is(err, token.ErrExpiredToken):
		return errExpiredToken
	case errors.Is(err, identity.ErrUnauthenticated):
		return errInvalidCredentials
	default:
		log.WithError(err).Warn("credential check failed")
		return errUnavailable
	}
}

func (a *Authenticator) authenticate(r *http.Request) (*identity.Identity, error) {
	ip := identity.ClientIP(r)

	if header := r.Header.Get("Authorization"); header != "" {
		scheme, bearer, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(bearer) == "" {
			return nil, errMalformedHeader
		}
		user, exp, err := a.checker.AuthenticateToken(r.Context(), strings.TrimSpace(bearer))
		if err != nil {
			logFailure("", identity.MethodToken, ip.String(), err)
			return nil, checkFailure(err)
		}
		return identity.New(user.ID, user.Email, identity.MethodToken).WithExpiry(exp).WithRemoteIP(ip), nil
	}

	rawID := r.Header.Get(HeaderUserID)
	secret := r.Header.Get(HeaderClientSecret)
	if rawID == "" && secret == "" {
		return nil, errMissingCredentials
	}
	if !validation.IsIdentifier(rawID) {
		logFailure(rawID, identity.MethodClientSecret, ip.String(), errMalformedUserID)
		return nil, errInvalidCredentials
	}
	userID := uuid.MustParse(rawID)
	user, err := a.checker.AuthenticateSecret(r.Context(), userID, secret)
	if err != nil {
		logFailure(rawID, identity.MethodClientSecret, ip.String(), err)
		return nil, checkFailure(err)
	}
	return identity.New(user.ID, user.Email, identity.MethodClientSecret).WithRemoteIP(ip), nil
}

func logFailure(userID string, method identity.Method, ip string, err error) {
	audit.Log(audit.AuthenticateEvent{
		UserID:       userID,
		ClientIP:     ip,
		Method:       string(method),
		Success:      false,
		ErrorMessage: err.Error(),
	})
}

func respond(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
