package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/feedbox/pkg/audit"
	"github.com/doodlesbykumbi/feedbox/pkg/identity"
	"github.com/doodlesbykumbi/feedbox/pkg/model"
	"github.com/doodlesbykumbi/feedbox/pkg/token"
)

func TestMain(m *testing.M) {
	audit.SetEnabled(false)
	os.Exit(m.Run())
}

type mockChecker struct {
	mock.Mock
}

func (m *mockChecker) AuthenticateSecret(ctx context.Context, userID uuid.UUID, secret string) (*model.User, error) {
	args := m.Called(userID, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockChecker) AuthenticateToken(ctx context.Context, bearer string) (*model.User, time.Time, error) {
	args := m.Called(bearer)
	if args.Get(0) == nil {
		return nil, time.Time{}, args.Error(2)
	}
	return args.Get(0).(*model.User), args.Get(1).(time.Time), args.Error(2)
}

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"userId": id.UserID.String(),
			"method": string(id.Method),
		})
	})
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthenticatorClientSecret(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "ann@example.com"}
	checker := &mockChecker{}
	checker.On("AuthenticateSecret", user.ID, "s3cret").Return(user, nil)
	checker.On("AuthenticateSecret", user.ID, "wrong").Return(nil, identity.ErrUnauthenticated)

	handler := NewAuthenticator(checker).Middleware(echoIdentity())

	t.Run("valid pair", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/whoami", nil)
		req.Header.Set(HeaderUserID, user.ID.String())
		req.Header.Set(HeaderClientSecret, "s3cret")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, user.ID.String(), body["userId"])
		assert.Equal(t, "client-secret", body["method"])
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/whoami", nil)
		req.Header.Set(HeaderUserID, user.ID.String())
		req.Header.Set(HeaderClientSecret, "wrong")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decode(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "invalid credentials", body["message"])
	})

	t.Run("malformed user id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/whoami", nil)
		req.Header.Set(HeaderUserID, "admin")
		req.Header.Set(HeaderClientSecret, "s3cret")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-canonical user id", func(t *testing.T) {
		for _, raw := range []string{
			strings.ReplaceAll(user.ID.String(), "-", ""),
			"urn:uuid:" + user.ID.String(),
		} {
			req := httptest.NewRequest("GET", "/v1/whoami", nil)
			req.Header.Set(HeaderUserID, raw)
			req.Header.Set(HeaderClientSecret, "s3cret")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code, raw)
		}
		checker.AssertNumberOfCalls(t, "AuthenticateSecret", 2)
	})

	checker.AssertExpectations(t)
}

func TestAuthenticatorBearer(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "ann@example.com"}
	exp := time.Now().Add(time.Hour)
	checker := &mockChecker{}
	checker.On("AuthenticateToken", "good").Return(user, exp, nil)
	checker.On("AuthenticateToken", "old").Return(nil, time.Time{}, errors.Join(identity.ErrUnauthenticated, token.ErrExpiredToken))
	checker.On("AuthenticateToken", "forged").Return(nil, time.Time{}, identity.ErrUnauthenticated)

	handler := NewAuthenticator(checker).Middleware(echoIdentity())

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"valid token", "Bearer good", http.StatusOK, ""},
		{"lower-case scheme", "bearer good", http.StatusOK, ""},
		{"expired token", "Bearer old", http.StatusUnauthorized, "token expired"},
		{"forged token", "Bearer forged", http.StatusUnauthorized, "invalid credentials"},
		{"wrong scheme", "Token token=\"good\"", http.StatusUnauthorized, "malformed authorization header"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "malformed authorization header"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/whoami", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decode(t, w)["message"])
			}
		})
	}
}

func TestAuthenticatorMissingCredentials(t *testing.T) {
	handler := NewAuthenticator(&mockChecker{}).Middleware(echoIdentity())

	req := httptest.NewRequest("GET", "/v1/project", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "authentication required", decode(t, w)["message"])
}

func TestAuthenticatorCheckerUnavailable(t *testing.T) {
	userID := uuid.New()
	down := errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")
	checker := &mockChecker{}
	checker.On("AuthenticateToken", "good").Return(nil, time.Time{}, down)
	checker.On("AuthenticateSecret", userID, "s3cret").Return(nil, down)

	handler := NewAuthenticator(checker).Middleware(echoIdentity())

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"bearer", map[string]string{"Authorization": "Bearer good"}},
		{"client secret", map[string]string{HeaderUserID: userID.String(), HeaderClientSecret: "s3cret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/project", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			assert.Empty(t, w.Header().Get("WWW-Authenticate"))
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "service temporarily unavailable, please retry", body["message"])
		})
	}

	checker.AssertExpectations(t)
}
