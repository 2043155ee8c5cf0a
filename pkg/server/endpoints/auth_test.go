package endpoints

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
	"github.com/doodlesbykumbi/feedbox/pkg/server/store"
)

func TestSignUp(t *testing.T) {
	t.Run("creates an account", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.On("CreateUser", mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "ann@example.com" && u.Name == "Ann" && len(u.ClientSecret) > 0
		})).Run(func(args mock.Arguments) {
			args.Get(0).(*model.User).ID = uuid.New()
		}).Return(nil).Once()

		w := env.do("POST", "/v1/auth/sign-up", map[string]string{
			"email": "Ann@Example.com", "password": "hunter22", "name": "Ann",
		}, "")

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var account AccountResponse
		decodeData(t, w, &account)
		assert.Equal(t, "ann@example.com", account.Email)
		assert.NotEmpty(t, account.ClientSecret)
		assert.NotContains(t, w.Body.String(), "hunter22")
		env.users.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.On("CreateUser", mock.Anything).Return(store.ErrDuplicate).Once()

		w := env.do("POST", "/v1/auth/sign-up", map[string]string{
			"email": "ann@example.com", "password": "hunter22", "name": "Ann",
		}, "")

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid payload never reaches storage", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/v1/auth/sign-up", map[string]string{
			"email": "not-an-email", "password": "123", "name": "",
		}, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeEnvelope(t, w)
		assert.False(t, body.Success)
		assert.True(t, hasFieldError(body, "email", "InvalidFormat"))
		assert.True(t, hasFieldError(body, "password", "TooShort"))
		assert.True(t, hasFieldError(body, "name", "TooShort"))
		env.users.AssertNotCalled(t, "CreateUser", mock.Anything)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/v1/auth/sign-up", `{"email":`, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.True(t, hasFieldError(decodeEnvelope(t, w), "body", "InvalidFormat"))
	})

	t.Run("unknown field", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/v1/auth/sign-up", `{"email":"a@b.co","password":"hunter22","name":"A","admin":true}`, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("body too large", func(t *testing.T) {
		env := newTestEnv(t)
		env.cfg.MaxBodyBytes = 16

		w := env.do("POST", "/v1/auth/sign-up", map[string]string{
			"email": "ann@example.com", "password": "hunter22", "name": "Ann",
		}, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.True(t, hasFieldError(decodeEnvelope(t, w), "body", "TooLong"))
	})
}

func TestSignIn(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		ID:           uuid.New(),
		Email:        "ann@example.com",
		Name:         "Ann",
		PasswordHash: hash,
		ClientSecret: []byte("s3cret"),
	}

	t.Run("valid credentials", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.On("FetchUserByEmail", "ann@example.com").Return(user, nil).Once()

		w := env.do("POST", "/v1/auth/sign-in", map[string]string{"email": "ann@example.com", "password": "hunter22"}, "")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var session SessionResponse
		decodeData(t, w, &session)
		assert.Equal(t, user.ID, session.ID)
		assert.Equal(t, "s3cret", session.ClientSecret)
		assert.NotEmpty(t, session.Token)

		env.users.On("FetchUser", user.ID).Return(user, nil).Once()
		w = env.do("GET", "/v1/whoami", nil, session.Token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var who WhoamiResponse
		decodeData(t, w, &who)
		assert.Equal(t, user.ID, who.UserID)
		assert.Equal(t, "token", who.Method)
		assert.NotNil(t, who.ExpiresAt)
	})

	t.Run("wrong password and unknown email look alike", func(t *testing.T) {
		env := newTestEnv(t)
		env.users.On("FetchUserByEmail", "ann@example.com").Return(user, nil).Once()
		env.users.On("FetchUserByEmail", "bob@example.com").Return(nil, store.ErrNotFound).Once()

		wrong := env.do("POST", "/v1/auth/sign-in", map[string]string{"email": "ann@example.com", "password": "nope-nope"}, "")
		unknown := env.do("POST", "/v1/auth/sign-in", map[string]string{"email": "bob@example.com", "password": "hunter22"}, "")

		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	})
}

func TestClientSecretAuthentication(t *testing.T) {
	env := newTestEnv(t)
	user := &model.User{ID: uuid.New(), Email: "ann@example.com", ClientSecret: []byte("s3cret")}
	env.users.On("FetchUser", user.ID).Return(user, nil)

	for _, tt := range []struct {
		secret string
		want   int
	}{
		{"s3cret", http.StatusOK},
		{"wrong", http.StatusUnauthorized},
	} {
		w := doWithSecret(env, "GET", "/v1/whoami", user.ID.String(), tt.secret)
		assert.Equal(t, tt.want, w.Code, tt.secret)
	}
}

func TestAuthenticationWhileStoreIsDown(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	env.users.On("FetchUser", userID).Return(nil, errors.New("dial tcp: connection refused"))
	tok, _, err := env.tokens.Issue(userID, "ann@example.com")
	require.NoError(t, err)

	for name, w := range map[string]*httptest.ResponseRecorder{
		"bearer":        env.do("GET", "/v1/project", nil, tok),
		"client secret": doWithSecret(env, "GET", "/v1/project", userID.String(), "s3cret"),
	} {
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, name)
		body := decodeEnvelope(t, w)
		assert.False(t, body.Success, name)
		assert.Contains(t, body.Message, "retry", name)
	}
	env.projects.AssertNotCalled(t, "ListProjects", mock.Anything, mock.Anything)
}

func TestUserEndpoints(t *testing.T) {
	t.Run("rotate secret", func(t *testing.T) {
		env := newTestEnv(t)
		user, tok := env.signedIn(t)
		env.users.On("UpdateClientSecret", user.ID, mock.AnythingOfType("[]uint8")).Return(nil).Once()

		w := env.do("POST", "/v1/user/secret", nil, tok)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var secret SecretResponse
		decodeData(t, w, &secret)
		assert.NotEmpty(t, secret.ClientSecret)
		env.users.AssertExpectations(t)
	})

	t.Run("change password with wrong current password", func(t *testing.T) {
		env := newTestEnv(t)
		hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
		require.NoError(t, err)
		user, tok := env.signedIn(t)
		user.PasswordHash = hash

		w := env.do("PUT", "/v1/user/password", map[string]string{"currentPassword": "wrong1", "newPassword": "brand-new"}, tok)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env.users.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything)
	})

	t.Run("change password", func(t *testing.T) {
		env := newTestEnv(t)
		hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
		require.NoError(t, err)
		user, tok := env.signedIn(t)
		user.PasswordHash = hash
		env.users.On("UpdatePasswordHash", user.ID, mock.AnythingOfType("[]uint8")).Return(nil).Once()

		w := env.do("PUT", "/v1/user/password", map[string]string{"currentPassword": "hunter22", "newPassword": "brand-new"}, tok)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		env.users.AssertExpectations(t)
	})

	t.Run("requires authentication", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do("POST", "/v1/user/secret", nil, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
