package feedback

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
	"github.com/doodlesbykumbi/feedbox/pkg/secretbox"
	"github.com/doodlesbykumbi/feedbox/pkg/token"
	"github.com/doodlesbykumbi/feedbox/pkg/validation"
)

const clientSecretBytes = 32

// dummyHash is compared against when the email is unknown so that sign-in
// takes the same time whether or not the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("feedbox-dummy-password"), bcrypt.MinCost)

// Session is the result of a successful sign-in.
type Session struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

func newClientSecret() ([]byte, error) {
	raw, err := secretbox.RandomBytes(clientSecretBytes)
	if err != nil {
		return nil, err
	}
	return []byte(base64.RawURLEncoding.EncodeToString(raw)), nil
}

// SignUp registers a user. The returned user carries its plaintext client
// secret, which is never shown again except to its owner.
func (s *Service) SignUp(ctx context.Context, in validation.SignUp) (*model.User, error) {
	if err := invalid(validation.Struct(&in)); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.config().BcryptCost)
	if err != nil {
		return nil, err
	}
	secret, err := newClientSecret()
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		ClientSecret: secret,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, storeError("create user", err)
	}
	return user, nil
}

// SignIn exchanges an email and password for a bearer token.
func (s *Service) SignIn(ctx context.Context, in validation.SignIn) (*Session, error) {
	if err := invalid(validation.Struct(&in)); err != nil {
		return nil, err
	}

	user, err := s.users.FetchUserByEmail(ctx, in.Email)
	if err != nil {
		err = storeError("fetch user", err)
		if errors.Is(err, ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(in.Password)) != nil {
		return nil, ErrUnauthenticated
	}

	tok, exp, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: tok, ExpiresAt: exp}, nil
}

// AuthenticateSecret returns the user whose client secret matches.
func (s *Service) AuthenticateSecret(ctx context.Context, userID uuid.UUID, secret string) (*model.User, error) {
	if userID == uuid.Nil || secret == "" {
		return nil, ErrUnauthenticated
	}
	user, err := s.fetchUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare(user.ClientSecret, []byte(secret)) != 1 {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// AuthenticateToken returns the user a bearer token was issued to, and the
// token's expiry.
func (s *Service) AuthenticateToken(ctx context.Context, bearer string) (*model.User, time.Time, error) {
	userID, claims, err := s.tokens.Parse(bearer)
	if err != nil {
		if errors.Is(err, token.ErrExpiredToken) {
			return nil, time.Time{}, errors.Join(ErrUnauthenticated, err)
		}
		return nil, time.Time{}, ErrUnauthenticated
	}
	user, err := s.fetchUser(ctx, userID)
	if err != nil {
		return nil, time.Time{}, err
	}
	return user, claims.ExpiresAt.Time, nil
}

// fetchUser loads a user for authentication; a missing user is a credential
// failure.
func (s *Service) fetchUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.FetchUser(ctx, userID)
	if err != nil {
		err = storeError("fetch user", err)
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// RotateClientSecret replaces the caller's client secret and returns the new one.
func (s *Service) RotateClientSecret(ctx context.Context, callerID uuid.UUID) (string, error) {
	if callerID == uuid.Nil {
		return "", ErrUnauthenticated
	}
	secret, err := newClientSecret()
	if err != nil {
		return "", err
	}
	if err := s.users.UpdateClientSecret(ctx, callerID, secret); err != nil {
		err = storeError("update client secret", err)
		if errors.Is(err, ErrNotFound) {
			return "", ErrUnauthenticated
		}
		return "", err
	}
	return string(secret), nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, callerID uuid.UUID, in validation.PasswordChange) error {
	if err := invalid(validation.Struct(&in)); err != nil {
		return err
	}
	user, err := s.fetchUser(ctx, callerID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(in.CurrentPassword)) != nil {
		return ErrUnauthenticated
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), s.config().BcryptCost)
	if err != nil {
		return err
	}
	return storeError("update password", s.users.UpdatePasswordHash(ctx, callerID, hash))
}
