package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
)

// UsersStore abstracts account storage
type UsersStore interface {
	// CreateUser inserts a user. The client secret is sealed at rest.
	// Returns ErrDuplicate if the email is taken.
	CreateUser(ctx context.Context, user *model.User) error

	// FetchUser returns a user by id, or ErrNotFound.
	FetchUser(ctx context.Context, id uuid.UUID) (*model.User, error)

	// FetchUserByEmail returns a user by lower-cased email, or ErrNotFound.
	FetchUserByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdateClientSecret replaces the client secret of a user.
	UpdateClientSecret(ctx context.Context, id uuid.UUID, secret []byte) error

	// UpdatePasswordHash replaces the password hash of a user.
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error
}
