package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
	"github.com/doodlesbykumbi/feedbox/pkg/secretbox"
	"github.com/doodlesbykumbi/feedbox/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db     *gorm.DB
	cipher secretbox.SymmetricCipher
}

// NewUsersStore creates a new UsersStore. The cipher seals client secrets.
func NewUsersStore(db *gorm.DB, cipher secretbox.SymmetricCipher) *UsersStore {
	return &UsersStore{db: db, cipher: cipher}
}

func (s *UsersStore) withContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(secretbox.NewContext(ctx, s.cipher))
}

func (s *UsersStore) CreateUser(ctx context.Context, user *model.User) error {
	return translateError(s.withContext(ctx).Create(user).Error)
}

func (s *UsersStore) FetchUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := s.withContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (s *UsersStore) FetchUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.withContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (s *UsersStore) UpdateClientSecret(ctx context.Context, id uuid.UUID, secret []byte) error {
	sealed, err := model.SealClientSecret(s.cipher, id, secret)
	if err != nil {
		return err
	}
	return s.updateColumn(ctx, id, "client_secret", sealed)
}

func (s *UsersStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error {
	return s.updateColumn(ctx, id, "password_hash", hash)
}

func (s *UsersStore) updateColumn(ctx context.Context, id uuid.UUID, column string, value any) error {
	tx := s.withContext(ctx).Model(&model.User{}).Where("id = ?", id).Update(column, value)
	if tx.Error != nil {
		return translateError(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
