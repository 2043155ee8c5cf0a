package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/feedbox/pkg/secretbox"
)

var ErrNoCipher = errors.New("no cipher in database context")

// User owns projects. The client secret is sealed with the data key while at
// rest and holds plaintext everywhere else.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash []byte    `gorm:"column:password_hash;not null" json:"-"`
	Name         string    `gorm:"not null" json:"name"`
	ClientSecret []byte    `gorm:"column:client_secret;not null" json:"-"`
	CreatedDate  time.Time `gorm:"column:created_date;not null" json:"createdDate"`

	plainSecret []byte
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedDate.IsZero() {
		u.CreatedDate = time.Now().UTC()
	}

	c, ok := secretbox.FromContext(tx.Statement.Context)
	if !ok {
		return ErrNoCipher
	}
	sealed, err := SealClientSecret(c, u.ID, u.ClientSecret)
	if err != nil {
		return err
	}
	u.plainSecret = u.ClientSecret
	u.ClientSecret = sealed
	return nil
}

func (u *User) AfterCreate(tx *gorm.DB) error {
	u.ClientSecret = u.plainSecret
	u.plainSecret = nil
	return nil
}

func (u *User) AfterFind(tx *gorm.DB) error {
	c, ok := secretbox.FromContext(tx.Statement.Context)
	if !ok {
		return ErrNoCipher
	}
	plain, err := OpenClientSecret(c, u.ID, u.ClientSecret)
	if err != nil {
		return err
	}
	u.ClientSecret = plain
	return nil
}

// SealClientSecret encrypts a client secret bound to its user.
func SealClientSecret(c secretbox.SymmetricCipher, userID uuid.UUID, secret []byte) ([]byte, error) {
	sealed, err := c.Encrypt([]byte(userID.String()), secret)
	if err != nil {
		return nil, fmt.Errorf("client secret encryption failed for user_id=%q", userID)
	}
	return sealed, nil
}

// OpenClientSecret is the inverse of SealClientSecret.
func OpenClientSecret(c secretbox.SymmetricCipher, userID uuid.UUID, sealed []byte) ([]byte, error) {
	plain, err := c.Decrypt([]byte(userID.String()), sealed)
	if err != nil {
		return nil, fmt.Errorf("client secret decryption failed for user_id=%q", userID)
	}
	return plain, nil
}
