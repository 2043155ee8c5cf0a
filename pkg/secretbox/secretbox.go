package secretbox

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the size of a data key in bytes.
const KeySize = chacha20poly1305.KeySize

const versionMagic = byte('X')

var ErrMalformed = errors.New("sealed value is malformed")

// SymmetricCipher seals values at rest. The aad binds a sealed value to the
// row it belongs to so ciphertext can't be moved between rows.
type SymmetricCipher interface {
	Decrypt(aad, packedText []byte) ([]byte, error)
	Encrypt(aad, plainText []byte) ([]byte, error)
}

// Symmetric is an XChaCha20-Poly1305 SymmetricCipher.
type Symmetric struct {
	aead cipher.AEAD
}

var _ SymmetricCipher = (*Symmetric)(nil)

func NewSymmetric(key []byte) (*Symmetric, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &Symmetric{aead: aead}, nil
}

// NewSymmetricFromBase64 decodes a standard base64 data key, as produced by
// "feedboxctl data-key generate".
func NewSymmetricFromBase64(encoded string) (*Symmetric, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("bad data key: %w", err)
	}
	return NewSymmetric(key)
}

// Encrypt seals plainText. The output is "X" || nonce || ciphertext+tag.
func (s *Symmetric) Encrypt(aad, plainText []byte) ([]byte, error) {
	nonce, err := RandomBytes(s.aead.NonceSize())
	if err != nil {
		return nil, err
	}

	packed := make([]byte, 0, 1+len(nonce)+len(plainText)+s.aead.Overhead())
	packed = append(packed, versionMagic)
	packed = append(packed, nonce...)
	return s.aead.Seal(packed, nonce, plainText, aad), nil
}

func (s *Symmetric) Decrypt(aad, packedText []byte) ([]byte, error) {
	nonceSize := s.aead.NonceSize()
	if len(packedText) < 1+nonceSize+s.aead.Overhead() || packedText[0] != versionMagic {
		return nil, ErrMalformed
	}
	nonce := packedText[1 : 1+nonceSize]
	return s.aead.Open(nil, nonce, packedText[1+nonceSize:], aad)
}

func RandomBytes(size int) ([]byte, error) {
	value := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, value); err != nil {
		return nil, err
	}
	return value, nil
}

// GenerateKey returns a new base64 encoded data key.
func GenerateKey() (string, error) {
	key, err := RandomBytes(KeySize)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.Strict().EncodeToString(key), nil
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying c. Model hooks read the cipher
// from the statement context.
func NewContext(ctx context.Context, c SymmetricCipher) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

func FromContext(ctx context.Context) (SymmetricCipher, bool) {
	if ctx == nil {
		return nil, false
	}
	c, ok := ctx.Value(contextKey{}).(SymmetricCipher)
	return c, ok
}
