package auth

import (
	domainErrors "github.com/mercadillo/mercadillo/internal/domain/errors"
	"golang.org/x/crypto/bcrypt"
)

// KeyHasher defines hashing strategy for API keys.
type KeyHasher interface {
	Hash(key string) (string, error)
	Compare(hash string, key string) error
}

// BcryptHasher uses bcrypt to hash keys.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates BcryptHasher with provided cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns bcrypt hash for provided key.
func (h *BcryptHasher) Hash(key string) (string, error) {
	encoded, err := bcrypt.GenerateFromPassword([]byte(key), h.cost)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Compare checks key against stored hash.
func (h *BcryptHasher) Compare(hash string, key string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
}

// HashedKeyVerifier accepts keys matching a stored hash. Without a hash every key is rejected.
type HashedKeyVerifier struct {
	hash   string
	hasher KeyHasher
}

// NewHashedKeyVerifier builds HashedKeyVerifier.
func NewHashedKeyVerifier(hash string, hasher KeyHasher) *HashedKeyVerifier {
	return &HashedKeyVerifier{hash: hash, hasher: hasher}
}

// Verify compares key with the configured hash.
func (v *HashedKeyVerifier) Verify(key string) error {
	if v.hash == "" || key == "" {
		return domainErrors.ErrInvalidAdminKey
	}
	if err := v.hasher.Compare(v.hash, key); err != nil {
		return domainErrors.ErrInvalidAdminKey
	}
	return nil
}
