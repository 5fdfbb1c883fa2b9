package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// KeyPrefix starts every generated organizer key.
const KeyPrefix = "scrim_"

// ErrInvalidKey is returned when the provided API key does not match the organizer key.
var ErrInvalidKey = errors.New("invalid API key")

// Service checks organizer API keys against a single bcrypt hash.
type Service struct {
	hash []byte
}

// NewService creates a Service for hash. An empty hash disables
// authentication.
func NewService(hash string) *Service {
	return &Service{hash: []byte(hash)}
}

// Enabled reports whether a key hash is configured.
func (s *Service) Enabled() bool {
	return len(s.hash) > 0
}

// GenerateKey creates a new organizer key and its bcrypt hash. The raw key is
// 32 random bytes, base64url-encoded, with KeyPrefix prepended.
func GenerateKey(cost int) (rawKey, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generating random bytes: %w", err)
	}

	rawKey = KeyPrefix + base64.RawURLEncoding.EncodeToString(b)

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(rawKey), cost)
	if err != nil {
		return "", "", fmt.Errorf("hashing key: %w", err)
	}

	return rawKey, string(hashBytes), nil
}

// Authenticate resolves a raw API key to the organizer Identity. With
// authentication disabled every caller is an anonymous organizer.
func (s *Service) Authenticate(rawKey string) (*Identity, error) {
	if !s.Enabled() {
		return &Identity{Role: RoleOrganizer, Anonymous: true}, nil
	}
	if rawKey == "" {
		return nil, ErrInvalidKey
	}

	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(rawKey)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidKey
		}
		return nil, fmt.Errorf("comparing key: %w", err)
	}

	return &Identity{Role: RoleOrganizer}, nil
}
