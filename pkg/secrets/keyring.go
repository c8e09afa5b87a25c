package secrets

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
	"github.com/sirupsen/logrus"
)

const serviceName = "triage-backend"

// Store reads application secrets from the OS keyring, falling back to an
// encrypted file keyring under dir.
type Store struct {
	ring keyring.Keyring
}

func Open(dir, password string) (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      serviceName,
		FileDir:          dir,
		FilePasswordFunc: keyring.FixedStringPrompt(password),
		AllowedBackends: []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KeychainBackend,
			keyring.WinCredBackend,
			keyring.FileBackend,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return &Store{ring: ring}, nil
}

func newStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Get returns the secret stored under key, or "" when it is absent.
func (s *Store) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

func (s *Store) Set(key, value string) error {
	return s.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
}

// Resolve returns current when non-empty, otherwise the keyring value for key.
func (s *Store) Resolve(current, key string) string {
	if current != "" || s == nil {
		return current
	}
	v, err := s.Get(key)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("keyring lookup failed")
		return ""
	}
	return v
}
