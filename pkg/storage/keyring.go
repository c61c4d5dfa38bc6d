package storage

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringPrefix = "excesoluz_"

// KeyringStore keeps each key as a secret in the system keychain.
// Keychains limit secret sizes on some platforms (notably Windows), so this
// backend suits small progress records only.
type KeyringStore struct {
	service string
}

// NewKeyringStore checks that a keychain is reachable and returns a store
// scoped to service.
func NewKeyringStore(service string) (*KeyringStore, error) {
	if service == "" {
		return nil, errors.New("keyring service is required")
	}

	testKey := keyringPrefix + "test_availability"
	if err := keyring.Set(service, testKey, "test"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(service, testKey)

	return &KeyringStore{service: service}, nil
}

func (k *KeyringStore) Get(key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := keyring.Get(k.service, keyringPrefix+key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}
	return []byte(data), nil
}

func (k *KeyringStore) Set(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := keyring.Set(k.service, keyringPrefix+key, string(value)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}
	return nil
}

func (k *KeyringStore) Remove(key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	err := keyring.Delete(k.service, keyringPrefix+key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}
