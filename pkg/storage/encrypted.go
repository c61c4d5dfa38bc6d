package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 32
	keySize    = 32
	iterations = 100000
)

// ErrDecrypt is returned when a stored value cannot be decrypted, usually
// because the passphrase changed
var ErrDecrypt = errors.New("failed to decrypt value")

// EncryptedStore encrypts values with AES-GCM before handing them to the
// wrapped Storage. Each value gets its own random salt; the key is derived
// from the passphrase with PBKDF2-SHA256.
type EncryptedStore struct {
	inner      Storage
	passphrase string
}

// envelope is the JSON document written to the inner store
type envelope struct {
	Salt      string `json:"salt"`
	Encrypted string `json:"encrypted"`
	Version   int    `json:"version"`
}

// NewEncryptedStore wraps inner
func NewEncryptedStore(inner Storage, passphrase string) *EncryptedStore {
	return &EncryptedStore{inner: inner, passphrase: passphrase}
}

func (e *EncryptedStore) Get(key string) ([]byte, error) {
	raw, err := e.inner.Get(key)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: malformed envelope: %v", ErrDecrypt, err)
	}

	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode salt: %v", ErrDecrypt, err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(env.Encrypted)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode data: %v", ErrDecrypt, err)
	}

	plaintext, err := decrypt(ciphertext, e.deriveKey(salt))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return plaintext, nil
}

func (e *EncryptedStore) Set(key string, value []byte) error {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	ciphertext, err := encrypt(value, e.deriveKey(salt))
	if err != nil {
		return fmt.Errorf("failed to encrypt data: %w", err)
	}

	raw, err := json.Marshal(envelope{
		Salt:      base64.StdEncoding.EncodeToString(salt),
		Encrypted: base64.StdEncoding.EncodeToString(ciphertext),
		Version:   1,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return e.inner.Set(key, raw)
}

func (e *EncryptedStore) Remove(key string) error {
	return e.inner.Remove(key)
}

// Close closes the wrapped store if it holds resources
func (e *EncryptedStore) Close() error {
	return Close(e.inner)
}

func (e *EncryptedStore) deriveKey(salt []byte) []byte {
	return pbkdf2.Key([]byte(e.passphrase), salt, iterations, keySize, sha256.New)
}

// encrypt encrypts data using AES-GCM; the nonce is prepended
func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// decrypt decrypts data produced by encrypt
func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
