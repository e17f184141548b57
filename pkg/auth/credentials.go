// Package auth stores the automated account's credentials: system
// keychain when available, an encrypted file otherwise.
package auth

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates no credentials exist for the account
	ErrNotFound = errors.New("credentials not found")
	// ErrInvalidCredentials indicates malformed credentials
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Account holds the login material for one automated account
type Account struct {
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	DeviceID  string    `json:"device_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CredentialStore abstracts where accounts are persisted
type CredentialStore interface {
	Store(account *Account) error
	Retrieve(username string) (*Account, error)
	Delete(username string) error
}

// NewStore returns the keychain-backed store when the system keyring
// is usable, falling back to an encrypted file at fallbackPath.
func NewStore(fallbackPath, passphrase string) (CredentialStore, error) {
	if store, err := NewKeyringStore(); err == nil {
		return store, nil
	}
	return NewEncryptedFileStore(fallbackPath, passphrase)
}
