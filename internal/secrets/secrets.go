// Package secrets encrypts and decrypts secret values stored at rest,
// currently the market data provider API key in the system_setting table.
package secrets

import (
	"fmt"

	"github.com/fernet/fernet-go"
)

// Encryptor wraps a fernet key for symmetric encryption of setting values.
type Encryptor struct {
	key *fernet.Key
}

// NewEncryptor parses the base64-encoded fernet key from configuration.
func NewEncryptor(encodedKey string) (*Encryptor, error) {
	if encodedKey == "" {
		return nil, fmt.Errorf("fernet key is empty, make sure FERNET_KEY is set")
	}

	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode fernet key: %w", err)
	}

	return &Encryptor{key: key}, nil
}

// Encrypt returns the fernet token for plaintext.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	token, err := fernet.EncryptAndSign([]byte(plaintext), e.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt value: %w", err)
	}
	return string(token), nil
}

// Decrypt verifies and decrypts a fernet token. Tokens do not expire; the
// zero TTL disables fernet's age check.
func (e *Encryptor) Decrypt(token string) (string, error) {
	plaintext := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{e.key})
	if plaintext == nil {
		return "", fmt.Errorf("failed to decrypt value: invalid token")
	}
	return string(plaintext), nil
}
