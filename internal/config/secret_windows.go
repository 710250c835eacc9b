//go:build windows

package config

import (
	"fmt"

	"github.com/billgraziano/dpapi"
)

func decryptSecret(encrypted string) (string, error) {
	plain, err := dpapi.Decrypt(encrypted)
	if err != nil {
		return "", fmt.Errorf("error decrypting secret: %w", err)
	}

	return plain, nil
}

// EncryptSecret returns value in the form Load accepts for tokens.
func EncryptSecret(value string) (string, error) {
	enc, err := dpapi.Encrypt(value)
	if err != nil {
		return "", fmt.Errorf("error encrypting secret: %w", err)
	}

	return secretPrefix + enc, nil
}
