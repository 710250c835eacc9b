//go:build !windows

package config

import "errors"

var errSecretsUnsupported = errors.New("encrypted secrets are only supported on windows")

func decryptSecret(string) (string, error) {
	return "", errSecretsUnsupported
}

func EncryptSecret(string) (string, error) {
	return "", errSecretsUnsupported
}
