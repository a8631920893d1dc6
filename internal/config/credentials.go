package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CredentialsFile is the token file name inside GlobalConfigDir.
const CredentialsFile = "credentials.yaml"

type credentials struct {
	Token string `yaml:"token"`
}

// CredentialsPath returns the path of the stored token.
func CredentialsPath() string {
	return filepath.Join(GlobalConfigDir(), CredentialsFile)
}

// SaveToken stores token with owner-only permissions.
func SaveToken(token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	path := CredentialsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(credentials{Token: token})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0o600)
}

// LoadToken returns the stored token, or "" when none is stored.
func LoadToken() (string, error) {
	data, err := os.ReadFile(CredentialsPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read credentials: %w", err)
	}
	var c credentials
	if err := yaml.Unmarshal(data, &c); err != nil {
		return "", fmt.Errorf("parse credentials: %w", err)
	}
	return c.Token, nil
}

// ClearToken removes the stored token. It is not an error if none exists.
func ClearToken() error {
	err := os.Remove(CredentialsPath())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
