package cryptox

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	pepperMu   sync.Mutex
	pepper     string
	pepperFile = "data/pepper"
)

// SetPepperPath sets where the password pepper is loaded from (or written to
// on first start). It resets any pepper already loaded.
func SetPepperPath(file string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepperFile = file
	pepper = ""
}

// GetPepper returns the process-wide password pepper, loading or generating
// it on first use. The process exits if the pepper can't be obtained since no
// password could be verified without it.
func GetPepper() string {
	pepperMu.Lock()
	defer pepperMu.Unlock()

	if pepper != "" {
		return pepper
	}

	p, err := LoadOrGenerateSecret(pepperFile, keyLength)
	if err != nil {
		slog.Error("failed to load or generate pepper", slog.Any("err", err))
		os.Exit(1)
	}
	pepper = p
	return pepper
}

// LoadOrGenerateSecret reads a base64url secret from path. When the file
// doesn't exist yet, size random bytes are generated and written with 0600
// permissions so restarts keep the same value.
func LoadOrGenerateSecret(path string, size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("secret size must be positive, got %d", size)
	}

	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", err
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		secret := strings.TrimSpace(string(b))
		if secret == "" {
			return "", fmt.Errorf("secret file %s is empty", path)
		}
		return secret, nil
	case !errors.Is(err, os.ErrNotExist):
		return "", err
	}

	secret, err := GenerateToken(size)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(secret), 0o600); err != nil {
		return "", err
	}
	return secret, nil
}
