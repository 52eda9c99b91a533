package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("storage: object not found")
	ErrInvalidKey = errors.New("storage: invalid key")
	ErrEmptyData  = errors.New("storage: empty data")
)

// Object is a stored blob with its media type.
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// Store persists objects by key. Implementations must be safe for
// concurrent use and return ErrNotFound for missing or expired keys.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (Object, error)
	Delete(ctx context.Context, key string) error
}

// NewKey returns prefix_<uuid><ext>, e.g. "modified_qr_<uuid>.png".
func NewKey(prefix, ext string) string {
	if prefix == "" {
		return uuid.NewString() + ext
	}
	return prefix + "_" + uuid.NewString() + ext
}

// ValidateKey accepts non-empty keys made of letters, digits, '_', '-' and
// '.', without a leading dot.
func ValidateKey(key string) error {
	if key == "" || len(key) > 255 || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, c := range key {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '-', c == '.':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}
