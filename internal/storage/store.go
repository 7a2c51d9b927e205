package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("storage: not found")
	ErrCorrupt    = errors.New("storage: corrupt record")
	ErrInvalidKey = errors.New("storage: invalid key")
)

// Store is namespaced string storage. Values are opaque to the store.
type Store interface {
	Get(ctx context.Context, key Key) (string, error)
	Set(ctx context.Context, key Key, value string) error
	Delete(ctx context.Context, key Key) error
}

// LoadJSON decodes the record under key into out. A missing record yields ErrNotFound and
// an undecodable one yields an error wrapping ErrCorrupt; out is left untouched in both cases.
func LoadJSON(ctx context.Context, s Store, key Key, out any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return nil
}

func SaveJSON(ctx context.Context, s Store, key Key, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(payload))
}
