package repository

import (
	"context"
	"strings"
)

// KVStore is the key-value persistence port behind the application state.
// Writes are last-write-wins; there are no transactions across keys.
type KVStore interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Name() string
}

// Key joins a namespace and a logical key.
func Key(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + ":" + key
}

func splitKey(key string) (string, string) {
	if i := strings.LastIndex(key, ":"); i >= 0 {
		return key[:i], key[i+1:]
	}
	return "", key
}
