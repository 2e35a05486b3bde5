package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hurricane-api/internal/models"
	"github.com/noah-isme/hurricane-api/internal/repository"
)

func newTestState(t *testing.T) *repository.StateRepository {
	t.Helper()
	return repository.NewStateRepository(repository.NewMemoryStore(), "test", nil)
}

func withProfile(t *testing.T, state *repository.StateRepository) {
	t.Helper()
	require.NoError(t, state.SaveProfile(context.Background(), models.UserProfile{Name: "Nguyễn An", ClassName: "11A1"}))
}

func fullEntry(tx, gk, ck float64) models.ScoreEntry {
	return models.ScoreEntry{TX1: models.Float(tx), TX2: models.Float(tx), TX3: models.Float(tx), GK: models.Float(gk), CK: models.Float(ck)}
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	c.sets++
	return nil
}

func (c *memoryCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
