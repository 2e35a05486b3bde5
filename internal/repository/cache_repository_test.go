package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/hurricane-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "hurricane", nil)
	var dest []string

	err := repo.Get(context.Background(), "suggest:toan", &dest)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.NoError(t, repo.Set(context.Background(), "suggest:toan", []string{"x"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(context.Background(), "suggest:*"))
	assert.NoError(t, repo.Close())
	assert.Equal(t, "hurricane:cache:suggest:toan", repo.key("suggest:toan"))
}
