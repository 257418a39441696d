package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/domain/book"
	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
)

func TestNewBookRepository_Memory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.DriverMemory}}

	repo, cleanup, err := NewBookRepository(cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	b := book.NewBook("9780306406157", "Title", "Author", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), "A long summary")
	require.NoError(t, repo.InsertOne(context.Background(), b))
	assert.NotEmpty(t, b.ID)
}

func TestNewBookRepository_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "sqlite"}}

	_, _, err := NewBookRepository(cfg, zap.NewNop())
	assert.Error(t, err)
}
