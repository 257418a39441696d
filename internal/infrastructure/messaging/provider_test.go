package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-api/internal/infrastructure/config"
)

func TestNewEventPublisher_Disabled(t *testing.T) {
	cfg := &config.Config{MQ: config.MQConfig{Enabled: false}}

	pub, cleanup, err := NewEventPublisher(cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, NopPublisher{}, pub)
}
