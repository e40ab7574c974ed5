package main

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration test against the real bot API; needs a token and a channel the
// bot is a member of.
func TestNewTelegramTransport(t *testing.T) {
	t.Skip()
	godotenv.Load()

	catalog, err := LoadRules(os.Getenv(ENV_RULES_CONFIG_PATH))
	require.NoError(t, err)

	transport, err := NewTelegramTransport(os.Getenv(ENV_TELEGRAM_BOT_TOKEN), catalog)
	require.NoError(t, err)

	title, err := transport.ChatTitle(catalog.AllChannels()[0])
	assert.NoError(t, err)
	assert.NotEmpty(t, title)

	events := make(chan MessageEvent)
	go transport.Listen(context.Background(), events)
	event := <-events
	assert.True(t, catalog.Watches(event.ChannelID))
}
