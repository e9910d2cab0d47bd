package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `{
		"source": {
			"credential": "vk-token",
			"owner_id": -123456,
			"api_version": "5.199"
		},
		"destination": {
			"bot_token": "tg-token",
			"chat_id": "@mychannel",
			"bot_username": "mybot",
			"admin_chat_id": 42
		},
		"settings": {
			"button_text": "Подписаться",
			"check_interval_seconds": 120,
			"request_timeout_seconds": 15,
			"max_retries": 5,
			"max_images_per_group": 8
		}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "vk-token", cfg.Source.Credential)
	assert.Equal(t, int64(-123456), cfg.Source.OwnerID)
	assert.Equal(t, "5.199", cfg.Source.APIVersion)

	assert.Equal(t, "tg-token", cfg.Destination.BotToken)
	assert.Equal(t, "@mychannel", cfg.Destination.ChatID)
	assert.Equal(t, "mybot", cfg.Destination.BotUsername)
	assert.Equal(t, int64(42), cfg.Destination.AdminChatID)

	assert.Equal(t, "Подписаться", cfg.Settings.ButtonText)
	assert.Equal(t, 2*time.Minute, cfg.Settings.CheckInterval())
	assert.Equal(t, 15*time.Second, cfg.Settings.RequestTimeout())
	assert.Equal(t, 5, cfg.Settings.MaxRetries)
	assert.Equal(t, 8, cfg.Settings.MaxImagesPerGroup)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `{
		"source": {"credential": "vk-token", "owner_id": -1},
		"destination": {"bot_token": "tg-token", "chat_id": "@c"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "5.131", cfg.Source.APIVersion)
	assert.Equal(t, time.Minute, cfg.Settings.CheckInterval())
	assert.Equal(t, 30*time.Second, cfg.Settings.RequestTimeout())
	assert.Equal(t, 10*time.Second, cfg.Settings.ImageTimeout())
	assert.Equal(t, 20*time.Second, cfg.Settings.SendTimeout())
	assert.Equal(t, 2*time.Second, cfg.Settings.RetryDelay())
	assert.Equal(t, 3, cfg.Settings.MaxRetries)
	assert.Equal(t, 10, cfg.Settings.MaxImagesPerGroup)
	assert.Zero(t, cfg.Destination.AdminChatID)
}

func TestLoad_MissingRequiredField(t *testing.T) {
	path := writeConfig(t, `{
		"source": {"owner_id": -1},
		"destination": {"bot_token": "tg-token", "chat_id": "@c"}
	}`)

	_, err := Load(path)
	require.Error(t, err)
}
