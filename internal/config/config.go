package config

import (
	"time"

	"github.com/cristalhq/aconfig"
)

// Config is the immutable configuration snapshot built once at startup and
// passed explicitly to every component. Runtime logic never mutates it.
type Config struct {
	Source      Source      `json:"source"`
	Destination Destination `json:"destination"`
	Settings    Settings    `json:"settings"`
}

type Source struct {
	Credential string `json:"credential" env:"VK_TOKEN" required:"true"`
	OwnerID    int64  `json:"owner_id" env:"VK_OWNER_ID" required:"true"`
	APIVersion string `json:"api_version" env:"VK_API_VERSION" default:"5.131"`
}

type Destination struct {
	BotToken    string `json:"bot_token" env:"BOT_TOKEN" required:"true"`
	ChatID      string `json:"chat_id" env:"CHAT_ID" required:"true"`
	BotUsername string `json:"bot_username" env:"BOT_USERNAME"`
	AdminChatID int64  `json:"admin_chat_id" env:"ADMIN_CHAT_ID"`
}

type Settings struct {
	ButtonText            string `json:"button_text"`
	CheckIntervalSeconds  int    `json:"check_interval_seconds" default:"60"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds" default:"30"`
	ImageTimeoutSeconds   int    `json:"image_timeout_seconds" default:"10"`
	SendTimeoutSeconds    int    `json:"send_timeout_seconds" default:"20"`
	RetryDelaySeconds     int    `json:"retry_delay_seconds" default:"2"`
	MaxRetries            int    `json:"max_retries" default:"3"`
	MaxImagesPerGroup     int    `json:"max_images_per_group" default:"10"`
}

func (s Settings) CheckInterval() time.Duration {
	return time.Duration(s.CheckIntervalSeconds) * time.Second
}

func (s Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

func (s Settings) ImageTimeout() time.Duration {
	return time.Duration(s.ImageTimeoutSeconds) * time.Second
}

func (s Settings) SendTimeout() time.Duration {
	return time.Duration(s.SendTimeoutSeconds) * time.Second
}

func (s Settings) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelaySeconds) * time.Second
}

// Load reads configuration from the given JSON file (or the default lookup
// chain when path is empty) with VK2TG_* environment overrides.
func Load(path string) (Config, error) {
	files := []string{"./config.json", "./config.local.json"}
	if path != "" {
		files = []string{path}
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix:          "VK2TG",
		Files:              files,
		AllowUnknownFields: true,
		SkipFlags:          true,
	})

	if err := loader.Load(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
