package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Sakurp633/Vk2TG-Repost/internal/config"
	"github.com/Sakurp633/Vk2TG-Repost/internal/cursor"
	"github.com/Sakurp633/Vk2TG-Repost/internal/images"
	"github.com/Sakurp633/Vk2TG-Repost/internal/logging"
	"github.com/Sakurp633/Vk2TG-Repost/internal/notifier"
	"github.com/Sakurp633/Vk2TG-Repost/internal/relay"
	"github.com/Sakurp633/Vk2TG-Repost/internal/reporter"
	"github.com/Sakurp633/Vk2TG-Repost/internal/source"
	"github.com/Sakurp633/Vk2TG-Repost/internal/telegram"
)

func main() {
	var (
		configPath string
		cursorPath string
		logPath    string
	)
	flag.StringVar(&configPath, "config", "", "path to the JSON config file")
	flag.StringVar(&cursorPath, "cursor", "last_post_time.txt", "path to the watermark file")
	flag.StringVar(&logPath, "log", "vk2tg.log", "path to the log file")
	flag.Parse()

	logging.Setup(logPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("[ERROR] failed to load config: %v", err)
		os.Exit(1)
	}

	botAPI, err := tgbotapi.NewBotAPIWithClient(
		cfg.Destination.BotToken,
		tgbotapi.APIEndpoint,
		&http.Client{Timeout: cfg.Settings.SendTimeout()},
	)
	if err != nil {
		log.Printf("[ERROR] failed to create botAPI: %v", err)
		os.Exit(1)
	}

	// One pooled client for VK and image downloads; per-call timeouts come
	// from the components.
	httpClient := &http.Client{}

	var (
		feed = source.NewVK(httpClient, cfg.Source, cfg.Settings.RequestTimeout())
		sink = telegram.New(
			botAPI,
			cfg.Destination.ChatID,
			cfg.Settings.ButtonText,
			cfg.Destination.BotUsername,
		)
		fetcher = images.New(
			httpClient,
			cfg.Settings.ImageTimeout(),
			cfg.Settings.MaxRetries,
			cfg.Settings.RetryDelay(),
		)
		dispatch = notifier.New(sink, fetcher, cfg.Settings.MaxImagesPerGroup)
		marks    = cursor.Load(cursorPath)
	)

	r := relay.New(
		feed,
		dispatch,
		marks,
		reporter.New(botAPI, cfg.Destination.AdminChatID),
		cfg.Settings.CheckInterval(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := r.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[ERROR] relay stopped: %v", err)
		os.Exit(1)
	}
	log.Printf("[INFO] relay stopped")
}
