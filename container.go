package main

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/dig"
)

type Config struct {
	BotToken      string
	AlertChatID   int64
	ProxyDSN      string
	RulesPath     string
	LoggingDBPath string
}

type Channels struct {
	EventCh chan MessageEvent
	AlertCh chan Alert
}

func ProvideConfig() (*Config, error) {
	rulesPath := os.Getenv(ENV_RULES_CONFIG_PATH)
	if rulesPath == "" {
		rulesPath = DEFAULT_RULES_PATH
	}

	botToken := os.Getenv(ENV_TELEGRAM_BOT_TOKEN)

	var alertChatID int64
	if raw := os.Getenv(ENV_ALERT_CHAT_ID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s is not a numeric chat id: %w", ENV_ALERT_CHAT_ID, err)
		}
		alertChatID = id
	} else if botToken != "" {
		return nil, fmt.Errorf("%s should be set when %s is present", ENV_ALERT_CHAT_ID, ENV_TELEGRAM_BOT_TOKEN)
	}

	return &Config{
		BotToken:      botToken,
		AlertChatID:   alertChatID,
		ProxyDSN:      os.Getenv(ENV_PROXY_DSN),
		RulesPath:     rulesPath,
		LoggingDBPath: os.Getenv(ENV_LOGGING_DATABASE_PATH),
	}, nil
}

func ProvideChannels() *Channels {
	return &Channels{
		EventCh: make(chan MessageEvent, 10),
		AlertCh: make(chan Alert, 30),
	}
}

func ProvideRuleCatalog(config *Config) (*RuleCatalog, error) {
	return LoadRules(config.RulesPath)
}

func ProvideClassifier(catalog *RuleCatalog) *Classifier {
	return NewClassifier(catalog)
}

func ProvideAlertFormatter(catalog *RuleCatalog) *AlertFormatter {
	return NewAlertFormatter(catalog.AlertTemplate)
}

func ProvideTelegramService(config *Config) (*TelegramService, error) {
	return NewTelegramService(config.BotToken, config.ProxyDSN, config.AlertChatID)
}

// ProvideTransport returns a nil transport when no bot token is configured;
// the pipeline then idles until shutdown while staying fully testable.
func ProvideTransport(config *Config, catalog *RuleCatalog) (Transport, error) {
	if config.BotToken == "" {
		return nil, nil
	}
	return NewTelegramTransport(config.BotToken, catalog)
}

// ProvideLoggingService returns a nil service when no log path is set;
// callers treat nil as "log nothing".
func ProvideLoggingService(config *Config) (*LoggingService, error) {
	if config.LoggingDBPath == "" {
		return nil, nil
	}
	return NewLoggingService(config.LoggingDBPath)
}

func ProvideCleanupScheduler(loggingService *LoggingService) *CleanupScheduler {
	return NewCleanupScheduler(loggingService)
}

func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	if err := container.Provide(ProvideConfig); err != nil {
		return nil, fmt.Errorf("failed to provide config: %w", err)
	}

	if err := container.Provide(ProvideChannels); err != nil {
		return nil, fmt.Errorf("failed to provide channels: %w", err)
	}

	if err := container.Provide(ProvideRuleCatalog); err != nil {
		return nil, fmt.Errorf("failed to provide rule catalog: %w", err)
	}

	if err := container.Provide(ProvideClassifier); err != nil {
		return nil, fmt.Errorf("failed to provide classifier: %w", err)
	}

	if err := container.Provide(ProvideAlertFormatter); err != nil {
		return nil, fmt.Errorf("failed to provide alert formatter: %w", err)
	}

	if err := container.Provide(ProvideTelegramService); err != nil {
		return nil, fmt.Errorf("failed to provide Telegram service: %w", err)
	}

	if err := container.Provide(ProvideTransport); err != nil {
		return nil, fmt.Errorf("failed to provide transport: %w", err)
	}

	if err := container.Provide(ProvideLoggingService); err != nil {
		return nil, fmt.Errorf("failed to provide logging service: %w", err)
	}

	if err := container.Provide(ProvideCleanupScheduler); err != nil {
		return nil, fmt.Errorf("failed to provide cleanup scheduler: %w", err)
	}

	if err := container.Provide(NewApplication); err != nil {
		return nil, fmt.Errorf("failed to provide application: %w", err)
	}

	return container, nil
}
