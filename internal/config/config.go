package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"meal-shopping-planner/internal/shopping"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	CatalogPath  string

	// Shopping list generation
	SplitWindowDays         int
	DefaultStrategy         shopping.Strategy
	RecommendSplitThreshold int

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
	Port                   string
}

// NewFromEnv creates a new Config from environment variables, optionally
// layered over the YAML file named by SHOPPER_CONFIG.
func NewFromEnv() (*Config, error) {
	v := viper.New()

	v.SetDefault("database_path", "data/db/shopping.db")
	v.SetDefault("catalog_path", "data/catalog.yaml")
	v.SetDefault("split_window_days", 0)
	v.SetDefault("default_strategy", string(shopping.IncludeAll))
	v.SetDefault("recommend_split_threshold", shopping.DefaultRecommendThreshold)
	v.SetDefault("telegram_bot_token", "")
	v.SetDefault("telegram_webhook_url", "")
	v.SetDefault("telegram_allowed_user_ids", "")
	v.SetDefault("admin_telegram_id", "")
	v.SetDefault("port", "8080")

	if path := os.Getenv("SHOPPER_CONFIG"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	window, err := nonNegativeInt(v, "split_window_days")
	if err != nil {
		return nil, err
	}
	threshold, err := nonNegativeInt(v, "recommend_split_threshold")
	if err != nil {
		return nil, err
	}
	strategy, err := shopping.ParseStrategy(v.GetString("default_strategy"))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_STRATEGY: %w", err)
	}

	allowed, err := parseIDs(v.GetString("telegram_allowed_user_ids"))
	if err != nil {
		return nil, fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}
	var admin int64
	if s := strings.TrimSpace(v.GetString("admin_telegram_id")); s != "" {
		admin, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_TELEGRAM_ID must be a number, got %q", s)
		}
	}

	dbPath := v.GetString("database_path")
	if dbPath == "" {
		return nil, fmt.Errorf("DATABASE_PATH must not be empty")
	}

	return &Config{
		DatabasePath:            dbPath,
		CatalogPath:             v.GetString("catalog_path"),
		SplitWindowDays:         window,
		DefaultStrategy:         strategy,
		RecommendSplitThreshold: threshold,
		TelegramBotToken:        v.GetString("telegram_bot_token"),
		TelegramWebhookURL:      v.GetString("telegram_webhook_url"),
		TelegramAllowedUserIDs:  allowed,
		AdminTelegramID:         admin,
		Port:                    v.GetString("port"),
	}, nil
}

// IsAllowed reports whether a Telegram user may use the bot. An empty allow
// list admits everyone.
func (c *Config) IsAllowed(userID int64) bool {
	if len(c.TelegramAllowedUserIDs) == 0 {
		return true
	}
	for _, id := range c.TelegramAllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func nonNegativeInt(v *viper.Viper, key string) (int, error) {
	name := strings.ToUpper(key)
	raw := strings.TrimSpace(v.GetString(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %d", name, n)
	}
	return n, nil
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
