package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBDriver  string
	DBConn    string
	CachePath string
	LogLevel  string
	JWTSecret string

	KeyRateURL string

	LLMURL       string
	LLMAPIKey    string
	LLMModel     string
	LLMMaxTokens int

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string

	TelegramBotToken string
	ReminderSchedule string

	AllowedOrigins []string
	Currency       string
	Locale         string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DBDriver:         getEnv("DB_DRIVER", "postgres"),
		DBConn:           getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=neuroledger sslmode=disable"),
		CachePath:        getEnv("CACHE_PATH", "neuroledger-cache.db"),
		LogLevel:         getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:        getEnv("JWT_SECRET", "secret"),
		KeyRateURL:       getEnv("KEY_RATE_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),
		LLMURL:           getEnv("LLM_URL", "https://api.openai.com/v1/chat/completions"),
		LLMAPIKey:        getEnv("LLM_API_KEY", ""),
		LLMModel:         getEnv("LLM_MODEL", "gpt-4o-mini"),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		SenderEmail:      getEnv("SENDER_EMAIL", "noreply@neuroledger.local"),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		ReminderSchedule: getEnv("REMINDER_SCHEDULE", "0 8 * * *"),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "*")),
		Currency:         getEnv("CURRENCY", "BRL"),
		Locale:           getEnv("LOCALE", "pt-BR"),
	}

	maxTokens, err := strconv.Atoi(getEnv("LLM_MAX_TOKENS", "1500"))
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_TOKENS: %w", err)
	}
	if maxTokens <= 0 {
		return nil, fmt.Errorf("LLM_MAX_TOKENS must be positive, got %d", maxTokens)
	}
	cfg.LLMMaxTokens = maxTokens

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.ReminderSchedule == "" {
		return nil, fmt.Errorf("REMINDER_SCHEDULE is required")
	}

	return cfg, nil
}

// EmailEnabled reports whether SMTP settings are present
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
