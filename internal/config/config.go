package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	DBUrl               string
	StripeSecretKey     string
	StripeWebhookSecret string
	FrontendURL         string
	SMTPHost            string
	SMTPPort            int
	SMTPUser            string
	SMTPPassword        string
	EmailFrom           string
	AppEnv              string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	stripeKey, exists := os.LookupEnv("STRIPE_SECRET_KEY")
	if !exists || stripeKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}

	webhookSecret, exists := os.LookupEnv("STRIPE_WEBHOOK_SECRET")
	if !exists || webhookSecret == "" {
		return nil, fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}

	return &Config{
		Port:                getEnv("PORT", "3001"),
		DBUrl:               getEnv("DB_URL", ""),
		StripeSecretKey:     stripeKey,
		StripeWebhookSecret: webhookSecret,
		FrontendURL:         strings.TrimRight(getEnv("FRONTEND_URL", ""), "/"),
		SMTPHost:            getEnv("SMTP_HOST", ""),
		SMTPPort:            getEnvInt("SMTP_PORT", 587),
		SMTPUser:            getEnv("SMTP_USER", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		EmailFrom:           getEnv("EMAIL_FROM", getEnv("SMTP_USER", "")),
		AppEnv:              normalizeEnv(getEnv("APP_ENV", "production")),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func (c *Config) EmailEnabled() bool {
	return c != nil && c.SMTPHost != "" && c.EmailFrom != ""
}
