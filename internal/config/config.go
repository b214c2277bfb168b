package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultLessonRate = 200 // flat payout per completed lesson

type Config struct {
	DBDSN         string
	Environment   string
	LessonRate    int
	TelegramToken string // optional, enables the audit notifier
	AdminChatID   int64
}

func Load() (*Config, error) {
	// Try to load the .env file, fall back to the environment
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		Environment:   os.Getenv("ENV"),
		LessonRate:    defaultLessonRate,
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if v := os.Getenv("LESSON_RATE"); v != "" {
		rate, err := strconv.Atoi(v)
		if err != nil || rate <= 0 {
			return nil, fmt.Errorf("LESSON_RATE must be a positive integer, got %q", v)
		}
		cfg.LessonRate = rate
	}

	if v := os.Getenv("ADMIN_CHAT_ID"); v != "" {
		chatID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_CHAT_ID must be an integer, got %q", v)
		}
		cfg.AdminChatID = chatID
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}
