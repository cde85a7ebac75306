package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// config holds server settings read from the environment (or .env).
type config struct {
	DBURL          string
	Port           string
	AllowedOrigins []string
	OpenAIBaseURL  string
	Location       *time.Location // calendar used for "today" and chart days
}

// loadConfig reads .env when present and fills defaults for unset variables.
// A missing .env is fine in production, where the platform sets the variables.
func loadConfig() (config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[loadConfig] .env not loaded: %v", err)
	}

	cfg := config{
		DBURL:          os.Getenv("DB_URL"),
		Port:           getEnv("PORT", "3000"),
		AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", "*")),
		OpenAIBaseURL:  strings.TrimRight(getEnv("OPENAI_BASE_URL", "https://api.openai.com"), "/"),
	}
	if cfg.DBURL == "" {
		return config{}, fmt.Errorf("DB_URL is not set")
	}

	tz := getEnv("APP_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return config{}, fmt.Errorf("load APP_TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc
	return cfg, nil
}

// getEnv returns the variable's value, or fallback when it is unset or empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
