package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every runtime parameter of the service.
type Config struct {
	DatabaseURL        string
	ServerPort         int
	SlotMaxDays        int
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables. A .env file is
// loaded first when present, which is convenient for local development;
// its absence is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	// 0 lets the scheduling package apply its own default.
	slotMaxDays := 0
	if v := os.Getenv("SLOT_GENERATION_MAX_DAYS"); v != "" {
		slotMaxDays, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SLOT_GENERATION_MAX_DAYS environment variable: %w", err)
		}
		if slotMaxDays < 0 {
			return nil, fmt.Errorf("SLOT_GENERATION_MAX_DAYS must not be negative, got %d", slotMaxDays)
		}
	}

	origins := []string{"*"}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins = origins[:0]
		for _, origin := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		if len(origins) == 0 {
			return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS is set but contains no origins")
		}
	}

	return &Config{
		DatabaseURL:        dbURL,
		ServerPort:         port,
		SlotMaxDays:        slotMaxDays,
		CORSAllowedOrigins: origins,
	}, nil
}
