package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/yukikurage/taskboard/internal/constants"
)

type Config struct {
	AppName      string
	AppVersion   string
	Environment  string
	LogLevel     string
	LogFile      string
	LogFormat    string
	HistoryLimit int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	if err := loadDotenv(".env"); err != nil {
		return nil, err
	}

	return &Config{
		AppName:      getEnv("APP_NAME", "taskboard"),
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Environment:  getEnv("APP_ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		HistoryLimit: getEnvInt("HISTORY_LIMIT", constants.DefaultHistoryLimit),
	}, nil
}

// loadDotenv loads path into the environment. A missing file is not an error.
func loadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}
