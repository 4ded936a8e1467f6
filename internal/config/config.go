package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string
	LogEnv    string

	EnsekAPIBaseURL   string
	EnsekUsername     string
	EnsekPassword     string
	EnsekTimeoutMs    int
	EnsekRateLimitRPS int

	BuyQuantity      int
	SettleDelayMs    int
	TimeDriftWarnMin int
	WatchIntervalSec int
	WatchAutoExport  bool

	MockListenAddr string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		LogEnv:    getEnv("LOG_ENV", "development"),

		EnsekAPIBaseURL:   getEnv("ENSEK_API_BASE_URL", "https://qacandidatetest.ensek.io"),
		EnsekUsername:     getEnv("ENSEK_USERNAME", "test"),
		EnsekPassword:     getEnv("ENSEK_PASSWORD", "testing"),
		EnsekTimeoutMs:    getEnvInt("ENSEK_TIMEOUT_MS", 30000),
		EnsekRateLimitRPS: getEnvInt("ENSEK_RATE_LIMIT_RPS", 5),

		BuyQuantity:      getEnvInt("BUY_QUANTITY", 10),
		SettleDelayMs:    getEnvInt("SETTLE_DELAY_MS", 2000),
		TimeDriftWarnMin: getEnvInt("TIME_DRIFT_WARN_MIN", 5),
		WatchIntervalSec: getEnvInt("WATCH_INTERVAL_SEC", 300),
		WatchAutoExport:  getEnvBool("WATCH_AUTO_EXPORT", true),

		MockListenAddr: getEnv("MOCK_LISTEN_ADDR", ":8279"),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
