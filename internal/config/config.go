package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries everything the ledger core needs from the environment. The
// surrounding application may also build one programmatically.
type Config struct {
	// LedgerPath is the backing file of the ledger store.
	LedgerPath string
	// HighQuantityThreshold flags single rows above this pallet count.
	HighQuantityThreshold int
	// KnownPalletTypes is the allow-list of standard pallet types.
	KnownPalletTypes []string
	// AlertCap bounds the anomaly list returned to dashboards.
	AlertCap int
	// FeedBufferSize sizes each scan-feed subscriber channel.
	FeedBufferSize int
	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string
}

// New loads configuration from a .env file (when present) and the process
// environment, falling back to defaults suited to a single-device deployment.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		LedgerPath:            getEnv("LEDGER_PATH", "inventory_ledger.csv"),
		HighQuantityThreshold: 100,
		KnownPalletTypes:      []string{"KOF", "CHEP"},
		AlertCap:              50,
		FeedBufferSize:        16,
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}

	var err error
	cfg.HighQuantityThreshold, err = getEnvAsInt("HIGH_QUANTITY_THRESHOLD", cfg.HighQuantityThreshold)
	if err != nil {
		return nil, err
	}
	cfg.AlertCap, err = getEnvAsInt("ALERT_CAP", cfg.AlertCap)
	if err != nil {
		return nil, err
	}
	cfg.FeedBufferSize, err = getEnvAsInt("FEED_BUFFER_SIZE", cfg.FeedBufferSize)
	if err != nil {
		return nil, err
	}

	if raw := os.Getenv("KNOWN_PALLET_TYPES"); raw != "" {
		var types []string
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
		cfg.KnownPalletTypes = types
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: expected an integer, got '%s'", key, valueStr)
	}

	return value, nil
}
