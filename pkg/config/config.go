package config

import (
	"errors"
	"os"
	"strconv"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Import        ImportConfig
	Dedup         DedupConfig
	Observability ObservabilityConfig
}

// ImportConfig bounds a single import call.
type ImportConfig struct {
	MaxFileSizeBytes int64
	ChunkSize        int
	ErrorRateCeiling float64 // malformed+invalid rows / total rows
	SampleRows       int     // rows fed to format detection
}

// DedupConfig tunes fuzzy duplicate detection. The defaults mirror the
// hardcoded constants of the legacy importer; they are env-overridable
// because no derivation for them was ever documented.
type DedupConfig struct {
	FuzzyThreshold      float64 // combined similarity score needed to flag
	AmountTolerancePct  float64 // amount signal tolerance band
	DateToleranceDays   int     // date signal tolerance
	MerchantTokenCount  int     // tokens kept in the fuzzy key
	FuzzyRoundingFactor int64   // minor units; amounts rounded to nearest multiple
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPort    int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Import: ImportConfig{
			MaxFileSizeBytes: int64(getEnvAsInt("IMPORT_MAX_FILE_SIZE_BYTES", 10*1024*1024)),
			ChunkSize:        getEnvAsInt("IMPORT_CHUNK_SIZE", 500),
			ErrorRateCeiling: getEnvAsFloat("IMPORT_ERROR_RATE_CEILING", 0.10),
			SampleRows:       getEnvAsInt("IMPORT_SAMPLE_ROWS", 10),
		},
		Dedup: DedupConfig{
			FuzzyThreshold:      getEnvAsFloat("DEDUP_FUZZY_THRESHOLD", 0.85),
			AmountTolerancePct:  getEnvAsFloat("DEDUP_AMOUNT_TOLERANCE_PCT", 1.0),
			DateToleranceDays:   getEnvAsInt("DEDUP_DATE_TOLERANCE_DAYS", 3),
			MerchantTokenCount:  getEnvAsInt("DEDUP_MERCHANT_TOKEN_COUNT", 2),
			FuzzyRoundingFactor: int64(getEnvAsInt("DEDUP_FUZZY_ROUNDING_FACTOR", 1000)),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
		},
	}

	if cfg.Import.ChunkSize <= 0 {
		return nil, errors.New("IMPORT_CHUNK_SIZE must be positive")
	}
	if cfg.Import.ErrorRateCeiling < 0 || cfg.Import.ErrorRateCeiling > 1 {
		return nil, errors.New("IMPORT_ERROR_RATE_CEILING must be in [0,1]")
	}
	if cfg.Dedup.FuzzyThreshold < 0 || cfg.Dedup.FuzzyThreshold > 1 {
		return nil, errors.New("DEDUP_FUZZY_THRESHOLD must be in [0,1]")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
