package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	ModelPath       string
	Policy          string
	DatabaseURL     string
	LogLevel        string
	LogFormat       string
	RateLimitRPS    float64
	RateLimitBurst  int
	BatchWorkers    int
	ShutdownTimeout time.Duration
	AWSRegion       string
	TLSCert         string
	TLSKey          string
}

// Load reads an optional .env file and then the environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return FromLookup(os.LookupEnv), nil
}

// FromLookup builds a Config from any key lookup, falling back to defaults.
func FromLookup(lookup func(string) (string, bool)) *Config {
	e := env{lookup: lookup}
	return &Config{
		Addr:            e.String("ADDR", ":8000"),
		ModelPath:       e.String("MODEL_PATH", "models/buckling_model.yaml"),
		Policy:          e.String("BUCKLING_POLICY", "formula"),
		DatabaseURL:     e.String("DATABASE_URL", ""),
		LogLevel:        e.String("LOG_LEVEL", "info"),
		LogFormat:       e.String("LOG_FORMAT", "json"),
		RateLimitRPS:    e.Float("RATE_LIMIT_RPS", 5),
		RateLimitBurst:  e.Int("RATE_LIMIT_BURST", 10),
		BatchWorkers:    e.Int("BATCH_WORKERS", 4),
		ShutdownTimeout: e.Duration("SHUTDOWN_TIMEOUT", 5*time.Second),
		AWSRegion:       e.String("AWS_REGION", ""),
		TLSCert:         e.String("TLS_CERT", ""),
		TLSKey:          e.String("TLS_KEY", ""),
	}
}

type env struct {
	lookup func(string) (string, bool)
}

func (e env) String(key, defaultValue string) string {
	if value, ok := e.lookup(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func (e env) Int(key string, defaultValue int) int {
	if value, ok := e.lookup(key); ok {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (e env) Float(key string, defaultValue float64) float64 {
	if value, ok := e.lookup(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func (e env) Duration(key string, defaultValue time.Duration) time.Duration {
	if value, ok := e.lookup(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
