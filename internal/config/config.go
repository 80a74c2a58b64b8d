package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPPort     = "8080"
	defaultDataDir      = "data"
	defaultSynthTimeout = 30 * time.Second
)

// AppConfig captures the environment variables the server understands.
type AppConfig struct {
	HTTPPort string

	// StorageDSN selects the persistence backend: "file:<dir>" (default),
	// "sqlite:<path>" or a postgres:// DSN.
	StorageDSN string
	DataDir    string

	KafkaBrokers  string
	KafkaTopic    string
	KafkaClientID string

	SynthURL     string
	SynthAPIKey  string
	SynthTimeout time.Duration
}

// Load reads environment variables, optionally from .env files.
func Load() *AppConfig {
	loadEnvFiles()

	return &AppConfig{
		HTTPPort:      getEnv("HTTP_PORT", defaultHTTPPort),
		StorageDSN:    getEnv("STORAGE_DSN", ""),
		DataDir:       getEnv("DATA_DIR", defaultDataDir),
		KafkaBrokers:  getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "hse-events"),
		KafkaClientID: getEnv("KAFKA_CLIENT_ID", "hse-server"),
		SynthURL:      getEnv("SYNTH_URL", ""),
		SynthAPIKey:   getEnv("SYNTH_API_KEY", ""),
		SynthTimeout:  getDuration("SYNTH_TIMEOUT", defaultSynthTimeout),
	}
}

// Brokers splits the configured broker list.
func (cfg *AppConfig) Brokers() []string {
	if strings.TrimSpace(cfg.KafkaBrokers) == "" {
		return nil
	}
	return strings.Split(cfg.KafkaBrokers, ",")
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func loadEnvFiles() {
	files := []string{".env", ".env.local"}
	if extra := os.Getenv("HSE_ENV_FILES"); extra != "" {
		files = append(files, strings.Split(extra, ",")...)
	}

	for _, file := range files {
		file = strings.TrimSpace(file)
		if file == "" {
			continue
		}
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			log.Printf("config: failed to load %s: %v", filepath.Clean(file), err)
		}
	}
}
