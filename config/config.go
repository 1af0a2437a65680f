package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Storage StorageConfig
	Redis   RedisConfig
	Browser BrowserConfig
	CORS    CORSConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StorageConfig selects the backend holding the persisted cart.
// Backend is one of "file", "redis" or "memory".
type StorageConfig struct {
	Backend string
	Key     string
	File    string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type BrowserConfig struct {
	SearchDebounce time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Catalog: CatalogConfig{
			BaseURL: getEnv("CATALOG_BASE_URL", "https://fakestoreapi.com"),
			Timeout: parseDuration(getEnv("CATALOG_TIMEOUT", "30s"), 30*time.Second),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", "file"),
			Key:     getEnv("STORAGE_CART_KEY", "cart-items"),
			File:    getEnv("STORAGE_FILE", "storefront.json"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Browser: BrowserConfig{
			SearchDebounce: parseDuration(getEnv("SEARCH_DEBOUNCE", "300ms"), 300*time.Millisecond),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
	}

	return config, nil
}

func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
