package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	API        APIConfig
	Auth       AuthConfig
	Redis      RedisConfig
	LocalCache LocalCacheConfig
	Kafka      KafkaConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type AuthConfig struct {
	Domain       string // identity provider base URL, e.g. https://tenant.auth0.example
	ClientID     string
	ClientSecret string
	Audience     string
	Scopes       []string
}

type RedisConfig struct {
	Addr    string
	Enabled bool
}

type LocalCacheConfig struct {
	Path string // sqlite file holding the cached profile identifier
}

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	Enabled  bool
	MockMode bool
}

func Load() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:5000/api"),
			Timeout: time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Auth: AuthConfig{
			Domain:       getEnv("AUTH_DOMAIN", "http://localhost:8081"),
			ClientID:     getEnv("AUTH_CLIENT_ID", ""),
			ClientSecret: getEnv("AUTH_CLIENT_SECRET", ""),
			Audience:     getEnv("AUTH_AUDIENCE", "crewdeck-api"),
			Scopes:       strings.Fields(getEnv("AUTH_SCOPES", "read:events write:events delete:events")),
		},
		Redis: RedisConfig{
			Addr:    getEnv("REDIS_ADDR", "localhost:6379"),
			Enabled: getEnvBool("REDIS_ENABLED", true),
		},
		LocalCache: LocalCacheConfig{
			Path: getEnv("LOCAL_CACHE_PATH", "crewdeck-cache.db"),
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:    getEnv("KAFKA_TOPIC_CHANGES", "crewdeck-changes"),
			Enabled:  getEnvBool("KAFKA_ENABLED", false),
			MockMode: getEnvBool("KAFKA_MOCK_MODE", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
