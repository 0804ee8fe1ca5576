package config

import (
	"os"
	"time"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	RedisAddr string

	// JWTSecret signs session tokens. The default is for local work only.
	JWTSecret string
	TokenTTL  time.Duration

	// PackPath points at a protocol pack file. Empty loads the embedded
	// default pack.
	PackPath string
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Port:      getEnvOrDefault("PORT", "8080"),
		MongoURI:  getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnvOrDefault("MONGO_DB", "pedtriage"),
		RedisAddr: getEnvOrDefault("REDIS_URI", "localhost:6379"),
		JWTSecret: getEnvOrDefault("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:  getDurationOrDefault("TOKEN_TTL", 12*time.Hour),
		PackPath:  os.Getenv("PROTOCOL_PACK"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
