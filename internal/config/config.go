package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort string
	Debug      bool

	// Database（为空时使用内置车辆目录）
	DatabaseURL string

	// 校园
	DefaultCampus string
	EmailDomain   string

	// 计价（单位：美分）
	BasePriceCents int64
	PerMinuteCents int64

	// 等待定位的最长时间
	LocationTimeout time.Duration
}

func Load() (*Config, error) {
	// 尝试加载 .env 文件（可选）
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:      getEnv("PORT", "4000"),
		Debug:           getEnvBool("DEBUG", false),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DefaultCampus:   getEnv("DEFAULT_CAMPUS", "evanston"),
		EmailDomain:     getEnv("EMAIL_DOMAIN", "u.northwestern.edu"),
		BasePriceCents:  getEnvInt64("BASE_PRICE_CENTS", 150),
		PerMinuteCents:  getEnvInt64("PER_MINUTE_CENTS", 45),
		LocationTimeout: getEnvDuration("LOCATION_TIMEOUT", 15*time.Second),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		n, err := strconv.ParseInt(value, 10, 64)
		if err == nil && n >= 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}
