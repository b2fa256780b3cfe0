package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/tenanto/internal/kvstore"
)

const (
	storageSQLite   = "sqlite"
	storagePostgres = "postgres"
	storageRedis    = "redis"
	storageMemory   = "memory"

	minSecretKeyLength = 32
)

var insecureSecretKeys = map[string]bool{
	"change_me_in_production":                    true,
	"replace_with_at_least_32_random_characters": true,
}

type storageConfig struct {
	Driver      string
	DBPath      string
	DatabaseURL string
	Redis       kvstore.RedisOptions
}

func resolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	switch {
	case secret == "":
		return "", errors.New("SECRET_KEY is required")
	case insecureSecretKeys[strings.ToLower(secret)]:
		return "", errors.New("SECRET_KEY uses a placeholder value")
	case len(secret) < minSecretKeyLength:
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}

func resolvePort() (string, error) {
	raw := strings.TrimSpace(getEnv("PORT", "8080"))
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return strconv.Itoa(port), nil
}

func resolveCookieSecure() (bool, error) {
	raw := strings.TrimSpace(os.Getenv("COOKIE_SECURE"))
	if raw == "" {
		return false, nil
	}
	secure, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid COOKIE_SECURE %q", raw)
	}
	return secure, nil
}

func resolveStorage() (storageConfig, error) {
	config := storageConfig{
		Driver:      strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", storageSQLite))),
		DBPath:      getEnv("DB_PATH", filepath.Join("data", "tenanto.db")),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Redis: kvstore.RedisOptions{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			Prefix:   getEnv("REDIS_PREFIX", kvstore.DefaultRedisPrefix),
		},
	}

	if raw := strings.TrimSpace(os.Getenv("REDIS_DB")); raw != "" {
		database, err := strconv.Atoi(raw)
		if err != nil || database < 0 {
			return storageConfig{}, fmt.Errorf("invalid REDIS_DB %q", raw)
		}
		config.Redis.DB = database
	}

	switch config.Driver {
	case storageSQLite, storageRedis, storageMemory:
	case storagePostgres:
		if config.DatabaseURL == "" {
			return storageConfig{}, errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return storageConfig{}, fmt.Errorf("unknown STORAGE_DRIVER %q", config.Driver)
	}
	return config, nil
}

func resolveLocation() *time.Location {
	name := getEnv("TZ", "UTC")
	location, err := time.LoadLocation(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid TZ %q, falling back to UTC\n", name)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
