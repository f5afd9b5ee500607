package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int

	JWTSecret string // JWT署名シークレット

	// 在庫側の呼び方。local=同一プロセス / http=リモート
	InventoryMode    string
	InventoryURL     string        // http時のみ必須
	InventoryTimeout time.Duration // 在庫呼び出しの固定タイムアウト

	RedisAddr string // 空ならキャッシュ無効

	GoEnv string // dev/prod
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := mustAtoi("POSTGRES_PORT")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: os.Getenv("PORT"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     pgPort,

		JWTSecret: os.Getenv("JWT_SECRET"),

		InventoryMode:    getenv("INVENTORY_MODE", "local"),
		InventoryURL:     os.Getenv("INVENTORY_URL"),
		InventoryTimeout: 10 * time.Second,

		RedisAddr: os.Getenv("REDIS_ADDR"),

		GoEnv: getenv("GO_ENV", "dev"),
	}

	if v := os.Getenv("INVENTORY_TIMEOUT_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return Config{}, fmt.Errorf("INVENTORY_TIMEOUT_MS must be a positive number")
		}
		cfg.InventoryTimeout = time.Duration(ms) * time.Millisecond
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.PostgresUser == "" {
		return Config{}, fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.PostgresPassword == "" {
		return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if cfg.PostgresDB == "" {
		return Config{}, fmt.Errorf("POSTGRES_DB is required")
	}
	if cfg.PostgresHost == "" {
		return Config{}, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	switch cfg.InventoryMode {
	case "local":
	case "http":
		if cfg.InventoryURL == "" {
			return Config{}, fmt.Errorf("INVENTORY_URL is required when INVENTORY_MODE=http")
		}
	default:
		return Config{}, fmt.Errorf("INVENTORY_MODE must be local or http")
	}

	return cfg, nil
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
