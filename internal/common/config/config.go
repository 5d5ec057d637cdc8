package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/uma-arai/capachica-client/internal/common/database"
)

const (
	// SessionBackendFile はローカルファイルにセッションを保存します
	SessionBackendFile = "file"
	// SessionBackendPostgres は共有のPostgresにセッションを保存します
	SessionBackendPostgres = "postgres"
)

type Config struct {
	API struct {
		BaseURL string
		Timeout time.Duration
	}
	Session struct {
		Backend   string
		Namespace string
		Dir       string
	}
	DB  database.Config
	SFN struct {
		TaskToken string
	}
	EnableTracing bool
}

// LoadConfig は設定を読み込みます
func LoadConfig(taskToken string) (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		DB: database.Config{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvAsIntOrDefault("DB_PORT", 5432),
			UserName: getEnvOrDefault("DB_USERNAME", "capachica"),
			Password: getEnvOrDefault("DB_PASSWORD", "password"),
			DBName:   getEnvOrDefault("DB_NAME", "capachica"),
			SSLMode:  os.Getenv("DB_SSL_MODE"),
		},
		EnableTracing: false,
	}
	cfg.SFN.TaskToken = taskToken

	baseURL, err := normalizeBaseURL(getEnvOrDefault("API_BASE_URL", "http://localhost:8000/api/"))
	if err != nil {
		return nil, err
	}
	cfg.API.BaseURL = baseURL

	cfg.API.Timeout = getEnvAsDurationOrDefault("API_TIMEOUT", 30*time.Second)
	if cfg.API.Timeout <= 0 {
		return nil, fmt.Errorf("API_TIMEOUT must be positive, got %v", cfg.API.Timeout)
	}

	cfg.Session.Backend = strings.ToLower(getEnvOrDefault("SESSION_BACKEND", SessionBackendFile))
	switch cfg.Session.Backend {
	case SessionBackendFile, SessionBackendPostgres:
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.Session.Backend)
	}
	cfg.Session.Namespace = getEnvOrDefault("SESSION_NAMESPACE", "auth")
	cfg.Session.Dir = getEnvOrDefault("SESSION_DIR", defaultSessionDir())

	// 環境変数[CAPACHICA_ENABLE_TRACING]を見てトレースを有効にする。対応しているTracingはAWS_XRAYのみ。
	// 環境変数[AWS_XRAY_SDK_DISABLED]がtrueの場合は必ずトレースを無効にする。
	enableKey := os.Getenv("CAPACHICA_ENABLE_TRACING")
	if !sdkDisabled() && (strings.ToLower(enableKey) == "true" || enableKey == "1") {
		os.Setenv("AWS_XRAY_SDK_DISABLED", "FALSE")
		cfg.EnableTracing = true
	} else {
		os.Setenv("AWS_XRAY_SDK_DISABLED", "TRUE")
		cfg.EnableTracing = false
	}

	return cfg, nil
}

// IsLocal は ENV=LOCAL で起動されているかを返します
func IsLocal() bool {
	return os.Getenv("ENV") == "LOCAL"
}

// .envが存在すれば読み込む。存在しなくてもエラーにはしない
func loadDotEnv() {
	path := os.Getenv("CAPACHICA_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("No env file loaded from %s: %v", path, err)
	}
}

// normalizeBaseURL はベースURLを検証し、末尾を"/"に揃えます
// 末尾が"/"でないと相対パスの解決で最後のセグメントが落ちるため
func normalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid API_BASE_URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("API_BASE_URL must be http or https, got %q", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("API_BASE_URL has no host: %q", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String(), nil
}

func defaultSessionDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".capachica")
	}
	return filepath.Join(dir, "capachica")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Printf("Environment variable %s is not set, using default value", key)
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Printf("Environment variable %s is not an integer, using default value", key)
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Environment variable %s is not a duration, using default value", key)
	}
	return defaultValue
}

// Check if SDK is disabled
func sdkDisabled() bool {
	disableKey := os.Getenv("AWS_XRAY_SDK_DISABLED")
	return strings.ToLower(disableKey) == "true"
}
