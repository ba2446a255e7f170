package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	HTTPHost string
	HTTPPort int
	BaseURL  string

	// 数据库
	DBDriver          string
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// 会话
	JWTAccessSecret    string
	JWTRefreshSecret   string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	AuthCallbackSecret string

	// 通知投递
	KafkaBrokers []string
	KafkaTopic   string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// 后台任务
	OutboxInterval     time.Duration
	OutboxBatchSize    int
	OutboxMaxRetry     int
	ReconcileInterval  time.Duration
	ReconcileBatchSize int

	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel string
}

// Load 先尝试读取 .env，不存在时只用进程环境变量
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	loadEnvString(&cfg.AppEnv, "APP_ENV", "development")
	loadEnvString(&cfg.HTTPHost, "HTTP_HOST", "0.0.0.0")
	if err := loadEnvInt(&cfg.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}
	loadEnvString(&cfg.BaseURL, "BASE_URL", "http://localhost:3000")

	loadEnvString(&cfg.DBDriver, "DB_DRIVER", "postgres")
	if err := loadEnvStringRequired(&cfg.DatabaseURL, "DATABASE_URL"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&cfg.DBMaxOpenConns, "DB_MAX_OPEN_CONNS", 25); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&cfg.DBMaxIdleConns, "DB_MAX_IDLE_CONNS", 10); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&cfg.DBConnMaxLifetime, "DB_CONN_MAX_LIFETIME", time.Hour); err != nil {
		return nil, err
	}

	loadEnvString(&cfg.RedisAddr, "REDIS_ADDR", "127.0.0.1:6379")
	loadEnvString(&cfg.RedisPassword, "REDIS_PASSWORD", "")
	if err := loadEnvInt(&cfg.RedisDB, "REDIS_DB", 0); err != nil {
		return nil, err
	}

	if err := loadEnvStringRequired(&cfg.JWTAccessSecret, "JWT_ACCESS_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvStringRequired(&cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&cfg.AccessTokenTTL, "ACCESS_TOKEN_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&cfg.RefreshTokenTTL, "REFRESH_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if err := loadEnvStringRequired(&cfg.AuthCallbackSecret, "AUTH_CALLBACK_SECRET"); err != nil {
		return nil, err
	}

	loadEnvStringSlice(&cfg.KafkaBrokers, "KAFKA_BROKERS", nil)
	loadEnvString(&cfg.KafkaTopic, "KAFKA_TOPIC", "traubling.notifications")
	loadEnvString(&cfg.SMTPHost, "SMTP_HOST", "")
	if err := loadEnvInt(&cfg.SMTPPort, "SMTP_PORT", 587); err != nil {
		return nil, err
	}
	loadEnvString(&cfg.SMTPUsername, "SMTP_USERNAME", "")
	loadEnvString(&cfg.SMTPPassword, "SMTP_PASSWORD", "")
	loadEnvString(&cfg.SMTPFrom, "SMTP_FROM", "")

	if err := loadEnvDuration(&cfg.OutboxInterval, "OUTBOX_INTERVAL", time.Second); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&cfg.OutboxBatchSize, "OUTBOX_BATCH_SIZE", 200); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&cfg.OutboxMaxRetry, "OUTBOX_MAX_RETRY", 5); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&cfg.ReconcileInterval, "RECONCILE_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&cfg.ReconcileBatchSize, "RECONCILE_BATCH_SIZE", 500); err != nil {
		return nil, err
	}

	if err := loadEnvFloat(&cfg.RateLimitRPS, "RATE_LIMIT_RPS", 5); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&cfg.RateLimitBurst, "RATE_LIMIT_BURST", 10); err != nil {
		return nil, err
	}

	loadEnvString(&cfg.LogLevel, "LOG_LEVEL", "info")
	return cfg, nil
}

func loadEnvString(target *string, key, defaultValue string) {
	if value := os.Getenv(key); value != "" {
		*target = value
		return
	}
	*target = defaultValue
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
		return nil
	}
	*target = defaultValue
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value for %s: %v", key, err)
		}
		*target = parsed
		return nil
	}
	*target = defaultValue
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
		return nil
	}
	*target = defaultValue
	return nil
}

func loadEnvStringSlice(target *[]string, key string, defaultValue []string) {
	value := os.Getenv(key)
	if value == "" {
		*target = defaultValue
		return
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	*target = out
}

// Validate 检查加载后的配置
func (c *Config) Validate() error {
	var errs []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, "HTTP_PORT must be between 1 and 65535")
	}
	if c.DBDriver != "postgres" && c.DBDriver != "mysql" {
		errs = append(errs, "DB_DRIVER must be one of: postgres, mysql")
	}
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}
	if len(c.JWTAccessSecret) < 32 {
		errs = append(errs, "JWT_ACCESS_SECRET should be at least 32 characters long")
	}
	if len(c.JWTRefreshSecret) < 32 {
		errs = append(errs, "JWT_REFRESH_SECRET should be at least 32 characters long")
	}
	if c.JWTAccessSecret == c.JWTRefreshSecret {
		errs = append(errs, "JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL < c.AccessTokenTTL {
		errs = append(errs, "REFRESH_TOKEN_TTL must be positive and not shorter than ACCESS_TOKEN_TTL")
	}
	if c.SMTPHost != "" && c.SMTPFrom == "" {
		errs = append(errs, "SMTP_FROM is required when SMTP_HOST is set")
	}
	if c.OutboxBatchSize <= 0 || c.ReconcileBatchSize <= 0 {
		errs = append(errs, "OUTBOX_BATCH_SIZE and RECONCILE_BATCH_SIZE must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, "RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Addr HTTP 监听地址
func (c *Config) Addr() string {
	return net.JoinHostPort(c.HTTPHost, strconv.Itoa(c.HTTPPort))
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
