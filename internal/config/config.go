package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Environment 运行环境
type Environment string

const (
	EnvDev   Environment = "DEV"
	EnvStage Environment = "STAGE"
	EnvUAT   Environment = "UAT"
	EnvProd  Environment = "PROD"
)

// IsDebug 非生产环境都算调试环境
func (e Environment) IsDebug() bool {
	return e != EnvProd
}

// Config 应用配置
type Config struct {
	Env                Environment `env:"APP_ENV" validate:"oneof=DEV STAGE UAT PROD"`
	BaseURL            string      `env:"BASE_URL" validate:"required,url"`
	APIVersion         string      `env:"API_VERSION"`
	APIKey             string      `env:"API_KEY" validate:"required"`
	DatabaseURL        string      `env:"DATABASE_URL" validate:"required"`
	Port               string      `env:"PORT" validate:"required,numeric"`
	HTTPTimeoutSecs    int         `env:"HTTP_TIMEOUT_SECS" validate:"gt=0"`
	RetryMax           int         `env:"RETRY_MAX" validate:"gte=0"`
	RetryDelayMS       int         `env:"RETRY_DELAY_MS" validate:"gte=0"`
	RateLimitRPS       float64     `env:"RATE_LIMIT_RPS" validate:"gt=0"`
	RateLimitBurst     int         `env:"RATE_LIMIT_BURST" validate:"gt=0"`
	CacheRetentionDays int         `env:"CACHE_RETENTION_DAYS" validate:"gte=0"`
	SearchMinChars     int         `env:"SEARCH_MIN_CHARS" validate:"gte=1"`
}

// Load 从环境变量加载配置并校验
func Load() (*Config, error) {
	var errs []error
	intEnv := func(key string, def int) int {
		v, err := getEnvInt(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	rps, err := getEnvFloat("RATE_LIMIT_RPS", 40)
	if err != nil {
		errs = append(errs, err)
	}

	cfg := &Config{
		Env:                Environment(strings.ToUpper(getEnv("APP_ENV", string(EnvProd)))),
		BaseURL:            getEnv("BASE_URL", ""),
		APIVersion:         getEnv("API_VERSION", ""),
		APIKey:             getEnv("API_KEY", ""),
		DatabaseURL:        databaseURL(),
		Port:               getEnv("PORT", "5007"),
		HTTPTimeoutSecs:    intEnv("HTTP_TIMEOUT_SECS", 60),
		RetryMax:           intEnv("RETRY_MAX", 3),
		RetryDelayMS:       intEnv("RETRY_DELAY_MS", 1000),
		RateLimitRPS:       rps,
		RateLimitBurst:     intEnv("RATE_LIMIT_BURST", 10),
		CacheRetentionDays: intEnv("CACHE_RETENTION_DAYS", 30),
		SearchMinChars:     intEnv("SEARCH_MIN_CHARS", 3),
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("env")
	})
	return v
}

// Validate 错误信息里用环境变量名指出出错的项
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s is invalid (%s=%s)", fe.Field(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

// FullBaseURL BASE_URL 拼上 API_VERSION
func (c *Config) FullBaseURL() string {
	base := strings.TrimRight(c.BaseURL, "/")
	version := strings.Trim(c.APIVersion, "/")
	if version == "" {
		return base + "/"
	}
	return base + "/" + version + "/"
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSecs) * time.Second
}

func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

// CacheRetention 为 0 时不清理缓存
func (c *Config) CacheRetention() time.Duration {
	return time.Duration(c.CacheRetentionDays) * 24 * time.Hour
}

// databaseURL 优先使用 DATABASE_URL，其次在设置了 DB_HOST 时由 DB_* 拼接
func databaseURL() string {
	if url := getEnv("DATABASE_URL", ""); url != "" {
		return url
	}
	dbHost := getEnv("DB_HOST", "")
	if dbHost == "" {
		return ""
	}
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "movieexplorer")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be a number: %w", key, err)
	}
	return f, nil
}
