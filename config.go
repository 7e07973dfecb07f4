package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	awspkg "github.com/bhataakib02/retail-app/pkg/aws"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const devSecretKey = "dev-secret-change-me"

type Config struct {
	Env  string
	Port string

	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	SecretKey  string
	SessionTTL time.Duration
	RedisURL   string
	BcryptCost int

	UploadFolder    string
	S3BucketImages  string
	S3ImagePrefix   string
	OrderSNSTopic   string
	KafkaBrokers    []string
	OrderEventTopic string

	CloudWatchEnabled  bool
	CloudWatchLogGroup string
	MetricsNamespace   string

	AllowedOrigins []string
	UseAWSSecrets  bool
}

// LoadConfig reads configuration from the environment, after loading an
// optional .env file.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "5000"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBUser:             os.Getenv("DB_USER"),
		DBPass:             os.Getenv("DB_PASS"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBName:             os.Getenv("DB_NAME"),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),
		SecretKey:          os.Getenv("SECRET_KEY"),
		RedisURL:           os.Getenv("REDIS_URL"),
		UploadFolder:       getEnv("UPLOAD_FOLDER", "static/images/products"),
		S3BucketImages:     os.Getenv("S3_BUCKET_IMAGES"),
		S3ImagePrefix:      getEnv("S3_IMAGE_PREFIX", "products/"),
		OrderSNSTopic:      os.Getenv("ORDER_SNS_TOPIC_ARN"),
		KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
		OrderEventTopic:    getEnv("ORDER_EVENTS_TOPIC", "orders.placed"),
		CloudWatchEnabled:  os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchLogGroup: getEnv("CLOUDWATCH_LOG_GROUP", "/retail-app/web"),
		MetricsNamespace:   getEnv("CLOUDWATCH_NAMESPACE", "RetailApp"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5000")),
		UseAWSSecrets:      os.Getenv("AWS_USE_SECRETS") == "true",
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL %q", os.Getenv("SESSION_TTL"))
	}
	cfg.SessionTTL = ttl

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost)))
	if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("invalid BCRYPT_COST %q", os.Getenv("BCRYPT_COST"))
	}
	cfg.BcryptCost = cost

	if cfg.UseAWSSecrets {
		if err := cfg.applySecrets(context.Background()); err != nil {
			zap.L().Warn("AWS Secrets Manager override skipped", zap.Error(err))
		}
	}

	if cfg.DatabaseURL == "" {
		if cfg.DBUser == "" || cfg.DBName == "" {
			return nil, errors.New("database config incomplete: set DATABASE_URL or DB_USER/DB_PASS/DB_HOST/DB_NAME")
		}
		cfg.DatabaseURL = cfg.composeDatabaseURL()
	}

	if cfg.SecretKey == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("SECRET_KEY is required outside development")
		}
		cfg.SecretKey = devSecretKey
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// composeDatabaseURL builds a postgres URL from the split DB_* settings.
// Credentials are escaped so passwords may contain any character.
func (c *Config) composeDatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPass),
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.DBSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// applySecrets overrides database credentials and the session secret from
// AWS Secrets Manager. Missing secrets leave the environment values alone.
func (c *Config) applySecrets(ctx context.Context) error {
	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		return err
	}
	c.overrideFromSecrets(ctx, awspkg.NewSecretsClient(awsCfg))
	return nil
}

func (c *Config) overrideFromSecrets(ctx context.Context, sm *awspkg.SecretsClient) {
	if m, err := sm.GetSecretMap(ctx, "retail/DB_CREDENTIALS"); err == nil {
		overrideIfSet(&c.DBUser, m["DB_USER"])
		overrideIfSet(&c.DBPass, m["DB_PASS"])
		overrideIfSet(&c.DBHost, m["DB_HOST"])
		overrideIfSet(&c.DBPort, m["DB_PORT"])
		overrideIfSet(&c.DBName, m["DB_NAME"])
		if m["DB_USER"] != "" {
			// split credentials win over a URL from the environment
			c.DatabaseURL = ""
		}
	} else {
		zap.L().Warn("Database credentials secret not applied", zap.Error(err))
	}
	if secret, err := sm.GetSecret(ctx, "retail/SECRET_KEY"); err == nil && secret != "" {
		c.SecretKey = secret
	}
}

func overrideIfSet(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
