package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	SecretKey      []byte
	TokenTTL             = time.Hour
	MaxUploadBytes int64 = 10 << 20
)

type Config struct {
	Port        string        `env:"PORT,default=3000"`
	DatabaseURL string        `env:"DATABASE_URL,required"`
	JWTSecret   string        `env:"JWT_SECRET,required"`
	JWTTTL      time.Duration `env:"JWT_TTL,default=1h"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=https://the-great-wok.vercel.app"`

	RateLimitMax    int           `env:"RATE_LIMIT_MAX,default=100"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW,default=15m"`

	DBMaxOpenConns int `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBMaxIdleConns int `env:"DB_MAX_IDLE_CONNS,default=5"`

	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL,default=5m"`

	GCSProjectID   string `env:"GCS_PROJECT_ID"`
	GCSClientEmail string `env:"GCS_CLIENT_EMAIL"`
	GCSPrivateKey  string `env:"GCS_PRIVATE_KEY"`
	GCSBucketName  string `env:"GCS_BUCKET_NAME"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES,default=10485760"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`
}

// Load reads an optional .env file, decodes the environment and publishes
// the settings read by the auth and upload handlers.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// private keys usually arrive with escaped newlines
	cfg.GCSPrivateKey = strings.ReplaceAll(cfg.GCSPrivateKey, `\n`, "\n")

	SecretKey = []byte(cfg.JWTSecret)
	TokenTTL = cfg.JWTTTL
	MaxUploadBytes = cfg.MaxUploadBytes
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.RateLimitMax <= 0 || c.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// UploadsEnabled reports whether every GCS setting is present.
func (c *Config) UploadsEnabled() bool {
	return c.GCSBucketName != "" && c.GCSClientEmail != "" && c.GCSPrivateKey != ""
}

func ConfigureLogger(c *Config) {
	if strings.EqualFold(c.LogFormat, "text") {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.Warnf("unknown log level %q, falling back to info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
