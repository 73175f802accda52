package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	Storage   StorageConfig
	Mail      MailConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
	Allocator AllocatorConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Port    string
	Env     string
	BaseURL string
}

// IsDevelopment reports whether the app runs with APP_ENV=development.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
	LogLevel string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type LogConfig struct {
	Level      string
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type StorageConfig struct {
	Driver   string
	LocalDir string
	S3       S3Config
}

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PresignTTL      time.Duration
}

type MailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
	Timeout  time.Duration
}

type UploadConfig struct {
	MaxFileBytes int64
	MaxFiles     int
}

type RateLimitConfig struct {
	PasswordResetAttempts int
	PasswordResetWindow   time.Duration
}

type AllocatorConfig struct {
	MaxInsertAttempts int
}

type AdminConfig struct {
	Username string
	Email    string
	Password string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:    viper.GetString("APP_PORT"),
			Env:     viper.GetString("APP_ENV"),
			BaseURL: viper.GetString("APP_BASE_URL"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			TimeZone: viper.GetString("DB_TIMEZONE"),
			LogLevel: viper.GetString("DB_LOG_LEVEL"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  parseDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: parseDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Log: LogConfig{
			Level:      viper.GetString("LOG_LEVEL"),
			FilePath:   viper.GetString("LOG_FILE_PATH"),
			MaxSizeMB:  viper.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: viper.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: viper.GetInt("LOG_MAX_AGE_DAYS"),
			Compress:   viper.GetBool("LOG_COMPRESS"),
		},
		Storage: StorageConfig{
			Driver:   viper.GetString("STORAGE_DRIVER"),
			LocalDir: viper.GetString("STORAGE_LOCAL_DIR"),
			S3: S3Config{
				Endpoint:        viper.GetString("S3_ENDPOINT"),
				Region:          viper.GetString("S3_REGION"),
				Bucket:          viper.GetString("S3_BUCKET"),
				AccessKeyID:     viper.GetString("S3_ACCESS_KEY_ID"),
				SecretAccessKey: viper.GetString("S3_SECRET_ACCESS_KEY"),
				PresignTTL:      parseDuration("S3_PRESIGN_TTL", 5*time.Minute),
			},
		},
		Mail: MailConfig{
			Enabled:  viper.GetBool("MAIL_ENABLED"),
			Host:     viper.GetString("MAIL_HOST"),
			Port:     viper.GetInt("MAIL_PORT"),
			Username: viper.GetString("MAIL_USERNAME"),
			Password: viper.GetString("MAIL_PASSWORD"),
			From:     viper.GetString("MAIL_FROM"),
			UseTLS:   viper.GetBool("MAIL_USE_TLS"),
			Timeout:  parseDuration("MAIL_TIMEOUT", 15*time.Second),
		},
		Upload: UploadConfig{
			MaxFileBytes: viper.GetInt64("UPLOAD_MAX_FILE_BYTES"),
			MaxFiles:     viper.GetInt("UPLOAD_MAX_FILES"),
		},
		RateLimit: RateLimitConfig{
			PasswordResetAttempts: viper.GetInt("RATE_LIMIT_PASSWORD_RESET_ATTEMPTS"),
			PasswordResetWindow:   parseDuration("RATE_LIMIT_PASSWORD_RESET_WINDOW", 15*time.Minute),
		},
		Allocator: AllocatorConfig{
			MaxInsertAttempts: viper.GetInt("EXPEDIENTE_MAX_INSERT_ATTEMPTS"),
		},
		Admin: AdminConfig{
			Username: viper.GetString("ADMIN_USERNAME"),
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
		},
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "America/Guatemala")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_MAX_SIZE_MB", 50)
	viper.SetDefault("LOG_MAX_BACKUPS", 5)
	viper.SetDefault("LOG_MAX_AGE_DAYS", 30)
	viper.SetDefault("STORAGE_DRIVER", "local")
	viper.SetDefault("STORAGE_LOCAL_DIR", "uploads")
	viper.SetDefault("MAIL_PORT", 587)
	viper.SetDefault("UPLOAD_MAX_FILE_BYTES", 10<<20)
	viper.SetDefault("UPLOAD_MAX_FILES", 5)
	viper.SetDefault("RATE_LIMIT_PASSWORD_RESET_ATTEMPTS", 3)
	viper.SetDefault("EXPEDIENTE_MAX_INSERT_ATTEMPTS", 3)
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
