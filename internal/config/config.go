package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	ErrMissingAPIKey      = errors.New("openai api key is required")
	ErrMissingDatabaseURI = errors.New("database uri is required")
)

type Config struct {
	App       AppConfig       `toml:"app"`
	OpenAI    OpenAIConfig    `toml:"openai"`
	Database  DatabaseConfig  `toml:"database"`
	Upload    UploadConfig    `toml:"upload"`
	Poll      PollConfig      `toml:"poll"`
	Redis     RedisConfig     `toml:"redis"`
	RabbitMQ  RabbitMQConfig  `toml:"rabbitmq"`
	MinIO     MinIOConfig     `toml:"minio"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

type AppConfig struct {
	Name     string `toml:"name"`
	Env      string `toml:"env"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	GinMode  string `toml:"gin_mode"`
	LogLevel string `toml:"log_level"`
}

type OpenAIConfig struct {
	APIKey                string `toml:"api_key"`
	BaseURL               string `toml:"base_url"`
	Model                 string `toml:"model"`
	AssistantName         string `toml:"assistant_name"`
	AssistantInstructions string `toml:"assistant_instructions"`
	AttachFiles           bool   `toml:"attach_files"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// DatabaseConfig selects the record store by URI scheme:
// mongodb://, mongodb+srv://, mysql:// or memory://.
type DatabaseConfig struct {
	URI                   string `toml:"uri"`
	Name                  string `toml:"name"`
	ConnectTimeoutSeconds int    `toml:"connect_timeout_seconds"`
}

type UploadConfig struct {
	Dir            string `toml:"dir"`
	MaxMemoryMB    int    `toml:"max_memory_mb"`
	KeepTempFiles  bool   `toml:"keep_temp_files"`
	FormField      string `toml:"form_field"`
	ArchiveUploads bool   `toml:"archive_uploads"`
}

type PollConfig struct {
	IntervalMillis int `toml:"interval_ms"`
	MaxAttempts    int `toml:"max_attempts"`
}

type RedisConfig struct {
	Addr                string `toml:"addr"`
	Password            string `toml:"password"`
	DB                  int    `toml:"db"`
	DocumentsTTLSeconds int    `toml:"documents_ttl_seconds"`
}

type RabbitMQConfig struct {
	URL              string `toml:"url"`
	QuestionLogQueue string `toml:"question_log_queue"`
}

type MinIOConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
}

type RateLimitConfig struct {
	RPS   float64 `toml:"rps"`
	Burst int     `toml:"burst"`
}

func Load() (*Config, error) {
	_ = godotenv.Load(getEnv("DOTENV_FILE", ".env"))

	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

// Validate reports the settings the service cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if strings.TrimSpace(c.Database.URI) == "" {
		return ErrMissingDatabaseURI
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalMillis) * time.Millisecond
}

func (c *Config) DocumentsCacheTTL() time.Duration {
	return time.Duration(c.Redis.DocumentsTTLSeconds) * time.Second
}

func (c *Config) DatabaseConnectTimeout() time.Duration {
	return time.Duration(c.Database.ConnectTimeoutSeconds) * time.Second
}

func (c *Config) OpenAIRequestTimeout() time.Duration {
	return time.Duration(c.OpenAI.RequestTimeoutSeconds) * time.Second
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:     "pdfqa",
			Env:      "dev",
			Host:     "0.0.0.0",
			Port:     8000,
			GinMode:  "release",
			LogLevel: "info",
		},
		OpenAI: OpenAIConfig{
			Model:                 "gpt-4o",
			AssistantName:         "PDF File QA Assistant",
			AssistantInstructions: "You are an assistant who answers questions based on the content of uploaded PDF files.",
			AttachFiles:           true,
			RequestTimeoutSeconds: 60,
		},
		Database: DatabaseConfig{
			Name:                  "pdfqa",
			ConnectTimeoutSeconds: 10,
		},
		Upload: UploadConfig{
			Dir:         "uploads",
			MaxMemoryMB: 32,
			FormField:   "pdf_file",
		},
		Poll: PollConfig{
			IntervalMillis: 1000,
			MaxAttempts:    120,
		},
		Redis: RedisConfig{
			DocumentsTTLSeconds: 30,
		},
		RabbitMQ: RabbitMQConfig{
			QuestionLogQueue: "pdfqa.question.log",
		},
		MinIO: MinIOConfig{
			Bucket: "pdfqa-uploads",
		},
		RateLimit: RateLimitConfig{
			Burst: 10,
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)

	cfg.OpenAI.APIKey = getEnv("OPENAI_API_KEY", cfg.OpenAI.APIKey)
	cfg.OpenAI.BaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAI.BaseURL)
	cfg.OpenAI.Model = getEnv("OPENAI_MODEL", cfg.OpenAI.Model)
	cfg.OpenAI.AttachFiles = getEnvAsBool("OPENAI_ATTACH_FILES", cfg.OpenAI.AttachFiles)
	cfg.OpenAI.RequestTimeoutSeconds = getEnvAsInt("OPENAI_REQUEST_TIMEOUT_SECONDS", cfg.OpenAI.RequestTimeoutSeconds)

	cfg.Database.URI = getEnv("DATABASE_URI", cfg.Database.URI)
	cfg.Database.URI = getEnv("MONGO_URI", cfg.Database.URI)
	cfg.Database.Name = getEnv("MONGO_DATABASE", cfg.Database.Name)
	cfg.Database.ConnectTimeoutSeconds = getEnvAsInt("DATABASE_CONNECT_TIMEOUT_SECONDS", cfg.Database.ConnectTimeoutSeconds)

	cfg.Upload.Dir = getEnv("UPLOAD_DIR", cfg.Upload.Dir)
	cfg.Upload.MaxMemoryMB = getEnvAsInt("UPLOAD_MAX_MEMORY_MB", cfg.Upload.MaxMemoryMB)
	cfg.Upload.KeepTempFiles = getEnvAsBool("UPLOAD_KEEP_TEMP_FILES", cfg.Upload.KeepTempFiles)
	cfg.Upload.ArchiveUploads = getEnvAsBool("UPLOAD_ARCHIVE", cfg.Upload.ArchiveUploads)

	cfg.Poll.IntervalMillis = getEnvAsInt("POLL_INTERVAL_MS", cfg.Poll.IntervalMillis)
	cfg.Poll.MaxAttempts = getEnvAsInt("POLL_MAX_ATTEMPTS", cfg.Poll.MaxAttempts)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.DocumentsTTLSeconds = getEnvAsInt("REDIS_DOCUMENTS_TTL_SECONDS", cfg.Redis.DocumentsTTLSeconds)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.QuestionLogQueue = getEnv("RABBITMQ_QUESTION_LOG_QUEUE", cfg.RabbitMQ.QuestionLogQueue)

	cfg.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", cfg.MinIO.Endpoint)
	cfg.MinIO.AccessKey = getEnv("MINIO_ACCESS_KEY", cfg.MinIO.AccessKey)
	cfg.MinIO.SecretKey = getEnv("MINIO_SECRET_KEY", cfg.MinIO.SecretKey)
	cfg.MinIO.Bucket = getEnv("MINIO_BUCKET", cfg.MinIO.Bucket)
	cfg.MinIO.UseSSL = getEnvAsBool("MINIO_USE_SSL", cfg.MinIO.UseSSL)

	cfg.RateLimit.RPS = getEnvAsFloat("RATE_LIMIT_RPS", cfg.RateLimit.RPS)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) float64 {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
