// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Forecast ForecastConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// CacheConfig configures the durable trained-model cache. Backend selects the
// store: "redis", "s3" or "none".
type CacheConfig struct {
	Backend         string
	RedisURL        string
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	RedisDB         int
	ModelTTLSeconds int

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
}

type ForecastConfig struct {
	HistoryDays        int
	DefaultHorizonDays int
	MinTrainingRows    int
	BatchWorkers       int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "freshmark")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("MODEL_CACHE_BACKEND", "none")
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("MODEL_CACHE_TTL_SECONDS", 0)
		viper.SetDefault("S3_ENDPOINT", "")
		viper.SetDefault("S3_ACCESS_KEY", "")
		viper.SetDefault("S3_SECRET_KEY", "")
		viper.SetDefault("S3_BUCKET", "freshmark-models")
		viper.SetDefault("S3_USE_SSL", true)
		viper.SetDefault("FORECAST_HISTORY_DAYS", 90)
		viper.SetDefault("FORECAST_HORIZON_DAYS", 7)
		viper.SetDefault("FORECAST_MIN_TRAINING_ROWS", 14)
		viper.SetDefault("FORECAST_BATCH_WORKERS", 4)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Backend:         viper.GetString("MODEL_CACHE_BACKEND"),
				RedisURL:        viper.GetString("REDIS_URL"),
				RedisHost:       viper.GetString("REDIS_HOST"),
				RedisPort:       viper.GetString("REDIS_PORT"),
				RedisPassword:   viper.GetString("REDIS_PASSWORD"),
				RedisDB:         viper.GetInt("REDIS_DB"),
				ModelTTLSeconds: viper.GetInt("MODEL_CACHE_TTL_SECONDS"),
				S3Endpoint:      viper.GetString("S3_ENDPOINT"),
				S3AccessKey:     viper.GetString("S3_ACCESS_KEY"),
				S3SecretKey:     viper.GetString("S3_SECRET_KEY"),
				S3Bucket:        viper.GetString("S3_BUCKET"),
				S3UseSSL:        viper.GetBool("S3_USE_SSL"),
			},
			Forecast: ForecastConfig{
				HistoryDays:        viper.GetInt("FORECAST_HISTORY_DAYS"),
				DefaultHorizonDays: viper.GetInt("FORECAST_HORIZON_DAYS"),
				MinTrainingRows:    viper.GetInt("FORECAST_MIN_TRAINING_ROWS"),
				BatchWorkers:       viper.GetInt("FORECAST_BATCH_WORKERS"),
			},
		}
	})

	return instance
}
