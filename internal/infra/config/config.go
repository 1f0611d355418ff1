package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all seeder configuration.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	HTTPClient HTTPClientConfig `mapstructure:"http_client"`
	Fetch      FetchConfig      `mapstructure:"fetch"`
	Staging    StagingConfig    `mapstructure:"staging"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Upload     UploadConfig     `mapstructure:"upload"`
	Seed       SeedConfig       `mapstructure:"seed"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Log        LogConfig        `mapstructure:"log"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DSN returns the database connection string.
func (c *DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Database, c.SSLMode,
	)
	if c.Password != "" {
		dsn += fmt.Sprintf(" password=%s", c.Password)
	}
	return dsn
}

// RedisConfig holds Redis configuration. An empty address disables the run lock.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// HTTPClientConfig holds HTTP client configuration for image downloads.
type HTTPClientConfig struct {
	// Connection pool settings
	MaxIdleConns        int           `mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout"`

	// Timeout settings
	DialTimeout         time.Duration `mapstructure:"dial_timeout"`
	TLSHandshakeTimeout time.Duration `mapstructure:"tls_handshake_timeout"`
	ResponseTimeout     time.Duration `mapstructure:"response_timeout"`

	// Keep-alive settings
	KeepAlive time.Duration `mapstructure:"keep_alive"`

	// InsecureSkipVerify disables TLS certificate verification for image hosts.
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify"`
}

// FetchConfig holds image download limits.
type FetchConfig struct {
	MaxRedirects int   `mapstructure:"max_redirects"`
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"` // 0 means unbounded
}

// StagingConfig holds scratch directory configuration.
type StagingConfig struct {
	Dir string `mapstructure:"dir"` // defaults to os.TempDir()
}

// StorageConfig holds upload provider configuration.
type StorageConfig struct {
	Provider string `mapstructure:"provider"` // local, s3

	// Local provider
	LocalRoot string `mapstructure:"local_root"`
	PublicURL string `mapstructure:"public_url"`

	// S3 provider
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
}

// UploadConfig holds publisher configuration.
type UploadConfig struct {
	MimeDetection    string        `mapstructure:"mime_detection"` // extension, content
	BreakerThreshold uint32        `mapstructure:"breaker_threshold"`
	BreakerTimeout   time.Duration `mapstructure:"breaker_timeout"`
}

// SeedConfig holds migration run configuration.
type SeedConfig struct {
	ItemsFile       string        `mapstructure:"items_file"`
	MaxItemFailures int           `mapstructure:"max_item_failures"` // 0 means unlimited
	Timeout         time.Duration `mapstructure:"timeout"`           // 0 means no deadline
	LockTTL         time.Duration `mapstructure:"lock_ttl"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Namespace      string `mapstructure:"namespace"`
	PushgatewayURL string `mapstructure:"pushgateway_url"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from file and environment. An empty path searches
// the default locations.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("seeder")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/uniedit")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found, use defaults and env
	}

	v.SetEnvPrefix("SEEDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Override with environment variables for sensitive values
	if password := os.Getenv("SEEDER_DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if password := os.Getenv("SEEDER_REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if key := os.Getenv("SEEDER_STORAGE_SECRET_KEY"); key != "" {
		cfg.Storage.SecretAccessKey = key
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "uniedit")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)

	// Redis defaults
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// HTTP client defaults
	v.SetDefault("http_client.max_idle_conns", 10)
	v.SetDefault("http_client.max_idle_conns_per_host", 2)
	v.SetDefault("http_client.idle_conn_timeout", 90*time.Second)
	v.SetDefault("http_client.dial_timeout", 10*time.Second)
	v.SetDefault("http_client.tls_handshake_timeout", 10*time.Second)
	v.SetDefault("http_client.response_timeout", 60*time.Second)
	v.SetDefault("http_client.keep_alive", 30*time.Second)
	v.SetDefault("http_client.insecure_skip_verify", false)

	// Fetch defaults
	v.SetDefault("fetch.max_redirects", 10)
	v.SetDefault("fetch.max_body_bytes", 32<<20)

	// Staging defaults
	v.SetDefault("staging.dir", "")

	// Storage defaults
	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.local_root", "./public")
	v.SetDefault("storage.public_url", "")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.region", "auto")
	v.SetDefault("storage.access_key_id", "")
	v.SetDefault("storage.secret_access_key", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.prefix", "uploads/")

	// Upload defaults
	v.SetDefault("upload.mime_detection", "extension")
	v.SetDefault("upload.breaker_threshold", 0) // 0 disables the breaker
	v.SetDefault("upload.breaker_timeout", 30*time.Second)

	// Seed defaults
	v.SetDefault("seed.items_file", "")
	v.SetDefault("seed.max_item_failures", 0)
	v.SetDefault("seed.timeout", time.Duration(0))
	v.SetDefault("seed.lock_ttl", 10*time.Minute)

	// Metrics defaults
	v.SetDefault("metrics.namespace", "uniedit")
	v.SetDefault("metrics.pushgateway_url", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
