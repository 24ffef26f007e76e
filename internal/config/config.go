package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings sourced from environment variables.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Init     InitConfig     `mapstructure:"init"`
	Media    MediaConfig    `mapstructure:"media"`
}

// AppConfig contains process-wide settings.
type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// IsDev reports whether the service runs in development mode.
func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, "development") || strings.EqualFold(a.Env, "dev")
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port int `mapstructure:"port"`
}

// DatabaseConfig contains connection options for the content database.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig holds the Redis connection. An empty Host disables login throttling.
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Enabled reports whether a Redis host has been configured.
func (r RedisConfig) Enabled() bool { return strings.TrimSpace(r.Host) != "" }

// Addr returns host:port.
func (r RedisConfig) Addr() string { return fmt.Sprintf("%s:%d", r.Host, r.Port) }

// AuthConfig contains session signing and login throttling settings.
type AuthConfig struct {
	Secret             string        `mapstructure:"secret"`
	SessionTTL         time.Duration `mapstructure:"session_ttl"`
	CookieDomain       string        `mapstructure:"cookie_domain"`
	LoginRateLimit     int           `mapstructure:"login_rate_limit"`
	LoginLockThreshold int           `mapstructure:"login_lock_threshold"`
	LoginLockTTL       time.Duration `mapstructure:"login_lock_ttl"`
}

// AdminConfig holds the bootstrap credentials of the single privileged account.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// Configured reports whether enough credentials are present to seed the admin.
func (a AdminConfig) Configured() bool {
	return strings.TrimSpace(a.Email) != "" && a.Password != ""
}

// InitConfig guards the one-time seeding endpoint.
type InitConfig struct {
	Secret   string `mapstructure:"secret"`
	SeedFile string `mapstructure:"seed_file"`
}

// MediaConfig selects and configures the upload provider.
type MediaConfig struct {
	Provider   string           `mapstructure:"provider"`
	Folder     string           `mapstructure:"folder"`
	Cloudinary CloudinaryConfig `mapstructure:"cloudinary"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
}

// CloudinaryConfig contains API credentials for Cloudinary.
type CloudinaryConfig struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Region           string `mapstructure:"region"`
	Bucket           string `mapstructure:"bucket"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"

	MediaCloudinary = "cloudinary"
	MediaMinIO      = "minio"
)

// DSN returns the driver-specific connection string. DATABASE_URL wins when set.
func (d DatabaseConfig) DSN() string {
	if strings.TrimSpace(d.URL) != "" {
		return d.URL
	}
	switch d.Driver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.Port, d.Name)
	case DriverSQLite:
		return d.Name
	default:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host,
			d.Port,
			d.User,
			d.Password,
			d.Name,
			d.SSLMode,
		)
	}
}

// InitSecret returns the secret guarding /api/init, falling back to the auth secret.
func (c Config) InitSecret() string {
	if s := strings.TrimSpace(c.Init.Secret); s != "" {
		return s
	}
	return strings.TrimSpace(c.Auth.Secret)
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := validate(*cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase is Load for tools that only touch the database; media and auth
// settings are read but not validated.
func LoadDatabase() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := validateDatabase(cfg.Database); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.Media.Provider = strings.ToLower(strings.TrimSpace(cfg.Media.Provider))

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "production")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("api.port", 8080)
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "portfolio")
	v.SetDefault("database.user", "portfolio")
	v.SetDefault("database.password", "portfolio")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("auth.session_ttl", 7*24*time.Hour)
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.login_lock_threshold", 5)
	v.SetDefault("auth.login_lock_ttl", 15*time.Minute)
	v.SetDefault("admin.name", "Admin")
	v.SetDefault("media.provider", MediaCloudinary)
	v.SetDefault("media.folder", "portfolio")
	v.SetDefault("media.minio.endpoint", "localhost:9000")
	v.SetDefault("media.minio.public_endpoint", "http://localhost:9000")
	v.SetDefault("media.minio.use_ssl", false)
	v.SetDefault("media.minio.bucket", "portfolio")
	v.SetDefault("media.minio.bucket_lookup", "auto")
	v.SetDefault("media.minio.auto_create_bucket", true)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"app.env":                        "APP_ENV",
		"app.log_level":                  "LOG_LEVEL",
		"api.port":                       "API_PORT",
		"database.driver":                "DATABASE_DRIVER",
		"database.url":                   "DATABASE_URL",
		"database.host":                  "DATABASE_HOST",
		"database.port":                  "DATABASE_PORT",
		"database.name":                  "POSTGRES_DB",
		"database.user":                  "POSTGRES_USER",
		"database.password":              "POSTGRES_PASSWORD",
		"database.sslmode":               "DATABASE_SSLMODE",
		"redis.host":                     "REDIS_HOST",
		"redis.port":                     "REDIS_PORT",
		"auth.secret":                    "AUTH_SECRET",
		"auth.session_ttl":               "AUTH_SESSION_TTL",
		"auth.cookie_domain":             "AUTH_COOKIE_DOMAIN",
		"auth.login_rate_limit":          "AUTH_LOGIN_RATE_LIMIT",
		"auth.login_lock_threshold":      "AUTH_LOGIN_LOCK_THRESHOLD",
		"auth.login_lock_ttl":            "AUTH_LOGIN_LOCK_TTL",
		"admin.email":                    "ADMIN_EMAIL",
		"admin.password":                 "ADMIN_PASSWORD",
		"admin.name":                     "ADMIN_NAME",
		"init.secret":                    "INIT_SECRET",
		"init.seed_file":                 "SEED_FILE",
		"media.provider":                 "MEDIA_PROVIDER",
		"media.folder":                   "MEDIA_FOLDER",
		"media.cloudinary.cloud_name":    "CLOUDINARY_CLOUD_NAME",
		"media.cloudinary.api_key":       "CLOUDINARY_API_KEY",
		"media.cloudinary.api_secret":    "CLOUDINARY_API_SECRET",
		"media.minio.endpoint":           "MINIO_ENDPOINT",
		"media.minio.public_endpoint":    "MINIO_PUBLIC_ENDPOINT",
		"media.minio.access_key_id":      "MINIO_ACCESS_KEY_ID",
		"media.minio.secret_access_key":  "MINIO_SECRET_ACCESS_KEY",
		"media.minio.use_ssl":            "MINIO_USE_SSL",
		"media.minio.region":             "MINIO_REGION",
		"media.minio.bucket":             "MINIO_BUCKET",
		"media.minio.bucket_lookup":      "MINIO_BUCKET_LOOKUP",
		"media.minio.auto_create_bucket": "MINIO_AUTO_CREATE_BUCKET",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if err := validateDatabase(cfg.Database); err != nil {
		return err
	}
	if cfg.Redis.Enabled() && cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if strings.TrimSpace(cfg.Auth.Secret) == "" {
		return errors.New("auth secret is required")
	}
	if cfg.Auth.SessionTTL <= 0 {
		return errors.New("auth session ttl must be positive")
	}
	switch cfg.Media.Provider {
	case MediaCloudinary:
		c := cfg.Media.Cloudinary
		if c.CloudName == "" || c.APIKey == "" || c.APISecret == "" {
			return errors.New("cloudinary cloud name, api key and api secret are required")
		}
	case MediaMinIO:
		m := cfg.Media.MinIO
		if m.Endpoint == "" {
			return errors.New("minio endpoint is required")
		}
		if m.AccessKeyID == "" {
			return errors.New("minio access key id is required")
		}
		if m.SecretAccessKey == "" {
			return errors.New("minio secret access key is required")
		}
		if m.Bucket == "" {
			return errors.New("minio bucket is required")
		}
	default:
		return fmt.Errorf("unsupported media provider %q", cfg.Media.Provider)
	}
	return nil
}

func validateDatabase(db DatabaseConfig) error {
	switch db.Driver {
	case DriverPostgres, DriverMySQL:
		if strings.TrimSpace(db.URL) == "" {
			if db.Host == "" {
				return errors.New("database host is required")
			}
			if db.Port <= 0 {
				return errors.New("database port must be positive")
			}
			if db.User == "" {
				return errors.New("database user is required")
			}
			if db.Password == "" {
				return errors.New("database password is required")
			}
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", db.Driver)
	}
	if strings.TrimSpace(db.URL) == "" && db.Name == "" {
		return errors.New("database name is required")
	}
	return nil
}
