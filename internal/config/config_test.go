package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_SECRET", "secret")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "shh")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, MediaCloudinary, cfg.Media.Provider)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.App.IsDev())
	assert.Equal(t, "secret", cfg.InitSecret())
	assert.Equal(t,
		"host=localhost port=5432 user=portfolio password=portfolio dbname=portfolio sslmode=disable",
		cfg.Database.DSN())
}

func TestLoadOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("API_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("POSTGRES_DB", "portfolio.db")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("AUTH_SESSION_TTL", "2h")
	t.Setenv("INIT_SECRET", " init ")
	t.Setenv("ADMIN_EMAIL", "me@example.com")
	t.Setenv("ADMIN_PASSWORD", "password123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.App.IsDev())
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "portfolio.db", cfg.Database.DSN())
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "init", cfg.InitSecret())
	assert.True(t, cfg.Admin.Configured())
}

func TestDatabaseURLWins(t *testing.T) {
	d := DatabaseConfig{Driver: DriverPostgres, URL: "postgres://u:p@db/x", Host: "ignored"}
	assert.Equal(t, "postgres://u:p@db/x", d.DSN())

	d = DatabaseConfig{Driver: DriverMySQL, Host: "db", Port: 3306, User: "u", Password: "p", Name: "x"}
	assert.Equal(t, "u:p@tcp(db:3306)/x?charset=utf8mb4&parseTime=True&loc=Local", d.DSN())
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing auth secret", map[string]string{"AUTH_SECRET": ""}, "auth secret is required"},
		{"bad driver", map[string]string{"DATABASE_DRIVER": "oracle"}, "unsupported database driver"},
		{"bad provider", map[string]string{"MEDIA_PROVIDER": "s3"}, "unsupported media provider"},
		{"cloudinary creds", map[string]string{"CLOUDINARY_API_KEY": ""}, "cloudinary"},
		{"minio creds", map[string]string{"MEDIA_PROVIDER": "minio"}, "minio access key id is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadDatabaseSkipsMediaAndAuth(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("MEDIA_PROVIDER", "minio")

	cfg, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)

	t.Setenv("DATABASE_DRIVER", "oracle")
	_, err = LoadDatabase()
	assert.Error(t, err)
}

func TestAdminConfigured(t *testing.T) {
	assert.False(t, AdminConfig{Email: " ", Password: "x"}.Configured())
	assert.False(t, AdminConfig{Email: "a@b.c"}.Configured())
	assert.True(t, AdminConfig{Email: "a@b.c", Password: "x"}.Configured())
}
