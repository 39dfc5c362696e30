package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "local",
			cfg:  DatabaseConfig{Host: "localhost", Port: 5432, User: "kiban", Password: "secret", Database: "kiban_dev", SSLMode: "disable"},
			want: "host=localhost port=5432 user=kiban password=secret dbname=kiban_dev sslmode=disable",
		},
		{
			name: "remote with tls",
			cfg:  DatabaseConfig{Host: "db.example.com", Port: 5433, User: "app", Password: "p4ss", Database: "kiban", SSLMode: "require"},
			want: "host=db.example.com port=5433 user=app password=p4ss dbname=kiban sslmode=require",
		},
		{
			name: "IPv6 host",
			cfg:  DatabaseConfig{Host: "::1", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"},
			want: "host=::1 port=5432 user=u password=p dbname=d sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.ConnectionString())
		})
	}
}

func TestInitConfig_Defaults(t *testing.T) {
	for _, env := range []string{"", "dev", "test", "prod"} {
		t.Run("env="+env, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)

			require.NoError(t, InitConfig(env))

			wantEnv := env
			if wantEnv == "" {
				wantEnv = "dev"
			}
			assert.Equal(t, wantEnv, viper.GetString("ENV"))
			assert.Equal(t, "0.0.0.0", viper.GetString("SERVER_HOST"))
			assert.Equal(t, 3000, viper.GetInt("SERVER_PORT"))
			assert.Equal(t, 50051, viper.GetInt("GRPC_PORT"))
			assert.Equal(t, 9090, viper.GetInt("METRICS_PORT"))
			assert.Equal(t, "*", viper.GetString("CORS_ALLOWED_ORIGINS"))
			assert.True(t, viper.GetBool("AUTO_MIGRATE"))
			assert.Equal(t, "info", viper.GetString("LOG_LEVEL"))
			assert.Equal(t, "kiban", viper.GetString("DB_USER"))
			assert.Equal(t, "disable", viper.GetString("DB_SSLMODE"))
		})
	}
}

func TestInitConfig_EnvironmentOverridesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("AUTO_MIGRATE", "false")

	require.NoError(t, InitConfig("test"))
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8081", cfg.Server.Addr())
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.False(t, cfg.Server.AutoMigrate)
	assert.Equal(t, "test", cfg.Env)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		setup   func()
		wantErr string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults plus password",
			setup: func() {
				_ = InitConfig("test")
				viper.Set("DB_PASSWORD", "testpassword")
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0:3000", cfg.Server.Addr())
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "testpassword", cfg.Database.Password)
				assert.Equal(t, "kiban_dev", cfg.Database.Database)
				assert.Equal(t, 25, cfg.Database.MaxOpenConns)
				assert.Equal(t, 5, cfg.Database.MaxIdleConns)
				assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
				assert.Equal(t, "info", cfg.Log.Level)
			},
		},
		{
			name: "missing password",
			setup: func() {
				viper.SetDefault("SERVER_PORT", 3000)
			},
			wantErr: "DB_PASSWORD is required (set via environment variable or .env file)",
		},
		{
			name: "custom server",
			setup: func() {
				viper.Set("DB_PASSWORD", "pass123")
				viper.Set("SERVER_HOST", "custom.host")
				viper.Set("SERVER_PORT", 8080)
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "custom.host:8080", cfg.Server.Addr())
			},
		},
		{
			name: "cors origins list",
			setup: func() {
				viper.Set("DB_PASSWORD", "pass123")
				viper.Set("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSAllowedOrigins)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			tt.setup()

			cfg, err := Load()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , ,"))
	assert.Equal(t, []string{"*"}, splitList("*"))
	assert.Equal(t, []string{"a", "b"}, splitList(" a,b "))
}

func TestFindProjectRoot(t *testing.T) {
	root, err := findProjectRoot()
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "go.mod"))
	assert.NoError(t, err)
}
