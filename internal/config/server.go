package config

import (
	"strings"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is used when JWT_SECRET is unset. Servers started with it log a warning.
const DefaultJWTSecret = "dev-secret"

// ServerConfig holds the Remote Store runtime configuration.
type ServerConfig struct {
	Port               int    `mapstructure:"PORT"`
	Env                string `mapstructure:"APP_ENV"` // development | production
	LogLevel           string `mapstructure:"LOG_LEVEL"`
	DBDriver           string `mapstructure:"DB_DRIVER"` // sqlite | postgres
	DatabaseURL        string `mapstructure:"DATABASE_URL"`
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// LoadServer reads configuration from environment variables (and an optional .env file).
func LoadServer() (*ServerConfig, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("PORT", 3001)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "server-data/pdv-server.db")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("JWT_EXPIRATION_HOURS", 168)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	// .env is optional
	_ = v.ReadInConfig()

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	return cfg, nil
}

// IsDevelopment reports whether APP_ENV is development.
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *ServerConfig) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
