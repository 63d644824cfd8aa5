package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`

	// Incident data source. Postgres wins when DATABASE_URL is set, then the
	// upstream occurrence backend, then the built-in fixture dataset.
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	MigrationsDir    string        `mapstructure:"MIGRATIONS_DIR"`
	UpstreamURL      string        `mapstructure:"UPSTREAM_URL"`
	UpstreamContract string        `mapstructure:"UPSTREAM_CONTRACT"`
	FixtureDelay     time.Duration `mapstructure:"FIXTURE_DELAY"`

	// User service; empty means the mock authenticator.
	AuthURL string `mapstructure:"AUTH_URL"`

	GeocodeBaseURL   string `mapstructure:"GEOCODE_BASE_URL"`
	GeocodeUserAgent string `mapstructure:"GEOCODE_USER_AGENT"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("UPSTREAM_CONTRACT", "legacy")
	v.SetDefault("FIXTURE_DELAY", "800ms")
	v.SetDefault("GEOCODE_USER_AGENT", "alerta-conecta-mobile")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
