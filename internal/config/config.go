package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Mail     *MailConfig     `mapstructure:"mail"`
	Scoring  *ScoringConfig  `mapstructure:"scoring"`

	v *viper.Viper
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	InviteTokenTTL     time.Duration `mapstructure:"invite_token_ttl"`
	GroupInviteTTL     time.Duration `mapstructure:"group_invite_ttl"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"ssl_mode"`
	URL      string `mapstructure:"url"`
}

// DSN prefers a full connection URL (DATABASE_URL) over the discrete fields.
func (c *PostgresConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode,
	)
}

type MailConfig struct {
	From           string `mapstructure:"from"`
	ConfirmBaseURL string `mapstructure:"confirm_base_url"`
}

type ScoringConfig struct {
	Multipliers map[string]float64 `mapstructure:"multipliers"`
}

// Load reads the YAML file at path. Every key can be overridden by an
// environment variable, e.g. api.port by API_PORT.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := v.BindEnv("postgres.url", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("v.BindEnv -> %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{v: v}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if conf.API.JWTSigningKey == "" {
		return nil, fmt.Errorf("api.jwt_signing_key is required")
	}

	return conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "dev")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:3000"})
	v.SetDefault("api.invite_token_ttl", 72*time.Hour)
	v.SetDefault("api.group_invite_ttl", 7*24*time.Hour)
	v.SetDefault("api.shutdown_timeout", 5*time.Second)
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("mail.from", "noreply@jasstafel.ch")
}

// OnScoringChange watches the config file and calls fn with the re-read
// scoring section whenever the file changes.
func (c *AppConfig) OnScoringChange(fn func(ScoringConfig)) {
	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		var scoring ScoringConfig
		if err := c.v.UnmarshalKey("scoring", &scoring); err != nil {
			zap.L().Error("failed to reload scoring config", zap.String("file", e.Name), zap.Error(err))
			return
		}
		zap.L().Info("scoring config reloaded", zap.String("file", e.Name))

		fn(scoring)
	})
	c.v.WatchConfig()
}
