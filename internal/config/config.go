package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/compayre/backend/internal/pkg/constants"
	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL  string
	HTTPAddr     string
	CORSOrigins  []string
	JWTSecret    string
	LogLevel     string
	LogDev       bool
	UpsertPolicy string
	UploadDir    string
}

// SetDefaults регистрирует значения по умолчанию и источники конфигурации:
// переменные окружения COMPAYRE_* и необязательный config.yaml.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(constants.ViperHTTPAddrKey, ":8080")
	v.SetDefault(constants.ViperCORSOriginsKey, []string{"http://localhost:3000"})
	v.SetDefault(constants.ViperLogLevelKey, "info")
	v.SetDefault(constants.ViperLogDevKey, false)
	v.SetDefault(constants.ViperUpsertPolicyKey, "fill")
	v.SetDefault(constants.ViperUploadDirKey, "")

	v.SetEnvPrefix("compayre")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/compayre")
}

// Load читает config.yaml, если он есть, и собирает Config.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:  strings.TrimSpace(v.GetString(constants.ViperDatabaseURLKey)),
		HTTPAddr:     v.GetString(constants.ViperHTTPAddrKey),
		CORSOrigins:  v.GetStringSlice(constants.ViperCORSOriginsKey),
		JWTSecret:    strings.TrimSpace(v.GetString(constants.ViperSecretKey)),
		LogLevel:     strings.ToLower(v.GetString(constants.ViperLogLevelKey)),
		LogDev:       v.GetBool(constants.ViperLogDevKey),
		UpsertPolicy: strings.ToLower(strings.TrimSpace(v.GetString(constants.ViperUpsertPolicyKey))),
		UploadDir:    v.GetString(constants.ViperUploadDirKey),
	}

	switch cfg.UpsertPolicy {
	case "fill", "overwrite":
	default:
		return nil, fmt.Errorf("unknown upsert policy %q", cfg.UpsertPolicy)
	}

	return cfg, nil
}

func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("database url is required (COMPAYRE_DATABASE_URL)")
	}
	return nil
}

func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return errors.New("jwt secret is required (COMPAYRE_AUTH_JWT_SECRET)")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt secret must be at least 32 characters")
	}
	return nil
}
