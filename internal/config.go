package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppName string `mapstructure:"app_name"`

	Catalog struct {
		Path   string `mapstructure:"path"`
		Format string `mapstructure:"format"` // json | yaml
	} `mapstructure:"catalog"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

var ErrBadConfig = errors.New("config: invalid value")

// LoadConfig reads path (YAML) if given, then applies TUPLEDESC_* env
// overrides, e.g. TUPLEDESC_CATALOG_PATH.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("app_name", "tupledesc")
	v.SetDefault("catalog.path", "./data/catalog.json")
	v.SetDefault("catalog.format", "json")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("tupledesc")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	switch cfg.Catalog.Format {
	case "json", "yaml":
	default:
		return nil, fmt.Errorf("%w: catalog.format %q", ErrBadConfig, cfg.Catalog.Format)
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrBadConfig, c.Log.Level)
	}
	return lvl, nil
}
