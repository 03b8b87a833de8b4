// Package config loads canonjson command line settings from flags,
// environment variables and an optional .canonjson.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/canonjson"
	"github.com/wippyai/canonjson/canonical"
	"github.com/wippyai/canonjson/digest"
	cerrors "github.com/wippyai/canonjson/errors"
	"github.com/wippyai/canonjson/snapshot"
)

// EnvPrefix prefixes environment overrides, e.g. CANONJSON_FORMAT.
const EnvPrefix = "CANONJSON"

// FileName is the config file looked up in the working and home directories.
const FileName = ".canonjson"

// Config holds resolved CLI settings.
type Config struct {
	Format      string `mapstructure:"format"`
	Indent      string `mapstructure:"indent"`
	Digest      string `mapstructure:"digest"`
	Compression string `mapstructure:"compression"`
	Store       string `mapstructure:"store"`
	LogLevel    string `mapstructure:"log_level"`
	MaxDepth    int    `mapstructure:"max_depth"`
	TypeTags    bool   `mapstructure:"type_tags"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Format:      "json",
		Digest:      "blake3",
		Compression: "zstd",
		Store:       ".canonjson/store",
		LogLevel:    "warn",
		MaxDepth:    canonical.DefaultMaxDepth,
		TypeTags:    true,
	}
}

// flag name -> config key
var flagKeys = map[string]string{
	"format":      "format",
	"indent":      "indent",
	"digest":      "digest",
	"compression": "compression",
	"store":       "store",
	"log-level":   "log_level",
	"max-depth":   "max_depth",
	"type-tags":   "type_tags",
}

// Load resolves settings with precedence flags > environment > file >
// defaults. An empty path searches for FileName; a missing file is not an
// error unless path names it explicitly.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("format", def.Format)
	v.SetDefault("indent", def.Indent)
	v.SetDefault("digest", def.Digest)
	v.SetDefault("compression", def.Compression)
	v.SetDefault("store", def.Store)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("max_depth", def.MaxDepth)
	v.SetDefault("type_tags", def.TypeTags)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every enumerated setting.
func (c *Config) Validate() error {
	if _, err := canonjson.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := digest.ParseAlgorithm(c.Digest); err != nil {
		return cerrors.Wrap(cerrors.PhaseConfig, cerrors.KindInvalidInput, err, "digest")
	}
	if _, err := snapshot.ParseCompression(c.Compression); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return cerrors.Wrap(cerrors.PhaseConfig, cerrors.KindInvalidInput, err, "log_level")
	}
	if c.MaxDepth < 1 {
		return cerrors.InvalidInput(cerrors.PhaseConfig, fmt.Sprintf("max_depth must be positive, got %d", c.MaxDepth))
	}
	return nil
}

// OutputFormat returns the parsed output format.
func (c *Config) OutputFormat() canonjson.Format {
	f, _ := canonjson.ParseFormat(c.Format)
	return f
}

// Algorithm returns the parsed digest algorithm.
func (c *Config) Algorithm() digest.Algorithm {
	a, _ := digest.ParseAlgorithm(c.Digest)
	return a
}

// Level returns the parsed log level.
func (c *Config) Level() zapcore.Level {
	l, _ := zapcore.ParseLevel(c.LogLevel)
	return l
}

// WriterOptions builds canonical writer options from the settings.
func (c *Config) WriterOptions() []canonical.Option {
	return []canonical.Option{
		canonical.WithTypeTags(c.TypeTags),
		canonical.WithMaxDepth(c.MaxDepth),
	}
}

// StoreOptions builds snapshot store options from the settings.
func (c *Config) StoreOptions() []snapshot.Option {
	comp, _ := snapshot.ParseCompression(c.Compression)
	return []snapshot.Option{
		snapshot.WithAlgorithm(c.Algorithm()),
		snapshot.WithCompression(comp),
		snapshot.WithWriter(canonical.NewWriter(c.WriterOptions()...)),
	}
}
