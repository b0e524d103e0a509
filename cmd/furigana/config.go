package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the furigana configuration file
// (~/.config/furigana/config.yaml). Pointers distinguish "not set" from zero.
type Config struct {
	ServerAddress  string   `yaml:"server_address"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	Dictionary    string `yaml:"dictionary"`
	DictPath      string `yaml:"dict_path"`
	ReadingField  *int64 `yaml:"reading_field"`
	TokenizerMode string `yaml:"tokenizer_mode"`
	TaggerReuse   *bool  `yaml:"tagger_reuse"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "furigana", "config.yaml")
}

// LoadConfig reads the config file. An explicit path must exist and parse;
// the default path is optional and yields a zero Config when missing.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = configPath()
	}
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyLoggingConfig applies config file defaults to the global logging
// flags when they were not set on the command line.
func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyTaggerConfig applies config file defaults to the dictionary and
// tokenizer flags.
func applyTaggerConfig(c *cli.Command, cfg Config) {
	if cfg.Dictionary != "" && !c.IsSet("dict") {
		dictName = cfg.Dictionary
	}
	if cfg.DictPath != "" && !c.IsSet("dict-path") {
		dictPath = cfg.DictPath
	}
	if cfg.ReadingField != nil && !c.IsSet("reading-field") {
		readingField = *cfg.ReadingField
	}
	if cfg.TokenizerMode != "" && !c.IsSet("mode") {
		tokenizeMode = cfg.TokenizerMode
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string, origins *[]string) {
	applyTaggerConfig(c, cfg)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if len(cfg.AllowedOrigins) > 0 && !c.IsSet("allow-origin") {
		*origins = cfg.AllowedOrigins
	}
	if cfg.TaggerReuse != nil && !c.IsSet("reuse-tagger") {
		reuseTagger = *cfg.TaggerReuse
	}
}
