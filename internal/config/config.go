// Package config loads the itemsapi server settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/reoring/skemapi/httpapi"
)

// Config captures the server settings.
//
// Example YAML:
//
//	addr: ":8000"
//	json_driver: gojson
//	log:
//	  level: debug
//	store:
//	  kind: redis
//	  redis_addr: localhost:6379
//
// Unknown keys are rejected so typos surface early.
type Config struct {
	Addr            string        `yaml:"addr"`
	Title           string        `yaml:"title"`
	Version         string        `yaml:"version"`
	Description     string        `yaml:"description"`
	OpenAPIURL      string        `yaml:"openapi_url"`
	DocsURL         string        `yaml:"docs_url"`
	JSONDriver      string        `yaml:"json_driver"`
	Language        string        `yaml:"language"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Log             Log           `yaml:"log"`
	Store           Store         `yaml:"store"`
}

type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type Store struct {
	Kind      string `yaml:"kind"`
	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`
	KeyPrefix string `yaml:"key_prefix"`
}

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"

	DriverStd    = "std"
	DriverGoJSON = "gojson"
)

// Default returns the settings used when no file is given.
func Default() *Config {
	h := httpapi.DefaultConfig()
	return &Config{
		Addr:            ":8000",
		Title:           h.Title,
		Version:         h.Version,
		OpenAPIURL:      h.OpenAPIURL,
		DocsURL:         h.DocsURL,
		JSONDriver:      DriverStd,
		Language:        "en",
		MaxBodyBytes:    h.MaxBodyBytes,
		ShutdownTimeout: 10 * time.Second,
		Log:             Log{Level: "info"},
		Store:           Store{Kind: StoreMemory, RedisAddr: "localhost:6379", KeyPrefix: "items"},
	}
}

// Load reads the YAML file at path on top of Default. An empty path, or a
// path that does not exist, yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// LoadFS is Load on an fs.FS.
func LoadFS(fsys fs.FS, name string) (*Config, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", name, err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", name, err)
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	switch c.JSONDriver {
	case DriverStd, DriverGoJSON:
	default:
		return fmt.Errorf("unknown json driver %q", c.JSONDriver)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("max_body_bytes must not be negative")
	}
	return nil
}

// HTTP returns the application settings.
func (c *Config) HTTP() httpapi.Config {
	return httpapi.Config{
		Title:        c.Title,
		Version:      c.Version,
		Description:  c.Description,
		OpenAPIURL:   c.OpenAPIURL,
		DocsURL:      c.DocsURL,
		MaxBodyBytes: c.MaxBodyBytes,
	}
}

// Logger builds a zap logger: production encoding unless Development is
// set, at the configured level.
func (c *Config) Logger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}
