// Package config holds the settings of the duc command line tools.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/ducflair/duc-sub001/duccbor"
	"github.com/ducflair/duc-sub001/pkg/constants"
	"github.com/ducflair/duc-sub001/pkg/models"
)

// Config holds all configuration options of the duc tools
type Config struct {
	// Minimum log level: trace, debug, info, warn or error
	LogLevel string `yaml:"log_level"`
	// Log file path; logs go to stderr when empty
	LogFile string `yaml:"log_file"`

	Limits  LimitsConfig  `yaml:"limits"`
	History HistoryConfig `yaml:"history"`
	Storage StorageConfig `yaml:"storage"`

	// Half extent of the square coordinate envelope used by validate
	Envelope float64 `yaml:"envelope"`
}

// LimitsConfig bounds the work done decoding untrusted documents
type LimitsConfig struct {
	MaxNestedLevels     int    `yaml:"max_nested_levels"`
	MaxArrayElements    int    `yaml:"max_array_elements"`
	MaxMapPairs         int    `yaml:"max_map_pairs"`
	MaxByteStringLength uint64 `yaml:"max_byte_string_length"`
}

// HistoryConfig controls version graph reconstruction and pruning
type HistoryConfig struct {
	MaxHops      int    `yaml:"max_hops"`
	PruningLevel string `yaml:"pruning_level"`
}

// StorageConfig locates the SQLite history store
type StorageConfig struct {
	// Database path; empty disables the store
	Path        string        `yaml:"path"`
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	limits := duccbor.DefaultLimits()
	return &Config{
		LogLevel: "info",
		Limits: LimitsConfig{
			MaxNestedLevels:     limits.MaxNestedLevels,
			MaxArrayElements:    limits.MaxArrayElements,
			MaxMapPairs:         limits.MaxMapPairs,
			MaxByteStringLength: limits.MaxByteStringLength,
		},
		History: HistoryConfig{
			MaxHops:      constants.DefaultMaxDeltaHops,
			PruningLevel: models.PruningLevelBalanced.String(),
		},
		Storage: StorageConfig{
			BusyTimeout: 5 * time.Second,
		},
		Envelope: 14400,
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := NewConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.Required, validation.In("trace", "debug", "info", "warn", "error")),
		validation.Field(&c.Limits),
		validation.Field(&c.History),
		validation.Field(&c.Storage),
		validation.Field(&c.Envelope, validation.Required, validation.Min(1.0)),
	)
}

func (l LimitsConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.MaxNestedLevels, validation.Required, validation.Min(1)),
		validation.Field(&l.MaxArrayElements, validation.Required, validation.Min(16)),
		validation.Field(&l.MaxMapPairs, validation.Required, validation.Min(16)),
		validation.Field(&l.MaxByteStringLength, validation.Required),
	)
}

func (h HistoryConfig) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.MaxHops, validation.Required, validation.Min(1)),
		validation.Field(&h.PruningLevel, validation.Required, validation.In(
			models.PruningLevelConservative.String(),
			models.PruningLevelBalanced.String(),
			models.PruningLevelAggressive.String(),
		)),
	)
}

func (s StorageConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.BusyTimeout, validation.Min(time.Duration(0))),
	)
}

// Level is the parsed log level.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// DecodeLimits converts the limits section for the decoder.
func (c *Config) DecodeLimits() duccbor.Limits {
	return duccbor.Limits{
		MaxNestedLevels:     c.Limits.MaxNestedLevels,
		MaxArrayElements:    c.Limits.MaxArrayElements,
		MaxMapPairs:         c.Limits.MaxMapPairs,
		MaxByteStringLength: c.Limits.MaxByteStringLength,
	}
}

// PruningLevel is the parsed history pruning level.
func (c *Config) PruningLevel() (models.PruningLevel, error) {
	return models.ParsePruningLevel(c.History.PruningLevel)
}

// EnvelopeBounds is the square validation envelope centred on the origin.
func (c *Config) EnvelopeBounds() models.Bounds {
	return models.Bounds{MinX: -c.Envelope, MinY: -c.Envelope, MaxX: c.Envelope, MaxY: c.Envelope}
}
