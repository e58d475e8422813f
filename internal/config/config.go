// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package config holds the configuration of the ciff command.
package config

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bep/ciff"
)

// Config represents the ciff command configuration.
type Config struct {
	Decode  Decode  `yaml:"decode"`
	Batch   Batch   `yaml:"batch"`
	Logging Logging `yaml:"logging"`
}

// Decode contains the decoder limits and format settings.
type Decode struct {
	// ByteOrder is either "little" or "big".
	ByteOrder          string `yaml:"byte_order"`
	MaxHeaderSize      uint64 `yaml:"max_header_size"`
	MaxContentSize     uint64 `yaml:"max_content_size"`
	AllowHeaderPadding bool   `yaml:"allow_header_padding"`
}

// Batch contains settings for validating many files.
type Batch struct {
	Jobs       int      `yaml:"jobs"`
	Extensions []string `yaml:"extensions"`
}

// Logging contains logging configuration.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Decode: Decode{
			ByteOrder:      "little",
			MaxHeaderSize:  ciff.DefaultMaxHeaderSize,
			MaxContentSize: ciff.DefaultMaxContentSize,
		},
		Batch: Batch{
			Jobs:       4,
			Extensions: []string{".ciff"},
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from the specified path.
// Values missing in the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path.
func SaveConfig(config *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	if _, err := parseByteOrder(c.Decode.ByteOrder); err != nil {
		return err
	}
	if c.Batch.Jobs < 0 {
		return fmt.Errorf("batch.jobs must not be negative, got %d", c.Batch.Jobs)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}
	return nil
}

// Options returns the decoder options for this configuration.
func (c *Config) Options() (ciff.Options, error) {
	byteOrder, err := parseByteOrder(c.Decode.ByteOrder)
	if err != nil {
		return ciff.Options{}, err
	}
	return ciff.Options{
		ByteOrder:          byteOrder,
		MaxHeaderSize:      c.Decode.MaxHeaderSize,
		MaxContentSize:     c.Decode.MaxContentSize,
		AllowHeaderPadding: c.Decode.AllowHeaderPadding,
	}, nil
}

func parseByteOrder(s string) (binary.ByteOrder, error) {
	switch strings.ToLower(s) {
	case "", "little", "le":
		return binary.LittleEndian, nil
	case "big", "be":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("unknown byte order %q", s)
	}
}
