// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package config

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/bep/ciff"
)

func TestDefaultConfig(t *testing.T) {
	c := qt.New(t)

	cfg := DefaultConfig()
	c.Assert(cfg.Validate(), qt.IsNil)
	c.Assert(cfg.Batch.Jobs, qt.Equals, 4)

	opts, err := cfg.Options()
	c.Assert(err, qt.IsNil)
	c.Assert(opts.ByteOrder, qt.Equals, binary.ByteOrder(binary.LittleEndian))
	c.Assert(opts.MaxHeaderSize, qt.Equals, uint64(ciff.DefaultMaxHeaderSize))
	c.Assert(opts.MaxContentSize, qt.Equals, uint64(ciff.DefaultMaxContentSize))
}

func TestSaveAndLoadConfig(t *testing.T) {
	c := qt.New(t)

	configPath := filepath.Join(c.TempDir(), "nested", "ciff.yaml")

	cfg := DefaultConfig()
	cfg.Decode.ByteOrder = "big"
	cfg.Decode.AllowHeaderPadding = true
	cfg.Batch.Jobs = 8
	c.Assert(SaveConfig(cfg, configPath), qt.IsNil)

	loaded, err := LoadConfig(configPath)
	c.Assert(err, qt.IsNil)
	c.Assert(loaded, qt.DeepEquals, cfg)

	opts, err := loaded.Options()
	c.Assert(err, qt.IsNil)
	c.Assert(opts.ByteOrder, qt.Equals, binary.ByteOrder(binary.BigEndian))
	c.Assert(opts.AllowHeaderPadding, qt.IsTrue)
}

func TestLoadConfigPartial(t *testing.T) {
	c := qt.New(t)

	configPath := filepath.Join(c.TempDir(), "ciff.yaml")
	c.Assert(os.WriteFile(configPath, []byte("decode:\n  max_content_size: 1024\n"), 0o644), qt.IsNil)

	cfg, err := LoadConfig(configPath)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Decode.MaxContentSize, qt.Equals, uint64(1024))
	c.Assert(cfg.Decode.MaxHeaderSize, qt.Equals, uint64(ciff.DefaultMaxHeaderSize))
	c.Assert(cfg.Logging.Level, qt.Equals, "info")
}

func TestLoadConfigErrors(t *testing.T) {
	c := qt.New(t)

	_, err := LoadConfig(filepath.Join(c.TempDir(), "missing.yaml"))
	c.Assert(err, qt.ErrorMatches, "failed to read config file: .*")

	configPath := filepath.Join(c.TempDir(), "bad.yaml")
	c.Assert(os.WriteFile(configPath, []byte("decode:\n  byte_order: middle\n"), 0o644), qt.IsNil)
	_, err = LoadConfig(configPath)
	c.Assert(err, qt.ErrorMatches, `invalid config file .*: unknown byte order "middle"`)

	c.Assert(os.WriteFile(configPath, []byte("decode: [\n"), 0o644), qt.IsNil)
	_, err = LoadConfig(configPath)
	c.Assert(err, qt.ErrorMatches, "failed to parse config file: .*")
}
