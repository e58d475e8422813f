// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bep/ciff"
	"github.com/bep/ciff/internal/config"
	"github.com/bep/ciff/internal/logging"
)

type appKey struct{}

// app is what every subcommand gets from the root command.
type app struct {
	cfg    *config.Config
	opts   ciff.Options
	logger *slog.Logger
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ciff",
	Short: "Validate, inspect and convert CIFF images",
	Long: `ciff validates CIFF images and converts them to and from other image formats.

Configuration is read from the file given with --config, if any;
flags override values from the file.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to a YAML config file")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (text, json)")
	flags.String("byte-order", "", "Byte order of the size fields (little, big)")
	flags.Uint64("max-header-size", 0, "Largest accepted header size in bytes")
	flags.Uint64("max-content-size", 0, "Largest accepted content size in bytes")
	flags.Bool("allow-header-padding", false, "Accept empty tags inside the header region")
}

func setupApp(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	cfg := config.DefaultConfig()
	if configPath, _ := flags.GetString("config"); configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(configPath); err != nil {
			return err
		}
	}

	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format, _ = flags.GetString("log-format")
	}
	if flags.Changed("byte-order") {
		cfg.Decode.ByteOrder, _ = flags.GetString("byte-order")
	}
	if flags.Changed("max-header-size") {
		cfg.Decode.MaxHeaderSize, _ = flags.GetUint64("max-header-size")
	}
	if flags.Changed("max-content-size") {
		cfg.Decode.MaxContentSize, _ = flags.GetUint64("max-content-size")
	}
	if flags.Changed("allow-header-padding") {
		cfg.Decode.AllowHeaderPadding, _ = flags.GetBool("allow-header-padding")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return err
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, &app{cfg: cfg, opts: opts, logger: logger}))
	return nil
}

func appFrom(cmd *cobra.Command) (*app, error) {
	a, ok := cmd.Context().Value(appKey{}).(*app)
	if !ok {
		return nil, fmt.Errorf("command %q is not set up", cmd.Name())
	}
	return a, nil
}

// decodeFile decodes filename and turns an invalid result into an error.
func (a *app) decodeFile(filename string) (*ciff.Record, error) {
	opts := a.opts
	opts.Warnf = logging.Warnf(a.logger, "path", filename)
	res := ciff.DecodeFile(filename, opts)
	if !res.Valid() {
		return nil, fmt.Errorf("%s: %w", filename, res.Err)
	}
	return res.Record, nil
}
