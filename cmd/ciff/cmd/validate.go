// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bep/ciff/internal/batch"
)

var errInvalidFiles = errors.New("not all files are valid CIFF images")

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <file or dir>...",
	Short: "Validate CIFF files",
	Long: `Validate one or more CIFF files. Directories are searched recursively
for files with one of the configured extensions.

The command exits with a non-zero status if any file is invalid.

Example:
  ciff validate images/
  ciff validate --json --jobs 8 a.ciff b.ciff`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		jobs := a.cfg.Batch.Jobs
		if flags.Changed("jobs") {
			jobs, _ = flags.GetInt("jobs")
		}
		extensions := a.cfg.Batch.Extensions
		if flags.Changed("ext") {
			extensions, _ = flags.GetStringSlice("ext")
		}
		asJSON, _ := flags.GetBool("json")
		reportDir, _ := flags.GetString("report-dir")

		files, err := batch.Collect(args, extensions)
		if err != nil {
			return err
		}

		report, err := batch.Run(cmd.Context(), files, batch.Options{
			Jobs:   jobs,
			Decode: a.opts,
			Logger: a.logger,
		})
		if err != nil {
			return err
		}

		if asJSON {
			err = report.WriteJSON(cmd.OutOrStdout())
		} else {
			err = report.WriteText(cmd.OutOrStdout())
		}
		if err != nil {
			return err
		}

		if reportDir != "" {
			filename, err := report.Save(reportDir)
			if err != nil {
				return err
			}
			a.logger.Info("saved report", "file", filename)
		}

		if report.Invalid > 0 {
			return fmt.Errorf("%d of %d: %w", report.Invalid, len(report.Results), errInvalidFiles)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().IntP("jobs", "j", 0, "Number of files to validate in parallel (default from config)")
	validateCmd.Flags().StringSlice("ext", nil, "File extensions to pick up in directories (default from config)")
	validateCmd.Flags().Bool("json", false, "Write the report as JSON")
	validateCmd.Flags().String("report-dir", "", "Also save the JSON report in this directory")
}
