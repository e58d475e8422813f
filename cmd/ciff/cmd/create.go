// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package cmd

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/bep/ciff"
)

func createRecord(inFilename, outFilename, caption string, tags []string, opts ciff.Options) (*ciff.Record, error) {
	in, err := os.Open(inFilename)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	img, _, err := image.Decode(bufio.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", inFilename, err)
	}

	r, err := ciff.FromImage(img, caption, tags)
	if err != nil {
		return nil, err
	}

	out, err := os.Create(outFilename)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	if err := ciff.Encode(out, r, opts); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outFilename, err)
	}
	return r, out.Close()
}

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create <in> <out.ciff>",
	Short: "Create a CIFF file from a PNG, JPEG, GIF, BMP, TIFF or WebP image",
	Long: `Create a CIFF file from another image.

Example:
  ciff create --caption "Sunrise" --tag spain --tag morning sunrise.jpg sunrise.ciff`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		caption, _ := cmd.Flags().GetString("caption")
		tags, _ := cmd.Flags().GetStringArray("tag")

		r, err := createRecord(args[0], args[1], caption, tags, a.opts)
		if err != nil {
			return err
		}
		a.logger.Info("created", "file", args[1], "width", r.Width(), "height", r.Height(), "tags", len(tags))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().String("caption", "", "Image caption (no line feeds)")
	createCmd.Flags().StringArray("tag", nil, "Image tag, may be repeated")
}
