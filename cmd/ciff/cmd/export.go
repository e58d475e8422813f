// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/bep/ciff"
)

// formatFromFilename maps an output file extension to an export format.
func formatFromFilename(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return ext
}

// scaleImage resizes img by factor. A factor of 1 returns img as is.
func scaleImage(img image.Image, factor float64) (image.Image, error) {
	if factor == 1 {
		return img, nil
	}
	if factor <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %g", factor)
	}
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*factor))
	h := max(1, int(float64(b.Dy())*factor))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst, nil
}

func encodeImage(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case "ciff":
		r, err := ciff.FromImage(img, "", nil)
		if err != nil {
			return err
		}
		return ciff.Encode(w, r, ciff.Options{})
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func exportRecord(r *ciff.Record, filename, format string, factor float64) error {
	if format == "" {
		format = formatFromFilename(filename)
	}
	src, err := r.Image()
	if err != nil {
		return err
	}
	img, err := scaleImage(src, factor)
	if err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := encodeImage(f, img, format); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return f.Close()
}

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <in.ciff> <out>",
	Short: "Convert a CIFF file to PNG, JPEG, BMP or TIFF",
	Long: `Convert a CIFF file to another image format. The format is taken from
the output file's extension unless --format is set.

Example:
  ciff export photo.ciff photo.png
  ciff export --scale 0.5 --format tiff photo.ciff small.out`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		factor, _ := cmd.Flags().GetFloat64("scale")

		r, err := a.decodeFile(args[0])
		if err != nil {
			return err
		}
		if err := exportRecord(r, args[1], format, factor); err != nil {
			return err
		}
		a.logger.Info("exported", "from", args[0], "to", args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("format", "", "Output format (png, jpeg, bmp, tiff)")
	exportCmd.Flags().Float64("scale", 1, "Scale factor applied before writing")
}
