// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bep/ciff"
)

var testImages = filepath.Join("..", "..", "..", "testdata", "images")

// resetFlags puts every flag back to its default, as the commands are package globals.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCmd(t testing.TB, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestValidate(t *testing.T) {
	c := qt.New(t)

	c.Run("Valid", func(c *qt.C) {
		out, _, err := runCmd(c, "validate", "--jobs", "2", filepath.Join(testImages, "valid"))
		c.Assert(err, qt.IsNil)
		c.Assert(out, qt.Contains, "5 valid, 0 invalid")
	})

	c.Run("Corrupt", func(c *qt.C) {
		out, stderr, err := runCmd(c, "validate", filepath.Join(testImages, "corrupt"))
		c.Assert(errors.Is(err, errInvalidFiles), qt.IsTrue)
		c.Assert(out, qt.Contains, "0 valid, 10 invalid")
		c.Assert(stderr, qt.Contains, "invalid CIFF file")
	})

	c.Run("JSON report", func(c *qt.C) {
		dir := c.TempDir()
		out, _, err := runCmd(c, "validate", "--json", "--report-dir", dir, filepath.Join(testImages, "valid", "red_1x1.ciff"))
		c.Assert(err, qt.IsNil)
		c.Assert(out, qt.Contains, `"valid": 1`)
		entries, err := os.ReadDir(dir)
		c.Assert(err, qt.IsNil)
		c.Assert(entries, qt.HasLen, 1)
	})

	c.Run("No matching extension", func(c *qt.C) {
		out, _, err := runCmd(c, "validate", "--ext", ".nope", filepath.Join(testImages, "valid"))
		c.Assert(err, qt.IsNil)
		c.Assert(out, qt.Contains, "0 valid, 0 invalid")
	})

	c.Run("Wrong byte order", func(c *qt.C) {
		_, _, err := runCmd(c, "validate", "--byte-order", "big", filepath.Join(testImages, "valid", "red_1x1.ciff"))
		c.Assert(errors.Is(err, errInvalidFiles), qt.IsTrue)
	})

	c.Run("Invalid byte order", func(c *qt.C) {
		_, _, err := runCmd(c, "validate", "--byte-order", "middle", filepath.Join(testImages, "valid"))
		c.Assert(err, qt.ErrorMatches, ".*unknown byte order.*")
	})
}

func TestInfo(t *testing.T) {
	c := qt.New(t)
	filename := filepath.Join(testImages, "valid", "latin1_2x2.ciff")

	out, _, err := runCmd(c, "info", filename)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Caption:      Benalmádena")
	c.Assert(out, qt.Contains, "Tags:         spain, café")
	c.Assert(out, qt.Contains, "Dimensions:   2x2")

	out, _, err = runCmd(c, "info", "--json", filename)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, `"header_size": 59`)

	_, _, err = runCmd(c, "info", filepath.Join(testImages, "corrupt", "trailing_byte.ciff"))
	c.Assert(err, qt.ErrorMatches, ".*TrailingData.*")
}

func TestExport(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()
	in := filepath.Join(testImages, "valid", "gradient_4x3.ciff")

	for _, name := range []string{"out.png", "out.bmp", "out.tif", "out.jpg"} {
		out := filepath.Join(dir, name)
		_, _, err := runCmd(c, "export", in, out)
		c.Assert(err, qt.IsNil, qt.Commentf("%s", name))

		f, err := os.Open(out)
		c.Assert(err, qt.IsNil)
		cfg, _, err := image.DecodeConfig(f)
		f.Close()
		c.Assert(err, qt.IsNil, qt.Commentf("%s", name))
		c.Assert(cfg.Width, qt.Equals, 4)
		c.Assert(cfg.Height, qt.Equals, 3)
	}

	scaled := filepath.Join(dir, "scaled.out")
	_, _, err := runCmd(c, "export", "--format", "png", "--scale", "2", in, scaled)
	c.Assert(err, qt.IsNil)
	f, err := os.Open(scaled)
	c.Assert(err, qt.IsNil)
	defer f.Close()
	img, err := png.Decode(f)
	c.Assert(err, qt.IsNil)
	c.Assert(img.Bounds().Dx(), qt.Equals, 8)
	c.Assert(img.Bounds().Dy(), qt.Equals, 6)

	_, _, err = runCmd(c, "export", in, filepath.Join(dir, "out.xyz"))
	c.Assert(err, qt.ErrorMatches, ".*unsupported export format.*")

	_, _, err = runCmd(c, "export", "--scale", "-1", in, filepath.Join(dir, "neg.png"))
	c.Assert(err, qt.ErrorMatches, ".*scale must be positive.*")
}

func TestCreate(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()

	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	src.Set(2, 1, color.NRGBA{B: 200, A: 255})
	var buf bytes.Buffer
	c.Assert(png.Encode(&buf, src), qt.IsNil)
	in := filepath.Join(dir, "in.png")
	c.Assert(os.WriteFile(in, buf.Bytes(), 0o644), qt.IsNil)

	out := filepath.Join(dir, "out.ciff")
	_, _, err := runCmd(c, "create", "--caption", "small", "--tag", "a", "--tag", "b,c", in, out)
	c.Assert(err, qt.IsNil)

	res := ciff.DecodeFile(out, ciff.Options{})
	c.Assert(res.Valid(), qt.IsTrue, qt.Commentf("%v", res.Err))
	r := res.Record
	c.Assert(r.Caption(), qt.Equals, "small")
	c.Assert(r.Tags(), qt.DeepEquals, []string{"a", "b,c"})
	c.Assert(r.Width(), qt.Equals, uint64(3))
	c.Assert(r.Height(), qt.Equals, uint64(2))
	p, ok := r.PixelAt(2, 1)
	c.Assert(ok, qt.IsTrue)
	c.Assert(p, qt.Equals, ciff.RGB{B: 200})

	_, _, err = runCmd(c, "create", "--caption", "two\nlines", in, filepath.Join(dir, "bad.ciff"))
	c.Assert(err, qt.ErrorMatches, ".*line feed.*")

	_, _, err = runCmd(c, "create", filepath.Join(dir, "missing.png"), filepath.Join(dir, "x.ciff"))
	c.Assert(err, qt.IsNotNil)
}

func TestConfig(t *testing.T) {
	c := qt.New(t)
	filename := filepath.Join(c.TempDir(), "ciff.yaml")

	out, _, err := runCmd(c, "config", "init", filename)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Wrote")

	_, _, err = runCmd(c, "config", "init", filename)
	c.Assert(err, qt.ErrorMatches, ".*already exists.*")

	_, _, err = runCmd(c, "config", "init", "--force", filename)
	c.Assert(err, qt.IsNil)

	out, _, err = runCmd(c, "config", "show", "-c", filename, "--byte-order", "big")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "byte_order: big")
	c.Assert(out, qt.Contains, "jobs: 4")

	_, _, err = runCmd(c, "config", "show", "-c", filepath.Join(c.TempDir(), "missing.yaml"))
	c.Assert(err, qt.ErrorMatches, ".*failed to read config file.*")
}

func TestFormatFromFilename(t *testing.T) {
	c := qt.New(t)
	c.Assert(formatFromFilename("a.PNG"), qt.Equals, "png")
	c.Assert(formatFromFilename("a.jpg"), qt.Equals, "jpeg")
	c.Assert(formatFromFilename("a.tif"), qt.Equals, "tiff")
	c.Assert(formatFromFilename("a"), qt.Equals, "")
}
