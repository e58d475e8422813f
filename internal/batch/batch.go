// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package batch validates many CIFF files concurrently.
package batch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/segmentio/ksuid"
	"golang.org/x/sync/errgroup"

	"github.com/bep/ciff"
)

// Options configures a batch run.
type Options struct {
	// Jobs is the maximum number of files decoded at the same time.
	// Defaults to 1.
	Jobs int

	// Decode is passed to every decode.
	Decode ciff.Options

	// Logger receives one warning per invalid file. May be nil.
	Logger *slog.Logger
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path     string        `json:"path"`
	Valid    bool          `json:"valid"`
	Kind     string        `json:"kind,omitempty"`
	Offset   uint64        `json:"offset,omitempty"`
	Error    string        `json:"error,omitempty"`
	Width    uint64        `json:"width,omitempty"`
	Height   uint64        `json:"height,omitempty"`
	Caption  string        `json:"caption,omitempty"`
	Tags     []string      `json:"tags,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Report aggregates the results of a run, in input order.
type Report struct {
	ID      string       `json:"id"`
	Started time.Time    `json:"started"`
	Valid   int          `json:"valid"`
	Invalid int          `json:"invalid"`
	Results []FileResult `json:"results"`
}

// Run decodes every file in paths. Each file is decoded independently;
// an invalid file does not stop the run, only ctx cancellation does.
func Run(ctx context.Context, paths []string, opts Options) (*Report, error) {
	if opts.Jobs <= 0 {
		opts.Jobs = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	report := &Report{
		ID:      ksuid.New().String(),
		Started: time.Now(),
		Results: make([]FileResult, len(paths)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Each result slot is owned by exactly one goroutine.
			report.Results[i] = validateFile(path, opts.Decode, logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, r := range report.Results {
		if r.Valid {
			report.Valid++
		} else {
			report.Invalid++
		}
	}

	return report, nil
}

func validateFile(path string, opts ciff.Options, logger *slog.Logger) FileResult {
	start := time.Now()
	res := ciff.DecodeFile(path, opts)
	fr := FileResult{
		Path:     path,
		Valid:    res.Valid(),
		Duration: time.Since(start),
	}
	if !res.Valid() {
		fr.Kind = res.Kind().String()
		fr.Offset = res.Err.Offset
		fr.Error = res.Err.Error()
		logger.Warn("invalid CIFF file", "path", path, "kind", fr.Kind, "offset", fr.Offset)
		return fr
	}
	fr.Width = res.Record.Width()
	fr.Height = res.Record.Height()
	fr.Caption = res.Record.Caption()
	fr.Tags = res.Record.Tags()
	logger.Debug("valid CIFF file", "path", path, "width", fr.Width, "height", fr.Height)
	return fr
}

// Collect expands directories in paths to the files below them with one of
// the given extensions (case insensitive). Plain file arguments are kept as is.
func Collect(paths []string, extensions []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
				return nil
			}
			if len(extensions) == 0 || slices.Contains(extensions, strings.ToLower(filepath.Ext(p))) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", path, err)
		}
	}
	return files, nil
}

// WriteJSON writes r as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	b, err := sonic.ConfigStd.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// Save writes r to dir as <id>.json and returns the file name.
func (r *Report) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	filename := filepath.Join(dir, r.ID+".json")
	f, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := r.WriteJSON(f); err != nil {
		return "", err
	}
	return filename, f.Close()
}

// WriteText writes one line per file followed by a summary.
func (r *Report) WriteText(w io.Writer) error {
	for _, fr := range r.Results {
		var err error
		if fr.Valid {
			_, err = fmt.Fprintf(w, "OK      %s (%dx%d)\n", fr.Path, fr.Width, fr.Height)
		} else {
			_, err = fmt.Fprintf(w, "INVALID %s: %s\n", fr.Path, fr.Error)
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d valid, %d invalid\n", r.Valid, r.Invalid)
	return err
}
