// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/bep/ciff"
)

type imageInfo struct {
	File        string   `json:"file"`
	Magic       string   `json:"magic"`
	HeaderSize  uint64   `json:"header_size"`
	ContentSize uint64   `json:"content_size"`
	Width       uint64   `json:"width"`
	Height      uint64   `json:"height"`
	Caption     string   `json:"caption"`
	Tags        []string `json:"tags"`
}

func newImageInfo(filename string, r *ciff.Record) imageInfo {
	tags := r.Tags()
	if tags == nil {
		tags = []string{}
	}
	return imageInfo{
		File:        filename,
		Magic:       r.Magic(),
		HeaderSize:  r.HeaderSize(),
		ContentSize: r.ContentSize(),
		Width:       r.Width(),
		Height:      r.Height(),
		Caption:     r.Caption(),
		Tags:        tags,
	}
}

func (i imageInfo) writeText(w io.Writer) error {
	_, err := fmt.Fprintf(w, `File:         %s
Magic:        %s
Header size:  %d
Content size: %d
Dimensions:   %dx%d
Caption:      %s
Tags:         %s
`, i.File, i.Magic, i.HeaderSize, i.ContentSize, i.Width, i.Height, i.Caption, strings.Join(i.Tags, ", "))
	return err
}

func (i imageInfo) writeJSON(w io.Writer) error {
	b, err := sonic.ConfigStd.MarshalIndent(i, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print the header, caption and tags of a CIFF file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		r, err := a.decodeFile(args[0])
		if err != nil {
			return err
		}
		info := newImageInfo(args[0], r)
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return info.writeJSON(cmd.OutOrStdout())
		}
		return info.writeText(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().Bool("json", false, "Print as JSON")
}
