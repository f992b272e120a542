// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package output serializes simulation results to disk, either as a colour
// mapped PNG or as a whitespace separated text grid of values.
package output

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned when no output format was given and none can be
// inferred from the output path.
var ErrUnknownFormat = errors.New("unsupported output format")

// Format is an output encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatDAT Format = "dat"
)

// Formats lists the supported formats, for help text and completion.
var Formats = []Format{FormatPNG, FormatDAT}

// Infer picks a format from the extension of path, ignoring case.
func Infer(path string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case string(FormatPNG):
		return FormatPNG, true
	case string(FormatDAT):
		return FormatDAT, true
	default:
		return "", false
	}
}

// Resolve returns explicit when it is set and otherwise infers the format from path.
func Resolve(explicit Format, path string) (Format, error) {
	if explicit != "" {
		return explicit, nil
	}
	if f, ok := Infer(path); ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: cannot infer a format from %q, use --format png|dat", ErrUnknownFormat, path)
}

// String implements pflag.Value.
func (f *Format) String() string { return string(*f) }

// Set implements pflag.Value.
func (f *Format) Set(v string) error {
	switch Format(strings.ToLower(v)) {
	case FormatPNG:
		*f = FormatPNG
	case FormatDAT:
		*f = FormatDAT
	default:
		return errors.New("must be one of: png, dat")
	}
	return nil
}

// Type implements pflag.Value.
func (f *Format) Type() string { return "format" }
