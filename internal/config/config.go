// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package config handles the simulated sensor parameters: their built-in defaults,
// validation, and reading and writing them as TOML or YAML documents.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrInvalidParams is wrapped by every validation failure.
var ErrInvalidParams = errors.New("invalid sensor parameters")

// Params describes the simulated polarization sensor: its optics, where it is
// pointing, where on Earth it is and when the exposure is taken.
type Params struct {
	// PixelSizeUm is the edge length of a square pixel in micrometres
	PixelSizeUm float64 `toml:"pixel_size_um" yaml:"pixel_size_um"`

	// FocalLengthMm is the lens focal length in millimetres
	FocalLengthMm float64 `toml:"focal_length_mm" yaml:"focal_length_mm"`

	// ImageRows is the sensor height in pixels
	ImageRows uint16 `toml:"image_rows" yaml:"image_rows"`

	// ImageCols is the sensor width in pixels
	ImageCols uint16 `toml:"image_cols" yaml:"image_cols"`

	// YawDeg, PitchDeg and RollDeg orient the camera, see optics.NewOrientation
	YawDeg   float64 `toml:"yaw_deg" yaml:"yaw_deg"`
	PitchDeg float64 `toml:"pitch_deg" yaml:"pitch_deg"`
	RollDeg  float64 `toml:"roll_deg" yaml:"roll_deg"`

	// LatDeg and LonDeg are the WGS84 coordinates of the camera
	LatDeg float64 `toml:"lat_deg" yaml:"lat_deg"`
	LonDeg float64 `toml:"lon_deg" yaml:"lon_deg"`

	// Time is the instant of the simulated exposure
	Time time.Time `toml:"time" yaml:"time"`

	// DopMax caps the degree of polarization of the Rayleigh model
	DopMax float64 `toml:"dop_max" yaml:"dop_max"`
}

// Default returns the built-in parameters: a 2x2 binned 3.45 µm sensor behind
// an 8 mm lens, looking at the zenith from Kingston, Ontario.
func Default() Params {
	return Params{
		PixelSizeUm:   3.45 * 2,
		FocalLengthMm: 8,
		ImageRows:     1024,
		ImageCols:     1224,
		LatDeg:        44.2187,
		LonDeg:        -76.4747,
		Time:          time.Date(2025, time.June, 13, 16, 26, 47, 0, time.UTC),
		DopMax:        1,
	}
}

// Validate reports the first constraint the parameters break.
func (p Params) Validate() error {
	for _, f := range []struct {
		key   string
		value float64
	}{
		{"pixel_size_um", p.PixelSizeUm},
		{"focal_length_mm", p.FocalLengthMm},
		{"yaw_deg", p.YawDeg},
		{"pitch_deg", p.PitchDeg},
		{"roll_deg", p.RollDeg},
		{"lat_deg", p.LatDeg},
		{"lon_deg", p.LonDeg},
		{"dop_max", p.DopMax},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidParams, f.key)
		}
	}

	switch {
	case p.PixelSizeUm <= 0:
		return fmt.Errorf("%w: pixel_size_um must be positive, got %v", ErrInvalidParams, p.PixelSizeUm)
	case p.FocalLengthMm <= 0:
		return fmt.Errorf("%w: focal_length_mm must be positive, got %v", ErrInvalidParams, p.FocalLengthMm)
	case p.ImageRows == 0 || p.ImageCols == 0:
		return fmt.Errorf("%w: image must have at least one row and column, got %dx%d", ErrInvalidParams, p.ImageRows, p.ImageCols)
	case p.LatDeg < -90 || p.LatDeg > 90:
		return fmt.Errorf("%w: lat_deg must be between -90 and 90 degrees, got %v", ErrInvalidParams, p.LatDeg)
	case p.DopMax < 0 || p.DopMax > 1:
		return fmt.Errorf("%w: dop_max must be between 0 and 1, got %v", ErrInvalidParams, p.DopMax)
	case p.Time.IsZero():
		return fmt.Errorf("%w: time is required", ErrInvalidParams)
	}
	return nil
}

// LoadParams reads a parameters document. Keys missing from the document keep
// their default value; unknown keys are an error. Files ending in .yaml or .yml
// are read as YAML, anything else as TOML.
func LoadParams(path string) (Params, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return Params{}, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return Params{}, fmt.Errorf("failed to read params file %s: %w", resolved, err)
	}

	p, err := DecodeParams(data, EncodingForPath(resolved))
	if err != nil {
		return Params{}, fmt.Errorf("failed to parse params file %s: %w", resolved, err)
	}

	if err := p.Validate(); err != nil {
		return Params{}, fmt.Errorf("params file %s: %w", resolved, err)
	}
	return p, nil
}

// DecodeParams decodes a parameters document on top of Default.
func DecodeParams(data []byte, enc Encoding) (Params, error) {
	p := Default()

	switch enc {
	case EncodingYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document leaves the defaults untouched.
		if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return Params{}, err
		}
	default:
		md, err := toml.Decode(string(data), &p)
		if err != nil {
			return Params{}, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Params{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	}

	t, err := normalizeTime(p.Time)
	if err != nil {
		return Params{}, err
	}
	p.Time = t
	return p, nil
}

// normalizeTime returns t in UTC. TOML local datetimes and local dates carry no
// offset and are read as UTC wall-clock values; a bare local time has no date
// and is rejected. YAML timestamps without an offset are already UTC.
func normalizeTime(t time.Time) (time.Time, error) {
	switch t.Location().String() {
	case "time-local":
		return time.Time{}, fmt.Errorf("time %s has no date", t.Format(time.TimeOnly))
	case "datetime-local", "date-local":
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
	}
	return t.UTC(), nil
}

// EncodeParams writes p in the given encoding.
func EncodeParams(w io.Writer, p Params, enc Encoding) error {
	switch enc {
	case EncodingYAML:
		e := yaml.NewEncoder(w)
		e.SetIndent(2)
		if err := e.Encode(p); err != nil {
			return fmt.Errorf("failed to marshal params to YAML: %w", err)
		}
		return e.Close()
	default:
		if err := toml.NewEncoder(w).Encode(p); err != nil {
			return fmt.Errorf("failed to marshal params to TOML: %w", err)
		}
		return nil
	}
}

// SaveParams writes p to path, creating or truncating it.
func SaveParams(path string, p Params, enc Encoding) error {
	resolved, err := ResolvePath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := EncodeParams(&buf, p, enc); err != nil {
		return err
	}

	// Write with permissions rw-r--r-- (0644)
	if err := os.WriteFile(resolved, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write params file %s: %w", resolved, err)
	}
	return nil
}

// ResolvePath expands a leading "~/" to the user's home directory.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("could not get user home directory to resolve path '%s': %w", path, err)
	}

	return filepath.Join(homeDir, path[2:]), nil
}
