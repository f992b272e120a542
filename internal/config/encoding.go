// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package config

import (
	"errors"
	"path/filepath"
	"strings"
)

// Encoding selects the document format of a parameters file.
type Encoding string

const (
	EncodingTOML Encoding = "toml"
	EncodingYAML Encoding = "yaml"
)

// EncodingForPath picks YAML for .yaml/.yml files and TOML otherwise.
func EncodingForPath(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return EncodingYAML
	default:
		return EncodingTOML
	}
}

// String implements pflag.Value.
func (e *Encoding) String() string {
	if *e == "" {
		return string(EncodingTOML)
	}
	return string(*e)
}

// Set implements pflag.Value.
func (e *Encoding) Set(v string) error {
	switch Encoding(strings.ToLower(v)) {
	case EncodingTOML:
		*e = EncodingTOML
	case EncodingYAML, "yml":
		*e = EncodingYAML
	default:
		return errors.New("must be one of: toml, yaml")
	}
	return nil
}

// Type implements pflag.Value.
func (e *Encoding) Type() string {
	return "encoding"
}
