// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package output

import (
	"errors"
	"strings"

	"rumpus/internal/simulate"
)

// Channel selects which quantity of a simulated ray is written.
type Channel string

const (
	ChannelAoP Channel = "aop"
	ChannelDoP Channel = "dop"
)

// Value extracts the channel's quantity from a ray.
func (c Channel) Value(r simulate.Ray) float64 {
	if c == ChannelDoP {
		return r.DoP
	}
	return r.AoP
}

// Range is the closed interval the channel's values fall in.
func (c Channel) Range() (lo, hi float64) {
	if c == ChannelDoP {
		return 0, 1
	}
	return -90, 90
}

// String implements pflag.Value.
func (c *Channel) String() string {
	if *c == "" {
		return string(ChannelAoP)
	}
	return string(*c)
}

// Set implements pflag.Value.
func (c *Channel) Set(v string) error {
	switch Channel(strings.ToLower(v)) {
	case ChannelAoP:
		*c = ChannelAoP
	case ChannelDoP:
		*c = ChannelDoP
	default:
		return errors.New("must be one of: aop, dop")
	}
	return nil
}

// Type implements pflag.Value.
func (c *Channel) Type() string { return "channel" }
