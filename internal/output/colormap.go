// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package output

import (
	"image/color"
	"math"
)

// subSat and mul4Sat are 8-bit saturating arithmetic.
func subSat(a, b uint8) uint8 {
	if a < b {
		return 0
	}
	return a - b
}

func mul4Sat(a uint8) uint8 {
	if a > 63 {
		return math.MaxUint8
	}
	return a * 4
}

// ToRGB maps x on [lo, hi] onto a jet-like palette running from blue
// through cyan, yellow and red to dark red. ok is false if x is outside the
// interval or not a number.
func ToRGB(x, lo, hi float64) (c color.RGBA, ok bool) {
	if math.IsNaN(x) || x < lo || x > hi {
		return color.RGBA{}, false
	}

	n := uint8(math.Floor((x - lo) / (hi - lo) * 255))

	r := min(255, mul4Sat(subSat(n, 96)), 255-mul4Sat(subSat(n, 224)))
	g := min(255, mul4Sat(subSat(n, 32)), 255-mul4Sat(subSat(n, 160)))

	// The rising edge of blue starts saturated and drops out once n+127 overflows a byte.
	var rise uint8
	if n <= math.MaxUint8-127 {
		rise = mul4Sat(n + 127)
	}
	b := min(255, rise, 255-mul4Sat(subSat(n, 96)))

	return color.RGBA{R: r, G: g, B: b, A: 255}, true
}
