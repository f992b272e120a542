// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package output

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strconv"

	"rumpus/internal/simulate"
)

// EncodePNG writes the channel as an 8-bit RGB PNG. Pixels without a ray are white.
func EncodePNG(w io.Writer, img *simulate.Image, ch Channel) error {
	lo, hi := ch.Range()
	out := image.NewRGBA(image.Rect(0, 0, img.Cols(), img.Rows()))

	for row := 0; row < img.Rows(); row++ {
		for col := 0; col < img.Cols(); col++ {
			ray, ok := img.At(row, col)
			if !ok {
				out.SetRGBA(col, row, color.RGBA{R: 255, G: 255, B: 255, A: 255})
				continue
			}
			v := ch.Value(ray)
			c, ok := ToRGB(v, lo, hi)
			if !ok {
				return fmt.Errorf("%s value %v at (%d, %d) is outside [%v, %v]", ch, v, row, col, lo, hi)
			}
			out.SetRGBA(col, row, c)
		}
	}

	if err := png.Encode(w, out); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// EncodeDAT writes the channel as text, one line per image row. Each value is
// printed in its shortest exact decimal form, right aligned in at least five
// columns and followed by a space. Pixels without a ray are NaN.
func EncodeDAT(w io.Writer, img *simulate.Image, ch Channel) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)

	for row := 0; row < img.Rows(); row++ {
		for col := 0; col < img.Cols(); col++ {
			v := math.NaN()
			if ray, ok := img.At(row, col); ok {
				v = ch.Value(ray)
			}
			buf = strconv.AppendFloat(buf[:0], v, 'f', -1, 64)
			if _, err := fmt.Fprintf(bw, "%5s ", buf); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Encode writes img in the given format.
func Encode(w io.Writer, img *simulate.Image, f Format, ch Channel) error {
	switch f {
	case FormatPNG:
		return EncodePNG(w, img, ch)
	case FormatDAT:
		return EncodeDAT(w, img, ch)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}
