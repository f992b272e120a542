// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package optics models a pinhole camera: a lens, a pixelated image sensor and
// the camera's orientation, and traces lines of sight from sensor pixels into
// the local ENU frame (X east, Y north, Z up).
//
// Camera coordinates are FRD: x forward along the optical axis, y to the right
// of the sensor (increasing column), z down the sensor (increasing row).
package optics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrFocalLength = errors.New("focal length must be positive")
	ErrPixelSize   = errors.New("pixel size must be positive")
	ErrOffSensor   = errors.New("pixel is not on the sensor")
)

// Lens is an ideal thin lens. Lengths are in metres.
type Lens struct {
	focalLength float64
}

// NewLens returns a lens with the given focal length in metres.
func NewLens(focalLength float64) (Lens, error) {
	if !(focalLength > 0) || math.IsInf(focalLength, 1) {
		return Lens{}, fmt.Errorf("%w: %v", ErrFocalLength, focalLength)
	}
	return Lens{focalLength: focalLength}, nil
}

func (l Lens) FocalLength() float64 { return l.focalLength }

// Sensor is a rows x cols grid of pixels, pixel sizes in metres.
type Sensor struct {
	pixelWidth, pixelHeight float64
	rows, cols              int
}

// NewSensor returns a sensor with the given pixel pitch and resolution.
func NewSensor(pixelWidth, pixelHeight float64, rows, cols int) (Sensor, error) {
	if !(pixelWidth > 0) || !(pixelHeight > 0) {
		return Sensor{}, fmt.Errorf("%w: %vx%v", ErrPixelSize, pixelWidth, pixelHeight)
	}
	if rows <= 0 || cols <= 0 {
		return Sensor{}, fmt.Errorf("sensor must have at least one pixel, got %dx%d", rows, cols)
	}
	return Sensor{pixelWidth: pixelWidth, pixelHeight: pixelHeight, rows: rows, cols: cols}, nil
}

func (s Sensor) Rows() int { return s.rows }
func (s Sensor) Cols() int { return s.cols }

// At returns the centre of pixel (row, col) on the sensor plane, relative to the
// optical axis. The forward component is always zero.
func (s Sensor) At(row, col int) (r3.Vec, error) {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return r3.Vec{}, fmt.Errorf("%w: (%d, %d) on a %dx%d sensor", ErrOffSensor, row, col, s.rows, s.cols)
	}
	return r3.Vec{
		X: 0,
		Y: (float64(col) + 0.5 - float64(s.cols)/2) * s.pixelWidth,
		Z: (float64(row) + 0.5 - float64(s.rows)/2) * s.pixelHeight,
	}, nil
}

// Orientation rotates camera FRD vectors into ENU.
type Orientation struct {
	yaw, pitch, roll r3.Rotation
}

// NewOrientation builds an orientation from Tait-Bryan angles in degrees:
// intrinsic rotations about the camera's down (yaw), right (pitch) and forward
// (roll) axes, applied in that order to a reference pose that looks at the
// zenith with its right axis towards east and its down axis towards north.
func NewOrientation(yawDeg, pitchDeg, rollDeg float64) Orientation {
	return Orientation{
		yaw:   r3.NewRotation(radians(yawDeg), r3.Vec{Z: 1}),
		pitch: r3.NewRotation(radians(pitchDeg), r3.Vec{Y: 1}),
		roll:  r3.NewRotation(radians(rollDeg), r3.Vec{X: 1}),
	}
}

// ToENU rotates a camera-frame vector into ENU.
func (o Orientation) ToENU(v r3.Vec) r3.Vec {
	body := o.yaw.Rotate(o.pitch.Rotate(o.roll.Rotate(v)))
	// Reference pose: forward is up, right is east, down is north.
	return r3.Vec{X: body.Y, Y: body.Z, Z: body.X}
}

// Camera combines a lens and an orientation.
type Camera struct {
	lens        Lens
	orientation Orientation
}

func NewCamera(lens Lens, orientation Orientation) Camera {
	return Camera{lens: lens, orientation: orientation}
}

// Trace returns the unit ENU line of sight seen by a point on the sensor plane.
// The sensor is treated as the upright virtual image one focal length in front
// of the pinhole, so the image is not flipped.
func (c Camera) Trace(onSensor r3.Vec) r3.Vec {
	frd := r3.Vec{X: c.lens.focalLength, Y: onSensor.Y, Z: onSensor.Z}
	return r3.Unit(c.orientation.ToENU(frd))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
