// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package sky

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// degenerate is the cross-product magnitude below which a line of sight is
// treated as parallel to the sun or to the zenith.
const degenerate = 1e-9

var (
	north = r3.Vec{Y: 1}
	up    = r3.Vec{Z: 1}
)

// Model is the single-scattering Rayleigh sky for one sun position.
type Model struct {
	sun    r3.Vec
	dopMax float64
}

// NewModel builds a sky model for the given sun direction (ENU, any non-zero
// length) with the degree of polarization capped at dopMax.
func NewModel(sun r3.Vec, dopMax float64) Model {
	return Model{sun: r3.Unit(sun), dopMax: dopMax}
}

// FromLocation builds the sky seen from latDeg/lonDeg at time t.
func FromLocation(latDeg, lonDeg float64, t time.Time, dopMax float64) Model {
	return NewModel(SunPosition(latDeg, lonDeg, t), dopMax)
}

// Sun returns the unit sun vector in ENU.
func (m Model) Sun() r3.Vec { return m.sun }

// AoP returns the angle of polarization in degrees, in [-90, 90], of light
// arriving along view (ENU, pointing away from the observer).
//
// The angle is measured from the local meridian, the great circle through the
// zenith and the viewed point, positive towards the observer's right. Straight
// up, where the meridian is undefined, north is used instead. ok is false for
// views at or below the horizon and for views parallel to the sun.
func (m Model) AoP(view r3.Vec) (aopDeg float64, ok bool) {
	v := r3.Unit(view)
	if !(v.Z > 0) {
		return 0, false
	}

	e := r3.Cross(v, m.sun)
	if r3.Norm(e) < degenerate {
		return 0, false
	}

	meridian := r3.Sub(up, r3.Scale(v.Z, v))
	if r3.Norm(meridian) < degenerate {
		meridian = r3.Sub(north, r3.Scale(v.Y, v))
	}
	meridian = r3.Unit(meridian)
	right := r3.Cross(v, meridian)

	return wrapAoP(degrees(math.Atan2(r3.Dot(e, right), r3.Dot(e, meridian)))), true
}

// DoP returns the degree of polarization, in [0, dopMax], of light arriving
// along view. ok is false for views at or below the horizon.
func (m Model) DoP(view r3.Vec) (dop float64, ok bool) {
	v := r3.Unit(view)
	if !(v.Z > 0) {
		return 0, false
	}
	cosGamma := r3.Dot(v, m.sun)
	// Rounding can push cos² a hair past one next to the sun.
	c2 := min(1, cosGamma*cosGamma)
	return m.dopMax * (1 - c2) / (1 + c2), true
}

// wrapAoP folds an angle in (-180, 180] onto [-90, 90]; the E-vector is an axis, not a direction.
func wrapAoP(deg float64) float64 {
	switch {
	case deg > 90:
		return deg - 180
	case deg < -90:
		return deg + 180
	default:
		return deg
	}
}
