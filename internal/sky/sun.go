// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package sky models the polarization pattern of a clear daytime sky: where the
// sun is for a given place and time, and the angle and degree of polarization of
// singly Rayleigh-scattered skylight seen along a line of sight.
package sky

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	unixEpochJulianDate = 2440587.5
	j2000JulianDate     = 2451545.0
	secondsPerDay       = 86400.0
)

// daysSinceJ2000 returns the (fractional) number of days between t and the J2000.0 epoch.
func daysSinceJ2000(t time.Time) float64 {
	unix := float64(t.UnixNano()) / 1e9
	return unix/secondsPerDay + unixEpochJulianDate - j2000JulianDate
}

// SunPosition returns the unit vector towards the sun in the local ENU frame of
// an observer at the given WGS84 latitude and longitude (degrees).
//
// It uses the low-precision solar coordinates of the Astronomical Almanac, good
// to about 0.01 degrees between 1950 and 2050, which is far below what the
// polarization pattern can resolve. Refraction is ignored.
func SunPosition(latDeg, lonDeg float64, t time.Time) r3.Vec {
	n := daysSinceJ2000(t)

	meanLon := math.Mod(280.460+0.9856474*n, 360)
	meanAnomaly := radians(math.Mod(357.528+0.9856003*n, 360))
	eclipticLon := radians(meanLon + 1.915*math.Sin(meanAnomaly) + 0.020*math.Sin(2*meanAnomaly))
	obliquity := radians(23.439 - 0.0000004*n)

	rightAscension := math.Atan2(math.Cos(obliquity)*math.Sin(eclipticLon), math.Cos(eclipticLon))
	declination := math.Asin(math.Sin(obliquity) * math.Sin(eclipticLon))

	gmst := math.Mod(280.46061837+360.98564736629*n, 360)
	hourAngle := radians(gmst+lonDeg) - rightAscension

	lat := radians(latDeg)
	sinDec, cosDec := math.Sincos(declination)
	sinLat, cosLat := math.Sincos(lat)
	sinH, cosH := math.Sincos(hourAngle)

	return r3.Unit(r3.Vec{
		X: -cosDec * sinH,
		Y: sinDec*cosLat - cosDec*cosH*sinLat,
		Z: sinDec*sinLat + cosDec*cosH*cosLat,
	})
}

// ZenithAzimuth converts an ENU direction into its zenith angle and its azimuth
// measured clockwise from north, both in degrees. Azimuth is in [0, 360).
func ZenithAzimuth(v r3.Vec) (zenithDeg, azimuthDeg float64) {
	u := r3.Unit(v)
	zenithDeg = degrees(math.Acos(math.Max(-1, math.Min(1, u.Z))))
	azimuthDeg = degrees(math.Atan2(u.X, u.Y))
	if azimuthDeg < 0 {
		azimuthDeg += 360
	}
	return zenithDeg, azimuthDeg
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
