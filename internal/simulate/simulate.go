// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package simulate renders the skylight polarization pattern a camera described
// by config.Params would see.
package simulate

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"rumpus/internal/config"
	"rumpus/internal/logger"
	"rumpus/internal/optics"
	"rumpus/internal/sky"

	"golang.org/x/sync/errgroup"
)

// Ray is what a single pixel records.
type Ray struct {
	// AoP is the angle of polarization in degrees, in [-90, 90], from the local meridian
	AoP float64
	// DoP is the degree of polarization, in [0, 1]
	DoP float64
}

// Image is the simulation result: one optional Ray per sensor pixel, row-major.
type Image struct {
	rows, cols int
	rays       []Ray
	hit        []bool
}

// NewImage returns an image of the given size with no rays recorded.
func NewImage(rows, cols int) *Image {
	return &Image{
		rows: rows,
		cols: cols,
		rays: make([]Ray, rows*cols),
		hit:  make([]bool, rows*cols),
	}
}

func (im *Image) Rows() int { return im.rows }
func (im *Image) Cols() int { return im.cols }

// At returns the ray recorded at (row, col). ok is false for pixels that see no
// sky and for coordinates outside the image.
func (im *Image) At(row, col int) (ray Ray, ok bool) {
	if row < 0 || row >= im.rows || col < 0 || col >= im.cols {
		return Ray{}, false
	}
	i := row*im.cols + col
	return im.rays[i], im.hit[i]
}

// Set records ray at (row, col). Coordinates outside the image are ignored.
func (im *Image) Set(row, col int, ray Ray) {
	if row < 0 || row >= im.rows || col < 0 || col >= im.cols {
		return
	}
	i := row*im.cols + col
	im.rays[i] = ray
	im.hit[i] = true
}

// Hits counts the pixels that recorded a ray.
func (im *Image) Hits() int {
	n := 0
	for _, h := range im.hit {
		if h {
			n++
		}
	}
	return n
}

type options struct {
	workers  int
	progress func(done, total int)
}

// Option tweaks a simulation run.
type Option func(*options)

// WithWorkers bounds the number of rows simulated concurrently. Values below
// one mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithProgress registers fn to be called after every finished row. It is
// called from worker goroutines and must be safe for concurrent use.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) { o.progress = fn }
}

// Run simulates the pattern for p. It returns ctx.Err() if ctx is cancelled
// before every row is done.
func Run(ctx context.Context, p config.Params, opts ...Option) (*Image, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	lens, err := optics.NewLens(p.FocalLengthMm * 1e-3)
	if err != nil {
		return nil, fmt.Errorf("failed to build lens: %w", err)
	}
	pixel := p.PixelSizeUm * 1e-6
	sensor, err := optics.NewSensor(pixel, pixel, int(p.ImageRows), int(p.ImageCols))
	if err != nil {
		return nil, fmt.Errorf("failed to build image sensor: %w", err)
	}
	camera := optics.NewCamera(lens, optics.NewOrientation(p.YawDeg, p.PitchDeg, p.RollDeg))
	model := sky.FromLocation(p.LatDeg, p.LonDeg, p.Time, p.DopMax)

	sunZenith, sunAzimuth := sky.ZenithAzimuth(model.Sun())
	logger.Debug("Sun position computed",
		"time", p.Time,
		"zenith_deg", sunZenith,
		"azimuth_deg", sunAzimuth)

	img := NewImage(sensor.Rows(), sensor.Cols())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	var done atomic.Int64
	for row := 0; row < img.rows; row++ {
		if gctx.Err() != nil {
			break
		}
		row := row
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := simulateRow(img, row, sensor, camera, model); err != nil {
				return err
			}
			if o.progress != nil {
				o.progress(int(done.Add(1)), img.rows)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Rows skipped by the break above never report the cancellation themselves.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}

// simulateRow fills one image row. Rows are disjoint, so workers never share a slot.
func simulateRow(img *Image, row int, sensor optics.Sensor, camera optics.Camera, model sky.Model) error {
	for col := 0; col < img.cols; col++ {
		onSensor, err := sensor.At(row, col)
		if err != nil {
			return err
		}
		view := camera.Trace(onSensor)

		aop, ok := model.AoP(view)
		if !ok {
			continue
		}
		dop, _ := model.DoP(view)
		img.Set(row, col, Ray{AoP: aop, DoP: dop})
	}
	return nil
}
