package config

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// sameParams compares two Params, using time.Time.Equal for the timestamp.
func sameParams(t *testing.T, want, got Params) {
	t.Helper()
	assert.True(t, want.Time.Equal(got.Time), "time: want %v, got %v", want.Time, got.Time)
	want.Time, got.Time = time.Time{}, time.Time{}
	assert.Equal(t, want, got)
}

func TestDefault(t *testing.T) {
	p := Default()

	assert.InDelta(t, 6.9, p.PixelSizeUm, 1e-12)
	assert.Equal(t, 8.0, p.FocalLengthMm)
	assert.Equal(t, uint16(1024), p.ImageRows)
	assert.Equal(t, uint16(1224), p.ImageCols)
	assert.Zero(t, p.YawDeg)
	assert.Zero(t, p.PitchDeg)
	assert.Zero(t, p.RollDeg)
	assert.Equal(t, 44.2187, p.LatDeg)
	assert.Equal(t, -76.4747, p.LonDeg)
	assert.Equal(t, "2025-06-13T16:26:47Z", p.Time.Format(time.RFC3339))
	assert.Equal(t, 1.0, p.DopMax)
	require.NoError(t, p.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"zero pixel size", func(p *Params) { p.PixelSizeUm = 0 }},
		{"negative focal length", func(p *Params) { p.FocalLengthMm = -1 }},
		{"no rows", func(p *Params) { p.ImageRows = 0 }},
		{"no cols", func(p *Params) { p.ImageCols = 0 }},
		{"latitude above 90", func(p *Params) { p.LatDeg = 90.5 }},
		{"latitude below -90", func(p *Params) { p.LatDeg = -91 }},
		{"dop_max above 1", func(p *Params) { p.DopMax = 1.5 }},
		{"NaN yaw", func(p *Params) { p.YawDeg = math.NaN() }},
		{"infinite longitude", func(p *Params) { p.LonDeg = math.Inf(1) }},
		{"zero time", func(p *Params) { p.Time = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
		})
	}
}

func TestLoadParamsTOML(t *testing.T) {
	path := writeFile(t, "params.toml", `
pixel_size_um = 3.45
focal_length_mm = 12
image_rows = 64
image_cols = 48
pitch_deg = 30.0
lat_deg = -33.86
lon_deg = 151.2
time = 2024-12-21T02:00:00+11:00
`)

	p, err := LoadParams(path)
	require.NoError(t, err)

	want := Default()
	want.PixelSizeUm = 3.45
	want.FocalLengthMm = 12
	want.ImageRows = 64
	want.ImageCols = 48
	want.PitchDeg = 30
	want.LatDeg = -33.86
	want.LonDeg = 151.2
	want.Time = time.Date(2024, time.December, 20, 15, 0, 0, 0, time.UTC)
	sameParams(t, want, p)
	assert.Equal(t, time.UTC, p.Time.Location())
}

func TestLoadParamsYAML(t *testing.T) {
	path := writeFile(t, "params.yaml", `
image_rows: 10
image_cols: 20
yaw_deg: 45
time: 2025-03-20T12:00:00Z
`)

	p, err := LoadParams(path)
	require.NoError(t, err)

	want := Default()
	want.ImageRows = 10
	want.ImageCols = 20
	want.YawDeg = 45
	want.Time = time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)
	sameParams(t, want, p)
}

func TestDecodeParamsTimeWithoutOffset(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		enc  Encoding
		want time.Time
	}{
		{"toml local datetime", "time = 2025-06-13T16:26:47\n", EncodingTOML, time.Date(2025, time.June, 13, 16, 26, 47, 0, time.UTC)},
		{"toml local date", "time = 2025-06-13\n", EncodingTOML, time.Date(2025, time.June, 13, 0, 0, 0, 0, time.UTC)},
		{"toml offset datetime", "time = 2025-06-13T12:26:47-04:00\n", EncodingTOML, time.Date(2025, time.June, 13, 16, 26, 47, 0, time.UTC)},
		{"yaml datetime", "time: 2025-06-13T16:26:47\n", EncodingYAML, time.Date(2025, time.June, 13, 16, 26, 47, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodeParams([]byte(tt.doc), tt.enc)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(p.Time), "want %v, got %v", tt.want, p.Time)
			assert.Equal(t, time.UTC, p.Time.Location())
		})
	}

	t.Run("toml local time", func(t *testing.T) {
		_, err := DecodeParams([]byte("time = 16:26:47\n"), EncodingTOML)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no date")
	})
}

func TestLoadParamsErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{"malformed toml", "bad.toml", "this is = = not toml", "failed to parse"},
		{"unknown key", "typo.toml", "focal_lenght_mm = 4\n", "focal_lenght_mm"},
		{"wrong type", "type.toml", "image_rows = \"many\"\n", "failed to parse"},
		{"row overflow", "big.toml", "image_rows = 70000\n", "failed to parse"},
		{"invalid latitude", "lat.toml", "lat_deg = 120.0\n", "lat_deg"},
		{"unknown yaml key", "typo.yml", "yaw: 3\n", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadParams(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadParams(filepath.Join(t.TempDir(), "absent.toml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestEncodedDefaultLoadsBackToDefault(t *testing.T) {
	for _, enc := range []Encoding{EncodingTOML, EncodingYAML} {
		t.Run(string(enc), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "default."+string(enc))
			require.NoError(t, SaveParams(path, Default(), enc))

			p, err := LoadParams(path)
			require.NoError(t, err)
			sameParams(t, Default(), p)
		})
	}
}

func TestEncodeParamsTOMLKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeParams(&buf, Default(), EncodingTOML))

	for _, key := range []string{
		"pixel_size_um", "focal_length_mm", "image_rows", "image_cols",
		"yaw_deg", "pitch_deg", "roll_deg", "lat_deg", "lon_deg", "time", "dop_max",
	} {
		assert.Contains(t, buf.String(), key+" = ")
	}
}

func TestEncodingFlag(t *testing.T) {
	var e Encoding
	assert.Equal(t, "toml", e.String())

	require.NoError(t, e.Set("YML"))
	assert.Equal(t, EncodingYAML, e)

	require.NoError(t, e.Set("toml"))
	assert.Equal(t, EncodingTOML, e)

	assert.Error(t, e.Set("json"))
	assert.Equal(t, "encoding", e.Type())
}

func TestEncodingForPath(t *testing.T) {
	assert.Equal(t, EncodingYAML, EncodingForPath("a/b.yaml"))
	assert.Equal(t, EncodingYAML, EncodingForPath("B.YML"))
	assert.Equal(t, EncodingTOML, EncodingForPath("params.toml"))
	assert.Equal(t, EncodingTOML, EncodingForPath("params"))
}

func TestResolvePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ResolvePath("~/sky/params.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "sky", "params.toml"), got)

	got, err = ResolvePath("/tmp/params.toml")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/params.toml", got)
}
