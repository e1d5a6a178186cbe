package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAzimuth(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{359.5, 359.5},
		{360, 0},
		{370, 10},
		{-10, 350},
		{-370, 350},
		{720.5, 0.5},
		{-1e-15, 0},
	}
	for _, tt := range tests {
		got := NormalizeAzimuth(tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "NormalizeAzimuth(%v)", tt.in)
		assert.True(t, got >= 0 && got < 360, "NormalizeAzimuth(%v) = %v out of range", tt.in, got)
	}
}

func TestAzimuthDialState(t *testing.T) {
	d := NewAzimuthDial()
	assert.Equal(t, 0.0, d.Azimuth())

	d.SetAzimuth(-90)
	assert.Equal(t, 270.0, d.Azimuth())

	assert.InDelta(t, 0.3, d.Rotate(90.3), 1e-9)
	assert.InDelta(t, 359.8, d.Rotate(-0.5), 1e-9)
}

func TestElevationDialState(t *testing.T) {
	d := NewElevationDial()
	assert.Equal(t, 45.0, d.Elevation())

	d.SetElevation(120)
	assert.Equal(t, 90.0, d.Elevation())
	d.SetElevation(-91)
	assert.Equal(t, -90.0, d.Elevation())
	d.SetElevation(12.5)
	assert.Equal(t, 12.5, d.Elevation())
}

func TestAzimuthFromClick(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want float64
	}{
		{"north", 100, 10, 0},
		{"east", 190, 100, 90},
		{"south", 100, 190, 180},
		{"west", 10, 100, 270},
		{"north-east", 150, 50, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AzimuthFromClick(200, 200, tt.x, tt.y), 1e-9)
		})
	}
}

func TestElevationFromClick(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want float64
	}{
		{"top", 100, 10, 0},
		{"right", 190, 100, 90},
		{"left", 10, 100, -90},
		{"upper right", 150, 50, 45},
		{"upper left", 50, 50, -45},
		{"straight down clamps", 100, 190, 90},
		{"lower left clamps", 10, 190, -90},
		{"lower right clamps", 190, 190, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ElevationFromClick(200, 200, tt.x, tt.y), 1e-9)
		})
	}
}

func TestDialClickInvertsNeedle(t *testing.T) {
	const w, h = 240, 240
	cx, cy, r := dialGeometry(w, h)

	for az := 0.0; az < 360; az += 7.5 {
		rad := deg2rad(az - 90)
		x, y := cx+math.Cos(rad)*r/2, cy+math.Sin(rad)*r/2
		assert.InDelta(t, az, AzimuthFromClick(w, h, x, y), 1e-9)
	}
	for elev := -90.0; elev <= 90; elev += 7.5 {
		dx, dy := elevationDirection(elev)
		assert.InDelta(t, elev, ElevationFromClick(w, h, cx+dx*r/2, cy+dy*r/2), 1e-9)
	}
}

func TestAzimuthDialDraw(t *testing.T) {
	d := NewAzimuthDial()
	rec := newFakeRecorder()
	d.SetRecorder(rec)
	d.SetAzimuth(90)

	c := newRecordingCanvas(200, 200)
	d.Draw(c)

	texts := c.texts()
	for _, want := range []string{"N", "E", "S", "W", "30", "330", "90.0°"} {
		assert.Contains(t, texts, want)
	}
	assert.NotContains(t, texts, "0")
	assert.NotContains(t, texts, "15")

	col := DefaultDialColors()
	// 24 ticks, 12 of them major.
	majors, minors := 0, 0
	for _, o := range c.ops {
		if o.name != "stroke" {
			continue
		}
		switch {
		case o.color == col.AccentBlue && o.width == 2:
			majors++
		case o.color == col.Border && o.width == 1:
			minors++
		}
	}
	assert.Equal(t, 12, majors)
	assert.Equal(t, 12, minors)

	needle := c.polylines(col.Accent)
	require.NotEmpty(t, needle)
	_, _, r := dialGeometry(200, 200)
	end := needle[0][1]
	assert.InDelta(t, 100+r-9, end[0], 1e-9)
	assert.InDelta(t, 100, end[1], 1e-9)

	assert.Equal(t, 1, rec.frames["azimuth"])
}

func TestElevationDialDraw(t *testing.T) {
	d := NewElevationDial()
	c := newRecordingCanvas(200, 200)
	d.Draw(c)

	texts := c.texts()
	for _, want := range []string{"-90°", "-60°", "-30°", "0°", "30°", "60°", "90°", "45.0°"} {
		assert.Contains(t, texts, want)
	}
	assert.NotContains(t, texts, "15°")

	first := c.ops[0]
	assert.Equal(t, "rect", first.name)
	assert.Equal(t, DefaultDialColors().Background, first.color)
}
