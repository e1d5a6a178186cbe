package render

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"
)

// DialColors is the palette shared by both dials.
type DialColors struct {
	Background    string
	Border        string
	Accent        string
	AccentBlue    string
	TextPrimary   string
	TextSecondary string
}

// DefaultDialColors matches the dashboard theme.
func DefaultDialColors() DialColors {
	return DialColors{
		Background:    "#0a0e14",
		Border:        "#2a3444",
		Accent:        "#00d4aa",
		AccentBlue:    "#00a8ff",
		TextPrimary:   "#e6e8eb",
		TextSecondary: "#8b919a",
	}
}

// dialGeometry is the limb centre and radius for a canvas, leaving room for
// the labels outside the limb.
func dialGeometry(w, h int) (cx, cy, r float64) {
	cx, cy = float64(w)/2, float64(h)/2
	r = math.Min(float64(w), float64(h))/2 - 25
	return cx, cy, r
}

// NormalizeAzimuth maps any angle into [0, 360).
func NormalizeAzimuth(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// math.Mod(-1e-15, 360) + 360 rounds to 360.
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// ClampElevation limits an angle to [-90, 90].
func ClampElevation(deg float64) float64 {
	return math.Max(-90, math.Min(90, deg))
}

// AzimuthFromClick converts a click at (x, y) on a w by h dial into an
// azimuth, north up and clockwise.
func AzimuthFromClick(w, h int, x, y float64) float64 {
	cx, cy, _ := dialGeometry(w, h)
	return NormalizeAzimuth(rad2deg(math.Atan2(y-cy, x-cx)) + 90)
}

// ElevationFromClick converts a click at (x, y) on a w by h elevation
// dial into an angle on its scale: 0 at the top, +90 to the right and -90
// to the left. Clicks below the pivot clamp to the nearer end.
func ElevationFromClick(w, h int, x, y float64) float64 {
	cx, cy, _ := dialGeometry(w, h)
	angle := rad2deg(math.Atan2(y-cy, x-cx)) + 90
	if angle > 180 {
		angle -= 360
	}
	return ClampElevation(angle)
}

// AzimuthDial is a full 360 degree compass with a needle.
type AzimuthDial struct {
	mu      sync.Mutex
	azimuth float64
	colors  DialColors
	metrics Recorder
}

// NewAzimuthDial returns a dial pointing north.
func NewAzimuthDial() *AzimuthDial {
	return &AzimuthDial{colors: DefaultDialColors(), metrics: noopRecorder{}}
}

// SetRecorder installs a metrics sink.
func (d *AzimuthDial) SetRecorder(r Recorder) {
	if r == nil {
		r = noopRecorder{}
	}
	d.mu.Lock()
	d.metrics = r
	d.mu.Unlock()
}

// Azimuth returns the current needle angle.
func (d *AzimuthDial) Azimuth() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.azimuth
}

// SetAzimuth sets the needle, normalised into [0, 360).
func (d *AzimuthDial) SetAzimuth(deg float64) {
	d.mu.Lock()
	d.azimuth = NormalizeAzimuth(deg)
	d.mu.Unlock()
}

// Rotate turns the needle by delta degrees and returns the new angle.
func (d *AzimuthDial) Rotate(delta float64) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.azimuth = NormalizeAzimuth(d.azimuth + delta)
	return d.azimuth
}

// Draw repaints the dial.
func (d *AzimuthDial) Draw(c Canvas) {
	start := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()

	col := d.colors
	cx, cy, r := dialGeometry(c.Width(), c.Height())

	c.SetDash()
	c.SetColor(col.Background)
	c.FillRect(0, 0, float64(c.Width()), float64(c.Height()))

	c.SetColor(col.AccentBlue)
	c.SetLineWidth(2)
	c.StrokeCircle(cx, cy, r)
	c.SetColor(col.Border)
	c.SetLineWidth(1)
	c.StrokeCircle(cx, cy, r-18)

	for deg := 0; deg < 360; deg += 15 {
		rad := deg2rad(float64(deg) - 90)
		major := deg%30 == 0
		drawTick(c, col, cx, cy, r, math.Cos(rad), math.Sin(rad), major)
		if !major {
			continue
		}
		label := strconv.Itoa(deg)
		c.SetColor(col.TextSecondary)
		if deg%90 == 0 {
			label = compassPoints[deg/90]
			c.SetColor(col.TextPrimary)
		}
		c.Text(label, cx+math.Cos(rad)*(r+14), cy+math.Sin(rad)*(r+14), 0.5, 0.5)
	}

	rad := deg2rad(d.azimuth - 90)
	drawNeedle(c, col, cx, cy, math.Cos(rad)*(r-9), math.Sin(rad)*(r-9))
	drawValue(c, col, d.azimuth)

	d.metrics.ObserveFrame("azimuth", time.Since(start))
}

var compassPoints = [4]string{"N", "E", "S", "W"}

// ElevationDial is a half-circle gauge from -90 to +90 with 0 at the top.
type ElevationDial struct {
	mu        sync.Mutex
	elevation float64
	colors    DialColors
	metrics   Recorder
}

// NewElevationDial returns a dial at 45 degrees.
func NewElevationDial() *ElevationDial {
	return &ElevationDial{elevation: 45, colors: DefaultDialColors(), metrics: noopRecorder{}}
}

// SetRecorder installs a metrics sink.
func (d *ElevationDial) SetRecorder(r Recorder) {
	if r == nil {
		r = noopRecorder{}
	}
	d.mu.Lock()
	d.metrics = r
	d.mu.Unlock()
}

// Elevation returns the current needle angle.
func (d *ElevationDial) Elevation() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.elevation
}

// SetElevation sets the needle, clamped to [-90, 90].
func (d *ElevationDial) SetElevation(deg float64) {
	d.mu.Lock()
	d.elevation = ClampElevation(deg)
	d.mu.Unlock()
}

// Draw repaints the dial.
func (d *ElevationDial) Draw(c Canvas) {
	start := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()

	col := d.colors
	cx, cy, r := dialGeometry(c.Width(), c.Height())

	c.SetDash()
	c.SetColor(col.Background)
	c.FillRect(0, 0, float64(c.Width()), float64(c.Height()))

	c.SetColor(col.AccentBlue)
	c.SetLineWidth(2)
	strokeUpperArc(c, cx, cy, r)
	c.SetColor(col.Border)
	c.SetLineWidth(1)
	strokeUpperArc(c, cx, cy, r-18)

	for elev := -90; elev <= 90; elev += 15 {
		dx, dy := elevationDirection(float64(elev))
		major := elev%30 == 0
		drawTick(c, col, cx, cy, r, dx, dy, major)
		if !major {
			continue
		}
		c.SetColor(col.TextSecondary)
		if elev == 0 {
			c.SetColor(col.TextPrimary)
		}
		c.Text(strconv.Itoa(elev)+"°", cx+dx*(r+12), cy+dy*(r+12), 0.5, 0.5)
	}

	d.drawPedestal(c, cx, cy, r)

	dx, dy := elevationDirection(d.elevation)
	drawNeedle(c, col, cx, cy, dx*(r-9), dy*(r-9))
	drawValue(c, col, d.elevation)

	d.metrics.ObserveFrame("elevation", time.Since(start))
}

// drawPedestal draws the fixed mount below the pivot: a base, a block and
// a stalk up to the pivot.
func (d *ElevationDial) drawPedestal(c Canvas, cx, cy, r float64) {
	s := r / 100 * 0.95
	inner := r - 18
	bottom := float64(c.Height()) - 8

	baseH, blockH, stalkW := 12*s, 15*s, 8*s
	baseW, blockW := inner*0.9, inner*0.6
	baseTop := bottom - baseH
	blockTop := baseTop - blockH
	stalkTop := cy + 18.5*s

	c.SetColor(d.colors.Accent)
	c.SetLineWidth(2)
	strokeRect(c, cx-baseW, baseTop, baseW*2, baseH)
	strokeRect(c, cx-blockW, blockTop, blockW*2, blockH)

	c.MoveTo(cx-stalkW, stalkTop)
	c.LineTo(cx-stalkW, blockTop)
	c.LineTo(cx+stalkW, blockTop)
	c.LineTo(cx+stalkW, stalkTop)
	c.Stroke()
}

// elevationDirection is the unit vector, in canvas coordinates, of an
// angle on the elevation scale.
func elevationDirection(elev float64) (dx, dy float64) {
	rad := deg2rad(elev)
	return math.Sin(rad), -math.Cos(rad)
}

func drawTick(c Canvas, col DialColors, cx, cy, r, dx, dy float64, major bool) {
	inner := r - 10
	if major {
		inner = r - 15
		c.SetColor(col.AccentBlue)
		c.SetLineWidth(2)
	} else {
		c.SetColor(col.Border)
		c.SetLineWidth(1)
	}
	c.MoveTo(cx+dx*inner, cy+dy*inner)
	c.LineTo(cx+dx*(r-2), cy+dy*(r-2))
	c.Stroke()
}

func drawNeedle(c Canvas, col DialColors, cx, cy, dx, dy float64) {
	c.SetColor(col.Accent)
	c.SetLineWidth(3)
	c.MoveTo(cx, cy)
	c.LineTo(cx+dx, cy+dy)
	c.Stroke()
	c.FillCircle(cx, cy, 4)
}

func drawValue(c Canvas, col DialColors, deg float64) {
	c.SetColor(col.Accent)
	c.Text(fmt.Sprintf("%.1f°", deg), 8, 8, 0, 1)
}

const arcSegments = 64

func strokeUpperArc(c Canvas, cx, cy, r float64) {
	for i := 0; i <= arcSegments; i++ {
		a := math.Pi * float64(i) / arcSegments
		x, y := cx-r*math.Cos(a), cy-r*math.Sin(a)
		if i == 0 {
			c.MoveTo(x, y)
		} else {
			c.LineTo(x, y)
		}
	}
	c.Stroke()
}

func strokeRect(c Canvas, x, y, w, h float64) {
	c.MoveTo(x, y)
	c.LineTo(x+w, y)
	c.LineTo(x+w, y+h)
	c.LineTo(x, y+h)
	c.LineTo(x, y)
	c.Stroke()
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }
