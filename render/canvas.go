package render

import (
	"image"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Canvas is the small 2D drawing surface the widgets paint on. A path is
// built with MoveTo/LineTo and consumed by Stroke; MoveTo always starts a
// new sub-path.
type Canvas interface {
	Width() int
	Height() int

	SetColor(hex string)
	SetLineWidth(w float64)
	// SetDash sets the stroke dash pattern; no arguments means solid.
	SetDash(dashes ...float64)

	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke()

	FillRect(x, y, w, h float64)
	FillCircle(x, y, r float64)
	StrokeCircle(x, y, r float64)

	// Text draws s anchored at (x, y). ax and ay are in [0, 1]: (0, 0)
	// sits the start of the baseline on the point, (0, 1) hangs the text
	// below it and (0.5, 0.5) centres it.
	Text(s string, x, y, ax, ay float64)
}

// ImageCanvas is a Canvas backed by an in-memory RGBA raster.
type ImageCanvas struct {
	dc *gg.Context
}

// NewImageCanvas allocates a w by h raster with a fixed-width bitmap font.
func NewImageCanvas(w, h int) *ImageCanvas {
	dc := gg.NewContext(w, h)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetLineCapButt()
	return &ImageCanvas{dc: dc}
}

func (c *ImageCanvas) Width() int  { return c.dc.Width() }
func (c *ImageCanvas) Height() int { return c.dc.Height() }

func (c *ImageCanvas) SetColor(hex string)       { c.dc.SetHexColor(hex) }
func (c *ImageCanvas) SetLineWidth(w float64)    { c.dc.SetLineWidth(w) }
func (c *ImageCanvas) SetDash(dashes ...float64) { c.dc.SetDash(dashes...) }

func (c *ImageCanvas) MoveTo(x, y float64) { c.dc.MoveTo(x, y) }
func (c *ImageCanvas) LineTo(x, y float64) { c.dc.LineTo(x, y) }
func (c *ImageCanvas) Stroke()             { c.dc.Stroke() }

func (c *ImageCanvas) FillRect(x, y, w, h float64) {
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Fill()
}

func (c *ImageCanvas) FillCircle(x, y, r float64) {
	c.dc.NewSubPath()
	c.dc.DrawCircle(x, y, r)
	c.dc.Fill()
}

func (c *ImageCanvas) StrokeCircle(x, y, r float64) {
	c.dc.NewSubPath()
	c.dc.DrawCircle(x, y, r)
	c.dc.Stroke()
}

func (c *ImageCanvas) Text(s string, x, y, ax, ay float64) {
	c.dc.DrawStringAnchored(s, x, y, ax, ay)
}

// Image exposes the raster for inspection.
func (c *ImageCanvas) Image() image.Image { return c.dc.Image() }

// EncodePNG writes the current raster as PNG.
func (c *ImageCanvas) EncodePNG(w io.Writer) error { return c.dc.EncodePNG(w) }
