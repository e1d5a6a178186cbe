package render

import (
	"fmt"
	"strings"
	"time"
)

// op is one recorded canvas call.
type op struct {
	name  string
	color string
	dash  []float64
	width float64
	args  []float64
	text  string
}

// recordingCanvas logs every drawing call with the state it ran under.
type recordingCanvas struct {
	w, h  int
	color string
	dash  []float64
	width float64
	ops   []op
}

func newRecordingCanvas(w, h int) *recordingCanvas {
	return &recordingCanvas{w: w, h: h, width: 1}
}

func (r *recordingCanvas) Width() int  { return r.w }
func (r *recordingCanvas) Height() int { return r.h }

func (r *recordingCanvas) SetColor(hex string)    { r.color = hex }
func (r *recordingCanvas) SetLineWidth(w float64) { r.width = w }
func (r *recordingCanvas) SetDash(d ...float64)   { r.dash = append([]float64(nil), d...) }

func (r *recordingCanvas) record(name string, args ...float64) {
	r.ops = append(r.ops, op{name: name, color: r.color, dash: r.dash, width: r.width, args: args})
}

func (r *recordingCanvas) MoveTo(x, y float64)          { r.record("move", x, y) }
func (r *recordingCanvas) LineTo(x, y float64)          { r.record("line", x, y) }
func (r *recordingCanvas) Stroke()                      { r.record("stroke") }
func (r *recordingCanvas) FillRect(x, y, w, h float64)  { r.record("rect", x, y, w, h) }
func (r *recordingCanvas) FillCircle(x, y, rad float64) { r.record("fillcircle", x, y, rad) }
func (r *recordingCanvas) StrokeCircle(x, y, rad float64) {
	r.record("strokecircle", x, y, rad)
}

func (r *recordingCanvas) Text(s string, x, y, ax, ay float64) {
	r.ops = append(r.ops, op{name: "text", color: r.color, text: s, args: []float64{x, y, ax, ay}})
}

// colorIndex returns the index of the first op drawn in color, or -1.
func (r *recordingCanvas) colorIndex(color string) int {
	for i, o := range r.ops {
		if o.color == color && o.name != "text" {
			return i
		}
	}
	return -1
}

func (r *recordingCanvas) count(name, color string) int {
	n := 0
	for _, o := range r.ops {
		if o.name == name && (color == "" || o.color == color) {
			n++
		}
	}
	return n
}

func (r *recordingCanvas) texts() []string {
	var out []string
	for _, o := range r.ops {
		if o.name == "text" {
			out = append(out, o.text)
		}
	}
	return out
}

// polylines reassembles stroked sub-paths drawn in color.
func (r *recordingCanvas) polylines(color string) [][][2]float64 {
	var (
		out [][][2]float64
		cur [][2]float64
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, o := range r.ops {
		if o.color != color {
			continue
		}
		switch o.name {
		case "move":
			flush()
			cur = [][2]float64{{o.args[0], o.args[1]}}
		case "line":
			cur = append(cur, [2]float64{o.args[0], o.args[1]})
		case "stroke":
			flush()
		}
	}
	flush()
	return out
}

func (r *recordingCanvas) String() string {
	var b strings.Builder
	for _, o := range r.ops {
		fmt.Fprintf(&b, "%s %s %v %q\n", o.name, o.color, o.args, o.text)
	}
	return b.String()
}

type fakeRecorder struct {
	frames      map[string]int
	trackPoints int
	features    int
	failures    int
}

func newFakeRecorder() *fakeRecorder { return &fakeRecorder{frames: map[string]int{}} }

func (f *fakeRecorder) ObserveFrame(view string, _ time.Duration) { f.frames[view]++ }
func (f *fakeRecorder) SetTrackPoints(n int)                      { f.trackPoints = n }
func (f *fakeRecorder) SetCoastlineFeatures(n int)                { f.features = n }
func (f *fakeRecorder) CoastlineLoadFailed()                      { f.failures++ }
