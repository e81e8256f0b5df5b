package export

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/ivlev/sig2gif/internal/logging"
	"github.com/ivlev/sig2gif/internal/render"
	"github.com/ivlev/sig2gif/internal/timeline"
)

// SVGOptions selects the markup flavour.
type SVGOptions struct {
	// Animated adds a stroke-dashoffset animation per path.
	Animated bool
	// Duration rescales the whole animation to this many milliseconds.
	// Zero keeps the timeline duration.
	Duration float64
	// Loop repeats the whole drawing forever on a shared cycle.
	Loop bool
}

// SVG renders the paths as markup. It never fails: on any internal error
// it logs and returns an empty string.
func (e *Exporter) SVG(opts SVGOptions) (out string) {
	defer func() {
		if r := recover(); r != nil {
			logging.Logger().Error("export: svg failed", "err", fmt.Errorf("panic: %v", r))
			out = ""
		}
	}()
	s, err := e.svg(opts)
	if err != nil {
		logging.Logger().Error("export: svg failed", "err", err)
		return ""
	}
	return s
}

func (e *Exporter) svg(opts SVGOptions) (string, error) {
	var (
		paths []timeline.PathInfo
		scene []render.Entry
		total float64
		err   error
	)
	e.exec.Do(func() {
		paths = e.tl.Paths()
		total = e.tl.Duration()
		scene, err = e.tl.Scene()
	})
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", ErrNoPaths
	}
	vb, err := e.viewBox(scene)
	if err != nil {
		return "", err
	}

	scale := 1.0
	if opts.Duration > 0 && total > 0 {
		scale = opts.Duration / total
	}
	cycle := total * scale

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	minX, minY := int(vb.MinX), int(vb.MinY)
	w, h := int(vb.Width()), int(vb.Height())
	canvas.Startview(w, h, minX, minY, w, h)
	canvas.Title(e.opts.Title)
	canvas.Group(`fill="none"`, `stroke-linecap="round"`, `stroke-linejoin="round"`)

	for i, p := range paths {
		id := fmt.Sprintf("stroke-%d", i)
		st := scene[i].Style
		attrs := []string{
			attr("id", id),
			attr("stroke", safeColor(st.Color)),
			attr("stroke-width", num(st.Width)),
		}
		length := math.Ceil(math.Round(p.Length*1000) / 1000)
		if opts.Animated && length > 0 {
			attrs = append(attrs,
				attr("stroke-dasharray", num(length)),
				attr("stroke-dashoffset", num(length)),
			)
		}
		if p.Length <= 0 {
			attrs = append(attrs, attr("visibility", "hidden"))
		}
		canvas.Path(html.EscapeString(scene[i].D), attrs...)

		if !opts.Animated || length <= 0 {
			continue
		}
		delay := p.Delay * scale
		dur := p.Duration * scale
		if opts.Loop {
			canvas.Animate("#"+id, "stroke-dashoffset", int(length), 0, cycle/1000, 0,
				attr("values", fmt.Sprintf("%s;%s;0;0", num(length), num(length))),
				attr("keyTimes", keyTimes(delay, dur, cycle)),
			)
			continue
		}
		canvas.Animate("#"+id, "stroke-dashoffset", int(length), 0, dur/1000, 1,
			attr("begin", num(delay/1000)+"s"),
			attr("fill", "freeze"),
		)
	}

	canvas.Gend()
	canvas.End()
	return buf.String(), nil
}

// keyTimes places a path's window inside the shared loop cycle.
func keyTimes(delay, dur, cycle float64) string {
	if cycle <= 0 {
		return "0;0;1;1"
	}
	a := math.Min(1, delay/cycle)
	b := math.Min(1, (delay+dur)/cycle)
	return strings.Join([]string{"0", num(a), num(b), "1"}, ";")
}

func attr(name, value string) string {
	return name + `="` + value + `"`
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*10000)/10000, 'f', -1, 64)
}

// safeColor keeps only colours the renderer understands.
func safeColor(s string) string {
	if _, err := render.ParseColor(s); err != nil {
		return "#000000"
	}
	return s
}
