// Package render holds the drawing-backend abstraction the timeline writes
// to, the authoritative style sheet export reads from, and the offscreen
// raster surface.
package render

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotMounted is returned for operations on an unknown path id.
var ErrNotMounted = errors.New("render: path not mounted")

// Style is the presentation state of one stroked path.
type Style struct {
	Color string
	Width float64

	// DashArray is the dash and gap length used for the reveal, normally the
	// measured path length. DashOffset hides that much of the stroke.
	DashArray  float64
	DashOffset float64

	Dx, Dy      float64
	Transformed bool

	// Hidden marks a path that must not be painted at all, e.g. one whose
	// length could not be measured.
	Hidden bool
}

// Drawn returns the visible stroke length implied by the dash state.
func (s Style) Drawn() float64 {
	if s.Hidden {
		return 0
	}
	if s.DashArray <= 0 {
		return 0
	}
	d := s.DashArray - s.DashOffset
	switch {
	case d < 0:
		return 0
	case d > s.DashArray:
		return s.DashArray
	}
	return d
}

// Target is a rendering backend the timeline pushes visual updates to.
// Implementations may fail on any call; callers treat failures as
// transient.
type Target interface {
	Mount(id, d string, style Style) error
	Unmount(id string) error
	SetDash(id string, length, offset float64) error
	SetStrokeWidth(id string, width float64) error
	SetTransform(id string, dx, dy float64) error
	ClearTransform(id string) error
	ComputedStyle(id string) (Style, error)
}

// Entry is one mounted path as seen by Snapshot.
type Entry struct {
	ID    string
	D     string
	Style Style
}

// Sheet is the in-memory Target that keeps the authoritative style of every
// mounted path. Export reads it directly instead of a live rendering tree.
type Sheet struct {
	mu     sync.RWMutex
	order  []string
	d      map[string]string
	styles map[string]Style
}

// NewSheet returns an empty sheet.
func NewSheet() *Sheet {
	return &Sheet{
		d:      make(map[string]string),
		styles: make(map[string]Style),
	}
}

func (s *Sheet) Mount(id, d string, style Style) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.styles[id]; ok {
		return fmt.Errorf("render: path %q already mounted", id)
	}
	s.order = append(s.order, id)
	s.d[id] = d
	s.styles[id] = style
	return nil
}

func (s *Sheet) Unmount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.styles[id]; !ok {
		return ErrNotMounted
	}
	delete(s.styles, id)
	delete(s.d, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Sheet) update(id string, fn func(*Style)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.styles[id]
	if !ok {
		return ErrNotMounted
	}
	fn(&st)
	s.styles[id] = st
	return nil
}

// SetDash sets the reveal dash. A non-positive length hides the path.
func (s *Sheet) SetDash(id string, length, offset float64) error {
	return s.update(id, func(st *Style) {
		st.DashArray = length
		st.DashOffset = offset
		st.Hidden = length <= 0
	})
}

func (s *Sheet) SetStrokeWidth(id string, width float64) error {
	return s.update(id, func(st *Style) { st.Width = width })
}

func (s *Sheet) SetTransform(id string, dx, dy float64) error {
	return s.update(id, func(st *Style) {
		st.Dx, st.Dy = dx, dy
		st.Transformed = true
	})
}

func (s *Sheet) ClearTransform(id string) error {
	return s.update(id, func(st *Style) {
		st.Dx, st.Dy = 0, 0
		st.Transformed = false
	})
}

func (s *Sheet) ComputedStyle(id string) (Style, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.styles[id]
	if !ok {
		return Style{}, ErrNotMounted
	}
	return st, nil
}

// Snapshot copies every mounted path in mount order.
func (s *Sheet) Snapshot() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, Entry{ID: id, D: s.d[id], Style: s.styles[id]})
	}
	return out
}

// Len returns the number of mounted paths.
func (s *Sheet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
