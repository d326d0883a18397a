package board

import "time"

// Dock geometry, in layout units.
const (
	CollapsedHeight = 60.0
	ExpandedHeight  = 350.0
	DockTransition  = 500 * time.Millisecond
)

// Dock is the input area whose height animates between collapsed and expanded.
// It is owned by the UI loop.
type Dock struct {
	now   func() time.Time
	from  float64
	to    float64
	start time.Time
}

// NewDock returns a collapsed dock at rest. A nil clock uses time.Now.
func NewDock(now func() time.Time) *Dock {
	if now == nil {
		now = time.Now
	}
	return &Dock{
		now:  now,
		from: CollapsedHeight,
		to:   CollapsedHeight,
	}
}

// Expand animates toward ExpandedHeight.
func (d *Dock) Expand() { d.animateTo(ExpandedHeight) }

// Collapse animates toward CollapsedHeight.
func (d *Dock) Collapse() { d.animateTo(CollapsedHeight) }

// Target is the height the dock rests at once the transition ends.
func (d *Dock) Target() float64 { return d.to }

// Animating reports whether a transition is in progress.
func (d *Dock) Animating() bool {
	return d.from != d.to && d.now().Sub(d.start) < DockTransition
}

// Height is the current, linearly interpolated height.
func (d *Dock) Height() float64 {
	elapsed := d.now().Sub(d.start)
	if elapsed >= DockTransition || d.from == d.to {
		return d.to
	}
	if elapsed <= 0 {
		return d.from
	}
	frac := float64(elapsed) / float64(DockTransition)
	return d.from + (d.to-d.from)*frac
}

// animateTo restarts the transition from wherever the dock is right now.
func (d *Dock) animateTo(h float64) {
	if h == d.to {
		return
	}
	d.from = d.Height()
	d.to = h
	d.start = d.now()
}
