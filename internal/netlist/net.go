// Package netlist provides the wire net: the equivalence class of
// electrically connected wires. Net membership is maintained exclusively by
// the scene engine; the net itself is a container with a label and a
// highlight state.
package netlist

import (
	"strings"

	"schematic-editor/internal/items"
	"schematic-editor/pkg/geometry"
)

// Net is an ordered set of wires forming one electrical net.
type Net struct {
	name        string
	wires       []*items.Wire
	label       *items.Label
	highlighted bool

	// onHighlight is installed by the scene when the net is adopted, so
	// highlight changes can be propagated to equally-named nets.
	onHighlight func(highlighted bool)
}

// NewNet creates an empty, unnamed net. Its label stays hidden until the
// net gets a name.
func NewNet() *Net {
	n := &Net{label: items.NewLabel("")}
	n.SetName("")
	return n
}

// Name returns the net's name, possibly empty.
func (n *Net) Name() string { return n.name }

// SetName renames the net and updates its label text.
func (n *Net) SetName(name string) {
	n.name = name
	n.label.SetText(name)
	n.label.SetVisible(name != "")
}

// SameName reports whether the other net carries the same non-empty name,
// compared case-insensitively.
func (n *Net) SameName(other *Net) bool {
	if other == nil || n.name == "" {
		return false
	}
	return strings.EqualFold(n.name, other.name)
}

// Label returns the net's display label.
func (n *Net) Label() *items.Label { return n.label }

// Contains returns true if the wire belongs to this net.
func (n *Net) Contains(w *items.Wire) bool {
	for _, x := range n.wires {
		if x == w {
			return true
		}
	}
	return false
}

// AddWire adds a wire to the net. Nil wires and duplicates are ignored.
func (n *Net) AddWire(w *items.Wire) {
	if w == nil || n.Contains(w) {
		return
	}
	n.wires = append(n.wires, w)
}

// RemoveWire removes a wire from the net.
func (n *Net) RemoveWire(w *items.Wire) {
	for i, x := range n.wires {
		if x == w {
			n.wires = append(n.wires[:i], n.wires[i+1:]...)
			return
		}
	}
}

// Wires returns the net's wires in stable order.
func (n *Net) Wires() []*items.Wire {
	out := make([]*items.Wire, len(n.wires))
	copy(out, n.wires)
	return out
}

// WireCount returns the number of wires in the net.
func (n *Net) WireCount() int { return len(n.wires) }

// LineSegments returns the concatenation of all wires' segments in scene
// coordinates.
func (n *Net) LineSegments() []geometry.Segment {
	var segs []geometry.Segment
	for _, w := range n.wires {
		segs = append(segs, w.Segments()...)
	}
	return segs
}

// ContainsPoint returns true if any of the net's segments passes within the
// connect tolerance of p.
func (n *Net) ContainsPoint(p geometry.Point2D) bool {
	for _, seg := range n.LineSegments() {
		if seg.ContainsPoint(p) {
			return true
		}
	}
	return false
}

// Highlighted returns the net's highlight state.
func (n *Net) Highlighted() bool { return n.highlighted }

// SetHighlighted sets the highlight state, mirrors it onto the label, and
// notifies the observer. The observer is responsible for loop prevention
// when it propagates the highlight further.
func (n *Net) SetHighlighted(highlighted bool) {
	n.highlighted = highlighted
	n.label.SetHighlighted(highlighted)
	if n.onHighlight != nil {
		n.onHighlight(highlighted)
	}
}

// SetHighlightObserver installs the highlight callback. Passing nil removes
// the observer.
func (n *Net) SetHighlightObserver(fn func(highlighted bool)) {
	n.onHighlight = fn
}
