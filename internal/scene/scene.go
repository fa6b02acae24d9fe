// Package scene implements the topology engine of the schematic editor. The
// scene owns all nodes, wires and nets; every edit goes through its public
// surface, runs to completion synchronously, and leaves the model invariants
// restored before notifications are delivered.
//
// Invariants maintained across every edit:
//   - every wire belongs to exactly one net, and each net's wires form a
//     single connected component under the endpoint-on-wire relation;
//   - every junction point lies on the interior of another wire in the same
//     net;
//   - every bound connector coincides with its wire point.
package scene

import (
	"go.uber.org/zap"

	"schematic-editor/internal/config"
	"schematic-editor/internal/history"
	"schematic-editor/internal/items"
	"schematic-editor/internal/netlist"
	"schematic-editor/pkg/geometry"
)

// Mode is the scene interaction mode.
type Mode int

const (
	// ModeNormal selects and moves existing items.
	ModeNormal Mode = iota
	// ModeDrawWire draws a new wire point by point.
	ModeDrawWire
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeDrawWire:
		return "DrawWire"
	default:
		return "Unknown"
	}
}

// NetHighlight is the payload of EventNetHighlighted.
type NetHighlight struct {
	Net         *netlist.Net
	Highlighted bool
}

// Scene is the topology engine. It is single-threaded: all methods must be
// called from the same goroutine, typically the view host's event loop.
type Scene struct {
	log      *zap.Logger
	settings config.Settings

	rect  geometry.Rect
	nodes []*items.Node
	nets  []*netlist.Net

	stack *history.Stack
	mode  Mode
	draw  *drawSession

	// Drag session state: positions snapshotted at drag start so the whole
	// drag can be committed as one reversible command at drag end.
	dragItems        []items.Item
	initialPositions map[items.Item]geometry.Point2D

	propagatingHighlight bool

	listeners map[EventType][]Listener
	pending   []event
}

// Option configures a Scene.
type Option func(*Scene)

// WithLogger installs a structured logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Scene) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSettings sets the initial settings.
func WithSettings(settings config.Settings) Option {
	return func(s *Scene) { s.settings = settings }
}

// New creates an empty scene.
func New(opts ...Option) *Scene {
	s := &Scene{
		log:       zap.NewNop(),
		settings:  config.DefaultSettings(),
		stack:     history.NewStack(),
		listeners: map[EventType][]Listener{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.stack.SetCleanObserver(func(clean bool) {
		s.emit(EventDirtyChanged, !clean)
	})
	return s
}

// Settings returns the current settings.
func (s *Scene) Settings() config.Settings { return s.settings }

// SetSettings replaces the settings.
func (s *Scene) SetSettings(settings config.Settings) { s.settings = settings }

// SceneRect returns the scene rectangle.
func (s *Scene) SceneRect() geometry.Rect { return s.rect }

// SetSceneRect sets the scene rectangle.
func (s *Scene) SetSceneRect(r geometry.Rect) { s.rect = r }

// Mode returns the current interaction mode.
func (s *Scene) Mode() Mode { return s.mode }

// SetMode switches the interaction mode. Leaving draw mode discards any
// in-progress wire.
func (s *Scene) SetMode(mode Mode) {
	if mode == s.mode {
		return
	}
	if s.mode == ModeDrawWire {
		s.draw = nil
	}
	s.mode = mode
	s.emit(EventModeChanged, mode)
	s.flushEvents()
}

// IsDirty returns true if the scene differs from its last clean state.
func (s *Scene) IsDirty() bool { return !s.stack.IsClean() }

// ClearIsDirty marks the current state as clean.
func (s *Scene) ClearIsDirty() {
	s.stack.SetClean()
	s.flushEvents()
}

// Undo reverts the most recent committed edit.
func (s *Scene) Undo() {
	s.stack.Undo()
	s.flushEvents()
}

// Redo re-applies the most recently undone edit.
func (s *Scene) Redo() {
	s.stack.Redo()
	s.flushEvents()
}

// Nodes returns the scene's nodes in stable order.
func (s *Scene) Nodes() []*items.Node {
	out := make([]*items.Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Nets returns the scene's nets in stable order.
func (s *Scene) Nets() []*netlist.Net {
	out := make([]*netlist.Net, len(s.nets))
	copy(out, s.nets)
	return out
}

// Wires returns all wires across all nets.
func (s *Scene) Wires() []*items.Wire {
	var out []*items.Wire
	for _, net := range s.nets {
		out = append(out, net.Wires()...)
	}
	return out
}

// Connectors returns all connectors across all nodes.
func (s *Scene) Connectors() []*items.Connector {
	var out []*items.Connector
	for _, n := range s.nodes {
		out = append(out, n.Connectors()...)
	}
	return out
}

// ConnectionPoints returns the scene positions of all connectors.
func (s *Scene) ConnectionPoints() []geometry.Point2D {
	var out []geometry.Point2D
	for _, n := range s.nodes {
		out = append(out, n.ConnectionPointsAbsolute()...)
	}
	return out
}

// NetFromWire returns the net containing the wire, or nil.
func (s *Scene) NetFromWire(w *items.Wire) *netlist.Net {
	for _, net := range s.nets {
		if net.Contains(w) {
			return net
		}
	}
	return nil
}

// NetsByName returns all nets whose non-empty name matches the given net's
// name case-insensitively, excluding the net itself.
func (s *Scene) NetsByName(net *netlist.Net) []*netlist.Net {
	var out []*netlist.Net
	for _, other := range s.nets {
		if other != net && other.SameName(net) {
			out = append(out, other)
		}
	}
	return out
}

// NetsAt returns the nets with a segment passing through p.
func (s *Scene) NetsAt(p geometry.Point2D) []*netlist.Net {
	var out []*netlist.Net
	for _, net := range s.nets {
		if net.ContainsPoint(p) {
			out = append(out, net)
		}
	}
	return out
}

// AddNode installs a node as a reversible edit. Nil nodes are ignored.
func (s *Scene) AddNode(n *items.Node) {
	if n == nil {
		return
	}
	s.stack.Push(&addNodeCommand{scene: s, node: n})
	s.flushEvents()
}

// RemoveNode removes a node as a reversible edit. Nil and unknown nodes are
// ignored.
func (s *Scene) RemoveNode(n *items.Node) {
	if n == nil || !s.containsNode(n) {
		return
	}
	s.stack.Push(&removeNodeCommand{scene: s, node: n})
	s.flushEvents()
}

// AddWire installs a wire with its points already set, as a reversible
// edit. A fresh net is created for it and folded into existing nets where
// its endpoints land on other wires. Nil wires and wires with fewer than two
// points are ignored.
func (s *Scene) AddWire(w *items.Wire) {
	if w == nil || w.PointCount() < 2 {
		return
	}
	s.stack.Push(&addWireCommand{scene: s, wire: w})
	s.flushEvents()
}

// RemoveWire removes a wire as a reversible edit, splitting its net when the
// remaining wires fall apart. Nil and unknown wires are ignored.
func (s *Scene) RemoveWire(w *items.Wire) {
	if w == nil || s.NetFromWire(w) == nil {
		return
	}
	s.stack.Push(&removeWireCommand{scene: s, wire: w})
	s.flushEvents()
}

// Clear removes everything and resets history, drag and draw state.
func (s *Scene) Clear() {
	s.dragItems = nil
	s.initialPositions = nil
	s.draw = nil
	s.stack.Clear()

	for _, net := range s.nets {
		net.SetHighlightObserver(nil)
		for _, w := range net.Wires() {
			s.emit(EventItemRemoved, w)
		}
	}
	s.nets = nil
	for _, n := range s.nodes {
		for _, c := range n.Connectors() {
			c.Detach()
		}
		s.emit(EventItemRemoved, n)
	}
	s.nodes = nil
	s.flushEvents()
}

func (s *Scene) containsNode(n *items.Node) bool {
	for _, x := range s.nodes {
		if x == n {
			return true
		}
	}
	return false
}

// installNode wires a node into the scene without touching history.
func (s *Scene) installNode(n *items.Node) {
	s.nodes = append(s.nodes, n)
	s.updateNodeConnections(n)
	s.emit(EventItemAdded, n)
}

// uninstallNode removes a node without touching history. Bindings of its
// connectors are dropped; the wires stay.
func (s *Scene) uninstallNode(n *items.Node) {
	for _, c := range n.Connectors() {
		c.Detach()
	}
	for i, x := range s.nodes {
		if x == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			break
		}
	}
	s.emit(EventItemRemoved, n)
}

// adoptNet starts tracking a net and hooks up highlight propagation.
func (s *Scene) adoptNet(net *netlist.Net) {
	net.SetHighlightObserver(func(highlighted bool) {
		s.netHighlightChanged(net, highlighted)
	})
	s.nets = append(s.nets, net)
}

// dropNet stops tracking a net. Its label dies with it.
func (s *Scene) dropNet(net *netlist.Net) {
	net.SetHighlightObserver(nil)
	for i, x := range s.nets {
		if x == net {
			s.nets = append(s.nets[:i], s.nets[i+1:]...)
			return
		}
	}
}

// netHighlightChanged propagates a highlight change to all nets sharing the
// same non-empty name. The guard prevents the propagated SetHighlighted
// calls from re-entering the propagation.
func (s *Scene) netHighlightChanged(net *netlist.Net, highlighted bool) {
	if s.propagatingHighlight {
		return
	}
	s.propagatingHighlight = true
	for _, other := range s.NetsByName(net) {
		other.SetHighlighted(highlighted)
		s.emit(EventNetHighlighted, NetHighlight{Net: other, Highlighted: highlighted})
	}
	s.propagatingHighlight = false

	s.emit(EventNetHighlighted, NetHighlight{Net: net, Highlighted: highlighted})
	s.flushEvents()
}
