package scene

import (
	"schematic-editor/internal/items"
	"schematic-editor/pkg/geometry"
)

type addNodeCommand struct {
	scene *Scene
	node  *items.Node
}

func (c *addNodeCommand) Redo() { c.scene.installNode(c.node) }
func (c *addNodeCommand) Undo() { c.scene.uninstallNode(c.node) }

type removeNodeCommand struct {
	scene *Scene
	node  *items.Node
}

func (c *removeNodeCommand) Redo() { c.scene.uninstallNode(c.node) }
func (c *removeNodeCommand) Undo() { c.scene.installNode(c.node) }

type addWireCommand struct {
	scene *Scene
	wire  *items.Wire
}

func (c *addWireCommand) Redo() { c.scene.installWire(c.wire) }
func (c *addWireCommand) Undo() { c.scene.uninstallWire(c.wire) }

type removeWireCommand struct {
	scene *Scene
	wire  *items.Wire
}

func (c *removeWireCommand) Redo() { c.scene.uninstallWire(c.wire) }

// Undo re-installs the wire; bindings and junctions are rediscovered from
// geometry rather than restored from a snapshot.
func (c *removeWireCommand) Undo() { c.scene.installWire(c.wire) }

// moveItemsCommand translates a set of items by per-item deltas. Both
// directions run the full topology update so that bindings, junctions and
// net membership match the geometry after every undo and redo.
type moveItemsCommand struct {
	scene  *Scene
	items  []items.Item
	deltas []geometry.Point2D
}

func (c *moveItemsCommand) Redo() {
	for i, it := range c.items {
		c.scene.applyTranslation(it, c.deltas[i])
	}
}

func (c *moveItemsCommand) Undo() {
	for i := len(c.items) - 1; i >= 0; i-- {
		d := c.deltas[i]
		c.scene.applyTranslation(c.items[i], geometry.Point2D{X: -d.X, Y: -d.Y})
	}
}

// applyTranslation moves a single item and re-establishes the connection
// invariants it may have disturbed.
func (s *Scene) applyTranslation(item items.Item, delta geometry.Point2D) {
	switch t := item.(type) {
	case *items.Wire:
		t.Translate(delta)
		for i := 0; i < t.PointCount(); i++ {
			s.wirePointMovedByUser(t, i)
		}
	case *items.Node:
		t.Translate(delta)
		s.nodeMoved(t)
	default:
		item.Translate(delta)
	}
}

// BeginDrag starts an interactive move of the given items. Positions are
// snapshotted so that the whole gesture lands on the undo stack as one
// command. A second BeginDrag before EndDrag replaces the gesture.
func (s *Scene) BeginDrag(dragged []items.Item) {
	s.dragItems = nil
	s.initialPositions = make(map[items.Item]geometry.Point2D, len(dragged))
	for _, it := range dragged {
		if it == nil {
			continue
		}
		s.dragItems = append(s.dragItems, it)
		s.initialPositions[it] = it.Position()
	}
}

// DragBy translates all dragged items by delta with full topology
// maintenance but without recording history. No-op outside a drag.
func (s *Scene) DragBy(delta geometry.Point2D) {
	for _, it := range s.dragItems {
		s.applyTranslation(it, delta)
	}
	s.flushEvents()
}

// EndDrag finishes the gesture. Items that actually moved are rewound to
// their snapshot positions and a single move command is pushed, replaying
// the net displacement; its undo restores the snapshot.
func (s *Scene) EndDrag() {
	var moved []items.Item
	var deltas []geometry.Point2D
	for _, it := range s.dragItems {
		start := s.initialPositions[it]
		end := it.Position()
		d := geometry.Point2D{X: end.X - start.X, Y: end.Y - start.Y}
		if geometry.SamePoint(start, end) {
			continue
		}
		moved = append(moved, it)
		deltas = append(deltas, d)
	}
	s.dragItems = nil
	s.initialPositions = nil

	if len(moved) == 0 {
		return
	}
	for i := len(moved) - 1; i >= 0; i-- {
		d := deltas[i]
		s.applyTranslation(moved[i], geometry.Point2D{X: -d.X, Y: -d.Y})
	}
	s.stack.Push(&moveItemsCommand{scene: s, items: moved, deltas: deltas})
	s.flushEvents()
}
