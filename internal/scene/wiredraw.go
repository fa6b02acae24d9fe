package scene

import (
	"errors"

	"schematic-editor/internal/items"
	"schematic-editor/pkg/geometry"
)

// ErrWireFloating is returned by FinalizeWire when the wire's last point
// lands on neither a connector nor another wire.
var ErrWireFloating = errors.New("wire is not attached to a connector or wire")

// drawSession holds an in-progress wire. The trailing cursor point is kept
// outside the wire so that committed points are never disturbed by preview
// movement.
type drawSession struct {
	wire      *items.Wire
	cursor    geometry.Point2D
	hasCursor bool
	invert    bool
}

// InProgressWire returns the wire being drawn, or nil outside a draw
// session. Callers must not mutate it.
func (s *Scene) InProgressWire() *items.Wire {
	if s.draw == nil {
		return nil
	}
	return s.draw.wire
}

// DrawCursor returns the provisional cursor point and whether one is set.
func (s *Scene) DrawCursor() (geometry.Point2D, bool) {
	if s.draw == nil || !s.draw.hasCursor {
		return geometry.Point2D{}, false
	}
	return s.draw.cursor, true
}

// BeginWire starts drawing a wire at the given position. Requires draw
// mode; an already-running session is discarded.
func (s *Scene) BeginWire(start geometry.Point2D) {
	if s.mode != ModeDrawWire {
		return
	}
	w := items.NewWire()
	w.AppendPoint(s.settings.SnapToGrid(start))
	s.draw = &drawSession{wire: w}
}

// AppendWirePoint commits the current cursor position as a wire point. With
// straight-angle routing on, an intermediate corner point is inserted when
// the new point shares neither axis with the previous one; the corner's
// orientation follows the session posture.
func (s *Scene) AppendWirePoint(p geometry.Point2D) {
	if s.draw == nil {
		return
	}
	w := s.draw.wire
	snapped := s.settings.SnapToGrid(p)

	if last, ok := w.PointAbsolute(w.PointCount() - 1); ok && s.settings.RouteStraightAngles {
		if corner, needed := cornerPoint(last, snapped, s.draw.invert); needed {
			w.AppendPoint(corner)
		}
	}
	w.AppendPoint(snapped)
	s.draw.hasCursor = false
}

// MoveWireCursor updates the provisional preview point.
func (s *Scene) MoveWireCursor(p geometry.Point2D) {
	if s.draw == nil {
		return
	}
	s.draw.cursor = s.settings.SnapToGrid(p)
	s.draw.hasCursor = true
}

// ToggleWirePosture flips the corner orientation used by straight-angle
// routing for the remainder of the session.
func (s *Scene) ToggleWirePosture() {
	if s.draw == nil {
		return
	}
	s.draw.invert = !s.draw.invert
}

// CancelWire discards the in-progress wire.
func (s *Scene) CancelWire() {
	s.draw = nil
}

// FinalizeWire commits the in-progress wire as a reversible edit. The
// provisional cursor point is dropped; the wire is rejected with
// ErrWireFloating, leaving the session intact, when its last point lands on
// neither a connector nor another wire. On success the wire is simplified
// and added, which binds connectors and forms junctions at both ends.
func (s *Scene) FinalizeWire() error {
	if s.draw == nil {
		return nil
	}
	w := s.draw.wire
	if w.PointCount() < 2 {
		s.draw = nil
		return nil
	}

	last, _ := w.PointAbsolute(w.PointCount() - 1)
	if !s.pointIsAttachable(last) {
		return ErrWireFloating
	}

	w.Simplify()
	s.draw = nil
	s.AddWire(w)
	return nil
}

func (s *Scene) pointIsAttachable(p geometry.Point2D) bool {
	for _, conn := range s.Connectors() {
		if geometry.PointsCoincide(conn.ScenePos(), p) {
			return true
		}
	}
	for _, w := range s.Wires() {
		if w.PointIsOnWire(p) {
			return true
		}
	}
	return false
}

// cornerPoint returns the intermediate point making the path from a to b
// consist of axis-aligned segments. No corner is needed when the points
// already share an axis. The default posture runs horizontally first.
func cornerPoint(a, b geometry.Point2D, invert bool) (geometry.Point2D, bool) {
	if geometry.SamePoint(a, b) {
		return geometry.Point2D{}, false
	}
	ai, bi := a.Round(), b.Round()
	if ai.X == bi.X || ai.Y == bi.Y {
		return geometry.Point2D{}, false
	}
	if invert {
		return geometry.Point2D{X: a.X, Y: b.Y}, true
	}
	return geometry.Point2D{X: b.X, Y: a.Y}, true
}
