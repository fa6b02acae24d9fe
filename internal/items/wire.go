package items

import (
	"encoding/json"

	"github.com/google/uuid"

	"schematic-editor/pkg/geometry"
)

// WirePoint is a polyline vertex plus its junction flag. A junction means
// the point lies on the interior of another wire's segment and is
// electrically bonded to it.
type WirePoint struct {
	Pos        geometry.Point2D `json:"pos"`
	IsJunction bool             `json:"junction,omitempty"`
}

// Wire is an ordered polyline of points stored relative to the wire's own
// origin. Point-level mutators take and return absolute scene coordinates;
// they never trigger topology recomputation themselves. The scene engine
// decides when connectivity has to be reconsidered.
//
// The connected list records the wires whose endpoint rests on this wire
// (the host keeps the reference, not the attaching wire).
type Wire struct {
	id        string
	pos       geometry.Point2D
	points    []WirePoint
	connected []*Wire
}

// NewWire creates an empty wire at the origin.
func NewWire() *Wire {
	return &Wire{id: uuid.NewString()}
}

// ID returns the wire's identity.
func (w *Wire) ID() string { return w.id }

// TypeID implements Item.
func (w *Wire) TypeID() TypeID { return TypeWire }

// Position returns the wire's origin in scene coordinates.
func (w *Wire) Position() geometry.Point2D { return w.pos }

// SetPosition moves the wire's origin, carrying all points along.
func (w *Wire) SetPosition(pos geometry.Point2D) { w.pos = pos }

// Translate moves the wire's origin by delta.
func (w *Wire) Translate(delta geometry.Point2D) { w.pos = w.pos.Add(delta) }

// PointCount returns the number of polyline points.
func (w *Wire) PointCount() int { return len(w.points) }

// WirePointsRelative returns a copy of the points in wire-local coordinates.
func (w *Wire) WirePointsRelative() []WirePoint {
	out := make([]WirePoint, len(w.points))
	copy(out, w.points)
	return out
}

// WirePointsAbsolute returns a copy of the points in scene coordinates.
func (w *Wire) WirePointsAbsolute() []WirePoint {
	out := make([]WirePoint, len(w.points))
	for i, p := range w.points {
		out[i] = WirePoint{Pos: p.Pos.Add(w.pos), IsJunction: p.IsJunction}
	}
	return out
}

// PointsAbsolute returns the bare polyline in scene coordinates.
func (w *Wire) PointsAbsolute() []geometry.Point2D {
	out := make([]geometry.Point2D, len(w.points))
	for i, p := range w.points {
		out[i] = p.Pos.Add(w.pos)
	}
	return out
}

// PointAbsolute returns the i-th point in scene coordinates. The second
// return value is false when i is out of range.
func (w *Wire) PointAbsolute(i int) (geometry.Point2D, bool) {
	if i < 0 || i >= len(w.points) {
		return geometry.Point2D{}, false
	}
	return w.points[i].Pos.Add(w.pos), true
}

// AppendPoint appends the scene point p to the end of the polyline. Fails
// silently if p rounds to the same grid point as the current last point.
func (w *Wire) AppendPoint(p geometry.Point2D) {
	if n := len(w.points); n > 0 && geometry.SamePoint(w.points[n-1].Pos.Add(w.pos), p) {
		return
	}
	w.points = append(w.points, WirePoint{Pos: p.Sub(w.pos)})
}

// PrependPoint inserts the scene point p at the front of the polyline. Fails
// silently if p rounds to the same grid point as the current first point.
func (w *Wire) PrependPoint(p geometry.Point2D) {
	if len(w.points) > 0 && geometry.SamePoint(w.points[0].Pos.Add(w.pos), p) {
		return
	}
	w.points = append([]WirePoint{{Pos: p.Sub(w.pos)}}, w.points...)
}

// InsertPoint inserts the scene point p before index i. Used when a junction
// is promoted into the wire. No-op on out-of-range indices.
func (w *Wire) InsertPoint(i int, p geometry.Point2D) {
	if i < 0 || i > len(w.points) {
		return
	}
	w.points = append(w.points, WirePoint{})
	copy(w.points[i+1:], w.points[i:])
	w.points[i] = WirePoint{Pos: p.Sub(w.pos)}
}

// RemovePoint removes the i-th point. No-op when the index is out of range
// or when removal would empty the wire.
func (w *Wire) RemovePoint(i int) {
	if i < 0 || i >= len(w.points) || len(w.points) <= 1 {
		return
	}
	w.points = append(w.points[:i], w.points[i+1:]...)
}

// MovePointTo repositions the i-th point to the scene position p. No-op on
// out-of-range indices.
func (w *Wire) MovePointTo(i int, p geometry.Point2D) {
	if i < 0 || i >= len(w.points) {
		return
	}
	w.points[i].Pos = p.Sub(w.pos)
}

// MovePointBy translates the i-th point by delta. No-op on out-of-range
// indices.
func (w *Wire) MovePointBy(i int, delta geometry.Point2D) {
	if i < 0 || i >= len(w.points) {
		return
	}
	w.points[i].Pos = w.points[i].Pos.Add(delta)
}

// SetPointIsJunction sets the junction flag of the i-th point. No-op on
// out-of-range indices.
func (w *Wire) SetPointIsJunction(i int, junction bool) {
	if i < 0 || i >= len(w.points) {
		return
	}
	w.points[i].IsJunction = junction
}

// JunctionIndices returns the indices of all points flagged as junctions.
func (w *Wire) JunctionIndices() []int {
	var out []int
	for i, p := range w.points {
		if p.IsJunction {
			out = append(out, i)
		}
	}
	return out
}

// Segments returns the polyline's line segments in scene coordinates.
func (w *Wire) Segments() []geometry.Segment {
	abs := w.PointsAbsolute()
	if len(abs) < 2 {
		return nil
	}
	segs := make([]geometry.Segment, 0, len(abs)-1)
	for i := 0; i < len(abs)-1; i++ {
		segs = append(segs, geometry.NewSegment(abs[i], abs[i+1]))
	}
	return segs
}

// PointIsOnWire returns true if the scene point p lies on the strict
// interior of the polyline: within tolerance of some segment but not
// coinciding with the polyline's first or last point. Endpoint-to-endpoint
// touches therefore do not count; they are shared endpoints, not junctions.
func (w *Wire) PointIsOnWire(p geometry.Point2D) bool {
	abs := w.PointsAbsolute()
	if len(abs) < 2 {
		return false
	}
	if geometry.SamePoint(p, abs[0]) || geometry.SamePoint(p, abs[len(abs)-1]) {
		return false
	}
	for _, seg := range w.Segments() {
		if seg.ContainsPoint(p) {
			return true
		}
	}
	return false
}

// ConnectWire records that the other wire's endpoint rests on this wire.
func (w *Wire) ConnectWire(other *Wire) {
	if other == nil || other == w {
		return
	}
	for _, c := range w.connected {
		if c == other {
			return
		}
	}
	w.connected = append(w.connected, other)
}

// DisconnectWire removes the record of the other wire.
func (w *Wire) DisconnectWire(other *Wire) {
	for i, c := range w.connected {
		if c == other {
			w.connected = append(w.connected[:i], w.connected[i+1:]...)
			return
		}
	}
}

// ConnectedWires returns a copy of the directly-connected wire list.
func (w *Wire) ConnectedWires() []*Wire {
	out := make([]*Wire, len(w.connected))
	copy(out, w.connected)
	return out
}

// IsConnectedTo returns true if other is in the directly-connected list.
func (w *Wire) IsConnectedTo(other *Wire) bool {
	for _, c := range w.connected {
		if c == other {
			return true
		}
	}
	return false
}

// Simplify removes duplicate and collinear interior points. Endpoints and
// interior junction points are preserved verbatim. Idempotent.
func (w *Wire) Simplify() {
	for {
		removed := false
		for i := 1; i < len(w.points)-1; i++ {
			if w.points[i].IsJunction {
				continue
			}
			prev := w.points[i-1].Pos.Round()
			cur := w.points[i].Pos.Round()
			next := w.points[i+1].Pos.Round()
			if cur == prev || collinear(prev, cur, next) {
				w.points = append(w.points[:i], w.points[i+1:]...)
				removed = true
				break
			}
		}
		if !removed {
			return
		}
	}
}

func collinear(a, b, c geometry.PointInt) bool {
	return (b.X-a.X)*(c.Y-b.Y)-(b.Y-a.Y)*(c.X-b.X) == 0
}

// wireDoc is the persisted representation. Connectivity and junction hosts
// are not stored; they are rediscovered on load.
type wireDoc struct {
	ID     string      `json:"id"`
	Pos    geometry.Point2D `json:"pos"`
	Points []WirePoint `json:"points"`
}

// MarshalJSON implements json.Marshaler.
func (w *Wire) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireDoc{ID: w.id, Pos: w.pos, Points: w.points})
}

// UnmarshalJSON implements json.Unmarshaler.
func (w *Wire) UnmarshalJSON(data []byte) error {
	var doc wireDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.ID != "" {
		w.id = doc.ID
	} else if w.id == "" {
		w.id = uuid.NewString()
	}
	w.pos = doc.Pos
	w.points = doc.Points
	w.connected = nil
	return nil
}
