package items

import (
	"encoding/json"

	"github.com/google/uuid"

	"schematic-editor/pkg/geometry"
)

// SnapPolicy controls where on its node a connector may sit.
type SnapPolicy int

const (
	// SnapAnywhere places the connector freely.
	SnapAnywhere SnapPolicy = iota
	// SnapNodeRect clamps the connector into the node's size rect.
	SnapNodeRect
	// SnapNodeRectOutline projects the connector onto the size rect outline.
	SnapNodeRectOutline
	// SnapNodeShape projects the connector onto the node's custom shape
	// outline. Falls back to the size rect outline when the node has no
	// shape.
	SnapNodeShape
)

func (p SnapPolicy) String() string {
	switch p {
	case SnapAnywhere:
		return "Anywhere"
	case SnapNodeRect:
		return "NodeRect"
	case SnapNodeRectOutline:
		return "NodeRectOutline"
	case SnapNodeShape:
		return "NodeShape"
	default:
		return "Unknown"
	}
}

// Connector is a named attachment site on a node. It holds at most one
// binding to a (wire, point index) pair. A bound connector drags its wire
// point along whenever the node moves or rotates.
type Connector struct {
	id         string
	name       string
	rel        geometry.Point2D
	snapPolicy SnapPolicy

	node *Node

	wire           *Wire
	wirePointIndex int
}

// NewConnector creates an unbound connector at the given node-relative
// position.
func NewConnector(name string, rel geometry.Point2D) *Connector {
	return &Connector{
		id:             uuid.NewString(),
		name:           name,
		rel:            rel,
		snapPolicy:     SnapNodeRectOutline,
		wirePointIndex: -1,
	}
}

// ID returns the connector's identity.
func (c *Connector) ID() string { return c.id }

// Name returns the connector's name.
func (c *Connector) Name() string { return c.name }

// Node returns the owning node, or nil for a free connector.
func (c *Connector) Node() *Node { return c.node }

// SnapPolicy returns the connector's snap policy.
func (c *Connector) SnapPolicy() SnapPolicy { return c.snapPolicy }

// SetSnapPolicy sets the connector's snap policy.
func (c *Connector) SetSnapPolicy(p SnapPolicy) { c.snapPolicy = p }

// RelPos returns the connector's position relative to its node.
func (c *Connector) RelPos() geometry.Point2D { return c.rel }

// SetRelPos moves the connector within its node, honoring the snap policy.
func (c *Connector) SetRelPos(p geometry.Point2D) {
	if c.node == nil {
		c.rel = p
		return
	}
	rect := c.node.SizeRect()
	switch c.snapPolicy {
	case SnapAnywhere:
	case SnapNodeRect:
		p = geometry.ClipPointToRect(p, rect)
	case SnapNodeRectOutline:
		p = geometry.ClipPointToRectOutline(p, rect)
	case SnapNodeShape:
		// Points inside the custom shape stay; outside ones land on
		// its outline.
		if shape := c.node.Shape(); len(shape) >= 3 {
			if !geometry.PointInPolygon(p, shape) {
				p = geometry.ClipPointToPolygonOutline(p, shape)
			}
		} else {
			p = geometry.ClipPointToRectOutline(p, rect)
		}
	}
	c.rel = p
}

// ScenePos returns the connector's absolute scene position, accounting for
// the node's position and rotation.
func (c *Connector) ScenePos() geometry.Point2D {
	if c.node == nil {
		return c.rel
	}
	return c.node.ScenePosOf(c.rel)
}

// Attach binds the connector to the indexed point of the wire, replacing any
// previous binding. The index guard deliberately tests the connector's
// current index rather than the incoming one, mirroring the long-standing
// behavior this editor inherited; an out-of-range incoming index therefore
// still binds and the engine treats later moves of it as silent no-ops.
func (c *Connector) Attach(wire *Wire, index int) {
	if wire == nil {
		return
	}
	if c.wirePointIndex < -1 || wire.PointCount() < c.wirePointIndex {
		return
	}
	c.wire = wire
	c.wirePointIndex = index
}

// Detach clears the binding.
func (c *Connector) Detach() {
	c.wire = nil
	c.wirePointIndex = -1
}

// AttachedWire returns the bound wire, or nil.
func (c *Connector) AttachedWire() *Wire { return c.wire }

// AttachedPointIndex returns the bound point index, or -1.
func (c *Connector) AttachedPointIndex() int {
	if c.wire == nil {
		return -1
	}
	return c.wirePointIndex
}

// IsBound returns true if the connector is bound to a wire point.
func (c *Connector) IsBound() bool { return c.wire != nil }

// UpdateWirePoint drags the bound wire point to the connector's current
// scene position. Called after the owning node moved or rotated.
func (c *Connector) UpdateWirePoint() {
	if c.wire == nil {
		return
	}
	if c.wirePointIndex < -1 || c.wire.PointCount() < c.wirePointIndex {
		return
	}
	old, ok := c.wire.PointAbsolute(c.wirePointIndex)
	if !ok {
		return
	}
	delta := c.ScenePos().Sub(old)
	if delta.IsZero() {
		return
	}
	c.wire.MovePointBy(c.wirePointIndex, delta)
}

// connectorDoc is the persisted representation. Bindings are not stored;
// they are rediscovered on load from coinciding positions.
type connectorDoc struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Pos        geometry.Point2D `json:"pos"`
	SnapPolicy SnapPolicy       `json:"snap_policy"`
}

// MarshalJSON implements json.Marshaler.
func (c *Connector) MarshalJSON() ([]byte, error) {
	return json.Marshal(connectorDoc{ID: c.id, Name: c.name, Pos: c.rel, SnapPolicy: c.snapPolicy})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Connector) UnmarshalJSON(data []byte) error {
	var doc connectorDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.ID != "" {
		c.id = doc.ID
	} else if c.id == "" {
		c.id = uuid.NewString()
	}
	c.name = doc.Name
	c.rel = doc.Pos
	c.snapPolicy = doc.SnapPolicy
	c.wire = nil
	c.wirePointIndex = -1
	return nil
}
