package items

import (
	"encoding/json"
	"math"

	"github.com/google/uuid"

	"schematic-editor/pkg/geometry"
)

// Node is a schematic component: a positioned, sized, rotatable container of
// connectors. Everything about its appearance is left to the view host; the
// model only cares about where its connection points end up.
type Node struct {
	id         string
	pos        geometry.Point2D
	size       geometry.Size
	rotation   float64 // degrees, about the size rect center
	shape      []geometry.Point2D
	connectors []*Connector
}

// NewNode creates an empty node at the origin.
func NewNode() *Node {
	return &Node{id: uuid.NewString()}
}

// ID returns the node's identity.
func (n *Node) ID() string { return n.id }

// TypeID implements Item.
func (n *Node) TypeID() TypeID { return TypeNode }

// Position returns the node's scene position.
func (n *Node) Position() geometry.Point2D { return n.pos }

// SetPosition moves the node. The scene engine is responsible for fanning
// the move out to bound connectors afterwards.
func (n *Node) SetPosition(pos geometry.Point2D) { n.pos = pos }

// Translate moves the node by delta.
func (n *Node) Translate(delta geometry.Point2D) { n.pos = n.pos.Add(delta) }

// Size returns the node's size.
func (n *Node) Size() geometry.Size { return n.size }

// SetSize sets the node's size.
func (n *Node) SetSize(s geometry.Size) { n.size = s }

// SizeRect returns the node-local rectangle spanned by the size.
func (n *Node) SizeRect() geometry.Rect {
	return geometry.NewRect(0, 0, n.size.Width, n.size.Height)
}

// Rotation returns the node's rotation in degrees.
func (n *Node) Rotation() float64 { return n.rotation }

// SetRotation sets the node's rotation in degrees.
func (n *Node) SetRotation(degrees float64) { n.rotation = degrees }

// Shape returns the node's custom outline polygon, if any.
func (n *Node) Shape() []geometry.Point2D { return n.shape }

// SetShape sets a custom outline polygon in node-local coordinates.
func (n *Node) SetShape(polygon []geometry.Point2D) { n.shape = polygon }

// AddConnector attaches a connector to the node. Nil connectors and
// connectors already owned by a node are ignored.
func (n *Node) AddConnector(c *Connector) {
	if c == nil || c.node != nil {
		return
	}
	c.node = n
	n.connectors = append(n.connectors, c)
}

// Connectors returns the node's connectors in stable order.
func (n *Node) Connectors() []*Connector {
	out := make([]*Connector, len(n.connectors))
	copy(out, n.connectors)
	return out
}

// ScenePosOf maps a node-local point to scene coordinates, applying the
// node's rotation about the size rect center.
func (n *Node) ScenePosOf(rel geometry.Point2D) geometry.Point2D {
	if n.rotation != 0 {
		t := geometry.RotationAround(n.rotation*math.Pi/180, n.SizeRect().Center())
		rel = t.Apply(rel)
	}
	return n.pos.Add(rel)
}

// ConnectionPointsAbsolute returns the scene positions of all connectors.
func (n *Node) ConnectionPointsAbsolute() []geometry.Point2D {
	out := make([]geometry.Point2D, len(n.connectors))
	for i, c := range n.connectors {
		out[i] = c.ScenePos()
	}
	return out
}

// nodeDoc is the persisted representation.
type nodeDoc struct {
	ID         string             `json:"id"`
	Pos        geometry.Point2D   `json:"pos"`
	Size       geometry.Size      `json:"size"`
	Rotation   float64            `json:"rotation,omitempty"`
	Shape      []geometry.Point2D `json:"shape,omitempty"`
	Connectors []*Connector       `json:"connectors"`
}

// MarshalJSON implements json.Marshaler.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeDoc{
		ID:         n.id,
		Pos:        n.pos,
		Size:       n.size,
		Rotation:   n.rotation,
		Shape:      n.shape,
		Connectors: n.connectors,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	var doc nodeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.ID != "" {
		n.id = doc.ID
	} else if n.id == "" {
		n.id = uuid.NewString()
	}
	n.pos = doc.Pos
	n.size = doc.Size
	n.rotation = doc.Rotation
	n.shape = doc.Shape
	n.connectors = nil
	for _, c := range doc.Connectors {
		if c == nil {
			continue
		}
		c.node = nil
		n.AddConnector(c)
	}
	return nil
}
