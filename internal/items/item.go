// Package items provides the schematic data model: wires, nodes, connectors
// and labels. Items carry geometry only; all topological bookkeeping (nets,
// junctions, bindings) is driven by the scene engine.
package items

import (
	"schematic-editor/pkg/geometry"
)

// TypeID identifies an item type for polymorphic serialization.
type TypeID string

const (
	TypeNode  TypeID = "node"
	TypeWire  TypeID = "wire"
	TypeLabel TypeID = "label"
)

// Item is the common contract of all top-level schematic items.
type Item interface {
	ID() string
	TypeID() TypeID
	Position() geometry.Point2D
	SetPosition(pos geometry.Point2D)
	Translate(delta geometry.Point2D)
}
