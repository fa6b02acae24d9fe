package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schematic-editor/internal/items"
	"schematic-editor/pkg/geometry"
)

func newWire(points ...geometry.Point2D) *items.Wire {
	w := items.NewWire()
	for _, p := range points {
		w.AppendPoint(p)
	}
	return w
}

func addWire(t *testing.T, s *Scene, points ...geometry.Point2D) *items.Wire {
	t.Helper()
	w := newWire(points...)
	s.AddWire(w)
	require.NotNil(t, s.NetFromWire(w))
	return w
}

func TestTwoWireJunctionFormsOneNet(t *testing.T) {
	s := New()
	a := addWire(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})
	b := addWire(t, s, geometry.Point2D{X: 50, Y: 0}, geometry.Point2D{X: 50, Y: 100})

	require.Len(t, s.Nets(), 1)
	assert.Equal(t, []*items.Wire{b}, a.ConnectedWires())
	assert.True(t, b.WirePointsAbsolute()[0].IsJunction)
	assert.False(t, b.WirePointsAbsolute()[1].IsJunction)
}

func TestMoveJunctionOffHostSplitsNet(t *testing.T) {
	s := New()
	a := addWire(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})
	b := addWire(t, s, geometry.Point2D{X: 50, Y: 0}, geometry.Point2D{X: 50, Y: 100})
	require.Len(t, s.Nets(), 1)

	b.MovePointTo(0, geometry.Point2D{X: 50, Y: -50})
	s.WirePointMovedByUser(b, 0)

	assert.Len(t, s.Nets(), 2)
	assert.Empty(t, a.ConnectedWires())
	assert.False(t, b.WirePointsAbsolute()[0].IsJunction)
	assert.NotEqual(t, s.NetFromWire(a), s.NetFromWire(b))
}

func TestMoveEndpointOntoWireFormsJunction(t *testing.T) {
	s := New()
	a := addWire(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})
	b := addWire(t, s, geometry.Point2D{X: 50, Y: 20}, geometry.Point2D{X: 50, Y: 100})
	require.Len(t, s.Nets(), 2)

	b.MovePointTo(0, geometry.Point2D{X: 50, Y: 0})
	s.WirePointMovedByUser(b, 0)

	assert.Len(t, s.Nets(), 1)
	assert.Equal(t, []*items.Wire{b}, a.ConnectedWires())
	assert.True(t, b.WirePointsAbsolute()[0].IsJunction)
}

func TestJunctionSlidesAlongHost(t *testing.T) {
	s := New()
	a := addWire(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})
	b := addWire(t, s, geometry.Point2D{X: 50, Y: 0}, geometry.Point2D{X: 50, Y: 100})
	require.Len(t, s.Nets(), 1)

	// The endpoint stays on the host, so the connection must survive.
	b.MovePointTo(0, geometry.Point2D{X: 70, Y: 0})
	s.WirePointMovedByUser(b, 0)

	assert.Len(t, s.Nets(), 1)
	assert.True(t, a.IsConnectedTo(b))
	assert.True(t, b.WirePointsAbsolute()[0].IsJunction)
}

func TestEndpointTouchIsNotAJunction(t *testing.T) {
	s := New()
	a := addWire(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})
	b := addWire(t, s, geometry.Point2D{X: 100, Y: 0}, geometry.Point2D{X: 100, Y: 100})

	// Endpoint-to-endpoint contact forms no junction and no merge.
	assert.Len(t, s.Nets(), 2)
	assert.Empty(t, a.ConnectedWires())
	assert.False(t, b.WirePointsAbsolute()[0].IsJunction)
}

func TestRemoveWireSplitsNet(t *testing.T) {
	s := New()
	// Two stubs joined only through a bridge across both.
	left := addWire(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 0, Y: 100})
	right := addWire(t, s, geometry.Point2D{X: 100, Y: 0}, geometry.Point2D{X: 100, Y: 100})
	bridge := addWire(t, s, geometry.Point2D{X: 0, Y: 50}, geometry.Point2D{X: 100, Y: 50})
	require.Len(t, s.Nets(), 1)

	s.RemoveWire(bridge)

	assert.Len(t, s.Nets(), 2)
	assert.Nil(t, s.NetFromWire(bridge))
	assert.NotEqual(t, s.NetFromWire(left), s.NetFromWire(right))
	assert.Empty(t, left.ConnectedWires())
	assert.Empty(t, right.ConnectedWires())
}

func TestRemoveHostRetractsJunctionFlags(t *testing.T) {
	s := New()
	host := addWire(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})
	stub := addWire(t, s, geometry.Point2D{X: 50, Y: 0}, geometry.Point2D{X: 50, Y: 100})
	require.True(t, stub.WirePointsAbsolute()[0].IsJunction)

	s.RemoveWire(host)

	assert.False(t, stub.WirePointsAbsolute()[0].IsJunction)
	assert.Len(t, s.Nets(), 1)
}

func TestAddRemoveWireUndoRedo(t *testing.T) {
	s := New()
	a := addWire(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})
	b := addWire(t, s, geometry.Point2D{X: 50, Y: 0}, geometry.Point2D{X: 50, Y: 100})
	require.Len(t, s.Nets(), 1)

	s.Undo()
	assert.Len(t, s.Nets(), 1)
	assert.Nil(t, s.NetFromWire(b))
	assert.Empty(t, a.ConnectedWires())

	s.Redo()
	assert.Len(t, s.Nets(), 1)
	assert.True(t, a.IsConnectedTo(b))
	assert.True(t, b.WirePointsAbsolute()[0].IsJunction)
}

func TestNodeDragCarriesBoundEndpoint(t *testing.T) {
	s := New()
	w := addWire(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})

	n := items.NewNode()
	conn := items.NewConnector("p1", geometry.Point2D{})
	conn.SetSnapPolicy(items.SnapAnywhere)
	n.AddConnector(conn)
	s.AddNode(n)

	require.True(t, conn.IsBound())
	require.Equal(t, w, conn.AttachedWire())
	require.Equal(t, 0, conn.AttachedPointIndex())

	n.Translate(geometry.Point2D{X: 10, Y: 5})
	s.NodeMoved(n)

	p0, _ := w.PointAbsolute(0)
	p1, _ := w.PointAbsolute(1)
	assert.Equal(t, geometry.Point2D{X: 10, Y: 5}, p0)
	assert.Equal(t, geometry.Point2D{X: 100, Y: 0}, p1)
	assert.Len(t, s.Nets(), 1)
	assert.True(t, conn.IsBound())
}

func TestUnboundConnectorPicksUpEndpointOnNodeMove(t *testing.T) {
	s := New()
	w := addWire(t, s, geometry.Point2D{X: 50, Y: 50}, geometry.Point2D{X: 150, Y: 50})

	n := items.NewNode()
	conn := items.NewConnector("p1", geometry.Point2D{})
	conn.SetSnapPolicy(items.SnapAnywhere)
	n.AddConnector(conn)
	s.AddNode(n)
	require.False(t, conn.IsBound())

	n.Translate(geometry.Point2D{X: 50, Y: 50})
	s.NodeMoved(n)

	require.True(t, conn.IsBound())
	assert.Equal(t, w, conn.AttachedWire())
	assert.Equal(t, 0, conn.AttachedPointIndex())
}

func TestConnectorCoincidenceUsesConnectTolerance(t *testing.T) {
	s := New()
	w := addWire(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})

	n := items.NewNode()
	// Within the connect tolerance of the endpoint but not on the same
	// rounded grid point.
	n.SetPosition(geometry.Point2D{X: 0.6, Y: 0})
	conn := items.NewConnector("p1", geometry.Point2D{})
	conn.SetSnapPolicy(items.SnapAnywhere)
	n.AddConnector(conn)
	s.AddNode(n)
	require.True(t, conn.IsBound())

	// A sub-tolerance wobble of the wire point keeps the binding.
	w.MovePointTo(0, geometry.Point2D{X: 0.2, Y: 0.2})
	s.WirePointMovedByUser(w, 0)
	assert.True(t, conn.IsBound())

	// Past the tolerance it lets go.
	w.MovePointTo(0, geometry.Point2D{X: 0, Y: 2})
	s.WirePointMovedByUser(w, 0)
	assert.False(t, conn.IsBound())
}

func TestRemoveNodeDetachesConnectors(t *testing.T) {
	s := New()
	w := addWire(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})

	n := items.NewNode()
	conn := items.NewConnector("p1", geometry.Point2D{})
	conn.SetSnapPolicy(items.SnapAnywhere)
	n.AddConnector(conn)
	s.AddNode(n)
	require.True(t, conn.IsBound())

	s.RemoveNode(n)
	assert.False(t, conn.IsBound())
	assert.NotNil(t, s.NetFromWire(w))
	assert.Empty(t, s.Nodes())
}

func TestMergeAdoptsNameOfAbsorbedNet(t *testing.T) {
	s := New()
	a := addWire(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})
	b := addWire(t, s, geometry.Point2D{X: 50, Y: 20}, geometry.Point2D{X: 50, Y: 100})
	s.NetFromWire(b).SetName("CLK")

	b.MovePointTo(0, geometry.Point2D{X: 50, Y: 0})
	s.WirePointMovedByUser(b, 0)

	require.Len(t, s.Nets(), 1)
	assert.Equal(t, "CLK", s.NetFromWire(a).Name())
}

func TestConnectorReleasedWhenWirePointMovesAway(t *testing.T) {
	s := New()
	w := addWire(t, s, geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})

	n := items.NewNode()
	conn := items.NewConnector("p1", geometry.Point2D{})
	conn.SetSnapPolicy(items.SnapAnywhere)
	n.AddConnector(conn)
	s.AddNode(n)
	require.True(t, conn.IsBound())

	w.MovePointTo(0, geometry.Point2D{X: 0, Y: 30})
	s.WirePointMovedByUser(w, 0)

	assert.False(t, conn.IsBound())
}
