package items

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schematic-editor/pkg/geometry"
)

func wireWithPoints(points ...geometry.Point2D) *Wire {
	w := NewWire()
	for _, p := range points {
		w.AppendPoint(p)
	}
	return w
}

func TestWirePointEditing(t *testing.T) {
	t.Run("append dedupes coinciding last point", func(t *testing.T) {
		w := wireWithPoints(geometry.Point2D{X: 0, Y: 0})
		w.AppendPoint(geometry.Point2D{X: 0.4, Y: -0.4})
		assert.Equal(t, 1, w.PointCount())
	})

	t.Run("remove never empties the wire", func(t *testing.T) {
		w := wireWithPoints(geometry.Point2D{X: 0, Y: 0})
		w.RemovePoint(0)
		assert.Equal(t, 1, w.PointCount())
	})

	t.Run("out of range indices are ignored", func(t *testing.T) {
		w := wireWithPoints(geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 10, Y: 0})
		w.MovePointTo(5, geometry.Point2D{X: 99, Y: 99})
		w.RemovePoint(-1)
		w.SetPointIsJunction(2, true)

		assert.Equal(t, 2, w.PointCount())
		assert.Empty(t, w.JunctionIndices())
	})

	t.Run("points are stored relative to the origin", func(t *testing.T) {
		w := wireWithPoints(geometry.Point2D{X: 10, Y: 10}, geometry.Point2D{X: 20, Y: 10})
		w.Translate(geometry.Point2D{X: 5, Y: 0})

		got, ok := w.PointAbsolute(0)
		require.True(t, ok)
		assert.Equal(t, geometry.Point2D{X: 15, Y: 10}, got)
	})

	t.Run("insert point shifts following points", func(t *testing.T) {
		w := wireWithPoints(geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})
		w.InsertPoint(1, geometry.Point2D{X: 50, Y: 0})

		require.Equal(t, 3, w.PointCount())
		got, _ := w.PointAbsolute(1)
		assert.Equal(t, geometry.Point2D{X: 50, Y: 0}, got)
		got, _ = w.PointAbsolute(2)
		assert.Equal(t, geometry.Point2D{X: 100, Y: 0}, got)
	})
}

func TestPointIsOnWire(t *testing.T) {
	w := wireWithPoints(geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})

	t.Run("interior of a segment", func(t *testing.T) {
		assert.True(t, w.PointIsOnWire(geometry.Point2D{X: 50, Y: 0}))
		assert.True(t, w.PointIsOnWire(geometry.Point2D{X: 50, Y: 0.5}))
	})

	t.Run("polyline endpoints do not count", func(t *testing.T) {
		assert.False(t, w.PointIsOnWire(geometry.Point2D{X: 0, Y: 0}))
		assert.False(t, w.PointIsOnWire(geometry.Point2D{X: 100, Y: 0}))
	})

	t.Run("off the wire", func(t *testing.T) {
		assert.False(t, w.PointIsOnWire(geometry.Point2D{X: 50, Y: 5}))
	})

	t.Run("single point wire hosts nothing", func(t *testing.T) {
		single := wireWithPoints(geometry.Point2D{X: 0, Y: 0})
		assert.False(t, single.PointIsOnWire(geometry.Point2D{X: 0, Y: 0}))
	})
}

func TestWireConnections(t *testing.T) {
	a := wireWithPoints(geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})
	b := wireWithPoints(geometry.Point2D{X: 50, Y: 0}, geometry.Point2D{X: 50, Y: 100})

	a.ConnectWire(b)
	a.ConnectWire(b)
	a.ConnectWire(a)
	a.ConnectWire(nil)

	assert.Equal(t, []*Wire{b}, a.ConnectedWires())
	assert.True(t, a.IsConnectedTo(b))
	assert.False(t, b.IsConnectedTo(a))

	a.DisconnectWire(b)
	assert.Empty(t, a.ConnectedWires())
}

func TestWireSimplify(t *testing.T) {
	t.Run("removes collinear interior points", func(t *testing.T) {
		w := wireWithPoints(
			geometry.Point2D{X: 0, Y: 0},
			geometry.Point2D{X: 50, Y: 0},
			geometry.Point2D{X: 100, Y: 0},
		)
		w.Simplify()

		require.Equal(t, 2, w.PointCount())
		first, _ := w.PointAbsolute(0)
		last, _ := w.PointAbsolute(1)
		assert.Equal(t, geometry.Point2D{X: 0, Y: 0}, first)
		assert.Equal(t, geometry.Point2D{X: 100, Y: 0}, last)
	})

	t.Run("keeps corners", func(t *testing.T) {
		w := wireWithPoints(
			geometry.Point2D{X: 0, Y: 0},
			geometry.Point2D{X: 50, Y: 0},
			geometry.Point2D{X: 50, Y: 50},
		)
		w.Simplify()
		assert.Equal(t, 3, w.PointCount())
	})

	t.Run("keeps interior junction points", func(t *testing.T) {
		w := wireWithPoints(
			geometry.Point2D{X: 0, Y: 0},
			geometry.Point2D{X: 50, Y: 0},
			geometry.Point2D{X: 100, Y: 0},
		)
		w.SetPointIsJunction(1, true)
		w.Simplify()
		assert.Equal(t, 3, w.PointCount())
	})

	t.Run("idempotent", func(t *testing.T) {
		w := wireWithPoints(
			geometry.Point2D{X: 0, Y: 0},
			geometry.Point2D{X: 20, Y: 0},
			geometry.Point2D{X: 40, Y: 0},
			geometry.Point2D{X: 40, Y: 40},
			geometry.Point2D{X: 40, Y: 80},
		)
		w.Simplify()
		once := w.WirePointsAbsolute()
		w.Simplify()
		assert.Equal(t, once, w.WirePointsAbsolute())
	})
}

func TestWireJSONRoundTrip(t *testing.T) {
	w := wireWithPoints(geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 100, Y: 0})
	w.Translate(geometry.Point2D{X: 10, Y: 20})
	w.SetPointIsJunction(0, true)

	data, err := w.MarshalJSON()
	require.NoError(t, err)

	restored := NewWire()
	require.NoError(t, restored.UnmarshalJSON(data))

	assert.Equal(t, w.Position(), restored.Position())
	assert.Equal(t, w.WirePointsAbsolute(), restored.WirePointsAbsolute())
	assert.Empty(t, restored.ConnectedWires())
}
