package items

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schematic-editor/pkg/geometry"
)

func TestNodeConnectors(t *testing.T) {
	n := NewNode()
	n.SetSize(geometry.NewSize(60, 60))

	c := NewConnector("vcc", geometry.Point2D{X: 0, Y: 30})
	n.AddConnector(c)
	n.AddConnector(c)
	n.AddConnector(nil)

	require.Len(t, n.Connectors(), 1)
	assert.Equal(t, n, c.Node())
}

func TestNodeScenePosOf(t *testing.T) {
	n := NewNode()
	n.SetPosition(geometry.Point2D{X: 200, Y: 100})
	n.SetSize(geometry.NewSize(60, 60))

	t.Run("no rotation", func(t *testing.T) {
		got := n.ScenePosOf(geometry.Point2D{X: 60, Y: 30})
		assert.Equal(t, geometry.Point2D{X: 260, Y: 130}, got)
	})

	t.Run("quarter rotation about the rect center", func(t *testing.T) {
		n.SetRotation(90)
		defer n.SetRotation(0)

		got := n.ScenePosOf(geometry.Point2D{X: 60, Y: 30})
		assert.InDelta(t, 230, got.X, 1e-9)
		assert.InDelta(t, 160, got.Y, 1e-9)
	})
}

func TestNodeJSONRoundTrip(t *testing.T) {
	n := NewNode()
	n.SetPosition(geometry.Point2D{X: 10, Y: 20})
	n.SetSize(geometry.NewSize(80, 40))
	n.SetRotation(90)
	n.AddConnector(NewConnector("a", geometry.Point2D{X: 0, Y: 20}))
	n.AddConnector(NewConnector("b", geometry.Point2D{X: 80, Y: 20}))

	data, err := n.MarshalJSON()
	require.NoError(t, err)

	restored := NewNode()
	require.NoError(t, restored.UnmarshalJSON(data))

	assert.Equal(t, n.Position(), restored.Position())
	assert.Equal(t, n.Size(), restored.Size())
	assert.Equal(t, n.Rotation(), restored.Rotation())
	require.Len(t, restored.Connectors(), 2)
	assert.Equal(t, "a", restored.Connectors()[0].Name())
	assert.Equal(t, restored, restored.Connectors()[0].Node())
	assert.False(t, restored.Connectors()[0].IsBound())
}
