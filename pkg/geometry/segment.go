package geometry

import "math"

// ConnectTolerance is the grid Euclidean distance below which a point counts
// as lying on a segment or coinciding with a connection point. It is the only
// source of topological judgment in the editor; every connectivity decision
// must go through ContainsPoint or a distance comparison against this value.
const ConnectTolerance = 1.0

// Segment represents a directed line segment between two scene points.
type Segment struct {
	A Point2D `json:"a"`
	B Point2D `json:"b"`
}

// NewSegment creates a new Segment.
func NewSegment(a, b Point2D) Segment {
	return Segment{A: a, B: b}
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return s.A.Distance(s.B)
}

// ClosestPoint returns the point on the segment closest to p.
func (s Segment) ClosestPoint(p Point2D) Point2D {
	d := s.B.Sub(s.A)
	lenSq := d.X*d.X + d.Y*d.Y
	if lenSq == 0 {
		return s.A
	}
	t := ((p.X-s.A.X)*d.X + (p.Y-s.A.Y)*d.Y) / lenSq
	t = math.Max(0, math.Min(1, t))
	return Point2D{X: s.A.X + t*d.X, Y: s.A.Y + t*d.Y}
}

// DistanceToPoint returns the Euclidean distance from p to the segment.
func (s Segment) DistanceToPoint(p Point2D) float64 {
	return s.ClosestPoint(p).Distance(p)
}

// ContainsPoint returns true if p lies on the segment within
// ConnectTolerance.
func (s Segment) ContainsPoint(p Point2D) bool {
	return s.DistanceToPoint(p) < ConnectTolerance
}

// PointsCoincide reports whether two points count as the same connection
// point, using the same tolerance as ContainsPoint.
func PointsCoincide(a, b Point2D) bool {
	return a.Distance(b) < ConnectTolerance
}

// ClipPointToRect clamps p into the rectangle.
func ClipPointToRect(p Point2D, r Rect) Point2D {
	return Point2D{
		X: math.Max(r.X, math.Min(r.X+r.Width, p.X)),
		Y: math.Max(r.Y, math.Min(r.Y+r.Height, p.Y)),
	}
}

// ClipPointToRectOutline projects p onto the nearest point of the
// rectangle's outline.
func ClipPointToRectOutline(p Point2D, r Rect) Point2D {
	edges := r.Edges()
	nearest := ClosestEdge(edges, p)
	return edges[nearest].ClosestPoint(p)
}

// ClosestEdge returns the index of the edge closest to p. Returns -1 for an
// empty edge list.
func ClosestEdge(edges []Segment, p Point2D) int {
	best := -1
	bestDist := math.Inf(1)
	for i, e := range edges {
		d := e.DistanceToPoint(p)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
