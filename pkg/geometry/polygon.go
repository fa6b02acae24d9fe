package geometry

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// PolygonEdges returns the closed edge list of a polygon.
func PolygonEdges(polygon []Point2D) []Segment {
	n := len(polygon)
	if n < 2 {
		return nil
	}
	edges := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, Segment{A: polygon[i], B: polygon[(i+1)%n]})
	}
	return edges
}

// ClipPointToPolygonOutline projects p onto the nearest point of the
// polygon's outline. Used by connectors whose snap policy follows a custom
// node shape.
func ClipPointToPolygonOutline(p Point2D, polygon []Point2D) Point2D {
	edges := PolygonEdges(polygon)
	nearest := ClosestEdge(edges, p)
	if nearest < 0 {
		return p
	}
	return edges[nearest].ClosestPoint(p)
}
