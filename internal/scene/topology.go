package scene

import (
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"schematic-editor/internal/items"
	"schematic-editor/internal/netlist"
	"schematic-editor/pkg/geometry"
)

// installWire adds a wire to the scene without touching history: a fresh net
// is created for it, then both endpoints are attached to coincident
// connectors and host wires, merging nets as junctions form.
func (s *Scene) installWire(w *items.Wire) {
	net := netlist.NewNet()
	net.AddWire(w)
	s.adoptNet(net)

	last := w.PointCount() - 1
	s.attachPoint(w, 0)
	if last > 0 {
		s.attachPoint(w, last)
	}

	s.emit(EventItemAdded, w)
	s.emit(EventNetChanged, s.NetFromWire(w))
}

// uninstallWire removes a wire without touching history. All connections to
// it are broken (splitting nets as needed), junction flags of wires that
// rested on it are retracted, and its net is deleted when it empties.
func (s *Scene) uninstallWire(w *items.Wire) {
	attachers := w.ConnectedWires()

	for _, other := range s.wiresConnectedTo(w) {
		if other == w {
			continue
		}
		if other.IsConnectedTo(w) {
			s.disconnectWire(w, other)
		} else if w.IsConnectedTo(other) {
			s.disconnectWire(other, w)
		}
	}

	// Wires whose endpoint junction rested on the removed wire lose the
	// junction flag unless some surviving wire still hosts the point.
	for _, a := range attachers {
		s.retractOrphanJunctions(a, w)
	}

	if net := s.NetFromWire(w); net != nil {
		net.RemoveWire(w)
		if net.WireCount() == 0 {
			s.dropNet(net)
		} else {
			s.emit(EventNetChanged, net)
		}
	}
	s.emit(EventItemRemoved, w)
}

// retractOrphanJunctions clears endpoint junction flags of w that no longer
// lie on any wire other than removed.
func (s *Scene) retractOrphanJunctions(w, removed *items.Wire) {
	abs := w.WirePointsAbsolute()
	for _, i := range []int{0, len(abs) - 1} {
		if i < 0 || !abs[i].IsJunction {
			continue
		}
		hosted := false
		for _, x := range s.Wires() {
			if x == w || x == removed {
				continue
			}
			if x.PointIsOnWire(abs[i].Pos) {
				hosted = true
				break
			}
		}
		if !hosted {
			w.SetPointIsJunction(i, false)
		}
	}
}

// attachPoint binds coincident unbound connectors to (w, i) and forms
// junctions with host wires under the point, merging nets as needed.
func (s *Scene) attachPoint(w *items.Wire, i int) {
	pos, ok := w.PointAbsolute(i)
	if !ok {
		return
	}

	for _, conn := range s.Connectors() {
		if !conn.IsBound() && geometry.PointsCoincide(conn.ScenePos(), pos) {
			conn.Attach(w, i)
		}
	}

	for _, host := range s.Wires() {
		if host == w {
			continue
		}
		if host.PointIsOnWire(pos) && !w.IsConnectedTo(host) {
			w.SetPointIsJunction(i, true)
			s.connectWire(host, w)
		}
	}
}

// WirePointMovedByUser re-establishes all invariants after the view host
// moved the i-th point of w. Passes run in a fixed order: stale connector
// bindings are dropped before new ones form, and stale junctions break
// before new ones form, so that moving a junction along its host wire never
// causes a spurious split. Out-of-range indices and nil wires are silent
// no-ops.
func (s *Scene) WirePointMovedByUser(w *items.Wire, i int) {
	s.wirePointMovedByUser(w, i)
	s.flushEvents()
}

func (s *Scene) wirePointMovedByUser(w *items.Wire, i int) {
	if w == nil {
		return
	}
	pos, ok := w.PointAbsolute(i)
	if !ok {
		return
	}
	abs := w.WirePointsAbsolute()
	isEndpoint := i == 0 || i == len(abs)-1

	// Detach connectors whose binding no longer coincides.
	for _, conn := range s.Connectors() {
		if conn.AttachedWire() == w && conn.AttachedPointIndex() == i &&
			!geometry.PointsCoincide(conn.ScenePos(), pos) {
			conn.Detach()
		}
	}

	// Bind unbound connectors sitting on the new location.
	for _, conn := range s.Connectors() {
		if !conn.IsBound() && geometry.PointsCoincide(conn.ScenePos(), pos) {
			conn.Attach(w, i)
		}
	}

	// Break junctions that no longer rest on their host.
	if isEndpoint && abs[i].IsJunction {
		for _, host := range s.Wires() {
			if host == w || !host.IsConnectedTo(w) {
				continue
			}
			shouldDisconnect := true
			// Stay connected if another junction of w still rests on
			// the host.
			for j, p := range abs {
				if j == i || !p.IsJunction {
					continue
				}
				if host.PointIsOnWire(p.Pos) {
					shouldDisconnect = false
					break
				}
			}
			if shouldDisconnect {
				s.disconnectWire(w, host)
			}
		}
		w.SetPointIsJunction(i, false)
	}

	// Form junctions with wires under the new location.
	if isEndpoint {
		for _, host := range s.Wires() {
			if host == w {
				continue
			}
			if host.PointIsOnWire(pos) && !w.IsConnectedTo(host) {
				w.SetPointIsJunction(i, true)
				s.connectWire(host, w)
			}
		}
	}
}

// NodeMoved re-establishes invariants after the node was moved: every bound
// connector drags its wire point along, each such point is reconsidered for
// bindings and junctions, and unbound connectors pick up coincident wire
// endpoints.
func (s *Scene) NodeMoved(n *items.Node) {
	s.nodeMoved(n)
	s.flushEvents()
}

// NodeRotated is the rotation counterpart of NodeMoved.
func (s *Scene) NodeRotated(n *items.Node) {
	s.nodeMoved(n)
	s.flushEvents()
}

func (s *Scene) nodeMoved(n *items.Node) {
	if n == nil || !s.containsNode(n) {
		return
	}
	for _, conn := range n.Connectors() {
		if !conn.IsBound() {
			continue
		}
		conn.UpdateWirePoint()
		s.wirePointMovedByUser(conn.AttachedWire(), conn.AttachedPointIndex())
	}
	s.updateNodeConnections(n)
}

// updateNodeConnections binds every unbound connector of the node to a
// coinciding non-junction wire endpoint, unless another connector already
// claims that point.
func (s *Scene) updateNodeConnections(n *items.Node) {
	for _, conn := range n.Connectors() {
		if conn.IsBound() {
			continue
		}
		for _, w := range s.Wires() {
			abs := w.WirePointsAbsolute()
			if len(abs) == 0 {
				continue
			}
			index := -1
			if geometry.PointsCoincide(abs[0].Pos, conn.ScenePos()) {
				index = 0
			} else if geometry.PointsCoincide(abs[len(abs)-1].Pos, conn.ScenePos()) {
				index = len(abs) - 1
			}
			if index == -1 || abs[index].IsJunction {
				continue
			}
			if s.pointClaimed(w, index, conn) {
				continue
			}
			conn.Attach(w, index)
		}
	}
}

func (s *Scene) pointClaimed(w *items.Wire, index int, except *items.Connector) bool {
	for _, other := range s.Connectors() {
		if other == except {
			continue
		}
		if other.AttachedWire() == w && other.AttachedPointIndex() == index {
			return true
		}
	}
	return false
}

// connectWire records the attacher on the host wire and merges their nets.
func (s *Scene) connectWire(host, attacher *items.Wire) {
	host.ConnectWire(attacher)
	hostNet := s.NetFromWire(host)
	attacherNet := s.NetFromWire(attacher)
	if s.mergeNets(hostNet, attacherNet) {
		s.dropNet(attacherNet)
		s.emit(EventNetChanged, hostNet)
	}
}

// disconnectWire removes the attacher from the host's connected list and
// splits the net when the attacher's side is no longer reachable from the
// host.
func (s *Scene) disconnectWire(attacher, host *items.Wire) {
	host.DisconnectWire(attacher)

	net := s.NetFromWire(host)
	if net == nil {
		return
	}
	stay := s.wiresConnectedTo(host)
	if len(stay) == net.WireCount() {
		return
	}

	staySet := make(map[*items.Wire]bool, len(stay))
	for _, w := range stay {
		staySet[w] = true
	}
	split := netlist.NewNet()
	s.adoptNet(split)
	for _, w := range net.Wires() {
		if staySet[w] {
			continue
		}
		net.RemoveWire(w)
		split.AddWire(w)
	}
	s.log.Debug("net split",
		zap.Int("remaining", net.WireCount()),
		zap.Int("moved", split.WireCount()))
	s.emit(EventNetChanged, net)
	s.emit(EventNetChanged, split)
}

// mergeNets folds all wires of src into dst. Returns false when the nets are
// identical or either is nil. The caller drops src afterwards; its label is
// destroyed with it, though a name on src survives when dst has none.
func (s *Scene) mergeNets(dst, src *netlist.Net) bool {
	if dst == nil || src == nil || dst == src {
		return false
	}
	if dst.Name() == "" && src.Name() != "" {
		dst.SetName(src.Name())
	}
	for _, w := range src.Wires() {
		src.RemoveWire(w)
		dst.AddWire(w)
	}
	s.log.Debug("nets merged", zap.Int("wires", dst.WireCount()))
	return true
}

// wiresConnectedTo returns the wires reachable from w over the
// directly-connected relation (in either direction) within w's net,
// including w itself. Order follows the net's wire order.
func (s *Scene) wiresConnectedTo(w *items.Wire) []*items.Wire {
	net := s.NetFromWire(w)
	if net == nil {
		return []*items.Wire{w}
	}
	for _, comp := range connectedComponents(net.Wires()) {
		for _, x := range comp {
			if x == w {
				return comp
			}
		}
	}
	return []*items.Wire{w}
}

// connectedComponents partitions the wires into connected components under
// the symmetric closure of the directly-connected relation. Component and
// member order are stable with respect to the input order so that net
// splits stay deterministic.
func connectedComponents(wires []*items.Wire) [][]*items.Wire {
	if len(wires) == 0 {
		return nil
	}
	index := make(map[*items.Wire]int64, len(wires))
	for i, w := range wires {
		index[w] = int64(i)
	}

	g := simple.NewUndirectedGraph()
	for i := range wires {
		g.AddNode(simple.Node(int64(i)))
	}
	for i, w := range wires {
		for _, other := range w.ConnectedWires() {
			j, ok := index[other]
			if !ok || j == int64(i) {
				continue
			}
			g.SetEdge(simple.Edge{F: simple.Node(int64(i)), T: simple.Node(j)})
		}
	}

	comps := topo.ConnectedComponents(g)
	out := make([][]*items.Wire, 0, len(comps))
	for _, comp := range comps {
		ids := make([]int, 0, len(comp))
		for _, n := range comp {
			ids = append(ids, int(n.ID()))
		}
		sort.Ints(ids)
		ws := make([]*items.Wire, 0, len(ids))
		for _, id := range ids {
			ws = append(ws, wires[id])
		}
		out = append(out, ws)
	}
	sort.Slice(out, func(a, b int) bool {
		return index[out[a][0]] < index[out[b][0]]
	})
	return out
}
