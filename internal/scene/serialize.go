package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"schematic-editor/internal/items"
	"schematic-editor/internal/netlist"
	"schematic-editor/pkg/geometry"
)

// Document layout. Items are stored with their type ID so that application
// defined node types round-trip through the factory. Connector bindings and
// wire connectivity are not stored; both are rediscovered from geometry on
// load.
type sceneDoc struct {
	SceneRect geometry.Rect     `json:"scene_rect"`
	Items     []itemEntry       `json:"items"`
	Nets      []json.RawMessage `json:"nets"`
}

type itemEntry struct {
	TypeID items.TypeID    `json:"item_type_id"`
	Item   json.RawMessage `json:"item"`
}

// Net entries decode in two stages so that one malformed net or wire is
// skipped without losing the rest of the document.
type netDoc struct {
	Name  string            `json:"name,omitempty"`
	Wires []json.RawMessage `json:"wires"`
}

// Serialize renders the scene as a JSON document.
func (s *Scene) Serialize() ([]byte, error) {
	doc := sceneDoc{SceneRect: s.rect}

	for _, n := range s.nodes {
		raw, err := json.Marshal(n)
		if err != nil {
			return nil, fmt.Errorf("marshal node %s: %w", n.ID(), err)
		}
		doc.Items = append(doc.Items, itemEntry{TypeID: n.TypeID(), Item: raw})
	}
	for _, net := range s.nets {
		nd := netDoc{Name: net.Name()}
		for _, w := range net.Wires() {
			raw, err := json.Marshal(w)
			if err != nil {
				return nil, fmt.Errorf("marshal wire %s: %w", w.ID(), err)
			}
			nd.Wires = append(nd.Wires, raw)
		}
		raw, err := json.Marshal(nd)
		if err != nil {
			return nil, fmt.Errorf("marshal net %q: %w", net.Name(), err)
		}
		doc.Nets = append(doc.Nets, raw)
	}

	return json.MarshalIndent(doc, "", "  ")
}

// Deserialize replaces the scene contents with the document's. Items of
// unregistered types, and items, nets or wires that fail to decode, are
// skipped with a log entry rather than failing the whole document; nets
// left without wires are dropped. Connector bindings and
// junctions are rediscovered from geometry, and nets whose wires no longer
// touch are split. The restored scene starts with empty history and a clean
// dirty flag.
func (s *Scene) Deserialize(data []byte) error {
	var doc sceneDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse scene document: %w", err)
	}

	s.Clear()
	s.rect = doc.SceneRect

	for _, entry := range doc.Items {
		item, ok := items.NewOfType(entry.TypeID)
		if !ok {
			s.log.Warn("skipping item of unregistered type",
				zap.String("item_type_id", string(entry.TypeID)))
			continue
		}
		if err := json.Unmarshal(entry.Item, item); err != nil {
			s.log.Warn("skipping undecodable item",
				zap.String("item_type_id", string(entry.TypeID)),
				zap.Error(err))
			continue
		}
		if n, ok := item.(*items.Node); ok {
			s.nodes = append(s.nodes, n)
			s.emit(EventItemAdded, n)
		}
	}

	for _, rawNet := range doc.Nets {
		var nd netDoc
		if err := json.Unmarshal(rawNet, &nd); err != nil {
			s.log.Warn("skipping undecodable net", zap.Error(err))
			continue
		}
		net := netlist.NewNet()
		net.SetName(nd.Name)
		for _, rawWire := range nd.Wires {
			w := items.NewWire()
			if err := json.Unmarshal(rawWire, w); err != nil {
				s.log.Warn("skipping undecodable wire",
					zap.String("net", nd.Name), zap.Error(err))
				continue
			}
			if w.PointCount() == 0 {
				continue
			}
			net.AddWire(w)
			s.emit(EventItemAdded, w)
		}
		// A net with no surviving wires never enters the scene.
		if net.WireCount() == 0 {
			continue
		}
		s.adoptNet(net)
	}

	s.restoreBindings()
	s.restoreJunctions()
	s.splitDisjointNets()

	s.stack.Clear()
	s.stack.SetClean()
	s.flushEvents()
	return nil
}

// restoreBindings re-binds connectors to wire endpoints they sit on.
func (s *Scene) restoreBindings() {
	for _, conn := range s.Connectors() {
		if conn.IsBound() {
			continue
		}
		for _, w := range s.Wires() {
			count := w.PointCount()
			for _, i := range []int{0, count - 1} {
				pos, ok := w.PointAbsolute(i)
				if !ok {
					continue
				}
				if geometry.PointsCoincide(conn.ScenePos(), pos) &&
					!s.pointClaimed(w, i, conn) {
					conn.Attach(w, i)
					break
				}
			}
			if conn.IsBound() {
				break
			}
		}
	}
}

// restoreJunctions rediscovers wire-to-wire connections from endpoint
// geometry. Merging here only folds nets that genuinely touch.
func (s *Scene) restoreJunctions() {
	for _, w := range s.Wires() {
		count := w.PointCount()
		for _, i := range []int{0, count - 1} {
			pos, ok := w.PointAbsolute(i)
			if !ok {
				continue
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
	}
}

// splitDisjointNets breaks up nets whose stored wires are not actually
// connected, so a loaded document satisfies the same partitioning as an
// edited one.
func (s *Scene) splitDisjointNets() {
	for _, net := range s.Nets() {
		comps := connectedComponents(net.Wires())
		if len(comps) < 2 {
			continue
		}
		for _, comp := range comps[1:] {
			split := netlist.NewNet()
			s.adoptNet(split)
			for _, w := range comp {
				net.RemoveWire(w)
				split.AddWire(w)
			}
			s.emit(EventNetChanged, split)
		}
		s.emit(EventNetChanged, net)
	}
}

// Save writes the scene to a file.
func (s *Scene) Save(path string) error {
	data, err := s.Serialize()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scene file: %w", err)
	}
	return nil
}

// Load replaces the scene with the contents of a file.
func (s *Scene) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scene file: %w", err)
	}
	return s.Deserialize(data)
}
