package items

import (
	"sync"
)

// The factory maps stored item type IDs to constructors so that documents
// containing custom node types can be restored. Built-in types are
// registered at package load; applications register their own constructors
// before loading a document.

var (
	factoryMu    sync.RWMutex
	constructors = map[TypeID]func() Item{}
)

// Register installs a constructor for the given type ID, replacing any
// previous registration.
func Register(id TypeID, fn func() Item) {
	if fn == nil {
		return
	}
	factoryMu.Lock()
	defer factoryMu.Unlock()
	constructors[id] = fn
}

// NewOfType constructs a fresh item of the given type ID. Returns false if
// the type is not registered.
func NewOfType(id TypeID) (Item, bool) {
	factoryMu.RLock()
	fn, ok := constructors[id]
	factoryMu.RUnlock()
	if !ok {
		return nil, false
	}
	return fn(), true
}

func init() {
	Register(TypeNode, func() Item { return NewNode() })
	Register(TypeWire, func() Item { return NewWire() })
	Register(TypeLabel, func() Item { return NewLabel("") })
}
