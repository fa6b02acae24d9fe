package items

import (
	"encoding/json"

	"github.com/google/uuid"

	"schematic-editor/pkg/geometry"
)

// Label is a positioned piece of text. Nets use one to display their name;
// how it is painted is up to the view host.
type Label struct {
	id          string
	pos         geometry.Point2D
	text        string
	visible     bool
	highlighted bool
}

// NewLabel creates a visible label at the origin.
func NewLabel(text string) *Label {
	return &Label{id: uuid.NewString(), text: text, visible: true}
}

// ID returns the label's identity.
func (l *Label) ID() string { return l.id }

// TypeID implements Item.
func (l *Label) TypeID() TypeID { return TypeLabel }

// Position returns the label's scene position.
func (l *Label) Position() geometry.Point2D { return l.pos }

// SetPosition moves the label.
func (l *Label) SetPosition(pos geometry.Point2D) { l.pos = pos }

// Translate moves the label by delta.
func (l *Label) Translate(delta geometry.Point2D) { l.pos = l.pos.Add(delta) }

// Text returns the label text.
func (l *Label) Text() string { return l.text }

// SetText sets the label text.
func (l *Label) SetText(text string) { l.text = text }

// Visible returns whether the label should be drawn.
func (l *Label) Visible() bool { return l.visible }

// SetVisible toggles label visibility.
func (l *Label) SetVisible(v bool) { l.visible = v }

// Highlighted returns the label's highlight state.
func (l *Label) Highlighted() bool { return l.highlighted }

// SetHighlighted sets the label's highlight state.
func (l *Label) SetHighlighted(h bool) { l.highlighted = h }

type labelDoc struct {
	ID      string           `json:"id"`
	Pos     geometry.Point2D `json:"pos"`
	Text    string           `json:"text"`
	Visible bool             `json:"visible"`
}

// MarshalJSON implements json.Marshaler.
func (l *Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(labelDoc{ID: l.id, Pos: l.pos, Text: l.text, Visible: l.visible})
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Label) UnmarshalJSON(data []byte) error {
	var doc labelDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.ID != "" {
		l.id = doc.ID
	} else if l.id == "" {
		l.id = uuid.NewString()
	}
	l.pos = doc.Pos
	l.text = doc.Text
	l.visible = doc.Visible
	return nil
}
