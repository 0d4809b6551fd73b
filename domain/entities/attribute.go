package entities

// Attribute is the value of an element attribute. Present is false when the
// element does not carry the attribute at all.
type Attribute struct {
	Value   string `json:"value"`
	Present bool   `json:"present"`
}

// String returns the value, or "<absent>" for a missing attribute
func (a Attribute) String() string {
	if !a.Present {
		return "<absent>"
	}
	return a.Value
}
