package model

import "encoding/json"

// Document is one stored record of a personal document: an identity card, a
// bank passbook, a certificate, or an entry in a user-defined category. The
// record is generic; which fields it carries is dictated by its category's
// schema. Image fields hold only the base filename of the copy inside the
// managed documents directory.
type Document struct {
	ID     string
	Fields map[string]string
}

// Field returns the value of a named field, or "" when absent.
func (d Document) Field(name string) string {
	return d.Fields[name]
}

// MarshalJSON flattens the document into a single JSON object so the
// persisted file keeps the schema fields as plain keys alongside the id.
func (d Document) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(d.Fields)+1)
	for k, v := range d.Fields {
		m[k] = v
	}
	if d.ID != "" {
		m["id"] = d.ID
	}
	return json.Marshal(m)
}

// UnmarshalJSON is the inverse of MarshalJSON. Records written before stable
// identifiers existed simply come back with an empty ID.
func (d *Document) UnmarshalJSON(data []byte) error {
	m := make(map[string]string)
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	d.ID = m["id"]
	delete(m, "id")
	d.Fields = m
	return nil
}

// FieldSpec describes one required data field of a document category.
type FieldSpec struct {
	Name string
	// Label is the human-readable name shown by the presentation layer.
	Label string
}

// Schema describes a document category: its ordered data fields and the
// image attachments it requires. Field order matters for display and for
// the XML export layout.
type Schema struct {
	Name    string
	Fields  []FieldSpec
	Images  []string
	Builtin bool
}

// FieldNames returns the ordered data field names of the schema.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}
