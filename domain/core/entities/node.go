package entities

import (
	"encoding/json"
	"fmt"
)

// Reserved node keys. Everything else in a serialized node lands in Fields.
const (
	KeyID     = "id"
	KeyType   = "type"
	KeyLabel  = "label"
	KeySource = "source"
	KeyTarget = "target"
)

// Node is a typed vertex with open-ended fields.
// The label, visibility, status and any custom attributes live in Fields.
type Node struct {
	ID     string
	Type   string
	Fields map[string]interface{}
}

// NewNode creates a node with a copy of the given fields
func NewNode(id, nodeType string, fields map[string]interface{}) Node {
	return Node{ID: id, Type: nodeType, Fields: CloneFields(fields)}
}

// Field returns a field value and whether it is present
func (n Node) Field(key string) (interface{}, bool) {
	v, ok := n.Fields[key]
	return v, ok
}

// StringField returns a string field, or "" when absent or not a string
func (n Node) StringField(key string) string {
	s, _ := n.Fields[key].(string)
	return s
}

// Label returns the display label, falling back to the id.
func (n Node) Label() string {
	if s := n.StringField(KeyLabel); s != "" {
		return s
	}
	return n.ID
}

// Clone returns a deep copy
func (n Node) Clone() Node {
	return Node{ID: n.ID, Type: n.Type, Fields: CloneFields(n.Fields)}
}

// ToMap flattens the node into a single field map, as it is serialized
func (n Node) ToMap() map[string]interface{} {
	out := make(map[string]interface{}, len(n.Fields)+2)
	for k, v := range n.Fields {
		out[k] = CloneValue(v)
	}
	out[KeyID] = n.ID
	out[KeyType] = n.Type
	return out
}

// MarshalJSON writes the node as a flat object
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.ToMap())
}

// UnmarshalJSON reads a flat object, splitting reserved keys from fields
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := stringKey(raw, KeyID)
	if err != nil {
		return err
	}
	nodeType, err := stringKey(raw, KeyType)
	if err != nil {
		return err
	}
	delete(raw, KeyID)
	delete(raw, KeyType)
	n.ID = id
	n.Type = nodeType
	n.Fields = nilIfEmpty(raw)
	return nil
}

func stringKey(raw map[string]interface{}, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T", key, v)
	}
	return s, nil
}
