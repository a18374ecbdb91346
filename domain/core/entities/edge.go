package entities

import "encoding/json"

// Edge connects two nodes. Directedness comes from the edge type's schema.
type Edge struct {
	ID     string
	Source string
	Target string
	Type   string
	Fields map[string]interface{}
}

// NewEdge creates an edge with a copy of the given fields
func NewEdge(id, source, target, edgeType string, fields map[string]interface{}) Edge {
	return Edge{ID: id, Source: source, Target: target, Type: edgeType, Fields: CloneFields(fields)}
}

// Touches reports whether the node is either endpoint
func (e Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// IsSelfLoop reports whether source and target are the same node
func (e Edge) IsSelfLoop() bool {
	return e.Source == e.Target
}

// Other returns the opposite endpoint of nodeID
func (e Edge) Other(nodeID string) string {
	if e.Source == nodeID {
		return e.Target
	}
	return e.Source
}

// Clone returns a deep copy
func (e Edge) Clone() Edge {
	return Edge{ID: e.ID, Source: e.Source, Target: e.Target, Type: e.Type, Fields: CloneFields(e.Fields)}
}

// ToMap flattens the edge into a single field map
func (e Edge) ToMap() map[string]interface{} {
	out := make(map[string]interface{}, len(e.Fields)+4)
	for k, v := range e.Fields {
		out[k] = CloneValue(v)
	}
	out[KeyID] = e.ID
	out[KeySource] = e.Source
	out[KeyTarget] = e.Target
	out[KeyType] = e.Type
	return out
}

// MarshalJSON writes the edge as a flat object
func (e Edge) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToMap())
}

// UnmarshalJSON reads a flat object, splitting reserved keys from fields
func (e *Edge) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var err error
	if e.ID, err = stringKey(raw, KeyID); err != nil {
		return err
	}
	if e.Source, err = stringKey(raw, KeySource); err != nil {
		return err
	}
	if e.Target, err = stringKey(raw, KeyTarget); err != nil {
		return err
	}
	if e.Type, err = stringKey(raw, KeyType); err != nil {
		return err
	}
	for _, k := range []string{KeyID, KeySource, KeyTarget, KeyType} {
		delete(raw, k)
	}
	e.Fields = nilIfEmpty(raw)
	return nil
}
