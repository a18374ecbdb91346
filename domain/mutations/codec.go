package mutations

import (
	"encoding/json"
	"fmt"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
	pkgerrors "github.com/utemix-lab/vovaipetrova-sub000/pkg/errors"
)

// envelope is the wire form of a mutation: {"type": ..., "payload": ...}
type envelope struct {
	Type    Kind            `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type idPayload struct {
	ID string `json:"id"`
}

type changesPayload struct {
	ID      string                 `json:"id"`
	Changes map[string]interface{} `json:"changes"`
}

type batchPayload struct {
	Mutations []json.RawMessage `json:"mutations"`
}

// Payload returns the JSON-shaped payload of a mutation
func Payload(m Mutation) interface{} {
	switch v := m.(type) {
	case AddNode:
		return v.Node
	case RemoveNode:
		return idPayload{ID: v.ID}
	case UpdateNode:
		return changesPayload{ID: v.ID, Changes: v.Changes}
	case AddEdge:
		return v.Edge
	case RemoveEdge:
		return idPayload{ID: v.ID}
	case UpdateEdge:
		return changesPayload{ID: v.ID, Changes: v.Changes}
	case Batch:
		items := make([]json.RawMessage, 0, len(v.Mutations))
		for _, item := range v.Mutations {
			data, err := Encode(item)
			if err != nil {
				data = []byte("null")
			}
			items = append(items, data)
		}
		return batchPayload{Mutations: items}
	default:
		return nil
	}
}

// Encode writes a mutation as a typed envelope
func Encode(m Mutation) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil mutation", pkgerrors.ErrInvalidProposal)
	}
	payload, err := json.Marshal(Payload(m))
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", m.Kind(), err)
	}
	return json.Marshal(envelope{Type: m.Kind(), Payload: payload})
}

// Decode reads a typed envelope. An unknown type or a missing payload is a
// malformed proposal.
func Decode(data []byte) (Mutation, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrInvalidProposal, err)
	}
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return nil, fmt.Errorf("%w: %s has no payload", pkgerrors.ErrInvalidProposal, env.Type)
	}

	switch env.Type {
	case KindAddNode:
		var n entities.Node
		if err := json.Unmarshal(env.Payload, &n); err != nil {
			return nil, payloadError(env.Type, err)
		}
		return AddNode{Node: n}, nil
	case KindRemoveNode, KindRemoveEdge:
		var p idPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, payloadError(env.Type, err)
		}
		if env.Type == KindRemoveNode {
			return RemoveNode{ID: p.ID}, nil
		}
		return RemoveEdge{ID: p.ID}, nil
	case KindUpdateNode, KindUpdateEdge:
		var p changesPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, payloadError(env.Type, err)
		}
		if env.Type == KindUpdateNode {
			return UpdateNode{ID: p.ID, Changes: p.Changes}, nil
		}
		return UpdateEdge{ID: p.ID, Changes: p.Changes}, nil
	case KindAddEdge:
		var e entities.Edge
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, payloadError(env.Type, err)
		}
		return AddEdge{Edge: e}, nil
	case KindBatch:
		var p batchPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, payloadError(env.Type, err)
		}
		b := Batch{Mutations: make([]Mutation, 0, len(p.Mutations))}
		for i, raw := range p.Mutations {
			item, err := Decode(raw)
			if err != nil {
				return nil, fmt.Errorf("batch item %d: %w", i, err)
			}
			b.Mutations = append(b.Mutations, item)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: unknown mutation type %q", pkgerrors.ErrInvalidProposal, env.Type)
	}
}

func payloadError(kind Kind, err error) error {
	return fmt.Errorf("%w: %s payload: %v", pkgerrors.ErrInvalidProposal, kind, err)
}
