package validators

import (
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/aggregates"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/schema"
	"github.com/utemix-lab/vovaipetrova-sub000/pkg/errors"
)

// Catalog-checked field names
const (
	FieldVisibility = "visibility"
	FieldStatus     = "status"
)

// Result is the outcome of a schema validation. Errors make it invalid;
// warnings never do.
type Result struct {
	Valid    bool                  `json:"valid"`
	Errors   []*errors.DomainError `json:"errors,omitempty"`
	Warnings []*errors.DomainError `json:"warnings,omitempty"`
}

func newResult() Result {
	return Result{Valid: true}
}

func (r *Result) addError(err *errors.DomainError) {
	r.Errors = append(r.Errors, err)
	r.Valid = false
}

func (r *Result) addWarning(err *errors.DomainError) {
	r.Warnings = append(r.Warnings, err)
}

// Merge folds another result into r
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Valid = r.Valid && other.Valid
}

// NodeTypeLookup resolves the type of a node by id
type NodeTypeLookup interface {
	NodeType(id string) (string, bool)
}

// SchemaValidator checks entities against a schema catalog
type SchemaValidator struct {
	catalog *schema.Catalog
}

// NewSchemaValidator creates a validator; a nil catalog means the default one
func NewSchemaValidator(catalog *schema.Catalog) *SchemaValidator {
	if catalog == nil {
		catalog = schema.DefaultCatalog()
	}
	return &SchemaValidator{catalog: catalog}
}

// Catalog returns the catalog the validator checks against
func (v *SchemaValidator) Catalog() *schema.Catalog {
	return v.catalog
}

// ValidateNode checks identity, type membership, required fields and
// catalog-backed values of a node.
func (v *SchemaValidator) ValidateNode(node entities.Node) Result {
	r := newResult()

	if node.ID == "" {
		r.addError(missingField("node", node.ID, entities.KeyID))
	}
	if node.Type == "" {
		r.addError(missingField("node", node.ID, entities.KeyType))
	} else if d, ok := v.catalog.NodeType(node.Type); !ok {
		r.addError(errors.Newf(errors.DomainValidationError, errors.CodeUnknownNodeType,
			"node %q has unknown type %q", node.ID, node.Type).
			WithDetail("id", node.ID).WithDetail("type", node.Type))
	} else {
		for _, field := range d.RequiredFields {
			if isBlank(node.Fields[field]) {
				r.addError(missingField("node", node.ID, field))
			}
		}
	}

	v.checkCatalogValues(&r, "node", node.ID, node.Fields)
	return r
}

// ValidateEdge checks an edge. When nodes is non-nil the endpoints are
// resolved and their types compared with the edge type's allowed sets.
func (v *SchemaValidator) ValidateEdge(edge entities.Edge, nodes NodeTypeLookup) Result {
	r := newResult()

	for _, f := range [...]struct{ name, value string }{
		{entities.KeyID, edge.ID},
		{entities.KeySource, edge.Source},
		{entities.KeyTarget, edge.Target},
		{entities.KeyType, edge.Type},
	} {
		if f.value == "" {
			r.addError(missingField("edge", edge.ID, f.name))
		}
	}

	d, known := v.catalog.EdgeType(edge.Type)
	if edge.Type != "" && !known {
		r.addWarning(errors.Newf(errors.DomainValidationError, errors.CodeUnknownEdgeType,
			"edge %q has unknown type %q", edge.ID, edge.Type).
			WithDetail("id", edge.ID).WithDetail("type", edge.Type))
	}
	if known {
		for _, field := range d.RequiredFields {
			if isBlank(edge.Fields[field]) {
				r.addError(missingField("edge", edge.ID, field))
			}
		}
	}

	v.checkCatalogValues(&r, "edge", edge.ID, edge.Fields)

	if nodes == nil {
		return r
	}

	sourceType, sourceOK := v.resolveEndpoint(&r, edge, edge.Source, nodes)
	targetType, targetOK := v.resolveEndpoint(&r, edge, edge.Target, nodes)
	if !known {
		return r
	}
	if sourceOK && !schema.Allows(d.AllowedSources, sourceType) {
		r.addWarning(errors.Newf(errors.DomainValidationError, errors.CodeInvalidSourceType,
			"edge %q of type %q cannot start at a %q node", edge.ID, edge.Type, sourceType).
			WithDetail("id", edge.ID).WithDetail("source_type", sourceType))
	}
	if targetOK && !schema.Allows(d.AllowedTargets, targetType) {
		r.addWarning(errors.Newf(errors.DomainValidationError, errors.CodeInvalidTargetType,
			"edge %q of type %q cannot end at a %q node", edge.ID, edge.Type, targetType).
			WithDetail("id", edge.ID).WithDetail("target_type", targetType))
	}
	if d.Hierarchical && sourceOK && targetOK {
		if child, ok := v.catalog.NodeType(targetType); ok && !schema.Allows(child.AllowedParents, sourceType) {
			r.addWarning(errors.Newf(errors.DomainValidationError, errors.CodeInvalidTargetType,
				"a %q node cannot be contained by a %q node", targetType, sourceType).
				WithDetail("id", edge.ID).WithDetail("target_type", targetType))
		}
	}
	return r
}

// ValidateGraph runs both validators over every entity and additionally
// reports duplicate ids (errors) and isolated nodes (warnings).
func (v *SchemaValidator) ValidateGraph(g *aggregates.Graph) Result {
	r := newResult()

	seenNodes := make(map[string]bool, g.NodeCount())
	g.RangeNodes(func(_ int, n entities.Node) bool {
		r.Merge(v.ValidateNode(n))
		if n.ID != "" && seenNodes[n.ID] {
			r.addError(errors.Newf(errors.DomainConflictError, errors.CodeDuplicateNodeID,
				"node %q already exists", n.ID).WithDetail("id", n.ID))
		}
		seenNodes[n.ID] = true
		return true
	})

	seenEdges := make(map[string]bool, g.EdgeCount())
	connected := make(map[string]bool)
	g.RangeEdges(func(_ int, e entities.Edge) bool {
		r.Merge(v.ValidateEdge(e, g))
		if e.ID != "" && seenEdges[e.ID] {
			r.addError(errors.Newf(errors.DomainConflictError, errors.CodeDuplicateEdgeID,
				"edge %q already exists", e.ID).WithDetail("id", e.ID))
		}
		seenEdges[e.ID] = true
		connected[e.Source] = true
		connected[e.Target] = true
		return true
	})

	g.RangeNodes(func(_ int, n entities.Node) bool {
		if !connected[n.ID] {
			r.addWarning(errors.Newf(errors.DomainValidationError, errors.CodeIsolatedNode,
				"node %q has no edges", n.ID).WithDetail("id", n.ID))
		}
		return true
	})
	return r
}

func (v *SchemaValidator) resolveEndpoint(r *Result, edge entities.Edge, id string, nodes NodeTypeLookup) (string, bool) {
	if id == "" {
		return "", false
	}
	t, ok := nodes.NodeType(id)
	if !ok {
		r.addError(errors.Newf(errors.DomainNotFoundError, errors.CodeUnresolvedEndpoint,
			"edge %q references unknown node %q", edge.ID, id).
			WithDetail("id", edge.ID).WithDetail("endpoint", id))
	}
	return t, ok
}

func (v *SchemaValidator) checkCatalogValues(r *Result, kind, id string, fields map[string]interface{}) {
	if raw, ok := fields[FieldVisibility]; ok {
		if s, isString := raw.(string); !isString || !v.catalog.IsKnownVisibility(s) {
			r.addWarning(errors.Newf(errors.DomainValidationError, errors.CodeInvalidVisibility,
				"%s %q has visibility %v outside the catalog", kind, id, raw).WithDetail("id", id))
		}
	}
	if raw, ok := fields[FieldStatus]; ok {
		if s, isString := raw.(string); !isString || !v.catalog.IsKnownStatus(s) {
			r.addWarning(errors.Newf(errors.DomainValidationError, errors.CodeInvalidStatus,
				"%s %q has status %v outside the catalog", kind, id, raw).WithDetail("id", id))
		}
	}
}

func missingField(kind, id, field string) *errors.DomainError {
	return errors.Newf(errors.DomainValidationError, errors.CodeMissingRequiredField,
		"%s %q is missing required field %q", kind, id, field).
		WithDetail("id", id).WithDetail("field", field)
}

func isBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
