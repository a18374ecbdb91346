package schema

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultVersion is the schema version stamped on snapshots when none is configured
const DefaultVersion = "1.0.0"

// NodeTypeDescriptor is the static metadata of one node type
type NodeTypeDescriptor struct {
	ID              string   `yaml:"id"`
	Description     string   `yaml:"description"`
	AllowedParents  []string `yaml:"allowed_parents,omitempty"`
	AllowedChildren []string `yaml:"allowed_children,omitempty"`
	RequiredFields  []string `yaml:"required_fields,omitempty"`
	Root            bool     `yaml:"root,omitempty"`
}

// EdgeTypeDescriptor is the static metadata of one edge type.
// Empty source/target sets accept any node type.
type EdgeTypeDescriptor struct {
	ID             string   `yaml:"id"`
	Description    string   `yaml:"description"`
	Directed       bool     `yaml:"directed"`
	Hierarchical   bool     `yaml:"hierarchical,omitempty"`
	AllowSelfLoop  bool     `yaml:"allow_self_loop,omitempty"`
	AllowedSources []string `yaml:"allowed_sources,omitempty"`
	AllowedTargets []string `yaml:"allowed_targets,omitempty"`
	RequiredFields []string `yaml:"required_fields,omitempty"`
}

// CatalogSpec is the serializable form of a catalog
type CatalogSpec struct {
	Version    string               `yaml:"version"`
	NodeTypes  []NodeTypeDescriptor `yaml:"node_types"`
	EdgeTypes  []EdgeTypeDescriptor `yaml:"edge_types"`
	Visibility []string             `yaml:"visibility"`
	Statuses   []string             `yaml:"statuses"`
}

// Catalog is the read-only registry of node and edge types.
// It is built once and never mutated; accessors hand out copies.
type Catalog struct {
	version    string
	nodeTypes  map[string]NodeTypeDescriptor
	nodeOrder  []string
	edgeTypes  map[string]EdgeTypeDescriptor
	edgeOrder  []string
	visibility map[string]bool
	statuses   map[string]bool
}

// NewCatalog validates a spec and builds a catalog from it
func NewCatalog(spec CatalogSpec) (*Catalog, error) {
	c := &Catalog{
		version:    spec.Version,
		nodeTypes:  make(map[string]NodeTypeDescriptor, len(spec.NodeTypes)),
		edgeTypes:  make(map[string]EdgeTypeDescriptor, len(spec.EdgeTypes)),
		visibility: toSet(spec.Visibility),
		statuses:   toSet(spec.Statuses),
	}
	if c.version == "" {
		c.version = DefaultVersion
	}

	for _, d := range spec.NodeTypes {
		if d.ID == "" {
			return nil, fmt.Errorf("node type with empty id")
		}
		if _, exists := c.nodeTypes[d.ID]; exists {
			return nil, fmt.Errorf("duplicate node type %q", d.ID)
		}
		c.nodeTypes[d.ID] = copyNodeType(d)
		c.nodeOrder = append(c.nodeOrder, d.ID)
	}
	for _, d := range spec.EdgeTypes {
		if d.ID == "" {
			return nil, fmt.Errorf("edge type with empty id")
		}
		if _, exists := c.edgeTypes[d.ID]; exists {
			return nil, fmt.Errorf("duplicate edge type %q", d.ID)
		}
		for _, ref := range append(append([]string{}, d.AllowedSources...), d.AllowedTargets...) {
			if _, ok := c.nodeTypes[ref]; !ok {
				return nil, fmt.Errorf("edge type %q references unknown node type %q", d.ID, ref)
			}
		}
		c.edgeTypes[d.ID] = copyEdgeType(d)
		c.edgeOrder = append(c.edgeOrder, d.ID)
	}
	return c, nil
}

// ParseCatalog decodes a YAML catalog
func ParseCatalog(data []byte) (*Catalog, error) {
	var spec CatalogSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse schema catalog: %w", err)
	}
	return NewCatalog(spec)
}

// LoadCatalog reads a YAML catalog from disk
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// Version returns the schema version
func (c *Catalog) Version() string { return c.version }

// NodeType looks up a node type descriptor
func (c *Catalog) NodeType(id string) (NodeTypeDescriptor, bool) {
	d, ok := c.nodeTypes[id]
	if !ok {
		return NodeTypeDescriptor{}, false
	}
	return copyNodeType(d), true
}

// EdgeType looks up an edge type descriptor
func (c *Catalog) EdgeType(id string) (EdgeTypeDescriptor, bool) {
	d, ok := c.edgeTypes[id]
	if !ok {
		return EdgeTypeDescriptor{}, false
	}
	return copyEdgeType(d), true
}

// HasNodeType checks if a node type is known
func (c *Catalog) HasNodeType(id string) bool {
	_, ok := c.nodeTypes[id]
	return ok
}

// HasEdgeType checks if an edge type is known
func (c *Catalog) HasEdgeType(id string) bool {
	_, ok := c.edgeTypes[id]
	return ok
}

// NodeTypeIDs returns node type ids in declaration order
func (c *Catalog) NodeTypeIDs() []string {
	return append([]string(nil), c.nodeOrder...)
}

// EdgeTypeIDs returns edge type ids in declaration order
func (c *Catalog) EdgeTypeIDs() []string {
	return append([]string(nil), c.edgeOrder...)
}

// RootTypes returns the node types flagged as roots
func (c *Catalog) RootTypes() []string {
	var out []string
	for _, id := range c.nodeOrder {
		if c.nodeTypes[id].Root {
			out = append(out, id)
		}
	}
	return out
}

// IsRootType reports whether a node type is a root type
func (c *Catalog) IsRootType(id string) bool {
	return c.nodeTypes[id].Root
}

// HierarchyEdgeTypes returns the contains-style edge types
func (c *Catalog) HierarchyEdgeTypes() []string {
	var out []string
	for _, id := range c.edgeOrder {
		if c.edgeTypes[id].Hierarchical {
			out = append(out, id)
		}
	}
	return out
}

// IsHierarchical reports whether an edge type forms the hierarchy
func (c *Catalog) IsHierarchical(edgeType string) bool {
	return c.edgeTypes[edgeType].Hierarchical
}

// AllowsSelfLoop reports whether an edge type may connect a node to itself.
// Unknown types never do.
func (c *Catalog) AllowsSelfLoop(edgeType string) bool {
	return c.edgeTypes[edgeType].AllowSelfLoop
}

// IsKnownVisibility checks a visibility value against the catalog
func (c *Catalog) IsKnownVisibility(v string) bool { return c.visibility[v] }

// IsKnownStatus checks a status value against the catalog
func (c *Catalog) IsKnownStatus(s string) bool { return c.statuses[s] }

// Visibility returns the visibility catalog, sorted
func (c *Catalog) Visibility() []string { return sortedKeys(c.visibility) }

// Statuses returns the status catalog, sorted
func (c *Catalog) Statuses() []string { return sortedKeys(c.statuses) }

// Spec returns the serializable form of the catalog
func (c *Catalog) Spec() CatalogSpec {
	spec := CatalogSpec{
		Version:    c.version,
		Visibility: c.Visibility(),
		Statuses:   c.Statuses(),
	}
	for _, id := range c.nodeOrder {
		spec.NodeTypes = append(spec.NodeTypes, copyNodeType(c.nodeTypes[id]))
	}
	for _, id := range c.edgeOrder {
		spec.EdgeTypes = append(spec.EdgeTypes, copyEdgeType(c.edgeTypes[id]))
	}
	return spec
}

func copyNodeType(d NodeTypeDescriptor) NodeTypeDescriptor {
	d.AllowedParents = append([]string(nil), d.AllowedParents...)
	d.AllowedChildren = append([]string(nil), d.AllowedChildren...)
	d.RequiredFields = append([]string(nil), d.RequiredFields...)
	return d
}

func copyEdgeType(d EdgeTypeDescriptor) EdgeTypeDescriptor {
	d.AllowedSources = append([]string(nil), d.AllowedSources...)
	d.AllowedTargets = append([]string(nil), d.AllowedTargets...)
	d.RequiredFields = append([]string(nil), d.RequiredFields...)
	return d
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Allows reports whether id is in list. An empty list allows everything.
func Allows(list []string, id string) bool {
	if len(list) == 0 {
		return true
	}
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
