package schema

// DefaultCatalogSpec describes the project graph: a single root, hubs that
// group characters and domains, workbenches and the modules they own.
func DefaultCatalogSpec() CatalogSpec {
	containers := []string{"root", "hub", "domain", "workbench"}
	return CatalogSpec{
		Version: DefaultVersion,
		NodeTypes: []NodeTypeDescriptor{
			{ID: "root", Description: "Entry point of the universe", Root: true,
				AllowedChildren: []string{"hub", "domain", "workbench", "character", "collab"}},
			{ID: "hub", Description: "Grouping node for a family of entities",
				AllowedParents: []string{"root", "hub"}},
			{ID: "character", Description: "A character of the story", RequiredFields: []string{"label"},
				AllowedParents: []string{"root", "hub"}},
			{ID: "domain", Description: "Knowledge or practice area",
				AllowedParents: []string{"root", "hub", "domain"}},
			{ID: "workbench", Description: "Working space that hosts modules",
				AllowedParents: []string{"root", "hub", "domain"}},
			{ID: "collab", Description: "Collaboration between characters",
				AllowedParents: []string{"root", "hub"}},
			{ID: "concept", Description: "Idea referenced across the graph"},
			{ID: "module", Description: "Computational unit owned by a workbench", RequiredFields: []string{"label"},
				AllowedParents: []string{"workbench"}},
		},
		EdgeTypes: []EdgeTypeDescriptor{
			{ID: "contains", Description: "Hierarchical containment", Directed: true, Hierarchical: true,
				AllowedSources: containers},
			{ID: "relates", Description: "Undirected association"},
			{ID: "references", Description: "One entity cites another", Directed: true},
			{ID: "depends_on", Description: "Computation dependency", Directed: true},
			{ID: "owns", Description: "Computation ownership", Directed: true,
				AllowedSources: []string{"workbench", "module", "character"}},
		},
		Visibility: []string{"public", "internal", "hidden"},
		Statuses:   []string{"draft", "active", "stable", "archived"},
	}
}

// DefaultCatalog builds the catalog described by DefaultCatalogSpec
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultCatalogSpec())
	if err != nil {
		panic("schema: invalid default catalog: " + err.Error())
	}
	return c
}
