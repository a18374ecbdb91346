package invariants

import (
	"go.uber.org/zap"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/aggregates"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/valueobjects"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/schema"
)

// Report aggregates the results of one CheckAll run
type Report struct {
	Valid      bool                    `json:"valid"`
	Strictness valueobjects.Strictness `json:"strictness"`
	Total      int                     `json:"total"`
	Passed     int                     `json:"passed"`
	Failed     int                     `json:"failed"`
	Results    []Result                `json:"results"`
	Failures   []Result                `json:"failures,omitempty"`
}

// Failing returns the names of the failing invariants
func (r Report) Failing() []Name {
	names := make([]Name, 0, len(r.Failures))
	for _, f := range r.Failures {
		names = append(names, f.Name)
	}
	return names
}

// Checker runs the invariants selected by a strictness level
type Checker struct {
	catalog    *schema.Catalog
	invariants []Invariant
	logger     *zap.Logger
}

// NewChecker creates a checker bound to a catalog
func NewChecker(catalog *schema.Catalog, logger *zap.Logger) *Checker {
	if catalog == nil {
		catalog = schema.DefaultCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		catalog:    catalog,
		invariants: All(),
		logger:     logger,
	}
}

// Catalog returns the catalog used for type checks
func (c *Checker) Catalog() *schema.Catalog {
	return c.catalog
}

// Selected returns the invariants run at a strictness level, in order
func (c *Checker) Selected(strictness valueobjects.Strictness) []Invariant {
	var out []Invariant
	for _, inv := range c.invariants {
		if strictness.Includes(inv.Level) {
			out = append(out, inv)
		}
	}
	return out
}

// CheckAll runs every invariant included by strictness against the graph
func (c *Checker) CheckAll(g *aggregates.Graph, strictness valueobjects.Strictness) Report {
	selected := c.Selected(strictness)
	report := Report{
		Valid:      true,
		Strictness: strictness,
		Total:      len(selected),
		Results:    make([]Result, 0, len(selected)),
	}

	for _, inv := range selected {
		r := inv.Check(g, c.catalog)
		report.Results = append(report.Results, r)
		if r.Holds {
			report.Passed++
			continue
		}
		report.Failed++
		report.Valid = false
		report.Failures = append(report.Failures, r)
		c.logger.Debug("Invariant violated",
			zap.String("invariant", string(r.Name)),
			zap.Int("violations", len(r.Violations)),
			zap.Strings("details", r.Violations))
	}

	return report
}

// Check runs a single invariant by name
func (c *Checker) Check(g *aggregates.Graph, name Name) (Result, bool) {
	for _, inv := range c.invariants {
		if inv.Name == name {
			return inv.Check(g, c.catalog), true
		}
	}
	return Result{}, false
}
