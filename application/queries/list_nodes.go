package queries

import (
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
	"github.com/utemix-lab/vovaipetrova-sub000/pkg/common"
	"github.com/utemix-lab/vovaipetrova-sub000/pkg/utils"
)

// ListNodesQuery pages through the nodes, optionally of a single type
type ListNodesQuery struct {
	Type       string
	Pagination common.PaginationParams
}

// Validate validates the ListNodesQuery
func (q ListNodesQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// ListNodesResult is one page of nodes in document order
type ListNodesResult struct {
	Nodes      []entities.Node        `json:"nodes"`
	Pagination *common.PaginationInfo `json:"pagination"`
}

// ListTypesQuery lists the node types present in the graph
type ListTypesQuery struct{}

// Validate validates the ListTypesQuery
func (q ListTypesQuery) Validate() error {
	return nil
}

// TypeCount is the number of nodes of one type
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}
