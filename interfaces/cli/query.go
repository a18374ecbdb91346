package cli

import (
	"github.com/spf13/cobra"

	"github.com/utemix-lab/vovaipetrova-sub000/application/queries"
	"github.com/utemix-lab/vovaipetrova-sub000/application/queries/bus"
	"github.com/utemix-lab/vovaipetrova-sub000/pkg/common"
)

func (a *app) queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Read nodes, neighborhoods and types from a document",
	}

	var (
		nodeType string
		page     common.PaginationParams
	)
	nodes := &cobra.Command{
		Use:   "nodes DOCUMENT",
		Short: "List nodes in document order, optionally of one type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.ask(cmd, args[0], queries.ListNodesQuery{Type: nodeType, Pagination: page})
		},
	}
	nodes.Flags().StringVar(&nodeType, "type", "", "only nodes of this type")
	nodes.Flags().IntVar(&page.Page, "page", 1, "page number")
	nodes.Flags().IntVar(&page.PageSize, "page-size", common.DefaultPaginationParams().PageSize, "nodes per page")

	var types []string
	data := &cobra.Command{
		Use:   "data DOCUMENT",
		Short: "Dump nodes and edges for rendering, optionally restricted to some types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.ask(cmd, args[0], queries.GetGraphDataQuery{Types: types})
		},
	}
	data.Flags().StringSliceVar(&types, "types", nil, "node types to keep")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "node DOCUMENT ID",
			Short: "Show a node with its neighbors and degree",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.ask(cmd, args[0], queries.GetNodeQuery{NodeID: args[1]})
			},
		},
		&cobra.Command{
			Use:   "neighbors DOCUMENT ID",
			Short: "List the distinct neighbors of a node",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.ask(cmd, args[0], queries.GetNeighborsQuery{NodeID: args[1]})
			},
		},
		&cobra.Command{
			Use:   "types DOCUMENT",
			Short: "Count the nodes of every type present",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.ask(cmd, args[0], queries.ListTypesQuery{})
			},
		},
		nodes,
		data,
	)
	return cmd
}

func (a *app) ask(cmd *cobra.Command, path string, q bus.Query) error {
	g, err := loadGraph(path)
	if err != nil {
		return err
	}
	session, err := a.container.NewSession(g)
	if err != nil {
		return err
	}
	out, err := session.QueryBus.Ask(cmd.Context(), q)
	if err != nil {
		return err
	}
	return a.print(out)
}
