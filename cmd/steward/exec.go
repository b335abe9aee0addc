package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/steward/internal/client"
	"github.com/hyperengineering/steward/internal/panel"
	"github.com/hyperengineering/steward/internal/types"
)

var (
	execStatusFilter []string
	execKindFilter   []string
	execAll          bool
)

var execCmd = &cobra.Command{
	Use:   "exec",
	Short: "Inspect a profile's execution history",
}

var execHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List past reasoning and tool runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runExecHistory,
}

func init() {
	addListFlags(execHistoryCmd)
	execHistoryCmd.Flags().StringSliceVar(&execStatusFilter, "status", nil,
		"Filter by status (repeatable)")
	execHistoryCmd.Flags().StringSliceVar(&execKindFilter, "kind", nil,
		"Filter by kind (repeatable)")
	execHistoryCmd.Flags().BoolVar(&execAll, "all", false,
		"Fetch every page instead of one")

	execCmd.AddCommand(execHistoryCmd)
}

func runExecHistory(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	p := listParams()
	if len(execStatusFilter) > 0 {
		p = p.WithFilter("status", execStatusFilter...)
	}
	if len(execKindFilter) > 0 {
		p = p.WithFilter("kind", execKindFilter...)
	}

	ctx := context.Background()
	c := api()

	history := panel.New(panel.Config[types.Execution]{
		Fetch: func(ctx context.Context, lp client.ListParams) (client.Page[types.Execution], error) {
			return c.ExecutionHistory(ctx, id, lp)
		},
		Limit:   p.Limit,
		Offset:  p.Offset,
		Filters: p.Filters,
		Search:  p.Search,
	})
	if err := history.Reload(ctx); err != nil {
		return fmt.Errorf("fetch execution history: %w", err)
	}
	// --all keeps appending pages until the panel reports the end.
	for execAll && history.Snapshot().CanNext {
		if err := history.LoadMore(ctx); err != nil {
			return fmt.Errorf("fetch execution history: %w", err)
		}
	}

	snap := history.Snapshot()
	executions, total := snap.Items, snap.Total

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"executions": executions,
			"total":      total,
		})
	}
	if len(executions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No executions found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tKIND\tSTATUS\tSTARTED\tFINISHED\tSUMMARY")
	for _, e := range executions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Kind, e.Status, formatTime(e.StartedAt),
			formatTimePtr(e.FinishedAt), orDash(e.Summary))
	}
	w.Flush()
	fmt.Fprintf(cmd.OutOrStdout(), "showing %d of %d\n", len(executions), total)
	return nil
}
