package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/steward/internal/client"
	"github.com/hyperengineering/steward/internal/types"
)

var (
	goalStatusFilter []string
	goalDescription  string
	goalPriority     int
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Manage a profile's goals",
}

var goalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals",
	Args:  cobra.NoArgs,
	RunE:  runGoalsList,
}

var goalsCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsCreate,
}

var goalsStatusCmd = &cobra.Command{
	Use:   "status <goal-id> <active|paused|completed|failed>",
	Short: "Transition a goal",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoalsStatus,
}

var goalsDeleteCmd = &cobra.Command{
	Use:   "delete <goal-id>",
	Short: "Delete a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsDelete,
}

func init() {
	addListFlags(goalsListCmd)
	goalsListCmd.Flags().StringSliceVar(&goalStatusFilter, "status", nil,
		"Filter by status (repeatable)")
	goalsCreateCmd.Flags().StringVar(&goalDescription, "description", "", "Goal description")
	goalsCreateCmd.Flags().IntVar(&goalPriority, "priority", 0, "Goal priority")

	goalsCmd.AddCommand(goalsListCmd)
	goalsCmd.AddCommand(goalsCreateCmd)
	goalsCmd.AddCommand(goalsStatusCmd)
	goalsCmd.AddCommand(goalsDeleteCmd)
}

func runGoalsList(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	p := listParams()
	if len(goalStatusFilter) > 0 {
		p = p.WithFilter("status", goalStatusFilter...)
	}

	page, err := api().ListGoals(context.Background(), id, p)
	if err != nil {
		return fmt.Errorf("list goals: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"goals": page.Items,
			"total": page.Total,
		})
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No goals found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPROGRESS\tPRIORITY\tUPDATED")
	for _, g := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d%%\t%d\t%s\n",
			g.ID, g.Title, g.Status, g.Progress, g.Priority, formatTime(g.UpdatedAt))
	}
	w.Flush()
	pageFooter(cmd.OutOrStdout(), p, len(page.Items), page.Total)
	return nil
}

func runGoalsCreate(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	err = api().CreateGoal(context.Background(), id, client.GoalInput{
		Title:       args[0],
		Description: goalDescription,
		Priority:    goalPriority,
	})
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Goal created.")
	return nil
}

func runGoalsStatus(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	status := types.GoalStatus(args[1])
	switch status {
	case types.GoalActive, types.GoalPaused, types.GoalCompleted, types.GoalFailed:
	default:
		return fmt.Errorf("invalid status %q", args[1])
	}
	if err := api().SetGoalStatus(context.Background(), id, args[0], status); err != nil {
		return fmt.Errorf("set goal status: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Goal %s is now %s.\n", args[0], status)
	return nil
}

func runGoalsDelete(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	if !confirm(fmt.Sprintf("Delete goal %s?", args[0])) {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	}
	if err := api().DeleteGoal(context.Background(), id, args[0]); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Goal deleted.")
	return nil
}
