package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/steward/internal/client"
	"github.com/hyperengineering/steward/internal/types"
)

var (
	taskStatusFilter   []string
	taskAssigneeFilter []string
	taskAssignee       string
	taskDue            string
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage a profile's tasks",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runTasksList,
}

var tasksCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksCreate,
}

var tasksStatusCmd = &cobra.Command{
	Use:   "status <task-id> <open|in_progress|done|cancelled>",
	Short: "Transition a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runTasksStatus,
}

var tasksDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksDelete,
}

func init() {
	addListFlags(tasksListCmd)
	tasksListCmd.Flags().StringSliceVar(&taskStatusFilter, "status", nil,
		"Filter by status (repeatable)")
	tasksListCmd.Flags().StringSliceVar(&taskAssigneeFilter, "assigned-to", nil,
		"Filter by assignee (repeatable)")
	tasksCreateCmd.Flags().StringVar(&taskAssignee, "assigned-to", "", "Assignee profile ID")
	tasksCreateCmd.Flags().StringVar(&taskDue, "due", "", "Due time (RFC 3339)")

	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksCreateCmd)
	tasksCmd.AddCommand(tasksStatusCmd)
	tasksCmd.AddCommand(tasksDeleteCmd)
}

func runTasksList(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	p := listParams()
	if len(taskStatusFilter) > 0 {
		p = p.WithFilter("status", taskStatusFilter...)
	}
	if len(taskAssigneeFilter) > 0 {
		p = p.WithFilter("assignedTo", taskAssigneeFilter...)
	}

	page, err := api().ListTasks(context.Background(), id, p)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"tasks": page.Items,
			"total": page.Total,
		})
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tASSIGNED\tDUE")
	for _, tk := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			tk.ID, tk.Title, tk.Status, orDash(tk.AssignedTo), formatTimePtr(tk.DueAt))
	}
	w.Flush()
	pageFooter(cmd.OutOrStdout(), p, len(page.Items), page.Total)
	return nil
}

func runTasksCreate(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	err = api().CreateTask(context.Background(), id, client.TaskInput{
		Title:      args[0],
		AssignedTo: taskAssignee,
		DueAt:      taskDue,
	})
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Task created.")
	return nil
}

func runTasksStatus(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	status := types.TaskStatus(args[1])
	switch status {
	case types.TaskOpen, types.TaskInProgress, types.TaskDone, types.TaskCancelled:
	default:
		return fmt.Errorf("invalid status %q", args[1])
	}
	if err := api().SetTaskStatus(context.Background(), id, args[0], status); err != nil {
		return fmt.Errorf("set task status: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s.\n", args[0], status)
	return nil
}

func runTasksDelete(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	if !confirm(fmt.Sprintf("Delete task %s?", args[0])) {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	}
	if err := api().DeleteTask(context.Background(), id, args[0]); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Task deleted.")
	return nil
}
