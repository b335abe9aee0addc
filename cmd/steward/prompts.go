package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var promptStatusFilter []string

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Review a profile's self-prompt queue",
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued self-prompts",
	Args:  cobra.NoArgs,
	RunE:  runPromptsList,
}

var promptsApproveCmd = &cobra.Command{
	Use:   "approve <prompt-id>",
	Short: "Approve a self-prompt for execution",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptsApprove,
}

var promptsRejectCmd = &cobra.Command{
	Use:   "reject <prompt-id>",
	Short: "Reject a self-prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptsReject,
}

var promptsDeleteCmd = &cobra.Command{
	Use:   "delete <prompt-id>",
	Short: "Delete a self-prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptsDelete,
}

func init() {
	addListFlags(promptsListCmd)
	promptsListCmd.Flags().StringSliceVar(&promptStatusFilter, "status", nil,
		"Filter by status (repeatable)")

	promptsCmd.AddCommand(promptsListCmd)
	promptsCmd.AddCommand(promptsApproveCmd)
	promptsCmd.AddCommand(promptsRejectCmd)
	promptsCmd.AddCommand(promptsDeleteCmd)
}

func runPromptsList(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	p := listParams()
	if len(promptStatusFilter) > 0 {
		p = p.WithFilter("status", promptStatusFilter...)
	}

	page, err := api().ListSelfPrompts(context.Background(), id, p)
	if err != nil {
		return fmt.Errorf("list self-prompts: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"selfPrompts": page.Items,
			"total":       page.Total,
		})
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Self-prompt queue is empty.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tSTATUS\tSCHEDULED\tPROMPT")
	for _, sp := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			sp.ID, sp.Status, formatTimePtr(sp.ScheduledFor), sp.Prompt)
	}
	w.Flush()
	pageFooter(cmd.OutOrStdout(), p, len(page.Items), page.Total)
	return nil
}

func runPromptsApprove(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	if err := api().ApproveSelfPrompt(context.Background(), id, args[0]); err != nil {
		return fmt.Errorf("approve self-prompt: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Self-prompt approved.")
	return nil
}

func runPromptsReject(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	if err := api().RejectSelfPrompt(context.Background(), id, args[0]); err != nil {
		return fmt.Errorf("reject self-prompt: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Self-prompt rejected.")
	return nil
}

func runPromptsDelete(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	if !confirm(fmt.Sprintf("Delete self-prompt %s?", args[0])) {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	}
	if err := api().DeleteSelfPrompt(context.Background(), id, args[0]); err != nil {
		return fmt.Errorf("delete self-prompt: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Self-prompt deleted.")
	return nil
}
