package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/steward/internal/client"
)

var (
	memoryCategoryFilter []string
	memoryCategory       string
	memoryImportance     float64
	memorySearchLimit    int
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Manage a profile's stored memories",
}

var memoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List memories",
	Args:  cobra.NoArgs,
	RunE:  runMemoryList,
}

var memoryAddCmd = &cobra.Command{
	Use:   "add <content>",
	Short: "Store a memory",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemoryAdd,
}

var memorySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search memories",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemorySearch,
}

var memoryDeleteCmd = &cobra.Command{
	Use:   "delete <memory-id>",
	Short: "Delete a memory",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemoryDelete,
}

func init() {
	addListFlags(memoryListCmd)
	memoryListCmd.Flags().StringSliceVar(&memoryCategoryFilter, "category", nil,
		"Filter by category (repeatable)")
	memoryAddCmd.Flags().StringVar(&memoryCategory, "category", "", "Memory category")
	memoryAddCmd.Flags().Float64Var(&memoryImportance, "importance", 0, "Importance in [0, 1]")
	memorySearchCmd.Flags().IntVar(&memorySearchLimit, "limit", 20, "Max results")

	memoryCmd.AddCommand(memoryListCmd)
	memoryCmd.AddCommand(memoryAddCmd)
	memoryCmd.AddCommand(memorySearchCmd)
	memoryCmd.AddCommand(memoryDeleteCmd)
}

func runMemoryList(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	p := listParams()
	if len(memoryCategoryFilter) > 0 {
		p = p.WithFilter("category", memoryCategoryFilter...)
	}

	page, err := api().ListMemories(context.Background(), id, p)
	if err != nil {
		return fmt.Errorf("list memories: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"memories": page.Items,
			"total":    page.Total,
		})
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No memories found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tCATEGORY\tIMPORTANCE\tCREATED\tCONTENT")
	for _, m := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%s\t%s\n",
			m.ID, orDash(m.Category), m.Importance, formatTime(m.CreatedAt), m.Content)
	}
	w.Flush()
	pageFooter(cmd.OutOrStdout(), p, len(page.Items), page.Total)
	return nil
}

func runMemoryAdd(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	err = api().CreateMemory(context.Background(), id, client.MemoryInput{
		Content:    args[0],
		Category:   memoryCategory,
		Importance: memoryImportance,
	})
	if err != nil {
		return fmt.Errorf("store memory: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Memory stored.")
	return nil
}

func runMemorySearch(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	hits, err := api().SearchMemories(context.Background(), id, args[0], memorySearchLimit)
	if err != nil {
		return fmt.Errorf("search memories: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{"memories": hits})
	}
	if len(hits) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matches.")
		return nil
	}
	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tCATEGORY\tCONTENT")
	for _, m := range hits {
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, orDash(m.Category), m.Content)
	}
	w.Flush()
	return nil
}

func runMemoryDelete(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	if !confirm(fmt.Sprintf("Delete memory %s?", args[0])) {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	}
	if err := api().DeleteMemory(context.Background(), id, args[0]); err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Memory deleted.")
	return nil
}
