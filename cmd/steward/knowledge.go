package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/steward/internal/client"
)

var (
	knowledgeTopicFilter []string
	knowledgeSource      string
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Manage a profile's curated knowledge base",
}

var knowledgeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List knowledge items",
	Args:  cobra.NoArgs,
	RunE:  runKnowledgeList,
}

var knowledgeAddCmd = &cobra.Command{
	Use:   "add <topic> <content>",
	Short: "Add a knowledge item",
	Args:  cobra.ExactArgs(2),
	RunE:  runKnowledgeAdd,
}

var knowledgeDeleteCmd = &cobra.Command{
	Use:   "delete <item-id>",
	Short: "Delete a knowledge item",
	Args:  cobra.ExactArgs(1),
	RunE:  runKnowledgeDelete,
}

func init() {
	addListFlags(knowledgeListCmd)
	knowledgeListCmd.Flags().StringSliceVar(&knowledgeTopicFilter, "topic", nil,
		"Filter by topic (repeatable)")
	knowledgeAddCmd.Flags().StringVar(&knowledgeSource, "source", "", "Item source")

	knowledgeCmd.AddCommand(knowledgeListCmd)
	knowledgeCmd.AddCommand(knowledgeAddCmd)
	knowledgeCmd.AddCommand(knowledgeDeleteCmd)
}

func runKnowledgeList(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	p := listParams()
	if len(knowledgeTopicFilter) > 0 {
		p = p.WithFilter("topic", knowledgeTopicFilter...)
	}

	page, err := api().ListKnowledge(context.Background(), id, p)
	if err != nil {
		return fmt.Errorf("list knowledge: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"knowledge": page.Items,
			"total":     page.Total,
		})
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Knowledge base is empty.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tTOPIC\tSOURCE\tADDED\tCONTENT")
	for _, k := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			k.ID, k.Topic, orDash(k.Source), formatTime(k.AddedAt), k.Content)
	}
	w.Flush()
	pageFooter(cmd.OutOrStdout(), p, len(page.Items), page.Total)
	return nil
}

func runKnowledgeAdd(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	err = api().AddKnowledge(context.Background(), id, client.KnowledgeInput{
		Topic:   args[0],
		Content: args[1],
		Source:  knowledgeSource,
	})
	if err != nil {
		return fmt.Errorf("add knowledge: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Knowledge added.")
	return nil
}

func runKnowledgeDelete(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	if !confirm(fmt.Sprintf("Delete knowledge item %s?", args[0])) {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	}
	if err := api().DeleteKnowledge(context.Background(), id, args[0]); err != nil {
		return fmt.Errorf("delete knowledge: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Knowledge item deleted.")
	return nil
}
