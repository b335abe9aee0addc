package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/steward/internal/stream"
)

var auditCategoryFilter []string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect a profile's audit log",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit entries, newest first",
	Args:  cobra.NoArgs,
	RunE:  runAuditList,
}

var auditTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Stream new audit entries as they happen",
	Args:  cobra.NoArgs,
	RunE:  runAuditTail,
}

func init() {
	addListFlags(auditListCmd)
	auditListCmd.Flags().StringSliceVar(&auditCategoryFilter, "category", nil,
		"Filter by category (repeatable)")

	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditTailCmd)
}

func runAuditList(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	p := listParams()
	if len(auditCategoryFilter) > 0 {
		p = p.WithFilter("category", auditCategoryFilter...)
	}

	page, err := api().AuditLog(context.Background(), id, p)
	if err != nil {
		return fmt.Errorf("list audit entries: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"entries": page.Items,
			"total":   page.Total,
		})
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit entries found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "TIME\tCATEGORY\tSUMMARY")
	for _, e := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			formatTime(e.CreatedAt), e.Category, e.Summary)
	}
	w.Flush()
	pageFooter(cmd.OutOrStdout(), p, len(page.Items), page.Total)
	return nil
}

// runAuditTail subscribes over WebSocket and prints entries for the selected
// profile until interrupted.
func runAuditTail(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	out := cmd.OutOrStdout()
	sub := stream.New(cfg.API.BaseURL, cfg.API.Token, nil)
	sub.SubscribeAudit(func(ev stream.AuditEvent) {
		if ev.AgenticID != id {
			return
		}
		if jsonOutput {
			printJSON(out, ev.Entry)
			return
		}
		fmt.Fprintf(out, "%s  [%s]  %s\n",
			formatTime(ev.Entry.CreatedAt), ev.Entry.Category, ev.Entry.Summary)
	})

	fmt.Fprintf(cmd.ErrOrStderr(), "Tailing audit log for %s (ctrl-c to stop)...\n", id)
	sub.Run(ctx)
	return nil
}
