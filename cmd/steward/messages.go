package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/steward/internal/client"
)

var (
	messageThreadFilter    []string
	messageDirectionFilter []string
	messageThread          string
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Inspect and send AI-to-AI messages",
}

var messagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List messages, newest first",
	Args:  cobra.NoArgs,
	RunE:  runMessagesList,
}

var messagesSendCmd = &cobra.Command{
	Use:   "send <to> <body>",
	Short: "Send a message to another profile",
	Args:  cobra.ExactArgs(2),
	RunE:  runMessagesSend,
}

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "List message threads",
	Args:  cobra.NoArgs,
	RunE:  runThreadsList,
}

func init() {
	addListFlags(messagesListCmd)
	messagesListCmd.Flags().StringSliceVar(&messageThreadFilter, "thread", nil,
		"Filter by thread ID (repeatable)")
	messagesListCmd.Flags().StringSliceVar(&messageDirectionFilter, "direction", nil,
		"Filter by direction: inbound or outbound (repeatable)")
	messagesSendCmd.Flags().StringVar(&messageThread, "thread", "", "Existing thread ID")
	addListFlags(threadsCmd)

	messagesCmd.AddCommand(messagesListCmd)
	messagesCmd.AddCommand(messagesSendCmd)
}

func runMessagesList(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	p := listParams()
	if len(messageThreadFilter) > 0 {
		p = p.WithFilter("threadId", messageThreadFilter...)
	}
	if len(messageDirectionFilter) > 0 {
		p = p.WithFilter("direction", messageDirectionFilter...)
	}

	page, err := api().ListMessages(context.Background(), id, p)
	if err != nil {
		return fmt.Errorf("list messages: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"messages": page.Items,
			"total":    page.Total,
		})
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No messages found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "TIME\tDIR\tFROM\tTO\tBODY")
	for _, m := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			formatTime(m.SentAt), m.Direction, m.From, m.To, m.Body)
	}
	w.Flush()
	pageFooter(cmd.OutOrStdout(), p, len(page.Items), page.Total)
	return nil
}

func runMessagesSend(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	err = api().SendMessage(context.Background(), id, client.MessageInput{
		To:       args[0],
		Body:     args[1],
		ThreadID: messageThread,
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Message sent.")
	return nil
}

func runThreadsList(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	p := listParams()

	page, err := api().ListThreads(context.Background(), id, p)
	if err != nil {
		return fmt.Errorf("list threads: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"threads": page.Items,
			"total":   page.Total,
		})
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No threads found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tMESSAGES\tLAST MESSAGE\tSUBJECT")
	for _, t := range page.Items {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			t.ID, t.MessageCount, formatTime(t.LastMessageAt), t.Subject)
	}
	w.Flush()
	pageFooter(cmd.OutOrStdout(), p, len(page.Items), page.Total)
	return nil
}
