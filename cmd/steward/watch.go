package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hyperengineering/steward/internal/stream"
	"github.com/hyperengineering/steward/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard for a profile",
	Long:  "Full-screen view of the profile's health and audit tail, refreshed by polling and WebSocket pushes.",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan stream.AuditEvent, 16)
	sub := stream.New(cfg.API.BaseURL, cfg.API.Token, nil)
	sub.SubscribeAudit(func(ev stream.AuditEvent) {
		select {
		case events <- ev:
		default:
			// Polling will pick up anything a full buffer drops.
		}
	})
	go sub.Run(ctx)

	model := tui.New(api(), id, time.Duration(cfg.Console.PollInterval), events)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}
