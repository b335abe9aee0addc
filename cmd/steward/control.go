package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var controlCmd = &cobra.Command{
	Use:   "control",
	Short: "Control a profile's execution loop",
}

var controlPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the profile",
	Args:  cobra.NoArgs,
	RunE:  runControlPause,
}

var controlResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused profile",
	Args:  cobra.NoArgs,
	RunE:  runControlResume,
}

var controlStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the profile's live health snapshot",
	Args:  cobra.NoArgs,
	RunE:  runControlStatus,
}

func init() {
	controlCmd.AddCommand(controlPauseCmd)
	controlCmd.AddCommand(controlResumeCmd)
	controlCmd.AddCommand(controlStatusCmd)
}

func runControlPause(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	if !confirm(fmt.Sprintf("Pause profile %s?", id)) {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	}
	if err := api().Pause(context.Background(), id); err != nil {
		return fmt.Errorf("pause profile: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Profile %s paused.\n", id)
	return nil
}

func runControlResume(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	if err := api().Resume(context.Background(), id); err != nil {
		return fmt.Errorf("resume profile: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Profile %s resumed.\n", id)
	return nil
}

func runControlStatus(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	st, err := api().Monitor(context.Background(), id)
	if err != nil {
		return fmt.Errorf("fetch monitor status: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), st)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "state: %s\nactive goals: %d\nqueued prompts: %d\nlast active: %s\n",
		st.State, st.ActiveGoals, st.QueuedPrompts, formatTimePtr(st.LastActiveAt))
	return nil
}
