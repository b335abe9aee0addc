package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/steward/internal/client"
)

var scheduleAction string

var schedulesCmd = &cobra.Command{
	Use:   "schedules",
	Short: "Manage a profile's recurring schedules",
}

var schedulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List schedules",
	Args:  cobra.NoArgs,
	RunE:  runSchedulesList,
}

var schedulesCreateCmd = &cobra.Command{
	Use:   "create <name> <cron>",
	Short: "Create a schedule",
	Args:  cobra.ExactArgs(2),
	RunE:  runSchedulesCreate,
}

var schedulesEnableCmd = &cobra.Command{
	Use:   "enable <schedule-id>",
	Short: "Enable a schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setScheduleEnabled(cmd, args[0], true) },
}

var schedulesDisableCmd = &cobra.Command{
	Use:   "disable <schedule-id>",
	Short: "Disable a schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setScheduleEnabled(cmd, args[0], false) },
}

var schedulesDeleteCmd = &cobra.Command{
	Use:   "delete <schedule-id>",
	Short: "Delete a schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedulesDelete,
}

var schedulesPresetCmd = &cobra.Command{
	Use:   "preset <name>",
	Short: "Apply a named schedule preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedulesPreset,
}

func init() {
	addListFlags(schedulesListCmd)
	schedulesCreateCmd.Flags().StringVar(&scheduleAction, "action", "", "Action the schedule triggers")

	schedulesCmd.AddCommand(schedulesListCmd)
	schedulesCmd.AddCommand(schedulesCreateCmd)
	schedulesCmd.AddCommand(schedulesEnableCmd)
	schedulesCmd.AddCommand(schedulesDisableCmd)
	schedulesCmd.AddCommand(schedulesDeleteCmd)
	schedulesCmd.AddCommand(schedulesPresetCmd)
}

func runSchedulesList(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	p := listParams()

	page, err := api().ListSchedules(context.Background(), id, p)
	if err != nil {
		return fmt.Errorf("list schedules: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"schedules": page.Items,
			"total":     page.Total,
		})
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No schedules found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tNAME\tCRON\tACTION\tENABLED\tNEXT RUN")
	for _, sc := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
			sc.ID, sc.Name, sc.Cron, orDash(sc.Action), sc.Enabled, formatTimePtr(sc.NextRunAt))
	}
	w.Flush()
	pageFooter(cmd.OutOrStdout(), p, len(page.Items), page.Total)
	return nil
}

func runSchedulesCreate(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	err = api().CreateSchedule(context.Background(), id, client.ScheduleInput{
		Name:    args[0],
		Cron:    args[1],
		Action:  scheduleAction,
		Enabled: true,
	})
	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Schedule created.")
	return nil
}

func setScheduleEnabled(cmd *cobra.Command, scheduleID string, enabled bool) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	if err := api().SetScheduleEnabled(context.Background(), id, scheduleID, enabled); err != nil {
		return fmt.Errorf("toggle schedule: %w", err)
	}
	verb := "disabled"
	if enabled {
		verb = "enabled"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schedule %s %s.\n", scheduleID, verb)
	return nil
}

func runSchedulesDelete(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	if !confirm(fmt.Sprintf("Delete schedule %s?", args[0])) {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	}
	if err := api().DeleteSchedule(context.Background(), id, args[0]); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Schedule deleted.")
	return nil
}

func runSchedulesPreset(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	if err := api().ApplySchedulePreset(context.Background(), id, args[0]); err != nil {
		return fmt.Errorf("apply preset: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Preset %s applied.\n", args[0])
	return nil
}
