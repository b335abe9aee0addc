package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List a profile's learned skills",
	Args:  cobra.NoArgs,
	RunE:  runSkills,
}

func init() {
	addListFlags(skillsCmd)
}

func runSkills(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	p := listParams()

	page, err := api().ListSkills(context.Background(), id, p)
	if err != nil {
		return fmt.Errorf("list skills: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"skills": page.Items,
			"total":  page.Total,
		})
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No skills yet.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "NAME\tLEVEL\tPROGRESS\tXP\tUSES\tLAST USED")
	for _, sk := range page.Items {
		fmt.Fprintf(w, "%s\t%d\t%d%%\t%d/%d\t%d\t%s\n",
			sk.Name, sk.Level, sk.Progress(), sk.XP, sk.NextLevelXP,
			sk.UsageCount, formatTimePtr(sk.LastUsedAt))
	}
	w.Flush()
	pageFooter(cmd.OutOrStdout(), p, len(page.Items), page.Total)
	return nil
}
