package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/steward/internal/types"
)

var learningCmd = &cobra.Command{
	Use:   "learning",
	Short: "Manage a profile's self-learning",
}

var learningConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the self-learning configuration",
	Args:  cobra.NoArgs,
	RunE:  runLearningConfig,
}

var learningSetCmd = &cobra.Command{
	Use:   "set <enabled|auto-approve> <true|false>",
	Short: "Change a self-learning toggle",
	Args:  cobra.ExactArgs(2),
	RunE:  runLearningSet,
}

var learningStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show self-learning counters",
	Args:  cobra.NoArgs,
	RunE:  runLearningStats,
}

var learningReviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "List items awaiting review",
	Args:  cobra.NoArgs,
	RunE:  runLearningReviews,
}

var learningApproveCmd = &cobra.Command{
	Use:   "approve <review-id>",
	Short: "Accept a pending item",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return resolveReview(cmd, args[0], true) },
}

var learningRejectCmd = &cobra.Command{
	Use:   "reject <review-id>",
	Short: "Discard a pending item",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return resolveReview(cmd, args[0], false) },
}

func init() {
	addListFlags(learningReviewsCmd)

	learningCmd.AddCommand(learningConfigCmd)
	learningCmd.AddCommand(learningSetCmd)
	learningCmd.AddCommand(learningStatsCmd)
	learningCmd.AddCommand(learningReviewsCmd)
	learningCmd.AddCommand(learningApproveCmd)
	learningCmd.AddCommand(learningRejectCmd)
}

func runLearningConfig(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	lc, err := api().LearningConfig(context.Background(), id)
	if err != nil {
		return fmt.Errorf("fetch learning config: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), lc)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "enabled: %t\nauto-approve: %t\nreview threshold: %.2f\n",
		lc.Enabled, lc.AutoApprove, lc.ReviewThreshold)
	return nil
}

// runLearningSet does a read-modify-write of the config so the untouched
// toggle keeps its value.
func runLearningSet(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	value, err := strconv.ParseBool(args[1])
	if err != nil {
		return fmt.Errorf("value must be true or false: %w", err)
	}

	ctx := context.Background()
	c := api()
	lc, err := c.LearningConfig(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch learning config: %w", err)
	}
	switch args[0] {
	case "enabled":
		lc.Enabled = value
	case "auto-approve":
		lc.AutoApprove = value
	default:
		return fmt.Errorf("unknown toggle %q (want enabled or auto-approve)", args[0])
	}
	if err := c.UpdateLearningConfig(ctx, id, *lc); err != nil {
		return fmt.Errorf("update learning config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %t.\n", args[0], value)
	return nil
}

func runLearningStats(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	stats, err := api().LearningStats(context.Background(), id)
	if err != nil {
		return fmt.Errorf("fetch learning stats: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), stats)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "learned: %d\npending review: %d\nrejected: %d\nlast learned: %s\n",
		stats.TotalLearned, stats.PendingReview, stats.Rejected, formatTimePtr(stats.LastLearnedAt))
	return nil
}

func runLearningReviews(cmd *cobra.Command, args []string) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	p := listParams()

	page, err := api().PendingReviews(context.Background(), id, p)
	if err != nil {
		return fmt.Errorf("list pending reviews: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"reviews": page.Items,
			"total":   page.Total,
		})
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing awaiting review.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tKIND\tSUBMITTED\tPAYLOAD")
	for _, r := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			r.ID, r.Kind, formatTime(r.SubmittedAt), reviewSummary(r))
	}
	w.Flush()
	pageFooter(cmd.OutOrStdout(), p, len(page.Items), page.Total)
	return nil
}

func reviewSummary(r types.PendingReview) string {
	if content, ok := r.Payload["content"].(string); ok {
		return content
	}
	return fmt.Sprintf("%d fields", len(r.Payload))
}

func resolveReview(cmd *cobra.Command, reviewID string, approve bool) error {
	id, err := profileID()
	if err != nil {
		return err
	}
	if approve {
		if err := api().ApproveReview(context.Background(), id, reviewID); err != nil {
			return fmt.Errorf("approve review: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Review approved.")
		return nil
	}
	if err := api().RejectReview(context.Background(), id, reviewID); err != nil {
		return fmt.Errorf("reject review: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Review rejected.")
	return nil
}
