package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/steward/internal/client"
)

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// confirm asks the operator for a y/N answer. --yes skips the prompt.
func confirm(prompt string) bool {
	if assumeYes {
		return true
	}
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// list-flag plumbing shared by every collection command.
var (
	flagLimit  int
	flagOffset int
	flagSearch string
)

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagLimit, "limit", 0, "Page size (default from config)")
	cmd.Flags().IntVar(&flagOffset, "offset", 0, "Page offset")
	cmd.Flags().StringVar(&flagSearch, "search", "", "Free-text search")
}

func listParams() client.ListParams {
	limit := flagLimit
	if limit <= 0 {
		limit = cfg.Console.PageSize
	}
	return client.ListParams{Limit: limit, Offset: flagOffset, Search: flagSearch}
}

// pageFooter prints the "showing X-Y of Z" line under a table.
func pageFooter(w io.Writer, p client.ListParams, shown, total int) {
	if shown == 0 {
		return
	}
	fmt.Fprintf(w, "showing %d-%d of %d\n", p.Offset+1, p.Offset+shown, total)
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
