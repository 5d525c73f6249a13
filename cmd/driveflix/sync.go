package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:       "sync <movies|series|all>",
	Short:     "Sync the catalog with the remote store",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"movies", "series", "all"},
	RunE:      runSyncCmd,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sync runs",
	RunE:  runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("type", "", "Filter by sync type (movies, series)")
	historyCmd.Flags().String("status", "", "Filter by status (completed, failed)")
	historyCmd.Flags().Int("limit", 20, "Max entries")
}

func runSyncCmd(_ *cobra.Command, args []string) error {
	client := NewClient(serverURL, apiKey)

	switch args[0] {
	case "movies", "series":
		resp, err := client.Sync(args[0])
		if resp != nil {
			if jsonOutput {
				printJSON(resp)
			} else {
				printReport(resp.Report)
			}
		}
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		return nil
	case "all":
		resp, err := client.SyncAll()
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		if jsonOutput {
			printJSON(resp)
			return nil
		}
		failed := false
		for _, entry := range []*SyncAllEntry{resp.Movies, resp.Series} {
			if entry == nil {
				continue
			}
			if entry.Report != nil {
				printReport(entry.Report)
			}
			if entry.Error != "" {
				failed = true
			}
		}
		if failed {
			return fmt.Errorf("one or more syncs failed")
		}
		return nil
	default:
		return fmt.Errorf("unknown sync type %q (want movies, series or all)", args[0])
	}
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	typ, _ := cmd.Flags().GetString("type")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	logs, err := NewClient(serverURL, apiKey).History(typ, status, limit)
	if err != nil {
		return fmt.Errorf("history failed: %w", err)
	}
	if jsonOutput {
		printJSON(logs)
		return nil
	}
	if len(logs) == 0 {
		fmt.Fprintln(out, "No sync runs recorded")
		return nil
	}

	fmt.Fprintf(out, " %4s │ %-6s │ %-9s │ %5s │ %5s │ %7s │ %s\n", "ID", "TYPE", "STATUS", "FOUND", "ADDED", "UPDATED", "STARTED")
	fmt.Fprintln(out, rule(4, 6, 9, 5, 5, 7, 19))
	for _, l := range logs {
		fmt.Fprintf(out, " %4d │ %-6s │ %-9s │ %5d │ %5d │ %7d │ %s\n",
			l.ID, l.Kind, l.Status, l.ItemsFound, l.ItemsAdded, l.ItemsUpdated,
			l.StartedAt.Local().Format("2006-01-02 15:04:05"))
		if l.Error != nil {
			fmt.Fprintf(out, "      error: %s\n", *l.Error)
		}
	}
	return nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check server health",
	RunE: func(_ *cobra.Command, _ []string) error {
		h, err := NewClient(serverURL, apiKey).Health()
		if err != nil {
			return fmt.Errorf("status check failed: %w", err)
		}
		if jsonOutput {
			printJSON(h)
			return nil
		}
		fmt.Fprintf(out, "Server:  %s (%s)\n", serverURL, h.Status)
		fmt.Fprintf(out, "FFmpeg:  %s\n", h.FFmpeg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
