package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

var out io.Writer = os.Stdout

func printJSON(v any) {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func yearString(y *int) string {
	if y == nil {
		return "-"
	}
	return fmt.Sprint(*y)
}

func printReport(r *ReportResponse) {
	fmt.Fprintf(out, "%s sync %s (folder %s)\n", r.Kind, r.Status, r.FolderID)
	fmt.Fprintf(out, "  found %d, added %d, updated %d, skipped %d in %s\n",
		r.ItemsFound, r.ItemsAdded, r.ItemsUpdated, r.ItemsSkipped,
		r.FinishedAt.Sub(r.StartedAt).Round(1e6))
	if r.Error != "" {
		fmt.Fprintf(out, "  error: %s\n", r.Error)
	}
}

func rule(widths ...int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	return strings.Join(parts, "┼")
}
