package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var contentCmd = &cobra.Command{
	Use:   "content [id]",
	Short: "Browse the catalog",
	Long: `List catalog content, or show one item.

Examples:
  driveflix content                   # Everything
  driveflix content --type movie      # Movies only
  driveflix content -q "matrix"       # Fuzzy title search
  driveflix content 12                # Details, with seasons for a series`,
	Args: cobra.MaximumNArgs(1),
	RunE: runContentCmd,
}

var episodesCmd = &cobra.Command{
	Use:   "episodes <season-id>",
	Short: "List episodes in a season",
	Args:  cobra.ExactArgs(1),
	RunE:  runEpisodesCmd,
}

func init() {
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(episodesCmd)
	contentCmd.Flags().String("type", "", "Filter by type (movie, series)")
	contentCmd.Flags().StringP("query", "q", "", "Fuzzy title search")
	contentCmd.Flags().Int("limit", 50, "Max items")
	contentCmd.Flags().Int("offset", 0, "Skip items")
}

func runContentCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL, apiKey)

	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid content ID: %s", args[0])
		}
		return showContent(client, id)
	}

	typ, _ := cmd.Flags().GetString("type")
	query, _ := cmd.Flags().GetString("query")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	list, err := client.Content(ContentFilter{Type: typ, Query: query, Limit: limit, Offset: offset})
	if err != nil {
		return fmt.Errorf("list content failed: %w", err)
	}
	if jsonOutput {
		printJSON(list)
		return nil
	}

	if len(list.Items) == 0 {
		fmt.Fprintln(out, "No content found")
		return nil
	}
	fmt.Fprintf(out, "Content (%d of %d):\n\n", len(list.Items), list.Total)
	fmt.Fprintf(out, " %5s │ %-6s │ %-40s │ %-4s │ %s\n", "ID", "TYPE", "TITLE", "YEAR", "SUBS")
	fmt.Fprintln(out, rule(5, 6, 40, 4, 4))
	for _, c := range list.Items {
		subs := ""
		if c.HasSubtitles {
			subs = "yes"
		}
		fmt.Fprintf(out, " %5d │ %-6s │ %-40s │ %-4s │ %s\n", c.ID, c.Type, truncate(c.Title, 40), yearString(c.Year), subs)
	}
	return nil
}

func showContent(client *Client, id int64) error {
	c, err := client.GetContent(id)
	if err != nil {
		return fmt.Errorf("get content failed: %w", err)
	}

	var seasons []SeasonResponse
	if c.Type == "series" {
		if seasons, err = client.Seasons(id); err != nil {
			return fmt.Errorf("list seasons failed: %w", err)
		}
	}

	if jsonOutput {
		if c.Type == "series" {
			printJSON(map[string]any{"content": c, "seasons": seasons})
		} else {
			printJSON(c)
		}
		return nil
	}

	fmt.Fprintf(out, "%s (%s)\n", c.Title, yearString(c.Year))
	fmt.Fprintf(out, "  ID:        %d\n", c.ID)
	fmt.Fprintf(out, "  Type:      %s\n", c.Type)
	fmt.Fprintf(out, "  Subtitles: %t\n", c.HasSubtitles)
	if c.StreamURL != "" {
		fmt.Fprintf(out, "  Stream:    %s%s\n", serverURL, c.StreamURL)
	}
	if c.Type == "series" {
		fmt.Fprintf(out, "  Episodes:  %d across %d seasons\n", c.TotalEpisodes, c.TotalSeasons)
		for _, s := range seasons {
			fmt.Fprintf(out, "    [%d] %s\n", s.ID, s.Title)
		}
	}
	return nil
}

func runEpisodesCmd(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid season ID: %s", args[0])
	}
	list, err := NewClient(serverURL, apiKey).Episodes(id)
	if err != nil {
		return fmt.Errorf("list episodes failed: %w", err)
	}
	if jsonOutput {
		printJSON(list)
		return nil
	}
	if len(list.Items) == 0 {
		fmt.Fprintln(out, "No episodes")
		return nil
	}
	for _, e := range list.Items {
		subs := ""
		if e.HasSubtitles {
			subs = " [subs]"
		}
		fmt.Fprintf(out, " %3d. %s%s  (id %d)\n", e.Number, e.Title, subs, e.ID)
	}
	return nil
}
