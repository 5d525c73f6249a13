package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/driveflix/pkg/medianame"
)

// ParseResult is how a single filename would be catalogued.
type ParseResult struct {
	Input   string `json:"input"`
	Kind    string `json:"kind"`
	Title   string `json:"title,omitempty"`
	Year    int    `json:"year,omitempty"`
	Season  int    `json:"season,omitempty"`
	Episode int    `json:"episode,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Warning string `json:"warning,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
}

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <filename>...",
	Short: "Show how filenames are interpreted (local, no server needed)",
	Long: `Parse filenames the way a sync would.

Movie names yield a title and year. With --season, names are parsed as
episodes inside that season folder, numbered by position when nothing
else matches.

Examples:
  driveflix parse "The.Matrix.1999.1080p.BluRay.x264.mkv"
  driveflix parse --season 2 "S02E05 - Finale.mkv" "bonus.mkv"
  driveflix parse --season-folder "Season 03"
  driveflix parse --file names.txt --json`,
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().Int("season", 0, "Parse as episodes inside this season number")
	parseCmd.Flags().Bool("season-folder", false, "Parse arguments as season folder names")
	parseCmd.Flags().StringP("file", "f", "", "Read filenames from file (one per line)")
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	season, _ := cmd.Flags().GetInt("season")
	folders, _ := cmd.Flags().GetBool("season-folder")
	inputFile, _ := cmd.Flags().GetString("file")

	names := args
	if inputFile != "" {
		var err error
		if names, err = readLines(inputFile); err != nil {
			return err
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("no filenames given")
	}

	results := make([]ParseResult, 0, len(names))
	for i, name := range names {
		switch {
		case folders:
			results = append(results, parseSeasonFolder(name))
		case season > 0:
			results = append(results, parseEpisode(name, season, i+1))
		default:
			results = append(results, parseMovie(name))
		}
	}

	if jsonOutput {
		if len(results) == 1 {
			printJSON(results[0])
		} else {
			printJSON(results)
		}
		return nil
	}
	for _, r := range results {
		printParseResult(r)
	}
	return nil
}

func parseMovie(name string) ParseResult {
	r := ParseResult{Input: name, Kind: "movie"}
	if !medianame.IsVideo(name, "") {
		r.Kind, r.Skipped = kindOf(name), true
		return r
	}
	m, err := medianame.ParseMovieTitle(name)
	r.Title, r.Year = m.Title, m.Year
	if errors.Is(err, medianame.ErrEmptyTitle) {
		r.Warning = err.Error()
	}
	return r
}

func parseEpisode(name string, season, position int) ParseResult {
	r := ParseResult{Input: name, Kind: "episode"}
	if !medianame.IsVideo(name, "") {
		r.Kind, r.Skipped = kindOf(name), true
		return r
	}
	ep, ok := medianame.ParseEpisodeInSeason(name, season, position)
	if !ok {
		r.Skipped = true
		return r
	}
	r.Season, r.Episode, r.Title, r.Rule = ep.Season, ep.Number, ep.Title, ep.Rule
	if ep.Season != season {
		r.Warning = fmt.Sprintf("name says season %d, filed under season %d", ep.Season, season)
		r.Season = season
	}
	return r
}

func parseSeasonFolder(name string) ParseResult {
	r := ParseResult{Input: name, Kind: "season"}
	n, ok := medianame.ParseSeasonFolder(name)
	if !ok {
		r.Skipped = true
		return r
	}
	r.Season = n
	return r
}

func kindOf(name string) string {
	if medianame.IsSubtitle(name) {
		return "subtitle"
	}
	return "other"
}

func printParseResult(r ParseResult) {
	fmt.Fprintf(out, "%s\n", r.Input)
	if r.Skipped {
		fmt.Fprintf(out, "  skipped (%s)\n\n", r.Kind)
		return
	}
	switch r.Kind {
	case "movie":
		fmt.Fprintf(out, "  Title:   %s\n", r.Title)
		if r.Year > 0 {
			fmt.Fprintf(out, "  Year:    %d\n", r.Year)
		}
	case "episode":
		fmt.Fprintf(out, "  Episode: S%02dE%02d\n", r.Season, r.Episode)
		fmt.Fprintf(out, "  Title:   %s\n", r.Title)
		fmt.Fprintf(out, "  Rule:    %s\n", r.Rule)
	case "season":
		fmt.Fprintf(out, "  Season:  %d\n", r.Season)
	}
	if r.Warning != "" {
		fmt.Fprintf(out, "  Warning: %s\n", r.Warning)
	}
	fmt.Fprintln(out)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
