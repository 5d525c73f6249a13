package medianame

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrEmptyTitle is returned when nothing is left of a filename after
// release tags are stripped.
var ErrEmptyTitle = errors.New("title is empty after stripping release tags")

// Movie is the metadata inferred from a standalone movie file.
type Movie struct {
	Title string
	Year  int // 0 when absent
}

var (
	parenYearRegex   = regexp.MustCompile(`\((\d{4})\)`)
	parenYearStrip   = regexp.MustCompile(`\s*\(\d{4}\)\s*`)
	separatorRegex   = regexp.MustCompile(`[._]+`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	movieQualityTags = regexp.MustCompile(`(?i)\b(720p|1080p|2160p|4K|HD|UHD)\b`)
	movieSourceTags  = regexp.MustCompile(`(?i)\b(WEB-?DL|WEBRip|BluRay|BRRip|HDTV|DVDRip)\b`)
	movieCodecTags   = regexp.MustCompile(`(?i)\b(x26[45]|h[. ]?26[45]|HEVC|AAC|AC3)\b`)
	bracketRegex     = regexp.MustCompile(`\[.*?\]`)
	parenRegex       = regexp.MustCompile(`\(.*?\)`)
)

// ParseMovieTitle infers a title and optional year from a movie filename.
//
//	"Movie Title (2023).mp4"  -> {Movie Title, 2023}
//	"A.Haunted.House.2.mp4"  -> {A Haunted House 2, 0}
//
// When stripping leaves an empty title, the extension-stripped filename is
// returned as the title together with ErrEmptyTitle.
func ParseMovieTitle(filename string) (Movie, error) {
	base := StripExtension(filename)
	s := base

	var m Movie
	if match := parenYearRegex.FindStringSubmatch(s); match != nil {
		m.Year, _ = strconv.Atoi(match[1])
		if loc := parenYearStrip.FindStringIndex(s); loc != nil {
			s = s[:loc[0]] + " " + s[loc[1]:]
		}
		s = strings.TrimSpace(s)
	}

	s = separatorRegex.ReplaceAllString(s, " ")
	s = collapseSpaces(s)

	s = movieQualityTags.ReplaceAllString(s, "")
	s = movieSourceTags.ReplaceAllString(s, "")
	s = movieCodecTags.ReplaceAllString(s, "")
	s = bracketRegex.ReplaceAllString(s, "")
	s = parenRegex.ReplaceAllString(s, "")
	m.Title = collapseSpaces(s)

	if m.Title == "" {
		m.Title = strings.TrimSpace(base)
		return m, ErrEmptyTitle
	}
	return m, nil
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}
