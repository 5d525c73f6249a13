package medianame

import (
	"regexp"
	"strconv"
	"strings"
)

// Names of the episode matchers, in priority order.
const (
	RuleCanonical  = "canonical"
	RuleKeyword    = "keyword"
	RuleBareNumber = "bare-number"
	RuleFallback   = "fallback"
)

// Episode is the metadata inferred from an episode filename.
// Season and Number are always positive.
type Episode struct {
	Season int
	Number int
	Title  string
	Rule   string // matcher that produced the result
}

type episodeMatcher struct {
	name  string
	match func(base string, seasonHint int) (Episode, bool)
}

// episodeMatchers is tried top to bottom; the first hit wins.
var episodeMatchers = []episodeMatcher{
	{name: RuleCanonical, match: matchCanonical},
	{name: RuleKeyword, match: matchKeyword},
	{name: RuleBareNumber, match: matchBareNumber},
}

var (
	// SxxEyy is tried before NxNN so a resolution or other NxN token earlier
	// in the name cannot shadow it.
	canonicalRegexes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)s(\d{1,2})e(\d{1,2})`),
		regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{1,2})\b`),
	}
	keywordRegex    = regexp.MustCompile(`(?i)\b(?:episode|ep)\s+(\d{1,2})(?:\D|$)`)
	looseERegex     = regexp.MustCompile(`[\s-]*[Ee](\d{1,2})[\s-]`)
	tokenERegex     = regexp.MustCompile(`(?i)\bE(\d{1,2})\b`)
	bareNumberRegex = regexp.MustCompile(`^(\d{1,2})$`)

	firstYearRegex     = regexp.MustCompile(`\d{4}`)
	episodeQualityTags = regexp.MustCompile(`(?i)\b(720p|1080p|2160p|4K)\b`)
	episodeSourceTags  = regexp.MustCompile(`(?i)\b(WEB|BluRay|HDTV|DVDRip)\b`)
	episodeCodecTags   = regexp.MustCompile(`(?i)\b(H\.?264|x264|H\.?265|x265|HEVC)\b`)
	dashSpaceRegex     = regexp.MustCompile(`[\s-]+`)
)

// ParseEpisode infers season and episode numbers from filename.
// seasonHint is the season number of the enclosing folder, or 0 when
// unknown. Only the canonical SxxEyy / NxNN form can match without a hint.
func ParseEpisode(filename string, seasonHint int) (Episode, bool) {
	base := StripExtension(filename)
	for _, m := range episodeMatchers {
		if ep, ok := m.match(base, seasonHint); ok {
			ep.Rule = m.name
			return ep, true
		}
	}
	return Episode{}, false
}

// ParseEpisodeInSeason is ParseEpisode for a file listed inside a season
// folder. When no pattern matches, the episode number falls back to the
// file's 1-based position in the name-sorted listing.
func ParseEpisodeInSeason(filename string, seasonHint, position int) (Episode, bool) {
	if ep, ok := ParseEpisode(filename, seasonHint); ok {
		return ep, true
	}
	if seasonHint < 1 || position < 1 {
		return Episode{}, false
	}
	return Episode{
		Season: seasonHint,
		Number: position,
		Title:  titleOrDefault(stripEpisodeNoise(StripExtension(filename)), position),
		Rule:   RuleFallback,
	}, true
}

func matchCanonical(base string, _ int) (Episode, bool) {
	for _, re := range canonicalRegexes {
		loc := re.FindStringSubmatchIndex(base)
		if loc == nil {
			continue
		}
		season := atoi(base[loc[2]:loc[3]])
		episode := atoi(base[loc[4]:loc[5]])
		if season < 1 || episode < 1 {
			continue
		}

		rest := base[:loc[0]] + base[loc[1]:]
		title := collapseSpaces(strings.Trim(rest, " \t-._"))
		return Episode{
			Season: season,
			Number: episode,
			Title:  titleOrDefault(title, episode),
		}, true
	}
	return Episode{}, false
}

func matchKeyword(base string, seasonHint int) (Episode, bool) {
	if seasonHint < 1 {
		return Episode{}, false
	}

	for _, re := range []*regexp.Regexp{keywordRegex, looseERegex, tokenERegex} {
		loc := re.FindStringSubmatchIndex(base)
		if loc == nil {
			continue
		}
		episode := atoi(base[loc[2]:loc[3]])
		if episode < 1 {
			continue
		}
		// Drop the keyword and number but keep whatever trailed them.
		rest := base[:loc[0]] + " " + base[loc[3]:]
		return Episode{
			Season: seasonHint,
			Number: episode,
			Title:  titleOrDefault(stripEpisodeNoise(rest), episode),
		}, true
	}
	return Episode{}, false
}

func matchBareNumber(base string, seasonHint int) (Episode, bool) {
	if seasonHint < 1 {
		return Episode{}, false
	}
	m := bareNumberRegex.FindStringSubmatch(strings.TrimSpace(base))
	if m == nil {
		return Episode{}, false
	}
	episode := atoi(m[1])
	if episode < 1 {
		return Episode{}, false
	}
	return Episode{
		Season: seasonHint,
		Number: episode,
		Title:  titleOrDefault("", episode),
	}, true
}

// stripEpisodeNoise removes the first year, release tags and bracketed
// groups from an episode name.
func stripEpisodeNoise(s string) string {
	s = separatorRegex.ReplaceAllString(s, " ")
	if loc := firstYearRegex.FindStringIndex(s); loc != nil {
		s = s[:loc[0]] + s[loc[1]:]
	}
	s = episodeQualityTags.ReplaceAllString(s, "")
	s = episodeSourceTags.ReplaceAllString(s, "")
	s = episodeCodecTags.ReplaceAllString(s, "")
	s = bracketRegex.ReplaceAllString(s, "")
	s = dashSpaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func titleOrDefault(title string, episode int) string {
	if title == "" {
		return "Episode " + strconv.Itoa(episode)
	}
	return title
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
