package medianame

import "regexp"

// Matches "Season 2", "Sezon 2", "S02" in any case.
var seasonFolderRegex = regexp.MustCompile(`(?i)se(?:ason|zon)\s*(\d+)|s(\d+)`)

// ParseSeasonFolder extracts a positive season number from a folder name.
func ParseSeasonFolder(name string) (int, bool) {
	m := seasonFolderRegex.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	digits := m[1]
	if digits == "" {
		digits = m[2]
	}
	n := atoi(digits)
	if n < 1 {
		return 0, false
	}
	return n, true
}
