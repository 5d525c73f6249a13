package medianame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEpisode(t *testing.T) {
	tests := []struct {
		filename string
		hint     int
		season   int
		episode  int
		title    string
		rule     string
	}{
		{"S01E01 - Pilot.mp4", 0, 1, 1, "Pilot", RuleCanonical},
		{"Show 3x07 Title.avi", 0, 3, 7, "Show Title", RuleCanonical},
		{"S02E03.mkv", 0, 2, 3, "Episode 3", RuleCanonical},
		{"S02E03.mkv", 5, 2, 3, "Episode 3", RuleCanonical},
		{"03.mp4", 2, 2, 3, "Episode 3", RuleBareNumber},
		{"Episode 5.mp4", 1, 1, 5, "Episode 5", RuleKeyword},
		{"Ep 12 - The Return.mkv", 2, 2, 12, "The Return", RuleKeyword},
		{"Show - E07 - Finale.mkv", 1, 1, 7, "Show Finale", RuleKeyword},
		{"Show 2019 E03 1080p WEB x264.mkv", 4, 4, 3, "Show", RuleKeyword},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			ep, ok := ParseEpisode(tt.filename, tt.hint)
			require.True(t, ok)
			assert.Equal(t, tt.season, ep.Season)
			assert.Equal(t, tt.episode, ep.Number)
			assert.Equal(t, tt.title, ep.Title)
			assert.Equal(t, tt.rule, ep.Rule)
		})
	}
}

func TestParseEpisode_NoMatch(t *testing.T) {
	tests := []struct {
		filename string
		hint     int
	}{
		{"Random Title 720p.mp4", 0},
		{"Episode 5.mp4", 0},
		{"03.mp4", 0},
		{"S00E01.mkv", 0},
		{"Deep 12 Things.mkv", 0},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			_, ok := ParseEpisode(tt.filename, tt.hint)
			assert.False(t, ok)
		})
	}
}

func TestParseEpisode_CanonicalIgnoresNoise(t *testing.T) {
	tests := []struct {
		filename string
		season   int
		episode  int
	}{
		{"[Group] Some.Show.S10E22.1080p.mkv", 10, 22},
		{"some.show.s04e09.hdtv.x264.avi", 4, 9},
		{"show.1x02.hdtv.mp4", 1, 2},
		{"Show 2X11 (2019) WEB.mkv", 2, 11},
		{"Show [1920x1080] S01E02.mkv", 1, 2},
		{"Show 4x3 S02E05 - Title.mkv", 2, 5},
		{"Show.1280x720.3x04.mkv", 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			ep, ok := ParseEpisode(tt.filename, 0)
			require.True(t, ok)
			assert.Equal(t, tt.season, ep.Season)
			assert.Equal(t, tt.episode, ep.Number)
			assert.Equal(t, RuleCanonical, ep.Rule)
		})
	}
}

func TestParseEpisodeInSeason(t *testing.T) {
	t.Run("pattern wins over position", func(t *testing.T) {
		ep, ok := ParseEpisodeInSeason("Episode 9.mkv", 1, 2)
		require.True(t, ok)
		assert.Equal(t, 9, ep.Number)
		assert.Equal(t, RuleKeyword, ep.Rule)
	})

	t.Run("falls back to position", func(t *testing.T) {
		ep, ok := ParseEpisodeInSeason("Pilot [1080p].mkv", 1, 4)
		require.True(t, ok)
		assert.Equal(t, 1, ep.Season)
		assert.Equal(t, 4, ep.Number)
		assert.Equal(t, "Pilot", ep.Title)
		assert.Equal(t, RuleFallback, ep.Rule)
	})

	t.Run("fallback title defaults", func(t *testing.T) {
		ep, ok := ParseEpisodeInSeason("[720p].mkv", 2, 6)
		require.True(t, ok)
		assert.Equal(t, "Episode 6", ep.Title)
	})

	t.Run("no season hint", func(t *testing.T) {
		_, ok := ParseEpisodeInSeason("Something.mkv", 0, 3)
		assert.False(t, ok)
	})
}

func TestParseSeasonFolder(t *testing.T) {
	tests := []struct {
		name   string
		season int
		ok     bool
	}{
		{"Season 1", 1, true},
		{"season10", 10, true},
		{"Sezon 2", 2, true},
		{"S03", 3, true},
		{"Show S04 1080p", 4, true},
		{"Specials", 0, false},
		{"Season 0", 0, false},
		{"Extras", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := ParseSeasonFolder(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.season, n)
		})
	}
}
