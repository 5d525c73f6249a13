package medianame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMovieTitle(t *testing.T) {
	tests := []struct {
		filename string
		title    string
		year     int
	}{
		{"A.Haunted.House.2.mp4", "A Haunted House 2", 0},
		{"Movie Title (2023).mp4", "Movie Title", 2023},
		{"The_Matrix_(1999)_1080p_BluRay_x264.mkv", "The Matrix", 1999},
		{"Inception [Director's Cut].mkv", "Inception", 0},
		{"Amélie (2001) HEVC.mkv", "Amélie", 2001},
		{"Dune.Part.Two.2160p.WEB-DL.mkv", "Dune Part Two", 0},
		{"Heat (1995) (Remastered).avi", "Heat", 1995},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			m, err := ParseMovieTitle(tt.filename)
			require.NoError(t, err)
			assert.Equal(t, tt.title, m.Title)
			assert.Equal(t, tt.year, m.Year)
		})
	}
}

func TestParseMovieTitle_Empty(t *testing.T) {
	m, err := ParseMovieTitle("[1080p].mkv")
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Equal(t, "[1080p]", m.Title)
}
