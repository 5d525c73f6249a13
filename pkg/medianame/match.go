package medianame

import (
	"regexp"
	"sort"

	"github.com/hbollon/go-edlib"
)

var numberRegex = regexp.MustCompile(`\b(\d+)\b`)

// MatchConfidence buckets a similarity score.
type MatchConfidence int

const (
	ConfidenceNone   MatchConfidence = iota // Score < 0.70
	ConfidenceLow                           // Score >= 0.70
	ConfidenceMedium                        // Score >= 0.85
	ConfidenceHigh                          // Score >= 0.95
)

func (c MatchConfidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// ConfidenceFor maps a score to its confidence bucket.
func ConfidenceFor(score float64) MatchConfidence {
	switch {
	case score >= 0.95:
		return ConfidenceHigh
	case score >= 0.85:
		return ConfidenceMedium
	case score >= 0.70:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

// Similarity scores two titles between 0 and 1 using Jaro-Winkler on the
// cleaned forms, nudged by whether their sequence numbers agree.
func Similarity(query, candidate string) float64 {
	q := CleanTitle(query)
	c := CleanTitle(candidate)
	score := float64(edlib.JaroWinklerSimilarity(q, c))
	return adjustScoreForNumbers(score, numberRegex.FindAllString(q, -1), numberRegex.FindAllString(c, -1))
}

// MatchResult is a candidate title with its score.
type MatchResult struct {
	Index      int // position in the candidate slice
	Title      string
	Score      float64
	Confidence MatchConfidence
}

// RankTitles scores every candidate against query and returns those with
// at least low confidence, best first.
func RankTitles(query string, candidates []string) []MatchResult {
	var results []MatchResult
	for i, c := range candidates {
		score := Similarity(query, c)
		conf := ConfidenceFor(score)
		if conf == ConfidenceNone {
			continue
		}
		results = append(results, MatchResult{Index: i, Title: c, Score: score, Confidence: conf})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func adjustScoreForNumbers(score float64, queryNums, candidateNums []string) float64 {
	if len(queryNums) == 0 {
		return score
	}
	if len(candidateNums) == 0 {
		return score * 0.85
	}

	seen := make(map[string]bool, len(candidateNums))
	for _, n := range candidateNums {
		seen[n] = true
	}
	for _, n := range queryNums {
		if seen[n] {
			return min(score*1.05, 1.0)
		}
	}
	return score * 0.90
}
