package intent

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

var fuzzyTokenPattern = regexp.MustCompile(`[a-z0-9&\-]+`)

// tokenizeForFuzzy lowercases the text and keeps alphanumeric tokens of
// at least minLen runes.
func tokenizeForFuzzy(text string, minLen int) []string {
	if minLen < 1 {
		minLen = 1
	}
	raw := fuzzyTokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if len(t) >= minLen {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// editRatio scores string similarity as an integer percentage based on
// edit distance over the longer length.
func editRatio(a, b string) int {
	if a == b {
		return 100
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	if dist > maxLen {
		dist = maxLen
	}
	return int(float64(maxLen-dist)/float64(maxLen)*100 + 0.5)
}

// bestFuzzyCandidate scores every candidate against the full text and
// each token, returning the winner with the best and runner-up scores.
// The caller applies cutoff and ambiguity-margin checks.
func bestFuzzyCandidate(candidates, tokens []string, fullText string) (best string, bestScore, secondScore int) {
	ft := strings.ToLower(strings.TrimSpace(fullText))
	bestScore = -1
	secondScore = -1
	for _, c := range candidates {
		cl := strings.ToLower(strings.TrimSpace(c))
		if cl == "" {
			continue
		}
		score := 0
		if ft != "" {
			score = editRatio(cl, ft)
		}
		for _, t := range tokens {
			if s := editRatio(cl, t); s > score {
				score = s
			}
		}
		if score > bestScore {
			secondScore = bestScore
			bestScore = score
			best = c
		} else if score > secondScore {
			secondScore = score
		}
	}
	if bestScore < 0 {
		bestScore = 0
	}
	if secondScore < 0 {
		secondScore = 0
	}
	return best, bestScore, secondScore
}
