// Package resolver matches keyword phrases against candidate entities.
package resolver

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/jwiebalk/fireflybot/ledger"
)

// DefaultThreshold is the acceptance score used when none is configured.
// Scores run 0-100; 60 rejects weak guesses while still tolerating partial
// words.
const DefaultThreshold = 60

// Best scores every candidate against the joined keywords and returns the
// strongest match with its score. ok is false when no candidate reaches
// threshold; the returned score is then the best one seen, which callers
// may surface to the user.
//
// Ties break by list order, first candidate wins. Repeated calls with the
// same keywords and candidate list always return the same result, so
// callers that need reproducible answers must not reorder the list between
// calls.
func Best(keywords []string, candidates []ledger.Candidate, threshold int) (ledger.Candidate, int, bool) {
	phrase := strings.ToLower(strings.TrimSpace(strings.Join(keywords, " ")))
	if phrase == "" || len(candidates) == 0 {
		return ledger.Candidate{}, 0, false
	}

	var best ledger.Candidate
	bestScore := -1
	for _, c := range candidates {
		if s := score(phrase, c.Name); s > bestScore {
			best, bestScore = c, s
		}
	}
	if bestScore < threshold {
		return ledger.Candidate{}, bestScore, false
	}
	return best, bestScore, true
}

// score takes the better of a token set comparison and a partial substring
// comparison, so both keyword order and partial words match.
func score(phrase, name string) int {
	name = strings.ToLower(name)
	ts := fuzzy.TokenSetRatio(phrase, name)
	if pr := fuzzy.PartialRatio(phrase, name); pr > ts {
		return pr
	}
	return ts
}
