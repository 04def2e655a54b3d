package matching

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/FACorreiaa/invoice-ingest/internal/domain/extraction"
)

// Suggestion is one ranked candidate for an unmatched record, for operator
// review. Suggestions never influence the cascade itself.
type Suggestion struct {
	Item     CatalogItem
	Score    int // similarity score, 0-100, higher is better
	Distance int // Levenshtein distance, lower is closer
}

// Suggest ranks catalog items by similarity to the record's description and
// returns the top candidates.
func (m *Matcher) Suggest(ctx context.Context, record extraction.ProductRecord, limit int) ([]Suggestion, error) {
	items, err := m.catalog.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	normalized := strings.ToUpper(record.Description)

	suggestions := make([]Suggestion, 0, len(items))
	for _, item := range items {
		name := strings.ToUpper(item.Name)
		suggestions = append(suggestions, Suggestion{
			Item:     item,
			Score:    fuzzyScore(normalized, name),
			Distance: fuzzy.LevenshteinDistance(normalized, name),
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].Item.Name < suggestions[j].Item.Name
	})

	if limit > 0 && limit < len(suggestions) {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// fuzzyScore calculates a similarity score between two strings (0-100)
// combining containment checks, edit distance and subsequence ranking.
func fuzzyScore(s1, s2 string) int {
	if s1 == s2 {
		return 100
	}

	// Containment is the common case for supplier descriptions vs catalog
	// names; score by length ratio.
	if strings.Contains(s1, s2) && len(s1) > 0 {
		return 75 + (25 * len(s2) / len(s1))
	}
	if strings.Contains(s2, s1) && len(s2) > 0 {
		return 75 + (25 * len(s1) / len(s2))
	}

	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}
	if maxLen == 0 {
		return 0
	}

	distance := fuzzy.LevenshteinDistance(s1, s2)
	levScore := 100 * (maxLen - distance) / maxLen

	// Subsequence rank: lower rank means the match starts earlier.
	subseqScore := 0
	if rank := fuzzy.RankMatch(s2, s1); rank >= 0 && rank < len(s1) {
		subseqScore = 60 - (rank * 40 / len(s1))
	}

	if levScore > subseqScore {
		return levScore
	}
	return subseqScore
}
