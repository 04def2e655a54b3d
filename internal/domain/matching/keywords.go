package matching

import "strings"

// stopWords are too common to discriminate between catalog items.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"for": true, "with": true, "in": true, "on": true, "at": true,
	"by": true,
}

// selectKeywords tokenizes a description into the significant words used by
// the conjunction strategy: from the first five tokens, stop-words and words
// shorter than three characters are dropped and at most three survive.
func selectKeywords(description string) []string {
	words := strings.Fields(description)
	if len(words) > 5 {
		words = words[:5]
	}

	keywords := make([]string, 0, 3)
	for _, w := range words {
		if len(w) < 3 || stopWords[strings.ToLower(w)] {
			continue
		}
		keywords = append(keywords, w)
		if len(keywords) == 3 {
			break
		}
	}
	return keywords
}
