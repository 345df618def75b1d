package recommendation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const minKeywordLength = 3

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true, "should": true,
	"could": true, "may": true, "might": true, "must": true, "can": true,
}

// ExtractKeywords lowercases a free-text query and returns its distinct
// non-stop words of three or more characters, in first-seen order.
func ExtractKeywords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		w = strings.TrimFunc(w, unicode.IsPunct)
		if utf8.RuneCountInString(w) < minKeywordLength || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
