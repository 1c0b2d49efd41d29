package book

import (
	"sort"
	"strings"
)

// TitleLengths maps each book id to the character count of its title.
func TitleLengths(books []Book) map[int64]int {
	out := make(map[int64]int, len(books))
	for _, b := range books {
		out[b.ID] = len([]rune(b.Title))
	}
	return out
}

// WordCount is a word from book titles together with how often it occurs.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// MostCommonTitleWords returns the n most frequent words across all book
// titles, case-insensitive, most frequent first. Ties break
// alphabetically so the result is stable.
func MostCommonTitleWords(books []Book, n int) []WordCount {
	if n <= 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, b := range books {
		for _, w := range strings.Fields(strings.ToLower(b.Title)) {
			w = strings.Trim(w, ".,:;!?\"'()")
			if w == "" {
				continue
			}
			counts[w]++
		}
	}

	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
