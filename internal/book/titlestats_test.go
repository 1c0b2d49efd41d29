package book_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookshelf/internal/book"
)

func TestTitleLengths(t *testing.T) {
	books := []book.Book{
		{ID: 1, Title: "Go"},
		{ID: 2, Title: "Advanced Go"},
		{ID: 3, Title: ""},
	}

	got := book.TitleLengths(books)
	assert.Equal(t, map[int64]int{1: 2, 2: 11, 3: 0}, got)
}

func TestTitleLengthsCountsRunes(t *testing.T) {
	got := book.TitleLengths([]book.Book{{ID: 1, Title: "héllo"}})
	assert.Equal(t, 5, got[1])
}

func TestTitleLengthsEmpty(t *testing.T) {
	assert.Empty(t, book.TitleLengths(nil))
}

func TestMostCommonTitleWords(t *testing.T) {
	books := []book.Book{
		{Title: "Go in Practice"},
		{Title: "go for Web Development"},
		{Title: "Web Services in GO"},
	}

	got := book.MostCommonTitleWords(books, 3)
	assert.Equal(t, []book.WordCount{
		{Word: "go", Count: 3},
		{Word: "in", Count: 2},
		{Word: "web", Count: 2},
	}, got)
}

func TestMostCommonTitleWordsStripsPunctuation(t *testing.T) {
	books := []book.Book{
		{Title: "Networking, Explained!"},
		{Title: "networking: the basics"},
	}

	got := book.MostCommonTitleWords(books, 1)
	assert.Equal(t, []book.WordCount{{Word: "networking", Count: 2}}, got)
}

func TestMostCommonTitleWordsTiesAlphabetical(t *testing.T) {
	books := []book.Book{
		{Title: "zebra apple"},
		{Title: "zebra apple"},
	}

	got := book.MostCommonTitleWords(books, 2)
	assert.Equal(t, []book.WordCount{
		{Word: "apple", Count: 2},
		{Word: "zebra", Count: 2},
	}, got)
}

func TestMostCommonTitleWordsLimits(t *testing.T) {
	books := []book.Book{{Title: "one two three four"}}

	assert.Len(t, book.MostCommonTitleWords(books, 2), 2)
	assert.Nil(t, book.MostCommonTitleWords(books, 0))
	assert.Nil(t, book.MostCommonTitleWords(books, -1))
	assert.Len(t, book.MostCommonTitleWords(books, 10), 4)
}
