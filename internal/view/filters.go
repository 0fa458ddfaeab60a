package view

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/EmpoweredVote/bookshelf/internal/client"
)

// Genres is the fixed list offered by the book form.
var Genres = []string{
	"Fiction",
	"Non-Fiction",
	"Science Fiction",
	"Fantasy",
	"Mystery",
	"Thriller",
	"Romance",
	"Horror",
	"Biography",
	"History",
	"Poetry",
	"Children's",
	"Young Adult",
	"Self-Help",
	"Business",
	"Technology",
	"Science",
	"Arts & Culture",
}

// NormalizeGenre maps free-form input onto a catalogue genre when one
// matches case-insensitively, and title-cases it otherwise.
func NormalizeGenre(in string) string {
	in = strings.Join(strings.Fields(in), " ")
	for _, g := range Genres {
		if strings.EqualFold(g, in) {
			return g
		}
	}
	return cases.Title(language.English).String(in)
}

// Filter is the list page's filter state. UserID is ignored unless MineOnly
// is set; an empty Genre matches every book.
type Filter struct {
	MineOnly bool
	UserID   int64
	Genre    string
}

// FilterBooks applies f to books without touching the input slice.
func FilterBooks(books []client.Book, f Filter) []client.Book {
	out := make([]client.Book, 0, len(books))
	for _, b := range books {
		if f.MineOnly && f.UserID != 0 && b.AuthorID != f.UserID {
			continue
		}
		if f.Genre != "" && b.Genre != f.Genre {
			continue
		}
		out = append(out, b)
	}
	return out
}

// AvailableGenres returns the sorted distinct genres present in books.
func AvailableGenres(books []client.Book) []string {
	seen := map[string]struct{}{}
	for _, b := range books {
		seen[b.Genre] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// ToggleGenre selects genre, or clears the selection if it is already chosen.
func ToggleGenre(current, genre string) string {
	if current == genre {
		return ""
	}
	return genre
}

// IsAuthor reports whether user wrote b. A nil user is never an author.
func IsAuthor(user *client.User, b client.Book) bool {
	return user != nil && b.AuthorID == user.ID
}

// EmptyMessage is the text shown when a filtered list is empty.
func EmptyMessage(f Filter) string {
	switch {
	case f.MineOnly:
		return "You haven't added any books yet"
	case f.Genre != "":
		return "No " + f.Genre + " books found"
	default:
		return "No books found"
	}
}
