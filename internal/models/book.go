// file: internal/models/book.go
// version: 1.3.0
// guid: 9c2e4f6a-1b3d-4a7e-8c5f-2d9b0e4a6c81

package models

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Author represents a book author
type Author struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	CleanName string `json:"clean_name"`
}

// Book represents a logical book owned by exactly one author.
// Editions are embedded by the store in insertion order; Author is
// resolved lazily and only populated when a caller asked for it.
type Book struct {
	ID       string    `json:"id"` // ULID format
	Title    string    `json:"title"`
	AuthorID int       `json:"author_id"`
	Editions []Edition `json:"editions,omitempty"`
	Author   *Author   `json:"author,omitempty"`
}

// Edition represents a specific published form of a book
type Edition struct {
	ID        string       `json:"id"` // ULID format
	BookID    string       `json:"book_id"`
	Title     string       `json:"title,omitempty"`
	ISBN13    string       `json:"isbn13,omitempty"`
	Format    string       `json:"format,omitempty"`
	IsEbook   bool         `json:"is_ebook"`
	Monitored bool         `json:"monitored"`
	Images    []MediaCover `json:"images,omitempty"`
}

// MediaCover is a cover image descriptor. URL starts out as the remote or
// storage-relative reference and is rewritten to a locally servable path
// by the cover localizer.
type MediaCover struct {
	URL       string `json:"url"`
	CoverType string `json:"cover_type"`
	Extension string `json:"extension,omitempty"`
}

// BookFile represents a file on disk belonging to a book (not an edition)
type BookFile struct {
	ID        string       `json:"id"` // ULID format
	BookID    string       `json:"book_id"`
	Path      string       `json:"path"`
	Size      int64        `json:"size"`
	Quality   QualityModel `json:"quality"`
	DateAdded time.Time    `json:"date_added"`
}

// foldMarks decomposes to NFD and strips combining marks, so accented
// characters compare equal to their base form ("É" -> "E").
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// CleanAuthorName normalizes an author name for case/format-insensitive
// matching: accent-folded, lowercased, everything except letters and
// digits stripped.
func CleanAuthorName(name string) string {
	folded, _, err := transform.String(foldMarks, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
