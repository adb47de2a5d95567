// file: internal/catalog/assembler.go
// version: 1.3.0
// guid: 4a6c8e0b-2d5f-4e7a-9c1b-3d5f7a9c1e24

package catalog

import (
	"fmt"

	"github.com/jdfalk/bookfeed/internal/database"
	"github.com/jdfalk/bookfeed/internal/models"
)

// CoverLocalizer rewrites cover image references to locally servable URLs.
// Safe to call with an empty cover list.
type CoverLocalizer interface {
	Resolve(bookID, entity string, covers []models.MediaCover) []models.MediaCover
}

// PublicationRecord is a request-scoped projection joining one book with
// its author, a chosen edition, its files and resolved cover URLs. It is
// built fresh per request and never cached; the store is the sole source
// of truth.
type PublicationRecord struct {
	Book    models.Book
	Author  models.Author
	Edition *models.Edition // representative edition (list) or e-book edition (detail)
	Files   []models.BookFile
	Covers  []models.MediaCover
}

// Assembler joins store entities into publication records. Collaborators
// are injected at construction; the assembler holds no state across
// requests and performs read-only calls.
type Assembler struct {
	store  database.Store
	covers CoverLocalizer
}

// NewAssembler creates an assembler backed by the given store and localizer
func NewAssembler(store database.Store, covers CoverLocalizer) *Assembler {
	return &Assembler{store: store, covers: covers}
}

// AssemblePage executes the spec against the store and joins each returned
// book with its files, representative edition and localized covers. The
// spec's Page and TotalRecords carry the realized result metadata after
// the call. A book with zero files still yields a record with an empty
// file list; any collaborator error aborts the whole page.
func (a *Assembler) AssemblePage(spec *models.PagingSpec) ([]PublicationRecord, error) {
	books, err := a.store.QueryBooks(spec)
	if err != nil {
		return nil, err
	}

	// Batch-resolve exactly the authors present on this page
	seen := map[int]bool{}
	ids := []int{}
	for i := range books {
		if !seen[books[i].AuthorID] {
			seen[books[i].AuthorID] = true
			ids = append(ids, books[i].AuthorID)
		}
	}
	authors, err := a.store.GetAuthorsByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]models.Author, len(authors))
	for _, author := range authors {
		byID[author.ID] = author
	}

	records := []PublicationRecord{}
	for i := range books {
		book := books[i]

		author, ok := byID[book.AuthorID]
		if !ok {
			return nil, fmt.Errorf("author %d for book %s could not be resolved", book.AuthorID, book.ID)
		}

		files, err := a.store.GetFilesByBook(book.ID)
		if err != nil {
			return nil, err
		}

		covers := a.covers.Resolve(book.ID, "book", MonitoredCovers(book.Editions))

		records = append(records, PublicationRecord{
			Book:    book,
			Author:  author,
			Edition: SelectListEdition(book.Editions),
			Files:   files,
			Covers:  covers,
		})
	}

	return records, nil
}

// AssembleOne builds the detail record for a single book. Unlike list
// assembly it requires at least one file and resolves the e-book and
// monitored editions independently.
func (a *Assembler) AssembleOne(bookID string) (*PublicationRecord, error) {
	book, err := a.store.GetBookByID(bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, notFoundf("no book exists with id %s", bookID)
	}

	author, err := a.store.GetAuthorByID(book.AuthorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, notFoundf("no author exists with id %d", book.AuthorID)
	}

	files, err := a.store.GetFilesByBook(book.ID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, preconditionFailedf("no book files exist for the given book id")
	}

	ebook, _ := SelectDetailEditions(book.Editions)
	covers := a.covers.Resolve(book.ID, "book", MonitoredCovers(book.Editions))

	book.Author = author
	return &PublicationRecord{
		Book:    *book,
		Author:  *author,
		Edition: ebook,
		Files:   files,
		Covers:  covers,
	}, nil
}
