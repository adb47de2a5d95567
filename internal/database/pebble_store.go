// file: internal/database/pebble_store.go
// version: 1.4.0
// guid: 5b9d1f3a-7e2c-4c6e-a8d0-2f5b7d9e1c36

package database

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/pebble/v2"
	ulid "github.com/oklog/ulid/v2"

	"github.com/jdfalk/bookfeed/internal/models"
)

// PebbleStore implements the Store interface using PebbleDB (LSM key-value store)
//
// Key Schema:
// - author:<id>                  -> Author JSON
// - author:clean:<clean_name>    -> author_id (for idempotent creates)
// - book:<id>                    -> Book JSON (editions not embedded)
// - edition:<book_id>:<id>       -> Edition JSON (ULID ids keep insertion order)
// - bookfile:<book_id>:<id>      -> BookFile JSON
// - bookfile:id:<id>             -> book_id (for direct file lookups)
// - counter:author               -> next author ID
type PebbleStore struct {
	db *pebble.DB
}

// NewPebbleStore creates a new PebbleDB store
func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open PebbleDB: %w", err)
	}

	store := &PebbleStore{db: db}

	// Initialize the author counter if it doesn't exist
	key := []byte("counter:author")
	if _, closer, err := db.Get(key); err == pebble.ErrNotFound {
		if err := db.Set(key, []byte("1"), pebble.Sync); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize author counter: %w", err)
		}
	} else if err == nil {
		closer.Close()
	} else {
		db.Close()
		return nil, fmt.Errorf("failed to check author counter: %w", err)
	}

	return store, nil
}

// Close closes the database
func (p *PebbleStore) Close() error {
	return p.db.Close()
}

// Reset removes all data (for testing)
func (p *PebbleStore) Reset() error {
	for _, prefix := range []string{"author:", "book:", "edition:", "bookfile:"} {
		if err := p.db.DeleteRange([]byte(prefix), []byte(prefix[:len(prefix)-1]+";"), pebble.Sync); err != nil {
			return err
		}
	}
	return p.db.Set([]byte("counter:author"), []byte("1"), pebble.Sync)
}

// Helper functions

func (p *PebbleStore) nextID(counter string) (int, error) {
	key := []byte(fmt.Sprintf("counter:%s", counter))

	value, closer, err := p.db.Get(key)
	if err != nil {
		return 0, err
	}
	defer closer.Close()

	id, err := strconv.Atoi(string(value))
	if err != nil {
		return 0, err
	}

	nextID := id + 1
	if err := p.db.Set(key, []byte(strconv.Itoa(nextID)), pebble.Sync); err != nil {
		return 0, err
	}

	return id, nil
}

// Shared monotonic entropy: IDs minted within the same millisecond must
// still sort in creation order, since key order is the structural order
// editions and files are read back in.
var (
	ulidMu      sync.Mutex
	ulidEntropy = ulid.Monotonic(rand.Reader, 0)
)

func newULID() (string, error) {
	ulidMu.Lock()
	defer ulidMu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), ulidEntropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// prefixIter returns an iterator bounded to keys starting with prefix.
// Relies on ';' being ':'+1 in ASCII.
func (p *PebbleStore) prefixIter(prefix string) (*pebble.Iterator, error) {
	return p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: []byte(prefix[:len(prefix)-1] + ";"),
	})
}

// Author operations

func (p *PebbleStore) CreateAuthor(name string) (*models.Author, error) {
	clean := models.CleanAuthorName(name)

	// Idempotent by clean name
	indexKey := []byte(fmt.Sprintf("author:clean:%s", clean))
	if value, closer, err := p.db.Get(indexKey); err == nil {
		id, convErr := strconv.Atoi(string(value))
		closer.Close()
		if convErr != nil {
			return nil, convErr
		}
		return p.GetAuthorByID(id)
	} else if err != pebble.ErrNotFound {
		return nil, err
	}

	id, err := p.nextID("author")
	if err != nil {
		return nil, err
	}

	author := &models.Author{ID: id, Name: name, CleanName: clean}
	data, err := json.Marshal(author)
	if err != nil {
		return nil, err
	}

	batch := p.db.NewBatch()
	if err := batch.Set([]byte(fmt.Sprintf("author:%d", id)), data, nil); err != nil {
		batch.Close()
		return nil, err
	}
	if err := batch.Set(indexKey, []byte(strconv.Itoa(id)), nil); err != nil {
		batch.Close()
		return nil, err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, err
	}

	return author, nil
}

func (p *PebbleStore) GetAuthorByID(id int) (*models.Author, error) {
	value, closer, err := p.db.Get([]byte(fmt.Sprintf("author:%d", id)))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var author models.Author
	if err := json.Unmarshal(value, &author); err != nil {
		return nil, err
	}
	return &author, nil
}

func (p *PebbleStore) GetAuthorsByIDs(ids []int) ([]models.Author, error) {
	authors := []models.Author{}
	for _, id := range ids {
		author, err := p.GetAuthorByID(id)
		if err != nil {
			return nil, err
		}
		if author != nil {
			authors = append(authors, *author)
		}
	}
	return authors, nil
}

func (p *PebbleStore) GetAllAuthors() ([]models.Author, error) {
	iter, err := p.prefixIter("author:")
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var authors []models.Author
	for iter.First(); iter.Valid(); iter.Next() {
		// Skip index keys
		if strings.Contains(string(iter.Key()), ":clean:") {
			continue
		}

		var author models.Author
		if err := json.Unmarshal(iter.Value(), &author); err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}

	sort.Slice(authors, func(i, j int) bool { return authors[i].CleanName < authors[j].CleanName })
	return authors, nil
}

func (p *PebbleStore) CountAuthors() (int, error) {
	authors, err := p.GetAllAuthors()
	if err != nil {
		return 0, err
	}
	return len(authors), nil
}

// Book operations

func (p *PebbleStore) CreateBook(book *models.Book) (*models.Book, error) {
	if book.ID == "" {
		id, err := newULID()
		if err != nil {
			return nil, err
		}
		book.ID = id
	}

	// Editions are stored under their own keys
	stored := *book
	stored.Editions = nil
	stored.Author = nil

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, err
	}

	if err := p.db.Set([]byte(fmt.Sprintf("book:%s", book.ID)), data, pebble.Sync); err != nil {
		return nil, err
	}
	return book, nil
}

func (p *PebbleStore) GetBookByID(id string) (*models.Book, error) {
	value, closer, err := p.db.Get([]byte(fmt.Sprintf("book:%s", id)))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var book models.Book
	if err := json.Unmarshal(value, &book); err != nil {
		return nil, err
	}

	editions, err := p.GetEditionsByBook(book.ID)
	if err != nil {
		return nil, err
	}
	book.Editions = editions
	return &book, nil
}

func (p *PebbleStore) allBooks() ([]models.Book, error) {
	iter, err := p.prefixIter("book:")
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var books []models.Book
	for iter.First(); iter.Valid(); iter.Next() {
		var book models.Book
		if err := json.Unmarshal(iter.Value(), &book); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

func (p *PebbleStore) hasFiles(bookID string) (bool, error) {
	iter, err := p.prefixIter(fmt.Sprintf("bookfile:%s:", bookID))
	if err != nil {
		return false, err
	}
	defer iter.Close()
	return iter.First(), nil
}

func matchTerm(book *models.Book, cleanName string, term models.FilterTerm) bool {
	switch term.Field {
	case models.FilterTitle:
		return strings.Contains(strings.ToLower(book.Title), term.Value)
	case models.FilterAuthorName:
		return strings.Contains(cleanName, term.Value)
	default:
		return false
	}
}

// QueryBooks filters, sorts and pages in memory. The whole library is a
// personal collection, so a full scan stays cheap.
func (p *PebbleStore) QueryBooks(spec *models.PagingSpec) ([]models.Book, error) {
	NormalizePaging(spec)

	books, err := p.allBooks()
	if err != nil {
		return nil, err
	}

	// Author clean names for the author filter
	authors, err := p.GetAllAuthors()
	if err != nil {
		return nil, err
	}
	cleanNames := make(map[int]string, len(authors))
	for _, a := range authors {
		cleanNames[a.ID] = a.CleanName
	}

	matched := books[:0:0]
	for i := range books {
		book := &books[i]
		clean := cleanNames[book.AuthorID]

		ok := true
		for _, filter := range spec.Filters {
			anyTerm := false
			for _, term := range filter.Terms {
				if matchTerm(book, clean, term) {
					anyTerm = true
					break
				}
			}
			if !anyTerm {
				ok = false
				break
			}
		}
		if ok && spec.RequireFiles {
			has, err := p.hasFiles(book.ID)
			if err != nil {
				return nil, err
			}
			ok = has
		}
		if ok {
			matched = append(matched, *book)
		}
	}

	descending := strings.EqualFold(spec.SortDirection, "desc") || strings.EqualFold(spec.SortDirection, "descending")
	sort.SliceStable(matched, func(i, j int) bool {
		var less bool
		if spec.SortKey == "id" {
			less = matched[i].ID < matched[j].ID
		} else {
			less = strings.ToLower(matched[i].Title) < strings.ToLower(matched[j].Title)
		}
		if descending {
			return !less
		}
		return less
	})

	spec.TotalRecords = len(matched)

	start := (spec.Page - 1) * spec.PageSize
	if start >= len(matched) {
		return []models.Book{}, nil
	}
	end := start + spec.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	page := matched[start:end]

	for i := range page {
		editions, err := p.GetEditionsByBook(page[i].ID)
		if err != nil {
			return nil, err
		}
		page[i].Editions = editions
	}

	return page, nil
}

func (p *PebbleStore) CountBooks() (int, error) {
	books, err := p.allBooks()
	if err != nil {
		return 0, err
	}
	return len(books), nil
}

func (p *PebbleStore) DeleteBook(id string) error {
	key := []byte(fmt.Sprintf("book:%s", id))
	if _, closer, err := p.db.Get(key); err == pebble.ErrNotFound {
		return fmt.Errorf("book not found")
	} else if err != nil {
		return err
	} else {
		closer.Close()
	}

	// Drop dependent file index keys first
	files, err := p.GetFilesByBook(id)
	if err != nil {
		return err
	}

	batch := p.db.NewBatch()
	for _, f := range files {
		if err := batch.Delete([]byte(fmt.Sprintf("bookfile:id:%s", f.ID)), nil); err != nil {
			batch.Close()
			return err
		}
	}
	for _, prefix := range []string{fmt.Sprintf("edition:%s:", id), fmt.Sprintf("bookfile:%s:", id)} {
		if err := batch.DeleteRange([]byte(prefix), []byte(prefix[:len(prefix)-1]+";"), nil); err != nil {
			batch.Close()
			return err
		}
	}
	if err := batch.Delete(key, nil); err != nil {
		batch.Close()
		return err
	}
	return batch.Commit(pebble.Sync)
}

// Edition operations

func (p *PebbleStore) CreateEdition(edition *models.Edition) (*models.Edition, error) {
	if edition.ID == "" {
		id, err := newULID()
		if err != nil {
			return nil, err
		}
		edition.ID = id
	}

	data, err := json.Marshal(edition)
	if err != nil {
		return nil, err
	}

	key := []byte(fmt.Sprintf("edition:%s:%s", edition.BookID, edition.ID))
	if err := p.db.Set(key, data, pebble.Sync); err != nil {
		return nil, err
	}
	return edition, nil
}

// GetEditionsByBook returns editions in insertion order; ULID ids sort
// lexicographically by creation time so the key order is the structural order.
func (p *PebbleStore) GetEditionsByBook(bookID string) ([]models.Edition, error) {
	iter, err := p.prefixIter(fmt.Sprintf("edition:%s:", bookID))
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	editions := []models.Edition{}
	for iter.First(); iter.Valid(); iter.Next() {
		var e models.Edition
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			return nil, err
		}
		editions = append(editions, e)
	}
	return editions, nil
}

// Book file operations

func (p *PebbleStore) CreateBookFile(file *models.BookFile) (*models.BookFile, error) {
	if file.ID == "" {
		id, err := newULID()
		if err != nil {
			return nil, err
		}
		file.ID = id
	}
	if file.DateAdded.IsZero() {
		file.DateAdded = time.Now().UTC()
	}

	data, err := json.Marshal(file)
	if err != nil {
		return nil, err
	}

	batch := p.db.NewBatch()
	if err := batch.Set([]byte(fmt.Sprintf("bookfile:%s:%s", file.BookID, file.ID)), data, nil); err != nil {
		batch.Close()
		return nil, err
	}
	if err := batch.Set([]byte(fmt.Sprintf("bookfile:id:%s", file.ID)), []byte(file.BookID), nil); err != nil {
		batch.Close()
		return nil, err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, err
	}
	return file, nil
}

func (p *PebbleStore) GetBookFileByID(id string) (*models.BookFile, error) {
	value, closer, err := p.db.Get([]byte(fmt.Sprintf("bookfile:id:%s", id)))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	bookID := string(value)
	closer.Close()

	data, closer, err := p.db.Get([]byte(fmt.Sprintf("bookfile:%s:%s", bookID, id)))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var file models.BookFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

func (p *PebbleStore) GetFilesByBook(bookID string) ([]models.BookFile, error) {
	iter, err := p.prefixIter(fmt.Sprintf("bookfile:%s:", bookID))
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	files := []models.BookFile{}
	for iter.First(); iter.Valid(); iter.Next() {
		var f models.BookFile
		if err := json.Unmarshal(iter.Value(), &f); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func (p *PebbleStore) GetFilesByIDs(ids []string) ([]models.BookFile, error) {
	files := []models.BookFile{}
	for _, id := range ids {
		file, err := p.GetBookFileByID(id)
		if err != nil {
			return nil, err
		}
		if file != nil {
			files = append(files, *file)
		}
	}
	return files, nil
}

func (p *PebbleStore) UpdateFileQuality(ids []string, quality models.QualityModel) (int, error) {
	updated := 0
	batch := p.db.NewBatch()
	for _, id := range ids {
		file, err := p.GetBookFileByID(id)
		if err != nil {
			batch.Close()
			return 0, err
		}
		if file == nil {
			continue
		}

		file.Quality = quality
		data, err := json.Marshal(file)
		if err != nil {
			batch.Close()
			return 0, err
		}
		if err := batch.Set([]byte(fmt.Sprintf("bookfile:%s:%s", file.BookID, file.ID)), data, nil); err != nil {
			batch.Close()
			return 0, err
		}
		updated++
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return 0, err
	}
	return updated, nil
}

func (p *PebbleStore) DeleteBookFiles(ids []string) error {
	batch := p.db.NewBatch()
	for _, id := range ids {
		file, err := p.GetBookFileByID(id)
		if err != nil {
			batch.Close()
			return err
		}
		if file == nil {
			continue
		}
		if err := batch.Delete([]byte(fmt.Sprintf("bookfile:%s:%s", file.BookID, file.ID)), nil); err != nil {
			batch.Close()
			return err
		}
		if err := batch.Delete([]byte(fmt.Sprintf("bookfile:id:%s", file.ID)), nil); err != nil {
			batch.Close()
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

func (p *PebbleStore) CountFiles() (int, error) {
	iter, err := p.prefixIter("bookfile:id:")
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	count := 0
	for iter.First(); iter.Valid(); iter.Next() {
		count++
	}
	return count, nil
}
