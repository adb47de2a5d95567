// file: internal/database/store.go
// version: 2.4.0
// guid: 3f7a1c5e-9b2d-4e6f-8a0c-4d7b1e9f3a52

package database

import (
	"fmt"

	"github.com/jdfalk/bookfeed/internal/models"
)

// Store defines the interface for catalog persistence.
// This abstraction allows us to support both PebbleDB (default) and
// SQLite3 (opt-in), and to mock the store in tests.
type Store interface {
	// Lifecycle
	Close() error
	Reset() error

	// Authors
	CreateAuthor(name string) (*models.Author, error)
	GetAuthorByID(id int) (*models.Author, error)
	GetAuthorsByIDs(ids []int) ([]models.Author, error)
	GetAllAuthors() ([]models.Author, error)
	CountAuthors() (int, error)

	// Books
	CreateBook(book *models.Book) (*models.Book, error) // Generates ULID if ID is empty
	GetBookByID(id string) (*models.Book, error)        // Editions embedded; nil when absent
	QueryBooks(spec *models.PagingSpec) ([]models.Book, error)
	CountBooks() (int, error)
	DeleteBook(id string) error

	// Editions
	CreateEdition(edition *models.Edition) (*models.Edition, error)
	GetEditionsByBook(bookID string) ([]models.Edition, error)

	// Book files
	CreateBookFile(file *models.BookFile) (*models.BookFile, error)
	GetBookFileByID(id string) (*models.BookFile, error)
	GetFilesByBook(bookID string) ([]models.BookFile, error)
	GetFilesByIDs(ids []string) ([]models.BookFile, error)
	UpdateFileQuality(ids []string, quality models.QualityModel) (int, error)
	DeleteBookFiles(ids []string) error
	CountFiles() (int, error)
}

// Paging bounds enforced by every store implementation
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePaging clamps a spec's page and page size to store limits.
// Shared by all implementations so paged queries behave identically.
func NormalizePaging(spec *models.PagingSpec) {
	if spec.Page <= 0 {
		spec.Page = 1
	}
	if spec.PageSize <= 0 {
		spec.PageSize = DefaultPageSize
	}
	if spec.PageSize > MaxPageSize {
		spec.PageSize = MaxPageSize
	}
}

// Global store instance
var GlobalStore Store

// InitializeStore initializes the database store based on configuration
func InitializeStore(dbType, path string, enableSQLite bool) error {
	var err error

	switch dbType {
	case "sqlite", "sqlite3":
		if !enableSQLite {
			return fmt.Errorf("SQLite3 is not enabled. To use SQLite3, you must explicitly enable it with --enable-sqlite3-i-know-the-risks or set 'enable_sqlite3_i_know_the_risks: true' in your config file. PebbleDB is the recommended database for production use")
		}
		GlobalStore, err = NewSQLiteStore(path)
		if err != nil {
			return fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
	case "pebble", "":
		// PebbleDB is the default
		GlobalStore, err = NewPebbleStore(path)
		if err != nil {
			return fmt.Errorf("failed to initialize PebbleDB store: %w", err)
		}
	default:
		return fmt.Errorf("unsupported database type: %s (supported: pebble, sqlite)", dbType)
	}

	return nil
}

// CloseStore closes the global store
func CloseStore() error {
	if GlobalStore != nil {
		return GlobalStore.Close()
	}
	return nil
}
