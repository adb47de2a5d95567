// file: internal/database/sqlite_store.go
// version: 1.6.0
// guid: 8d1f3b5a-7c9e-4a2d-b6f8-0e3c5a7d9b14

package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jdfalk/bookfeed/internal/models"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// SQLiteStore implements the Store interface using SQLite3
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// createTables creates all required tables
func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS authors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		clean_name TEXT NOT NULL UNIQUE
	);

	CREATE INDEX IF NOT EXISTS idx_authors_clean_name ON authors(clean_name);

	CREATE TABLE IF NOT EXISTS books (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		author_id INTEGER NOT NULL,
		FOREIGN KEY (author_id) REFERENCES authors(id)
	);

	CREATE INDEX IF NOT EXISTS idx_books_title ON books(title);
	CREATE INDEX IF NOT EXISTS idx_books_author ON books(author_id);

	CREATE TABLE IF NOT EXISTS editions (
		id TEXT PRIMARY KEY,
		book_id TEXT NOT NULL,
		title TEXT,
		isbn13 TEXT,
		format TEXT,
		is_ebook BOOLEAN NOT NULL DEFAULT 0,
		monitored BOOLEAN NOT NULL DEFAULT 0,
		images TEXT,
		FOREIGN KEY (book_id) REFERENCES books(id)
	);

	CREATE INDEX IF NOT EXISTS idx_editions_book ON editions(book_id);

	CREATE TABLE IF NOT EXISTS book_files (
		id TEXT PRIMARY KEY,
		book_id TEXT NOT NULL,
		path TEXT NOT NULL UNIQUE,
		size INTEGER NOT NULL DEFAULT 0,
		quality TEXT NOT NULL,
		date_added DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (book_id) REFERENCES books(id)
	);

	CREATE INDEX IF NOT EXISTS idx_book_files_book ON book_files(book_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Reset removes all data (for testing)
func (s *SQLiteStore) Reset() error {
	for _, table := range []string{"book_files", "editions", "books", "authors"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	return nil
}

// Author operations

func (s *SQLiteStore) CreateAuthor(name string) (*models.Author, error) {
	clean := models.CleanAuthorName(name)

	// Idempotent by clean name
	existing := &models.Author{}
	err := s.db.QueryRow("SELECT id, name, clean_name FROM authors WHERE clean_name = ?", clean).
		Scan(&existing.ID, &existing.Name, &existing.CleanName)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	result, err := s.db.Exec("INSERT INTO authors (name, clean_name) VALUES (?, ?)", name, clean)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Author{ID: int(id), Name: name, CleanName: clean}, nil
}

func (s *SQLiteStore) GetAuthorByID(id int) (*models.Author, error) {
	author := &models.Author{}
	err := s.db.QueryRow("SELECT id, name, clean_name FROM authors WHERE id = ?", id).
		Scan(&author.ID, &author.Name, &author.CleanName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return author, nil
}

func (s *SQLiteStore) GetAuthorsByIDs(ids []int) ([]models.Author, error) {
	if len(ids) == 0 {
		return []models.Author{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	rows, err := s.db.Query(
		"SELECT id, name, clean_name FROM authors WHERE id IN ("+strings.Join(placeholders, ",")+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []models.Author
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.CleanName); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (s *SQLiteStore) GetAllAuthors() ([]models.Author, error) {
	rows, err := s.db.Query("SELECT id, name, clean_name FROM authors ORDER BY clean_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []models.Author
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.CleanName); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (s *SQLiteStore) CountAuthors() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM authors").Scan(&count)
	return count, err
}

// Book operations

func (s *SQLiteStore) CreateBook(book *models.Book) (*models.Book, error) {
	if book.ID == "" {
		id, err := newULID()
		if err != nil {
			return nil, err
		}
		book.ID = id
	}

	_, err := s.db.Exec("INSERT INTO books (id, title, author_id) VALUES (?, ?, ?)",
		book.ID, book.Title, book.AuthorID)
	if err != nil {
		return nil, err
	}
	return book, nil
}

func (s *SQLiteStore) GetBookByID(id string) (*models.Book, error) {
	book := &models.Book{}
	err := s.db.QueryRow("SELECT id, title, author_id FROM books WHERE id = ?", id).
		Scan(&book.ID, &book.Title, &book.AuthorID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	editions, err := s.GetEditionsByBook(book.ID)
	if err != nil {
		return nil, err
	}
	book.Editions = editions
	return book, nil
}

// filterClause renders the spec's filter predicates into SQL. Filters are
// ANDed; terms within one filter are ORed.
func filterClause(spec *models.PagingSpec) (string, []interface{}) {
	var conds []string
	var args []interface{}

	for _, filter := range spec.Filters {
		var ors []string
		for _, term := range filter.Terms {
			switch term.Field {
			case models.FilterTitle:
				ors = append(ors, "instr(lower(b.title), ?) > 0")
			case models.FilterAuthorName:
				ors = append(ors, "instr(a.clean_name, ?) > 0")
			default:
				continue
			}
			args = append(args, term.Value)
		}
		if len(ors) > 0 {
			conds = append(conds, "("+strings.Join(ors, " OR ")+")")
		}
	}

	if spec.RequireFiles {
		conds = append(conds, "EXISTS (SELECT 1 FROM book_files f WHERE f.book_id = b.id)")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *SQLiteStore) QueryBooks(spec *models.PagingSpec) ([]models.Book, error) {
	NormalizePaging(spec)

	base := " FROM books b JOIN authors a ON a.id = b.author_id"
	where, args := filterClause(spec)

	if err := s.db.QueryRow("SELECT COUNT(*)"+base+where, args...).Scan(&spec.TotalRecords); err != nil {
		return nil, err
	}

	orderCol := "b.title COLLATE NOCASE"
	if spec.SortKey == "id" {
		orderCol = "b.id"
	}
	direction := "ASC"
	if strings.EqualFold(spec.SortDirection, "desc") || strings.EqualFold(spec.SortDirection, "descending") {
		direction = "DESC"
	}

	offset := (spec.Page - 1) * spec.PageSize
	query := "SELECT b.id, b.title, b.author_id" + base + where +
		" ORDER BY " + orderCol + " " + direction + " LIMIT ? OFFSET ?"
	rows, err := s.db.Query(query, append(args, spec.PageSize, offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.AuthorID); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range books {
		editions, err := s.GetEditionsByBook(books[i].ID)
		if err != nil {
			return nil, err
		}
		books[i].Editions = editions
	}

	return books, nil
}

func (s *SQLiteStore) CountBooks() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM books").Scan(&count)
	return count, err
}

func (s *SQLiteStore) DeleteBook(id string) error {
	if _, err := s.db.Exec("DELETE FROM book_files WHERE book_id = ?", id); err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM editions WHERE book_id = ?", id); err != nil {
		return err
	}
	result, err := s.db.Exec("DELETE FROM books WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("book not found")
	}
	return nil
}

// Edition operations

func (s *SQLiteStore) CreateEdition(edition *models.Edition) (*models.Edition, error) {
	if edition.ID == "" {
		id, err := newULID()
		if err != nil {
			return nil, err
		}
		edition.ID = id
	}

	images, err := json.Marshal(edition.Images)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(
		"INSERT INTO editions (id, book_id, title, isbn13, format, is_ebook, monitored, images) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		edition.ID, edition.BookID, edition.Title, edition.ISBN13, edition.Format,
		edition.IsEbook, edition.Monitored, string(images))
	if err != nil {
		return nil, err
	}
	return edition, nil
}

func scanEdition(scanner rowScanner) (*models.Edition, error) {
	var e models.Edition
	var images string
	if err := scanner.Scan(&e.ID, &e.BookID, &e.Title, &e.ISBN13, &e.Format,
		&e.IsEbook, &e.Monitored, &images); err != nil {
		return nil, err
	}
	if images != "" {
		if err := json.Unmarshal([]byte(images), &e.Images); err != nil {
			return nil, err
		}
	}
	return &e, nil
}

// GetEditionsByBook returns a book's editions in insertion order (rowid),
// which is the structural order the edition selector depends on.
func (s *SQLiteStore) GetEditionsByBook(bookID string) ([]models.Edition, error) {
	rows, err := s.db.Query(
		"SELECT id, book_id, title, isbn13, format, is_ebook, monitored, images FROM editions WHERE book_id = ? ORDER BY rowid",
		bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	editions := []models.Edition{}
	for rows.Next() {
		e, err := scanEdition(rows)
		if err != nil {
			return nil, err
		}
		editions = append(editions, *e)
	}
	return editions, rows.Err()
}

// Book file operations

func (s *SQLiteStore) CreateBookFile(file *models.BookFile) (*models.BookFile, error) {
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

	quality, err := json.Marshal(file.Quality)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(
		"INSERT INTO book_files (id, book_id, path, size, quality, date_added) VALUES (?, ?, ?, ?, ?, ?)",
		file.ID, file.BookID, file.Path, file.Size, string(quality), file.DateAdded)
	if err != nil {
		return nil, err
	}
	return file, nil
}

func scanBookFile(scanner rowScanner) (*models.BookFile, error) {
	var f models.BookFile
	var quality string
	if err := scanner.Scan(&f.ID, &f.BookID, &f.Path, &f.Size, &quality, &f.DateAdded); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(quality), &f.Quality); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *SQLiteStore) GetBookFileByID(id string) (*models.BookFile, error) {
	row := s.db.QueryRow(
		"SELECT id, book_id, path, size, quality, date_added FROM book_files WHERE id = ?", id)
	file, err := scanBookFile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (s *SQLiteStore) GetFilesByBook(bookID string) ([]models.BookFile, error) {
	rows, err := s.db.Query(
		"SELECT id, book_id, path, size, quality, date_added FROM book_files WHERE book_id = ? ORDER BY rowid",
		bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := []models.BookFile{}
	for rows.Next() {
		f, err := scanBookFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	return files, rows.Err()
}

func (s *SQLiteStore) GetFilesByIDs(ids []string) ([]models.BookFile, error) {
	if len(ids) == 0 {
		return []models.BookFile{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	rows, err := s.db.Query(
		"SELECT id, book_id, path, size, quality, date_added FROM book_files WHERE id IN ("+
			strings.Join(placeholders, ",")+") ORDER BY rowid", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := []models.BookFile{}
	for rows.Next() {
		f, err := scanBookFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	return files, rows.Err()
}

func (s *SQLiteStore) UpdateFileQuality(ids []string, quality models.QualityModel) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	data, err := json.Marshal(quality)
	if err != nil {
		return 0, err
	}

	placeholders := make([]string, len(ids))
	args := []interface{}{string(data)}
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}

	result, err := s.db.Exec(
		"UPDATE book_files SET quality = ? WHERE id IN ("+strings.Join(placeholders, ",")+")", args...)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func (s *SQLiteStore) DeleteBookFiles(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	_, err := s.db.Exec(
		"DELETE FROM book_files WHERE id IN ("+strings.Join(placeholders, ",")+")", args...)
	return err
}

func (s *SQLiteStore) CountFiles() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM book_files").Scan(&count)
	return count, err
}
