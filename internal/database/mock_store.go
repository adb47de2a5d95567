// file: internal/database/mock_store.go
// version: 1.2.0
// guid: a6c8e0b2-4d7f-4b9a-8c1e-3f6a8d0b2e54

package database

import (
	"github.com/jdfalk/bookfeed/internal/models"
)

// MockStore is a simple mock implementation for testing services
type MockStore struct {
	// Author methods
	CreateAuthorFunc    func(name string) (*models.Author, error)
	GetAuthorByIDFunc   func(id int) (*models.Author, error)
	GetAuthorsByIDsFunc func(ids []int) ([]models.Author, error)
	GetAllAuthorsFunc   func() ([]models.Author, error)
	CountAuthorsFunc    func() (int, error)

	// Book methods
	CreateBookFunc  func(book *models.Book) (*models.Book, error)
	GetBookByIDFunc func(id string) (*models.Book, error)
	QueryBooksFunc  func(spec *models.PagingSpec) ([]models.Book, error)
	CountBooksFunc  func() (int, error)
	DeleteBookFunc  func(id string) error

	// Edition methods
	CreateEditionFunc     func(edition *models.Edition) (*models.Edition, error)
	GetEditionsByBookFunc func(bookID string) ([]models.Edition, error)

	// Book file methods
	CreateBookFileFunc    func(file *models.BookFile) (*models.BookFile, error)
	GetBookFileByIDFunc   func(id string) (*models.BookFile, error)
	GetFilesByBookFunc    func(bookID string) ([]models.BookFile, error)
	GetFilesByIDsFunc     func(ids []string) ([]models.BookFile, error)
	UpdateFileQualityFunc func(ids []string, quality models.QualityModel) (int, error)
	DeleteBookFilesFunc   func(ids []string) error
	CountFilesFunc        func() (int, error)
}

// Ensure MockStore implements Store
var _ Store = (*MockStore)(nil)

func (m *MockStore) Close() error { return nil }
func (m *MockStore) Reset() error { return nil }

func (m *MockStore) CreateAuthor(name string) (*models.Author, error) {
	if m.CreateAuthorFunc != nil {
		return m.CreateAuthorFunc(name)
	}
	return nil, nil
}

func (m *MockStore) GetAuthorByID(id int) (*models.Author, error) {
	if m.GetAuthorByIDFunc != nil {
		return m.GetAuthorByIDFunc(id)
	}
	return nil, nil
}

func (m *MockStore) GetAuthorsByIDs(ids []int) ([]models.Author, error) {
	if m.GetAuthorsByIDsFunc != nil {
		return m.GetAuthorsByIDsFunc(ids)
	}
	return []models.Author{}, nil
}

func (m *MockStore) GetAllAuthors() ([]models.Author, error) {
	if m.GetAllAuthorsFunc != nil {
		return m.GetAllAuthorsFunc()
	}
	return []models.Author{}, nil
}

func (m *MockStore) CountAuthors() (int, error) {
	if m.CountAuthorsFunc != nil {
		return m.CountAuthorsFunc()
	}
	return 0, nil
}

func (m *MockStore) CreateBook(book *models.Book) (*models.Book, error) {
	if m.CreateBookFunc != nil {
		return m.CreateBookFunc(book)
	}
	return book, nil
}

func (m *MockStore) GetBookByID(id string) (*models.Book, error) {
	if m.GetBookByIDFunc != nil {
		return m.GetBookByIDFunc(id)
	}
	return nil, nil
}

func (m *MockStore) QueryBooks(spec *models.PagingSpec) ([]models.Book, error) {
	if m.QueryBooksFunc != nil {
		return m.QueryBooksFunc(spec)
	}
	return []models.Book{}, nil
}

func (m *MockStore) CountBooks() (int, error) {
	if m.CountBooksFunc != nil {
		return m.CountBooksFunc()
	}
	return 0, nil
}

func (m *MockStore) DeleteBook(id string) error {
	if m.DeleteBookFunc != nil {
		return m.DeleteBookFunc(id)
	}
	return nil
}

func (m *MockStore) CreateEdition(edition *models.Edition) (*models.Edition, error) {
	if m.CreateEditionFunc != nil {
		return m.CreateEditionFunc(edition)
	}
	return edition, nil
}

func (m *MockStore) GetEditionsByBook(bookID string) ([]models.Edition, error) {
	if m.GetEditionsByBookFunc != nil {
		return m.GetEditionsByBookFunc(bookID)
	}
	return []models.Edition{}, nil
}

func (m *MockStore) CreateBookFile(file *models.BookFile) (*models.BookFile, error) {
	if m.CreateBookFileFunc != nil {
		return m.CreateBookFileFunc(file)
	}
	return file, nil
}

func (m *MockStore) GetBookFileByID(id string) (*models.BookFile, error) {
	if m.GetBookFileByIDFunc != nil {
		return m.GetBookFileByIDFunc(id)
	}
	return nil, nil
}

func (m *MockStore) GetFilesByBook(bookID string) ([]models.BookFile, error) {
	if m.GetFilesByBookFunc != nil {
		return m.GetFilesByBookFunc(bookID)
	}
	return []models.BookFile{}, nil
}

func (m *MockStore) GetFilesByIDs(ids []string) ([]models.BookFile, error) {
	if m.GetFilesByIDsFunc != nil {
		return m.GetFilesByIDsFunc(ids)
	}
	return []models.BookFile{}, nil
}

func (m *MockStore) UpdateFileQuality(ids []string, quality models.QualityModel) (int, error) {
	if m.UpdateFileQualityFunc != nil {
		return m.UpdateFileQualityFunc(ids, quality)
	}
	return 0, nil
}

func (m *MockStore) DeleteBookFiles(ids []string) error {
	if m.DeleteBookFilesFunc != nil {
		return m.DeleteBookFilesFunc(ids)
	}
	return nil
}

func (m *MockStore) CountFiles() (int, error) {
	if m.CountFilesFunc != nil {
		return m.CountFilesFunc()
	}
	return 0, nil
}
