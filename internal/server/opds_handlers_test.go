// file: internal/server/opds_handlers_test.go
// version: 1.0.0
// guid: 4b5c6d7e-8f9a-0b1c-2d3e-4f5a6b7c8d9e

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/bookfeed/internal/config"
	"github.com/jdfalk/bookfeed/internal/models"
	"github.com/jdfalk/bookfeed/internal/opds"
)

func TestCatalogRoot(t *testing.T) {
	server, _, cleanup := setupTestServer(t)
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/opds", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/opds+json")

	var doc opds.CatalogDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Book Catalog", doc.Metadata.Title)
	require.NotEmpty(t, doc.Navigation)
	assert.Equal(t, "/opds/publications", doc.Navigation[0].Href)
}

func TestPublicationsFeed(t *testing.T) {
	server, store, cleanup := setupTestServer(t)
	defer cleanup()
	seedLibrary(t, store)

	w := doRequest(server, http.MethodGet, "/opds/publications", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Dune Messiah has no files and stays out of the feed
	var doc opds.FeedDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, 2, doc.Metadata.NumberOfItems)
	assert.Equal(t, 1, doc.Metadata.CurrentPage)
	assert.Equal(t, 20, doc.Metadata.ItemsPerPage)
	require.Len(t, doc.Publications, 2)

	titles := []string{doc.Publications[0].Metadata.Title, doc.Publications[1].Metadata.Title}
	assert.NotContains(t, titles, "Dune Messiah")
}

func TestPublicationsFeedPaging(t *testing.T) {
	server, store, cleanup := setupTestServer(t)
	defer cleanup()
	seedLibrary(t, store)

	w := doRequest(server, http.MethodGet, "/opds/publications?page=2&pageSize=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc opds.FeedDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, 2, doc.Metadata.CurrentPage)
	assert.Equal(t, 1, doc.Metadata.ItemsPerPage)
	assert.Equal(t, 2, doc.Metadata.NumberOfItems)
	assert.Len(t, doc.Publications, 1)
}

func TestSearchRequiresTerm(t *testing.T) {
	server, _, cleanup := setupTestServer(t)
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/opds/search", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "no search term specified in query")
}

func TestSearchFreeText(t *testing.T) {
	server, store, cleanup := setupTestServer(t)
	defer cleanup()
	seedLibrary(t, store)

	// Only books with files are searchable; Dune Messiah has none
	w := doRequest(server, http.MethodGet, "/opds/search?query=dune", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc opds.FeedDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Len(t, doc.Publications, 1)
	assert.Equal(t, "Dune", doc.Publications[0].Metadata.Title)
}

func TestSearchByAuthor(t *testing.T) {
	server, store, cleanup := setupTestServer(t)
	defer cleanup()
	seedLibrary(t, store)

	w := doRequest(server, http.MethodGet, "/opds/publications/search?author=tolkien", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc opds.FeedDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Len(t, doc.Publications, 1)
	assert.Equal(t, "The Hobbit", doc.Publications[0].Metadata.Title)
}

func TestSearchTitleAndAuthorConjunctive(t *testing.T) {
	server, store, cleanup := setupTestServer(t)
	defer cleanup()
	seedLibrary(t, store)

	w := doRequest(server, http.MethodGet, "/opds/search?title=dune&author=tolkien", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc opds.FeedDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Empty(t, doc.Publications)
}

func TestPublicationDetail(t *testing.T) {
	server, store, cleanup := setupTestServer(t)
	defer cleanup()
	dune, _, _ := seedLibrary(t, store)

	w := doRequest(server, http.MethodGet, "/opds/publications/"+dune.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var entry opds.FeedEntryDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, dune.ID, entry.Metadata.Identifier)
	assert.Equal(t, "Frank Herbert", entry.Metadata.Author)
	assert.Equal(t, "9780441013593", entry.Metadata.ISBN)

	// self link plus one acquisition link for the seeded file
	require.Len(t, entry.Links, 2)
	assert.Equal(t, "http://opds-spec.org/acquisition", entry.Links[1].Rel)
	assert.Equal(t, "application/epub+zip", entry.Links[1].Type)
	require.NotNil(t, entry.Links[1].Properties)
	assert.Equal(t, "EPUB", entry.Links[1].Properties.Quality)
}

func TestPublicationDetailNotFound(t *testing.T) {
	server, _, cleanup := setupTestServer(t)
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/opds/publications/01HZZZZZZZZZZZZZZZZZZZZZZZ", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicationDetailNoFiles(t *testing.T) {
	server, store, cleanup := setupTestServer(t)
	defer cleanup()
	_, messiah, _ := seedLibrary(t, store)

	w := doRequest(server, http.MethodGet, "/opds/publications/"+messiah.ID, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "no book files exist for the given book id")
}

func TestFeedLinksUseConfiguredBaseURL(t *testing.T) {
	server, store, cleanup := setupTestServer(t)
	defer cleanup()
	dune, _, _ := seedLibrary(t, store)

	config.AppConfig.BaseURL = "https://books.example.com"
	defer func() { config.AppConfig.BaseURL = "" }()

	w := doRequest(server, http.MethodGet, "/opds/publications/"+dune.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var entry opds.FeedEntryDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, "https://books.example.com/opds/publications/"+dune.ID, entry.Links[0].Href)
}

func TestFeedLinksRespectForwardedProto(t *testing.T) {
	server, store, cleanup := setupTestServer(t)
	defer cleanup()
	dune, _, _ := seedLibrary(t, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/opds/publications/"+dune.ID, nil)
	req.Host = "books.example.com"
	req.Header.Set("X-Forwarded-Proto", "https")
	server.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var entry opds.FeedEntryDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, "https://books.example.com/opds/publications/"+dune.ID, entry.Links[0].Href)
}

func TestDownloadServesFile(t *testing.T) {
	server, store, cleanup := setupTestServer(t)
	defer cleanup()

	author, err := store.CreateAuthor("Frank Herbert")
	require.NoError(t, err)
	book, err := store.CreateBook(&models.Book{Title: "Dune", AuthorID: author.ID})
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "dune.epub")
	require.NoError(t, os.WriteFile(path, []byte("epub-bytes"), 0o644))
	file := seedFile(t, store, book.ID, path)

	w := doRequest(server, http.MethodGet, "/opds/download/"+file.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "epub-bytes", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "dune.epub")
}

func TestDownloadUnknownFile(t *testing.T) {
	server, _, cleanup := setupTestServer(t)
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/opds/download/01HZZZZZZZZZZZZZZZZZZZZZZZ", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCoverTraversalRejected(t *testing.T) {
	server, _, cleanup := setupTestServer(t)
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/covers/book/abc/..", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCoverNotFound(t *testing.T) {
	server, _, cleanup := setupTestServer(t)
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/covers/book/abc/cover.jpg", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
