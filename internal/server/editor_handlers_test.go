// file: internal/server/editor_handlers_test.go
// version: 1.0.0
// guid: 5c6d7e8f-9a0b-1c2d-3e4f-5a6b7c8d9e0f

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/bookfeed/internal/models"
)

func TestListBookFiles(t *testing.T) {
	server, store, cleanup := setupTestServer(t)
	defer cleanup()
	dune, _, _ := seedLibrary(t, store)

	w := doRequest(server, http.MethodGet, "/api/v1/bookfile?bookId="+dune.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var files []bookFileResource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &files))
	require.Len(t, files, 1)
	assert.Equal(t, dune.ID, files[0].BookID)
	assert.Equal(t, "/library/dune.epub", files[0].Path)
	assert.Equal(t, "EPUB", files[0].Quality.Quality.Name)
}

func TestListBookFilesRequiresBookID(t *testing.T) {
	server, _, cleanup := setupTestServer(t)
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/api/v1/bookfile", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListBookFilesUnknownBook(t *testing.T) {
	server, _, cleanup := setupTestServer(t)
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/api/v1/bookfile?bookId=01HZZZZZZZZZZZZZZZZZZZZZZZ", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateBookFileQualities(t *testing.T) {
	server, store, cleanup := setupTestServer(t)
	defer cleanup()
	dune, _, hobbit := seedLibrary(t, store)

	duneFiles, err := store.GetFilesByBook(dune.ID)
	require.NoError(t, err)
	hobbitFiles, err := store.GetFilesByBook(hobbit.ID)
	require.NoError(t, err)

	body := fmt.Sprintf(`{
		"bookFileIds": [%q, %q],
		"quality": {"quality": {"id": 1, "name": "PDF"}, "revision": {"version": 2, "real": 0}}
	}`, duneFiles[0].ID, hobbitFiles[0].ID)

	w := doRequest(server, http.MethodPut, "/api/v1/bookfile/editor", []byte(body))
	require.Equal(t, http.StatusAccepted, w.Code)

	var updated []bookFileResource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Len(t, updated, 2)
	for _, file := range updated {
		assert.Equal(t, models.QualityPDF.ID, file.Quality.Quality.ID)
		assert.Equal(t, "PDF", file.Quality.Quality.Name)
		assert.Equal(t, 2, file.Quality.Revision.Version)
	}

	// Change survives a fresh read
	fresh, err := store.GetFilesByBook(dune.ID)
	require.NoError(t, err)
	assert.Equal(t, "PDF", fresh[0].Quality.Quality.Name)
}

func TestUpdateBookFileQualitiesValidation(t *testing.T) {
	server, _, cleanup := setupTestServer(t)
	defer cleanup()

	cases := []struct {
		name string
		body string
	}{
		{"empty ids", `{"bookFileIds": [], "quality": {"quality": {"id": 4}}}`},
		{"missing quality", `{"bookFileIds": ["x"]}`},
		{"unknown quality id", `{"bookFileIds": ["x"], "quality": {"quality": {"id": 99}}}`},
		{"malformed json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(server, http.MethodPut, "/api/v1/bookfile/editor", []byte(tc.body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestDeleteBookFilesBulk(t *testing.T) {
	server, store, cleanup := setupTestServer(t)
	defer cleanup()
	dune, _, _ := seedLibrary(t, store)

	files, err := store.GetFilesByBook(dune.ID)
	require.NoError(t, err)

	body := fmt.Sprintf(`{"bookFileIds": [%q]}`, files[0].ID)
	w := doRequest(server, http.MethodDelete, "/api/v1/bookfile/bulk", []byte(body))
	require.Equal(t, http.StatusOK, w.Code)

	remaining, err := store.GetFilesByBook(dune.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestDeleteSingleBookFile(t *testing.T) {
	server, store, cleanup := setupTestServer(t)
	defer cleanup()
	dune, _, _ := seedLibrary(t, store)

	files, err := store.GetFilesByBook(dune.ID)
	require.NoError(t, err)

	w := doRequest(server, http.MethodDelete, "/api/v1/bookfile/"+files[0].ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(server, http.MethodDelete, "/api/v1/bookfile/"+files[0].ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQualitySchema(t *testing.T) {
	server, _, cleanup := setupTestServer(t)
	defer cleanup()

	w := doRequest(server, http.MethodGet, "/api/v1/qualityprofile/schema", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var schema []models.Quality
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &schema))
	require.NotEmpty(t, schema)

	names := make([]string, 0, len(schema))
	for _, quality := range schema {
		names = append(names, quality.Name)
	}
	assert.Contains(t, names, "EPUB")
	assert.Contains(t, names, "PDF")
}
