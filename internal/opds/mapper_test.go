// file: internal/opds/mapper_test.go
// version: 1.1.0
// guid: 0e2b4d6f-8a1c-4d5e-b7f9-1c3e5a7b9d20

package opds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/bookfeed/internal/catalog"
	"github.com/jdfalk/bookfeed/internal/models"
)

const testBaseURL = "http://library.local:8080"

func testRecord() catalog.PublicationRecord {
	return catalog.PublicationRecord{
		Book:   models.Book{ID: "b1", Title: "Dune", AuthorID: 7},
		Author: models.Author{ID: 7, Name: "Frank Herbert"},
		Edition: &models.Edition{
			ID: "e1", BookID: "b1", ISBN13: "9780441013593", Format: "epub", IsEbook: true,
		},
		Files: []models.BookFile{
			{
				ID: "f1", BookID: "b1", Path: "/library/dune.epub", Size: 2048,
				Quality: models.QualityModel{Quality: models.QualityEPUB, Revision: models.DefaultRevision()},
			},
			{
				ID: "f2", BookID: "b1", Path: "/library/dune.mobi", Size: 4096,
				Quality: models.QualityModel{Quality: models.QualityMOBI, Revision: models.Revision{Version: 2}},
			},
		},
		Covers: []models.MediaCover{
			{URL: "/covers/book/b1/cover.jpg", CoverType: "cover", Extension: ".jpg"},
		},
	}
}

// TestRenderCatalogRoot tests the static catalog root document
func TestRenderCatalogRoot(t *testing.T) {
	doc := RenderCatalogRoot()

	assert.Equal(t, "Book Catalog", doc.Metadata.Title)
	require.Len(t, doc.Links, 2)
	assert.Equal(t, "/opds", doc.Links[0].Href)
	assert.True(t, doc.Links[1].Templated)
	require.Len(t, doc.Navigation, 1)
	assert.Equal(t, "/opds/publications", doc.Navigation[0].Href)
}

// TestRenderEntry tests publication entry mapping: identity, per-file
// acquisition links with quality descriptors, absolute cover links
func TestRenderEntry(t *testing.T) {
	entry := RenderEntry(testBaseURL, testRecord())

	assert.Equal(t, "b1", entry.Metadata.Identifier)
	assert.Equal(t, "Dune", entry.Metadata.Title)
	assert.Equal(t, "Frank Herbert", entry.Metadata.Author)
	assert.Equal(t, "9780441013593", entry.Metadata.ISBN)

	// self + two acquisition links
	require.Len(t, entry.Links, 3)
	assert.Equal(t, testBaseURL+"/opds/publications/b1", entry.Links[0].Href)

	epub := entry.Links[1]
	assert.Equal(t, testBaseURL+"/opds/download/f1", epub.Href)
	assert.Equal(t, "http://opds-spec.org/acquisition", epub.Rel)
	assert.Equal(t, "application/epub+zip", epub.Type)
	require.NotNil(t, epub.Properties)
	assert.Equal(t, "EPUB", epub.Properties.Quality)
	assert.Equal(t, 1, epub.Properties.Revision)
	assert.Equal(t, int64(2048), epub.Properties.Size)

	mobi := entry.Links[2]
	assert.Equal(t, "application/x-mobipocket-ebook", mobi.Type)
	assert.Equal(t, "MOBI", mobi.Properties.Quality)
	assert.Equal(t, 2, mobi.Properties.Revision)

	require.Len(t, entry.Images, 1)
	assert.Equal(t, testBaseURL+"/covers/book/b1/cover.jpg", entry.Images[0].Href)
}

// TestRenderEntryNoEdition tests graceful degradation for a book with no
// editions: format fields are empty, not an error
func TestRenderEntryNoEdition(t *testing.T) {
	record := testRecord()
	record.Edition = nil
	record.Covers = nil

	entry := RenderEntry(testBaseURL, record)
	assert.Empty(t, entry.Metadata.ISBN)
	assert.Empty(t, entry.Metadata.Format)
	assert.Empty(t, entry.Images)
}

// TestRenderPageEchoesPaging tests that paging metadata passes through
// without recomputation
func TestRenderPageEchoesPaging(t *testing.T) {
	doc := RenderPage(testBaseURL, []catalog.PublicationRecord{testRecord()}, 3, 25, 217)

	assert.Equal(t, 3, doc.Metadata.CurrentPage)
	assert.Equal(t, 25, doc.Metadata.ItemsPerPage)
	assert.Equal(t, 217, doc.Metadata.NumberOfItems)
	require.Len(t, doc.Publications, 1)

	// Counts are echoed even when they disagree with the record slice
	empty := RenderPage(testBaseURL, nil, 1, 20, 0)
	assert.Equal(t, 0, empty.Metadata.NumberOfItems)
	assert.Empty(t, empty.Publications)
}

// TestMediaTypeForPath tests e-book media type mapping
func TestMediaTypeForPath(t *testing.T) {
	assert.Equal(t, "application/epub+zip", MediaTypeForPath("/x/book.EPUB"))
	assert.Equal(t, "application/x-mobipocket-ebook", MediaTypeForPath("/x/book.mobi"))
	assert.Equal(t, "application/vnd.amazon.ebook", MediaTypeForPath("/x/book.azw3"))
	assert.Equal(t, "application/pdf", MediaTypeForPath("/x/book.pdf"))
	assert.Equal(t, "application/octet-stream", MediaTypeForPath("/x/book"))
}
