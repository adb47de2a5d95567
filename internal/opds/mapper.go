// file: internal/opds/mapper.go
// version: 1.2.0
// guid: 8c0e2b4d-6f1a-4b3c-a5e7-9b1d3f5a7c08

package opds

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/jdfalk/bookfeed/internal/catalog"
)

const (
	relSelf        = "self"
	relSearch      = "search"
	relAcquisition = "http://opds-spec.org/acquisition"
	relCover       = "http://opds-spec.org/image"

	typeFeed = "application/opds+json"

	schemaEBook = "http://schema.org/EBook"
)

// e-book media types the stdlib mime table doesn't know
var bookMediaTypes = map[string]string{
	".epub": "application/epub+zip",
	".mobi": "application/x-mobipocket-ebook",
	".azw3": "application/vnd.amazon.ebook",
	".pdf":  "application/pdf",
}

// MediaTypeForPath returns the media type for a book file path, falling
// back to the platform mime table and finally octet-stream
func MediaTypeForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mediaType, ok := bookMediaTypes[ext]; ok {
		return mediaType
	}
	if mediaType := mime.TypeByExtension(ext); mediaType != "" {
		return mediaType
	}
	return "application/octet-stream"
}

// RenderCatalogRoot returns the static catalog root document. It takes no
// inputs; the navigation structure does not depend on library contents.
func RenderCatalogRoot() CatalogDocument {
	return CatalogDocument{
		Metadata: CatalogMetadata{Title: "Book Catalog"},
		Links: []Link{
			{Href: "/opds", Rel: relSelf, Type: typeFeed},
			{Href: "/opds/search{?query,title,author}", Rel: relSearch, Type: typeFeed, Templated: true},
		},
		Navigation: []Link{
			{Href: "/opds/publications", Title: "All Publications", Rel: "current", Type: typeFeed},
		},
	}
}

// RenderPage maps one assembled page into a feed document. Paging
// metadata is echoed verbatim; the serializer recomputes nothing.
func RenderPage(baseURL string, records []catalog.PublicationRecord, page, pageSize, totalRecords int) FeedDocument {
	publications := make([]FeedEntryDocument, 0, len(records))
	for i := range records {
		publications = append(publications, RenderEntry(baseURL, records[i]))
	}

	return FeedDocument{
		Metadata: FeedMetadata{
			Title:         "Publications",
			ItemsPerPage:  pageSize,
			CurrentPage:   page,
			NumberOfItems: totalRecords,
		},
		Links: []Link{
			{Href: baseURL + "/opds/publications", Rel: relSelf, Type: typeFeed},
		},
		Publications: publications,
	}
}

// RenderEntry maps one publication record into a feed entry: identity and
// author metadata, one acquisition link per file carrying its quality
// descriptor, and absolute cover links.
func RenderEntry(baseURL string, record catalog.PublicationRecord) FeedEntryDocument {
	metadata := PublicationMetadata{
		Type:       schemaEBook,
		Identifier: record.Book.ID,
		Title:      record.Book.Title,
		Author:     record.Author.Name,
	}
	if record.Edition != nil {
		metadata.ISBN = record.Edition.ISBN13
		metadata.Format = record.Edition.Format
	}

	links := []Link{
		{Href: fmt.Sprintf("%s/opds/publications/%s", baseURL, record.Book.ID), Rel: relSelf, Type: typeFeed},
	}
	for _, file := range record.Files {
		links = append(links, Link{
			Href: fmt.Sprintf("%s/opds/download/%s", baseURL, file.ID),
			Rel:  relAcquisition,
			Type: MediaTypeForPath(file.Path),
			Properties: &LinkProperties{
				Quality:  file.Quality.Quality.Name,
				Revision: file.Quality.Revision.Version,
				Size:     file.Size,
			},
		})
	}

	var images []Link
	for _, cover := range record.Covers {
		images = append(images, Link{
			Href: baseURL + cover.URL,
			Rel:  relCover,
			Type: mime.TypeByExtension(cover.Extension),
		})
	}

	return FeedEntryDocument{Metadata: metadata, Links: links, Images: images}
}
