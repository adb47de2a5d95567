// file: internal/opds/feed.go
// version: 1.1.0
// guid: 6a8c0e2b-4d7f-4f1a-b3c5-7e9a1c3e5f86

// Package opds renders assembled publication records as OPDS 2.0 JSON
// feed documents.
package opds

// Link is a feed-level or publication-level hyperlink
type Link struct {
	Href       string          `json:"href"`
	Rel        string          `json:"rel,omitempty"`
	Type       string          `json:"type,omitempty"`
	Title      string          `json:"title,omitempty"`
	Templated  bool            `json:"templated,omitempty"`
	Properties *LinkProperties `json:"properties,omitempty"`
}

// LinkProperties carries acquisition metadata on download links
type LinkProperties struct {
	Quality  string `json:"quality,omitempty"`
	Revision int    `json:"revision,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// FeedMetadata describes a feed page. Paging values are echoed from the
// assembler verbatim.
type FeedMetadata struct {
	Title         string `json:"title"`
	ItemsPerPage  int    `json:"itemsPerPage"`
	CurrentPage   int    `json:"currentPage"`
	NumberOfItems int    `json:"numberOfItems"`
}

// CatalogMetadata describes the catalog root document
type CatalogMetadata struct {
	Title string `json:"title"`
}

// CatalogDocument is the static catalog root: the navigation structure
// describing the available feeds
type CatalogDocument struct {
	Metadata   CatalogMetadata `json:"metadata"`
	Links      []Link          `json:"links"`
	Navigation []Link          `json:"navigation"`
}

// PublicationMetadata identifies one publication entry
type PublicationMetadata struct {
	Type       string `json:"@type"`
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	ISBN       string `json:"isbn,omitempty"`
	Format     string `json:"format,omitempty"`
}

// FeedEntryDocument is a single publication entry with its acquisition
// and cover links
type FeedEntryDocument struct {
	Metadata PublicationMetadata `json:"metadata"`
	Links    []Link              `json:"links"`
	Images   []Link              `json:"images,omitempty"`
}

// FeedDocument is one page of publications plus paging metadata
type FeedDocument struct {
	Metadata     FeedMetadata        `json:"metadata"`
	Links        []Link              `json:"links"`
	Publications []FeedEntryDocument `json:"publications"`
}
