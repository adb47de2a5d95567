// file: internal/models/paging.go
// version: 1.2.0
// guid: 7e3b9d1f-0a5c-4d8e-b2f6-8c4a1e7d3b95

package models

// FilterField names an entity field a contains-match runs against
type FilterField string

const (
	FilterTitle      FilterField = "title"
	FilterAuthorName FilterField = "author.clean_name"
)

// FilterTerm is one case-insensitive contains-match against a single field.
// Values are expected to be pre-lowered by the caller.
type FilterTerm struct {
	Field FilterField `json:"field"`
	Value string      `json:"value"`
}

// Filter groups terms that are ORed together. A book matches a Filter when
// at least one of its terms matches.
type Filter struct {
	Terms []FilterTerm `json:"terms"`
}

// PagingRequest carries raw paging parameters from the inbound request
type PagingRequest struct {
	Page          int    `json:"page" form:"page"`
	PageSize      int    `json:"pageSize" form:"pageSize"`
	SortKey       string `json:"sortKey" form:"sortKey"`
	SortDirection string `json:"sortDir" form:"sortDir"`
}

// PagingSpec is the store query specification: paging and sorting copied
// from the request plus filter predicates built by the query builder.
// Filters are ANDed; terms within one filter are ORed. The store
// overwrites Page and TotalRecords with the realized result metadata.
type PagingSpec struct {
	Page          int
	PageSize      int
	SortKey       string
	SortDirection string
	Filters       []Filter
	RequireFiles  bool
	TotalRecords  int
}
