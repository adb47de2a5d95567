// file: internal/catalog/query.go
// version: 1.2.0
// guid: 0d2f4a6c-8e1b-4a3d-b5f7-9c1e3a5d7f80

package catalog

import (
	"strings"

	"github.com/jdfalk/bookfeed/internal/models"
)

// BuildSearchSpec translates the search parameters of a feed request into a
// store paging spec. Exactly one search mode applies, first match wins:
//
//  1. query            -> title contains query OR author clean name contains query
//  2. title AND author -> title contains title AND author clean name contains author
//  3. title            -> title contains title
//  4. author           -> author clean name contains author
//
// All values are lowercased before matching. With no usable term the build
// fails with ErrInvalidRequest.
func BuildSearchSpec(query, title, author string, paging models.PagingRequest) (*models.PagingSpec, error) {
	spec := &models.PagingSpec{
		Page:          paging.Page,
		PageSize:      paging.PageSize,
		SortKey:       paging.SortKey,
		SortDirection: paging.SortDirection,
		RequireFiles:  true,
	}

	query = strings.TrimSpace(query)
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)

	switch {
	case query != "":
		query = strings.ToLower(query)
		spec.Filters = append(spec.Filters, models.Filter{Terms: []models.FilterTerm{
			{Field: models.FilterTitle, Value: query},
			{Field: models.FilterAuthorName, Value: query},
		}})
	case title != "" && author != "":
		spec.Filters = append(spec.Filters,
			models.Filter{Terms: []models.FilterTerm{
				{Field: models.FilterTitle, Value: strings.ToLower(title)},
			}},
			models.Filter{Terms: []models.FilterTerm{
				{Field: models.FilterAuthorName, Value: strings.ToLower(author)},
			}},
		)
	case title != "":
		spec.Filters = append(spec.Filters, models.Filter{Terms: []models.FilterTerm{
			{Field: models.FilterTitle, Value: strings.ToLower(title)},
		}})
	case author != "":
		spec.Filters = append(spec.Filters, models.Filter{Terms: []models.FilterTerm{
			{Field: models.FilterAuthorName, Value: strings.ToLower(author)},
		}})
	default:
		return nil, invalidRequestf("no search term specified in query")
	}

	return spec, nil
}

// BuildListSpec builds the spec for the unfiltered publications feed: every
// book with at least one file, paged.
func BuildListSpec(paging models.PagingRequest) *models.PagingSpec {
	return &models.PagingSpec{
		Page:          paging.Page,
		PageSize:      paging.PageSize,
		SortKey:       paging.SortKey,
		SortDirection: paging.SortDirection,
		RequireFiles:  true,
	}
}
