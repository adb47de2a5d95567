// file: internal/catalog/editions.go
// version: 1.1.0
// guid: 2f4a6c8e-0b3d-4c5f-a7d9-1e3f5a7c9e02

package catalog

import (
	"github.com/jdfalk/bookfeed/internal/models"
)

// firstWhere returns the first edition (structural order) matching pred,
// or nil. "Monitored" is an unenforced tag: zero, one or many editions may
// carry it, and first-by-order is the tie break throughout.
func firstWhere(editions []models.Edition, pred func(*models.Edition) bool) *models.Edition {
	for i := range editions {
		if pred(&editions[i]) {
			return &editions[i]
		}
	}
	return nil
}

// SelectListEdition picks the single representative edition for a list
// entry: the e-book edition if present, else the monitored edition, else
// the first edition. Returns nil for a book with no editions.
func SelectListEdition(editions []models.Edition) *models.Edition {
	if ebook := firstWhere(editions, func(e *models.Edition) bool { return e.IsEbook }); ebook != nil {
		return ebook
	}
	if monitored := firstWhere(editions, func(e *models.Edition) bool { return e.Monitored }); monitored != nil {
		return monitored
	}
	if len(editions) > 0 {
		return &editions[0]
	}
	return nil
}

// SelectDetailEditions picks the e-book edition and the monitored edition
// independently for a detail entry, either of which may be nil. A detail
// entry surfaces e-book fields and monitored-edition cover art separately.
func SelectDetailEditions(editions []models.Edition) (ebook, monitored *models.Edition) {
	ebook = firstWhere(editions, func(e *models.Edition) bool { return e.IsEbook })
	monitored = firstWhere(editions, func(e *models.Edition) bool { return e.Monitored })
	return ebook, monitored
}

// MonitoredCovers returns the monitored edition's covers, or an empty set
// when no edition is monitored. Covers are never borrowed from the e-book
// or any-edition fallback; that asymmetry with SelectListEdition is
// deliberate and load-bearing for feed consumers.
func MonitoredCovers(editions []models.Edition) []models.MediaCover {
	if monitored := firstWhere(editions, func(e *models.Edition) bool { return e.Monitored }); monitored != nil {
		return monitored.Images
	}
	return []models.MediaCover{}
}
