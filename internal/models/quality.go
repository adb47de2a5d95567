// file: internal/models/quality.go
// version: 1.1.0
// guid: 4a8d2c0e-6f1b-4e3a-9d7c-5b2f8e0a4c63

package models

// Quality identifies a file quality tier
type Quality struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Revision tracks numeric revisions of a quality (proper/real upgrades)
type Revision struct {
	Version int `json:"version"`
	Real    int `json:"real"`
}

// QualityModel is the full quality descriptor carried by a book file and
// mutated by the bulk editor
type QualityModel struct {
	Quality  Quality  `json:"quality"`
	Revision Revision `json:"revision"`
}

// Known quality tiers, ordered worst to best
var (
	QualityUnknown = Quality{ID: 0, Name: "Unknown"}
	QualityPDF     = Quality{ID: 1, Name: "PDF"}
	QualityMOBI    = Quality{ID: 2, Name: "MOBI"}
	QualityAZW3    = Quality{ID: 3, Name: "AZW3"}
	QualityEPUB    = Quality{ID: 4, Name: "EPUB"}
)

// QualitySchema lists every defined quality tier for editor dropdowns
func QualitySchema() []Quality {
	return []Quality{QualityUnknown, QualityPDF, QualityMOBI, QualityAZW3, QualityEPUB}
}

// QualityByID returns the quality tier with the given id, or false when
// the id is not part of the schema
func QualityByID(id int) (Quality, bool) {
	for _, q := range QualitySchema() {
		if q.ID == id {
			return q, true
		}
	}
	return Quality{}, false
}

// DefaultRevision is the revision assigned when the editor picks a new quality
func DefaultRevision() Revision {
	return Revision{Version: 1, Real: 0}
}
