// file: internal/models/models_test.go
// version: 1.1.0
// guid: 2d6f8a0c-4e9b-4c1d-a3e7-6b0d2f8c4a17

package models

import (
	"testing"
)

// TestCleanAuthorName tests name normalization for search matching
func TestCleanAuthorName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Frank Herbert", "frankherbert"},
		{"punctuation", "J.R.R. Tolkien", "jrrtolkien"},
		{"accents", "Émile Zola", "emilezola"},
		{"mixed case and digits", "Murakami 1Q84", "murakami1q84"},
		{"already clean", "herbert", "herbert"},
		{"empty", "", ""},
		{"only punctuation", "...---...", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanAuthorName(tc.in); got != tc.want {
				t.Errorf("CleanAuthorName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

// TestQualityByID tests quality schema lookups
func TestQualityByID(t *testing.T) {
	q, ok := QualityByID(4)
	if !ok {
		t.Fatal("Expected quality id 4 to exist")
	}
	if q.Name != "EPUB" {
		t.Errorf("Expected EPUB, got %s", q.Name)
	}

	if _, ok := QualityByID(99); ok {
		t.Error("Expected quality id 99 to be unknown")
	}
}

// TestQualitySchemaOrder tests that the schema is ordered worst to best
func TestQualitySchemaOrder(t *testing.T) {
	schema := QualitySchema()
	if len(schema) != 5 {
		t.Fatalf("Expected 5 qualities, got %d", len(schema))
	}
	for i, q := range schema {
		if q.ID != i {
			t.Errorf("Expected id %d at position %d, got %d", i, i, q.ID)
		}
	}
}

// TestDefaultRevision tests the editor default revision
func TestDefaultRevision(t *testing.T) {
	rev := DefaultRevision()
	if rev.Version != 1 || rev.Real != 0 {
		t.Errorf("Expected version=1 real=0, got %+v", rev)
	}
}
