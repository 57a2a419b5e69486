package testsupport

import (
	"context"
	"testing"

	"lectern/internal/config"
	"lectern/internal/worksheet"
)

// MustOpenStore opens a worksheet.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *worksheet.Store {
	t.Helper()

	store, err := worksheet.Open(cfg)
	if err != nil {
		t.Fatalf("worksheet.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SampleMeta returns a two-region worksheet used across tests.
func SampleMeta(worksheetID string) worksheet.Meta {
	return worksheet.Meta{
		WorksheetID:       worksheetID,
		DocumentID:        "doc-" + worksheetID,
		DocumentName:      "Sample Worksheet",
		DRMProtected:      true,
		DRMProtectedPages: []int{1},
		Regions: []worksheet.Region{
			{
				ID: "r1", Page: 1, X: 100, Y: 100, Width: 50, Height: 50,
				Type: "exercise", Name: "intro",
				Steps: []string{"First step.", "Second step.", "Third step."},
			},
			{
				ID: "r2", Page: 1, X: 300, Y: 420, Width: 120, Height: 80,
				Type: "hint", Name: "hint_one",
				Steps: []string{"Only step."},
			},
		},
	}
}

// MustSaveMeta persists metadata and fails the test on error.
func MustSaveMeta(t testing.TB, store *worksheet.Store, meta worksheet.Meta) {
	t.Helper()
	if err := store.SaveMeta(context.Background(), meta); err != nil {
		t.Fatalf("store.SaveMeta: %v", err)
	}
}
