package worksheet

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lectern/internal/services"
)

// Static worksheet files come in two shapes that were historically told apart
// only by whether a "document" object was present. They are modelled here as
// a tagged union with an explicit discriminant so every consumer matches both
// cases deliberately.

type fileKind int

const (
	kindCurrent fileKind = iota
	kindLegacy
)

type staticDocument struct {
	DocumentID        string `json:"documentId"`
	DocumentName      string `json:"documentName"`
	DRMProtected      bool   `json:"drmProtected"`
	DRMProtectedPages []int  `json:"drmProtectedPages"`
}

type staticFile struct {
	kind     fileKind
	document staticDocument // kindCurrent only
	regions  []Region
}

type rawStaticFile struct {
	Document *staticDocument `json:"document"`
	Regions  []Region        `json:"regions"`
}

var titleCaser = cases.Title(language.English)

// LoadStatic reads worksheet metadata from the static JSON fallback directory.
// Files absent from the directory are reported as not found so callers can
// distinguish a missing worksheet from a malformed one.
func LoadStatic(dir, worksheetID string) (Meta, error) {
	if strings.TrimSpace(worksheetID) == "" || strings.ContainsAny(worksheetID, `/\`) {
		return Meta{}, services.Wrap(services.ErrValidation, "worksheet", "static", "invalid worksheet id", nil)
	}

	path := filepath.Join(dir, worksheetID+".json")
	body, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Meta{}, services.Wrap(services.ErrNotFound, "worksheet", "static",
				fmt.Sprintf("worksheet %s has no static metadata", worksheetID), nil)
		}
		return Meta{}, services.Wrap(services.ErrTransient, "worksheet", "static", "read metadata", err)
	}

	parsed, err := decodeStaticFile(body)
	if err != nil {
		return Meta{}, services.Wrap(services.ErrValidation, "worksheet", "static", "decode metadata", err)
	}

	switch parsed.kind {
	case kindCurrent:
		return Meta{
			WorksheetID:       worksheetID,
			DocumentID:        parsed.document.DocumentID,
			DocumentName:      parsed.document.DocumentName,
			DRMProtected:      parsed.document.DRMProtected,
			DRMProtectedPages: parsed.document.DRMProtectedPages,
			Regions:           parsed.regions,
		}, nil
	case kindLegacy:
		return Meta{
			WorksheetID:  worksheetID,
			DocumentID:   worksheetID,
			DocumentName: displayNameFromID(worksheetID),
			Regions:      parsed.regions,
		}, nil
	default:
		return Meta{}, fmt.Errorf("unhandled static file kind %d", parsed.kind)
	}
}

func decodeStaticFile(body []byte) (staticFile, error) {
	var raw rawStaticFile
	if err := json.Unmarshal(body, &raw); err != nil {
		return staticFile{}, err
	}
	if raw.Document != nil {
		return staticFile{kind: kindCurrent, document: *raw.Document, regions: raw.Regions}, nil
	}
	return staticFile{kind: kindLegacy, regions: raw.Regions}, nil
}

// displayNameFromID turns a file-style identifier like "fractions_intro-2"
// into "Fractions Intro 2" for legacy files that carry no document object.
func displayNameFromID(id string) string {
	cleaned := strings.NewReplacer("_", " ", "-", " ").Replace(id)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return id
	}
	return titleCaser.String(cleaned)
}
