package worksheet

import (
	"fmt"

	"lectern/internal/layout"
)

// Region is a named, page-positioned interactive hit-box with an ordered
// narration script. Geometry is stored in the asset's natural coordinates.
// The JSON wire name for Steps is "description" for compatibility with
// existing worksheet files.
type Region struct {
	ID     string   `json:"id"`
	Page   int      `json:"page"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Type   string   `json:"type"`
	Name   string   `json:"name"`
	Steps  []string `json:"description"`
}

// Bounds returns the region's natural-coordinate bounding box.
func (r Region) Bounds() layout.Rect {
	return layout.Rect{Top: r.Y, Left: r.X, Width: r.Width, Height: r.Height}
}

// AudioClip returns the conventional narration clip path for the given
// 0-based step index. Clips are named with 1-based step numbers.
func (r Region) AudioClip(worksheetID string, stepIndex int) string {
	return fmt.Sprintf("/audio/%s/%s_%d.mp3", worksheetID, r.Name, stepIndex+1)
}

// Meta is everything a viewer needs to present a worksheet: document
// identity, protection flags, and the interactive regions per page.
type Meta struct {
	WorksheetID       string   `json:"worksheetId"`
	DocumentID        string   `json:"documentId"`
	DocumentName      string   `json:"documentName"`
	DRMProtected      bool     `json:"drmProtected"`
	DRMProtectedPages []int    `json:"drmProtectedPages"`
	Regions           []Region `json:"regions"`
}

// PageProtected reports whether the given 1-based page should render behind
// the protection overlay.
func (m Meta) PageProtected(page int) bool {
	if !m.DRMProtected {
		return false
	}
	if len(m.DRMProtectedPages) == 0 {
		return true
	}
	for _, p := range m.DRMProtectedPages {
		if p == page {
			return true
		}
	}
	return false
}

// RegionsOnPage filters the worksheet's regions to one page, preserving order.
func (m Meta) RegionsOnPage(page int) []Region {
	var out []Region
	for _, region := range m.Regions {
		if region.Page == page {
			out = append(out, region)
		}
	}
	return out
}

// Region looks up a region by id.
func (m Meta) Region(id string) (Region, bool) {
	for _, region := range m.Regions {
		if region.ID == id {
			return region, true
		}
	}
	return Region{}, false
}
