package overlay

import (
	"sort"

	"lectern/internal/layout"
	"lectern/internal/worksheet"
)

// DefaultBlurRadius is the obfuscation strength applied to protected pages.
// The blur is a deterrent, not a security boundary; the asset itself is only
// ever delivered encrypted.
const DefaultBlurRadius = 8.0

// Window is a clear cut-out over the blurred base layer. Coordinates are in
// rendered (on-screen) space, already passed through the page transform.
type Window struct {
	RegionID string      `json:"regionId"`
	Name     string      `json:"name"`
	Rect     layout.Rect `json:"rect"`
}

// Plan describes how one page of a worksheet is composited. An unprotected
// page carries no blur and no windows.
type Plan struct {
	Page       int      `json:"page"`
	Protected  bool     `json:"protected"`
	BlurRadius float64  `json:"blurRadius,omitempty"`
	Windows    []Window `json:"windows,omitempty"`
}

// Compositor derives page overlay plans from worksheet metadata. The same
// transform drives both the clear windows and region hit-testing, so the two
// can never disagree about where a region sits on screen.
type Compositor struct {
	blurRadius float64
}

func New() *Compositor {
	return &Compositor{blurRadius: DefaultBlurRadius}
}

// Compose builds the overlay plan for a single page under the given render
// transform.
func (c *Compositor) Compose(meta worksheet.Meta, page int, t layout.Transform) Plan {
	plan := Plan{Page: page, Protected: meta.PageProtected(page)}
	if !plan.Protected {
		return plan
	}
	plan.BlurRadius = c.blurRadius

	regions := meta.RegionsOnPage(page)
	plan.Windows = make([]Window, 0, len(regions))
	for _, region := range regions {
		plan.Windows = append(plan.Windows, Window{
			RegionID: region.ID,
			Name:     region.Name,
			Rect:     t.Apply(region.Bounds()),
		})
	}
	// Stable window order keeps rendered output deterministic across loads.
	sort.Slice(plan.Windows, func(i, j int) bool {
		return plan.Windows[i].RegionID < plan.Windows[j].RegionID
	})
	return plan
}

// ComposeAll builds plans for every page that carries at least one region,
// plus any page explicitly listed as protected.
func (c *Compositor) ComposeAll(meta worksheet.Meta, t layout.Transform) []Plan {
	pages := map[int]struct{}{}
	for _, region := range meta.Regions {
		pages[region.Page] = struct{}{}
	}
	for _, page := range meta.DRMProtectedPages {
		pages[page] = struct{}{}
	}

	ordered := make([]int, 0, len(pages))
	for page := range pages {
		ordered = append(ordered, page)
	}
	sort.Ints(ordered)

	plans := make([]Plan, 0, len(ordered))
	for _, page := range ordered {
		plans = append(plans, c.Compose(meta, page, t))
	}
	return plans
}

// HitRegion resolves a rendered-space point to the region whose window
// contains it, using the same transform that produced the windows.
func HitRegion(meta worksheet.Meta, page int, t layout.Transform, x, y float64) (worksheet.Region, bool) {
	for _, region := range meta.RegionsOnPage(page) {
		if t.Contains(region.Bounds(), x, y) {
			return region, true
		}
	}
	return worksheet.Region{}, false
}
