package overlay_test

import (
	"testing"

	"lectern/internal/layout"
	"lectern/internal/overlay"
	"lectern/internal/testsupport"
)

func halfScale() layout.Transform {
	return layout.Transform{Scale: 0.5, OffsetTop: 10, OffsetLeft: 20}
}

func TestComposeProtectedPage(t *testing.T) {
	meta := testsupport.SampleMeta("ws-1")
	plan := overlay.New().Compose(meta, 1, halfScale())

	if !plan.Protected {
		t.Fatal("page 1 is protected")
	}
	if plan.BlurRadius != overlay.DefaultBlurRadius {
		t.Fatalf("blur radius = %v", plan.BlurRadius)
	}
	if len(plan.Windows) != 2 {
		t.Fatalf("window count = %d, want 2", len(plan.Windows))
	}

	// Windows are sorted by region ID and carry transformed coordinates.
	first := plan.Windows[0]
	if first.RegionID != "r1" || first.Name != "intro" {
		t.Fatalf("first window = %+v", first)
	}
	want := layout.Rect{Top: 60, Left: 70, Width: 25, Height: 25}
	if first.Rect != want {
		t.Fatalf("window rect = %+v, want %+v", first.Rect, want)
	}
}

func TestComposeUnprotectedPageHasNoOverlay(t *testing.T) {
	meta := testsupport.SampleMeta("ws-1")
	meta.DRMProtected = false

	plan := overlay.New().Compose(meta, 1, halfScale())
	if plan.Protected || plan.BlurRadius != 0 || len(plan.Windows) != 0 {
		t.Fatalf("unexpected overlay on unprotected page: %+v", plan)
	}
}

func TestComposePageOutsideProtectedList(t *testing.T) {
	meta := testsupport.SampleMeta("ws-1") // only page 1 listed
	plan := overlay.New().Compose(meta, 2, halfScale())
	if plan.Protected {
		t.Fatal("page 2 is not in the protected set")
	}
}

func TestComposeAllCoversRegionAndProtectedPages(t *testing.T) {
	meta := testsupport.SampleMeta("ws-1")
	meta.DRMProtectedPages = []int{1, 3}

	plans := overlay.New().ComposeAll(meta, layout.Identity)
	if len(plans) != 2 {
		t.Fatalf("plan count = %d, want 2", len(plans))
	}
	if plans[0].Page != 1 || plans[1].Page != 3 {
		t.Fatalf("plan pages = %d, %d", plans[0].Page, plans[1].Page)
	}
	if !plans[1].Protected || len(plans[1].Windows) != 0 {
		t.Fatalf("page 3 should be protected with no windows: %+v", plans[1])
	}
}

func TestHitRegionMatchesWindows(t *testing.T) {
	meta := testsupport.SampleMeta("ws-1")
	tf := halfScale()
	plan := overlay.New().Compose(meta, 1, tf)

	for _, window := range plan.Windows {
		cx := window.Rect.Left + window.Rect.Width/2
		cy := window.Rect.Top + window.Rect.Height/2
		region, ok := overlay.HitRegion(meta, 1, tf, cx, cy)
		if !ok || region.ID != window.RegionID {
			t.Fatalf("center of window %s resolved to %q, ok=%v", window.RegionID, region.ID, ok)
		}
	}

	if _, ok := overlay.HitRegion(meta, 1, tf, 0, 0); ok {
		t.Fatal("point outside every window must not hit")
	}
}
