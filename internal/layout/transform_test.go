package layout_test

import (
	"errors"
	"math"
	"testing"

	"lectern/internal/layout"
	"lectern/internal/services"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRecomputeHalfScale(t *testing.T) {
	rendered := layout.Rect{Top: 10, Left: 20, Width: 400, Height: 500}
	container := layout.Rect{Top: 4, Left: 8, Width: 600, Height: 900}

	tf, err := layout.Recompute(800, 1000, rendered, container)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if !almostEqual(tf.Scale, 0.5) {
		t.Fatalf("scale = %v, want 0.5", tf.Scale)
	}
	if !almostEqual(tf.OffsetTop, 6) || !almostEqual(tf.OffsetLeft, 12) {
		t.Fatalf("offsets = (%v, %v), want (6, 12)", tf.OffsetTop, tf.OffsetLeft)
	}

	region := layout.Rect{Top: 100, Left: 100, Width: 50, Height: 50}
	got := tf.Apply(region)
	want := layout.Rect{Top: 50 + 6, Left: 50 + 12, Width: 25, Height: 25}
	if got != want {
		t.Fatalf("apply = %+v, want %+v", got, want)
	}
}

func TestRecomputeRejectsDegenerateInput(t *testing.T) {
	tests := []struct {
		name     string
		nw, nh   float64
		rendered layout.Rect
	}{
		{"zero natural width", 0, 1000, layout.Rect{Width: 400}},
		{"negative natural height", 800, -1, layout.Rect{Width: 400}},
		{"zero rendered width", 800, 1000, layout.Rect{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := layout.Recompute(tc.nw, tc.nh, tc.rendered, layout.Rect{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestInvertRoundTrips(t *testing.T) {
	tf := layout.Transform{Scale: 1.5, OffsetTop: 30, OffsetLeft: -12}
	x, y := tf.ApplyPoint(120, 88)
	nx, ny := tf.Invert(x, y)
	if !almostEqual(nx, 120) || !almostEqual(ny, 88) {
		t.Fatalf("round trip = (%v, %v)", nx, ny)
	}
}

func TestContains(t *testing.T) {
	tf := layout.Transform{Scale: 0.5, OffsetTop: 6, OffsetLeft: 12}
	region := layout.Rect{Top: 100, Left: 100, Width: 50, Height: 50}

	// Center of the rendered region.
	if !tf.Contains(region, 12+62.5, 6+62.5) {
		t.Fatal("expected center point inside region")
	}
	// Just outside the right edge.
	if tf.Contains(region, 12+75.1, 6+62.5) {
		t.Fatal("expected point outside region")
	}
}
