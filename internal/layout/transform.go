package layout

import "lectern/internal/services"

// Rect describes an axis-aligned box in a given coordinate space.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Transform maps stored natural coordinates onto a rendered surface.
// Region geometry is stored against the asset's natural pixel size; on-screen
// placement is always position*Scale plus the container offset.
type Transform struct {
	Scale      float64 `json:"scale"`
	OffsetTop  float64 `json:"offsetTop"`
	OffsetLeft float64 `json:"offsetLeft"`
}

// Identity is the transform for a surface rendered at natural size with no
// container offset.
var Identity = Transform{Scale: 1}

// Recompute derives the transform for the current rendered surface. Callers
// must invoke it again on surface resize, page or document load, and pixel
// density changes; the computation itself is pure.
func Recompute(naturalWidth, naturalHeight float64, rendered, container Rect) (Transform, error) {
	if naturalWidth <= 0 || naturalHeight <= 0 {
		return Transform{}, services.Wrap(services.ErrValidation, "layout", "recompute", "natural dimensions must be positive", nil)
	}
	if rendered.Width <= 0 {
		return Transform{}, services.Wrap(services.ErrValidation, "layout", "recompute", "rendered width must be positive", nil)
	}
	return Transform{
		Scale:      rendered.Width / naturalWidth,
		OffsetTop:  rendered.Top - container.Top,
		OffsetLeft: rendered.Left - container.Left,
	}, nil
}

// Apply projects a rect stored in natural coordinates onto the rendered surface.
func (t Transform) Apply(r Rect) Rect {
	return Rect{
		Top:    r.Top*t.Scale + t.OffsetTop,
		Left:   r.Left*t.Scale + t.OffsetLeft,
		Width:  r.Width * t.Scale,
		Height: r.Height * t.Scale,
	}
}

// ApplyPoint projects a natural-coordinate point onto the rendered surface.
func (t Transform) ApplyPoint(x, y float64) (float64, float64) {
	return x*t.Scale + t.OffsetLeft, y*t.Scale + t.OffsetTop
}

// Invert maps a rendered-surface point back into natural coordinates, used to
// hit-test pointer events against stored region geometry.
func (t Transform) Invert(x, y float64) (float64, float64) {
	if t.Scale == 0 {
		return 0, 0
	}
	return (x - t.OffsetLeft) / t.Scale, (y - t.OffsetTop) / t.Scale
}

// Contains reports whether the rendered-surface point (x, y) falls inside the
// natural-coordinate rect r under the transform.
func (t Transform) Contains(r Rect, x, y float64) bool {
	nx, ny := t.Invert(x, y)
	return nx >= r.Left && nx < r.Left+r.Width && ny >= r.Top && ny < r.Top+r.Height
}
