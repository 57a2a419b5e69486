// Package overlay composes the protection layer drawn over rendered
// worksheet pages: a blurred base with clear windows cut out over each
// interactive region. Windows and hit-testing share one transform, so a
// point inside a clear window always resolves to the region beneath it.
package overlay
