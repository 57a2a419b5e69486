// Package layout computes the transform between stored (natural) region
// coordinates and a variable-size rendered surface. The same stored region
// must land on the right pixels at any zoom or device size, so every consumer
// of region geometry (hit testing, overlay windows) derives placement from a
// single Transform value.
package layout
