package telemetry

import "math"

// RangeNormalizer tracks the observed min and max of a value stream and maps
// values into [0,1] over that range. The zero value is not ready; use
// NewRangeNormalizer.
type RangeNormalizer struct {
	min, max float64
}

func NewRangeNormalizer() *RangeNormalizer {
	r := &RangeNormalizer{}
	r.Reset()
	return r
}

// Reset forgets the observed range.
func (r *RangeNormalizer) Reset() {
	r.min = math.Inf(1)
	r.max = math.Inf(-1)
}

// Update widens the range to include v.
func (r *RangeNormalizer) Update(v float64) {
	r.min = math.Min(r.min, v)
	r.max = math.Max(r.max, v)
}

// Range returns max-min, or 0 before two distinct values are seen.
func (r *RangeNormalizer) Range() float64 {
	if r.max < r.min {
		return 0
	}
	return r.max - r.min
}

// Normalize maps v into the observed range. It returns 0 when the range is
// empty.
func (r *RangeNormalizer) Normalize(v float64) float64 {
	span := r.Range()
	if span == 0 {
		return 0
	}
	return (v - r.min) / span
}

// UpdateAndNormalize is Update followed by Normalize.
func (r *RangeNormalizer) UpdateAndNormalize(v float64) float64 {
	r.Update(v)
	return r.Normalize(v)
}

// CenterOfPressureNormalizer normalizes each axis of a center of pressure
// independently.
type CenterOfPressureNormalizer struct {
	x, y *RangeNormalizer
}

func NewCenterOfPressureNormalizer() *CenterOfPressureNormalizer {
	return &CenterOfPressureNormalizer{x: NewRangeNormalizer(), y: NewRangeNormalizer()}
}

func (c *CenterOfPressureNormalizer) Reset() {
	c.x.Reset()
	c.y.Reset()
}

func (c *CenterOfPressureNormalizer) UpdateAndNormalize(v Vector2) Vector2 {
	return Vector2{X: c.x.UpdateAndNormalize(v.X), Y: c.y.UpdateAndNormalize(v.Y)}
}
