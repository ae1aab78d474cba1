package telemetry

import "testing"

func TestRangeNormalizer(t *testing.T) {
	r := NewRangeNormalizer()
	if got := r.UpdateAndNormalize(5); got != 0 {
		t.Errorf("first value = %v, want 0", got)
	}
	r.Update(15)
	tests := []struct {
		in, want float64
	}{
		{5, 0},
		{10, 0.5},
		{15, 1},
	}
	for _, tt := range tests {
		if got := r.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	r.Reset()
	if r.Range() != 0 {
		t.Errorf("Range after Reset = %v", r.Range())
	}
}

func TestCenterOfPressureNormalizer(t *testing.T) {
	c := NewCenterOfPressureNormalizer()
	c.UpdateAndNormalize(Vector2{0.2, 0.4})
	c.UpdateAndNormalize(Vector2{0.6, 0.8})
	got := c.UpdateAndNormalize(Vector2{0.4, 0.8})
	if got.X < 0.49 || got.X > 0.51 || got.Y != 1 {
		t.Errorf("normalized = %+v, want (0.5, 1)", got)
	}
}
