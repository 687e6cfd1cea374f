package world

import "testing"

type fixed float64

func (f fixed) Float64() float64 { return float64(f) }

func TestFastRandRange(t *testing.T) {
	t.Parallel()

	var r FastRand
	for i := 0; i < 1000; i++ {
		if v := r.Float64(); v < 0 || v >= 1 {
			t.Fatalf("value out of range: %v", v)
		}
	}
}

func TestIntn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		r    fixed
		n    int
		want int
	}{
		{0, 10, 0},
		{0.55, 10, 5},
		{0.9999999, 10, 9},
		{0.5, 0, 0},
	}
	for _, tc := range tests {
		if got := Intn(tc.r, tc.n); got != tc.want {
			t.Errorf("Intn(%v, %d) = %d want %d", tc.r, tc.n, got, tc.want)
		}
	}
}

func TestBetween(t *testing.T) {
	t.Parallel()

	tests := []struct {
		r      fixed
		lo, hi float64
		want   float64
	}{
		{0, 10, 20, 10},
		{0.5, 10, 20, 15},
		{0.25, -4, 4, -2},
	}
	for _, tc := range tests {
		if got := Between(tc.r, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Between(%v, %v, %v) = %v want %v", tc.r, tc.lo, tc.hi, got, tc.want)
		}
	}
}

func TestContains(t *testing.T) {
	t.Parallel()

	if !Contains(10, 10, 20, 15, 29) {
		t.Error("expected point inside")
	}
	if Contains(10, 10, 20, 31, 15) {
		t.Error("expected point outside")
	}
}
