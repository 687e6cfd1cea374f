// Package world holds the playfield geometry and the random source shared
// by entities, particles and spawners.
package world

import "github.com/valyala/fastrand"

// Field is the playfield. The band above Top belongs to the HUD.
type Field struct {
	Width  float64
	Height float64
	Top    float64
}

// Rand yields uniform values in [0, 1).
type Rand interface {
	Float64() float64
}

// FastRand is the default Rand backed by fastrand.
type FastRand struct{}

func (FastRand) Float64() float64 {
	return float64(fastrand.Uint32n(1<<24)) / (1 << 24)
}

// Intn returns a value in [0, n) drawn from r.
func Intn(r Rand, n int) int {
	if n <= 0 {
		return 0
	}
	v := int(r.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Between returns a value in [lo, hi) drawn from r.
func Between(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Contains reports whether (px, py) lies in the square at (x, y) with the
// given size.
func Contains(x, y, size, px, py float64) bool {
	return px >= x && px <= x+size && py >= y && py <= y+size
}
