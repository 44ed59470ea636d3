// Package track holds the reconstructed charged-track model and the
// preselection applied before any combinatorics.
package track

import "math"

// DefaultMinPt is the transverse momentum floor (GeV) of the preselection.
const DefaultMinPt = 0.3

// Point is a position in cm.
type Point struct {
	X, Y, Z float64
}

// Separation returns the per-axis absolute distance between a and b.
func Separation(a, b Point) Point {
	return Point{
		X: math.Abs(a.X - b.X),
		Y: math.Abs(a.Y - b.Y),
		Z: math.Abs(a.Z - b.Z),
	}
}

// Within reports whether no axis of p exceeds the matching axis of caps.
func (p Point) Within(caps Point) bool {
	return p.X <= caps.X && p.Y <= caps.Y && p.Z <= caps.Z
}

// Track is a charged-particle trajectory. Tracks are treated as immutable
// once they leave the event source.
type Track struct {
	Pt, Eta, Phi float64
	Charge       int
	Ref          Point
	HighPurity   bool

	// Source is the index of the input collection the track came from.
	Source int
}

// Direction returns the unit momentum direction.
func (t Track) Direction() (x, y, z float64) {
	ch := math.Cosh(t.Eta)
	return math.Cos(t.Phi) / ch, math.Sin(t.Phi) / ch, math.Tanh(t.Eta)
}

// Merge concatenates collections in order of first encounter.
func Merge(collections ...[]Track) []Track {
	n := 0
	for _, c := range collections {
		n += len(c)
	}
	all := make([]Track, 0, n)
	for i, c := range collections {
		for _, t := range c {
			t.Source = i
			all = append(all, t)
		}
	}
	return all
}

// Preselect keeps high-purity tracks with pt of at least minPt, preserving
// input order.
func Preselect(tracks []Track, minPt float64) []Track {
	var selected []Track
	for _, t := range tracks {
		if !t.HighPurity {
			continue
		}
		if t.Pt < minPt {
			continue
		}
		selected = append(selected, t)
	}
	return selected
}
