// Package truth matches reconstructed candidates to generator-level
// reference decays by direction.
package truth

import (
	"github.com/decibelcooper/hcreco/internal/gen"
	"github.com/decibelcooper/hcreco/internal/kin"
)

// DefaultThreshold is the angular distance below which a track and a
// reference particle are considered to match.
const DefaultThreshold = 0.05

// Direction is a point in the eta/phi plane.
type Direction struct {
	Eta, Phi float64
}

// Match reports whether a and b are closer than threshold. It is symmetric
// in a and b.
func Match(a, b Direction, threshold float64) bool {
	return kin.DeltaR(a.Eta, a.Phi, b.Eta, b.Phi) < threshold
}

// Slot identifies a constituent of a three-track candidate.
type Slot int

const (
	Pos Slot = iota // positive two-body daughter
	Neg             // negative two-body daughter
	Ext             // extension track

	NumSlots
)

func (s Slot) String() string {
	switch s {
	case Pos:
		return "pos"
	case Neg:
		return "neg"
	case Ext:
		return "ext"
	}
	return "unknown"
}

// Constituents holds the candidate track directions by slot.
type Constituents [NumSlots]Direction

// Assignment maps each slot to a reference label of a gen.Bundle.
type Assignment struct {
	Pos string `yaml:"pos"`
	Neg string `yaml:"neg"`
	Ext string `yaml:"ext"`
}

// Label returns the reference label assigned to s.
func (a Assignment) Label(s Slot) string {
	switch s {
	case Pos:
		return a.Pos
	case Neg:
		return a.Neg
	case Ext:
		return a.Ext
	}
	return ""
}

// Result holds the truth-match flags of one candidate.
type Result struct {
	Full    bool
	Partial bool
}

// Matcher evaluates candidates against reference bundles. Every assignment
// is tried on every bundle, so charge-ambiguous roles are covered by listing
// both permutations.
type Matcher struct {
	Threshold   float64
	Assignments []Assignment
}

// Match computes the flags of c. A full match needs one bundle and one
// assignment under which every slot matches; a partial match needs a single
// slot to match anywhere. Labels missing from a bundle never match.
func (m Matcher) Match(c Constituents, bundles []gen.Bundle) Result {
	var res Result
	for _, b := range bundles {
		for _, a := range m.Assignments {
			all := true
			for s := Pos; s < NumSlots; s++ {
				ref, ok := b[a.Label(s)]
				if ok && Match(c[s], Direction{Eta: ref.Eta, Phi: ref.Phi}, m.Threshold) {
					res.Partial = true
					continue
				}
				all = false
			}
			if all {
				res.Full = true
				return res
			}
		}
	}
	return res
}
