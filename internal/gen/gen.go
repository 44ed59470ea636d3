// Package gen walks generator-level decay trees to find the reference
// particles of a targeted decay chain.
package gen

import "github.com/decibelcooper/hcreco/internal/kin"

// PDG codes used by the decay-chain walks.
const (
	PDGCharm  = 4
	PDGHiggs  = 25
	PDGPion   = 211
	PDGKaon   = 321
	PDGDPlus  = 411
	PDGDZero  = 421
	PDGDStar  = 413
	PDGDs     = 431
	PDGPhi    = 333
	PDGProton = 2212
)

// dedupeDeltaR is the angular distance under which two hadrons with the
// same PDG code found in one quark-pair walk are taken to be the same
// particle listed twice.
const dedupeDeltaR = 0.05

// Particle is one generator-level particle. Mothers and Daughters index into
// the owning Event.
type Particle struct {
	PDG          int
	Status       int
	Charge       float64
	Pt, Eta, Phi float64
	Mothers      []int
	Daughters    []int
}

// Event is an index-addressed list of generator particles.
type Event []Particle

// Ref is the reference kinematics of one particle in a Bundle.
type Ref struct {
	PDG          int
	Pt, Eta, Phi float64
	Charge       float64
}

// Bundle maps role labels (e.g. "K", "Pi1") to the reference particles of one
// decay instance.
type Bundle map[string]Ref

func (ev Event) ref(i int) Ref {
	p := ev[i]
	return Ref{PDG: p.PDG, Pt: p.Pt, Eta: p.Eta, Phi: p.Phi, Charge: p.Charge}
}

func (ev Event) valid(i int) bool {
	return i >= 0 && i < len(ev)
}

func (ev Event) absPDG(i int) int {
	return abs(ev[i].PDG)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// FirstMother returns the index of the first listed mother of i, or -1.
func (ev Event) FirstMother(i int) int {
	for _, m := range ev[i].Mothers {
		if ev.valid(m) {
			return m
		}
	}
	return -1
}

// Mother returns the first mother of i that is not a copy of i itself, or -1.
func (ev Event) Mother(i int) int {
	seen := map[int]bool{i: true}
	cur := i
	for {
		m := ev.FirstMother(cur)
		if m < 0 || seen[m] {
			return -1
		}
		if ev[m].PDG != ev[i].PDG {
			return m
		}
		seen[m] = true
		cur = m
	}
}

// MotherPDG returns the PDG code of Mother(i), or 0 without one.
func (ev Event) MotherPDG(i int) int {
	m := ev.Mother(i)
	if m < 0 {
		return 0
	}
	return ev[m].PDG
}

// IsLastCopy reports whether no daughter of i carries the same PDG code.
func (ev Event) IsLastCopy(i int) bool {
	for _, d := range ev[i].Daughters {
		if ev.valid(d) && ev[d].PDG == ev[i].PDG {
			return false
		}
	}
	return true
}

// LastCopy follows same-PDG daughters down to the last copy of i.
func (ev Event) LastCopy(i int) int {
	seen := map[int]bool{}
	for !seen[i] {
		seen[i] = true
		next := -1
		for _, d := range ev[i].Daughters {
			if ev.valid(d) && ev[d].PDG == ev[i].PDG {
				next = d
				break
			}
		}
		if next < 0 {
			return i
		}
		i = next
	}
	return i
}

// Daughters returns the valid daughter indices of i.
func (ev Event) Daughters(i int) []int {
	var ds []int
	for _, d := range ev[i].Daughters {
		if ev.valid(d) {
			ds = append(ds, d)
		}
	}
	return ds
}

// HardScatter returns the last copies whose mother is a proton.
func (ev Event) HardScatter() []int {
	var res []int
	for i := range ev {
		if !ev.IsLastCopy(i) {
			continue
		}
		if abs(ev.MotherPDG(i)) != PDGProton {
			continue
		}
		res = append(res, i)
	}
	return res
}

// isHadron reports whether the PDG code denotes a hadron rather than a
// parton or a generator-internal object (strings, clusters).
func isHadron(pdg int) bool {
	return abs(pdg) >= 100
}

// QuarkPairDaughters returns the first hadrons produced downstream of the
// quarks q1 and q2, each resolved to its last copy. The walk keeps a visited
// set so shared string/cluster objects are expanded once. Duplicated
// daughter listings are removed on a best-effort basis: a hadron is dropped
// when one with the same PDG code was already collected within a ΔR of 0.05.
func (ev Event) QuarkPairDaughters(q1, q2 int) []int {
	var res []int
	visited := map[int]bool{}
	work := []int{q1, q2}
	for len(work) > 0 {
		i := work[0]
		work = work[1:]
		if !ev.valid(i) || visited[i] {
			continue
		}
		visited[i] = true

		if i != q1 && i != q2 && isHadron(ev[i].PDG) {
			h := ev.LastCopy(i)
			if !ev.duplicate(res, h) {
				res = append(res, h)
			}
			continue
		}
		work = append(work, ev.Daughters(i)...)
	}
	return res
}

func (ev Event) duplicate(found []int, i int) bool {
	for _, j := range found {
		if j == i {
			return true
		}
		if ev[j].PDG != ev[i].PDG {
			continue
		}
		if kin.DeltaR(ev[j].Eta, ev[j].Phi, ev[i].Eta, ev[i].Phi) < dedupeDeltaR {
			return true
		}
	}
	return false
}

// isCharmHadron reports whether pdg is a charmed meson or baryon.
func isCharmHadron(pdg int) bool {
	a := abs(pdg)
	return (a > 400 && a < 500) || (a > 4000 && a < 5000)
}
