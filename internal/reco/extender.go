package reco

import (
	"iter"

	"go-hep.org/x/hep/fmom"

	"github.com/decibelcooper/hcreco/internal/kin"
	"github.com/decibelcooper/hcreco/internal/track"
	"github.com/decibelcooper/hcreco/internal/truth"
	"github.com/decibelcooper/hcreco/internal/vertex"
)

// Candidate is one accepted three-track decay hypothesis.
type Candidate struct {
	TwoBody TwoBody
	Ext     Constituent
	P4      fmom.PxPyPzE
	// ExtDeltaR and ExtSep relate the extension track to the two-body
	// direction and vertex.
	ExtDeltaR float64
	ExtSep    track.Point
	Vertex    vertex.Result
	Truth     truth.Result
}

// MassDiff is the final-state mass minus the two-body mass.
func (c *Candidate) MassDiff() float64 {
	return c.P4.M() - c.TwoBody.P4.M()
}

// Role returns the constituent carrying the given role.
func (c *Candidate) Role(role string) (Constituent, bool) {
	for _, cs := range []Constituent{c.TwoBody.Pos, c.TwoBody.Neg, c.Ext} {
		if cs.Daughter.Role == role {
			return cs, true
		}
	}
	return Constituent{}, false
}

// Constituents returns the track directions by truth-matching slot.
func (c *Candidate) Constituents() truth.Constituents {
	dir := func(t track.Track) truth.Direction {
		return truth.Direction{Eta: t.Eta, Phi: t.Phi}
	}
	return truth.Constituents{
		truth.Pos: dir(c.TwoBody.Pos.Track),
		truth.Neg: dir(c.TwoBody.Neg.Track),
		truth.Ext: dir(c.Ext.Track),
	}
}

// Extender adds a third track to accepted two-body resonances.
type Extender struct {
	Channel *Channel
	Fitter  vertex.Fitter
	Flow    *CutFlow
}

// Extend yields every candidate built from tb and one further track, in
// track order.
func (e *Extender) Extend(tracks []track.Track, tb TwoBody) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for k := range tracks {
			if k == tb.I || k == tb.J {
				continue
			}
			c, ok := e.extend(tracks, tb, k)
			if !ok {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

func (e *Extender) extend(tracks []track.Track, tb TwoBody, k int) (Candidate, bool) {
	ch := e.Channel
	tr3 := tracks[k]
	e.Flow.pass(StageTriplets, tb.SameSign)

	if tr3.Pt < ch.Third.MinPt {
		return Candidate{}, false
	}
	dr := kin.TrackDeltaR(tr3, &tb.P4)
	if dr > ch.Cone {
		return Candidate{}, false
	}
	sep := track.Separation(tr3.Ref, tb.Vertex.Position)
	if !sep.Within(ch.VertexSep) {
		return Candidate{}, false
	}
	e.Flow.pass(StageTripletGeometry, tb.SameSign)

	ext := newConstituent(tracks, k, ch.Third)
	p4 := kin.Sum(&tb.P4, &ext.P4)
	if !ch.Final.Contains(p4.M()) {
		return Candidate{}, false
	}
	e.Flow.pass(StageFinalMass, tb.SameSign)

	vtx := e.Fitter.Fit([]track.Track{tracks[tb.I], tracks[tb.J], tr3})
	e.Flow.fit()
	if !acceptVertex(vtx, ch.MaxNormChi2) {
		return Candidate{}, false
	}
	e.Flow.pass(StageFinalVertex, tb.SameSign)

	return Candidate{
		TwoBody:   tb,
		Ext:       ext,
		P4:        p4,
		ExtDeltaR: dr,
		ExtSep:    sep,
		Vertex:    vtx,
	}, true
}
