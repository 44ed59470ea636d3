package reco

import (
	"iter"
	"math/rand"

	"go-hep.org/x/hep/fmom"

	"github.com/decibelcooper/hcreco/internal/kin"
	"github.com/decibelcooper/hcreco/internal/track"
	"github.com/decibelcooper/hcreco/internal/vertex"
)

// Constituent is a track with its assigned role and mass hypothesis.
type Constituent struct {
	Index    int
	Track    track.Track
	Daughter Daughter
	P4       fmom.PtEtaPhiM
}

func newConstituent(tracks []track.Track, i int, d Daughter) Constituent {
	return Constituent{
		Index:    i,
		Track:    tracks[i],
		Daughter: d,
		P4:       kin.FromTrack(tracks[i], d.Mass),
	}
}

// TwoBody is an accepted two-track resonance.
type TwoBody struct {
	// I < J index the preselected tracks in enumeration order.
	I, J     int
	Pos, Neg Constituent
	P4       fmom.PxPyPzE
	DeltaR   float64
	Sep      track.Point
	Vertex   vertex.Result
	SameSign bool
}

// Combiner enumerates track pairs forming the channel's two-body resonance.
type Combiner struct {
	Channel *Channel
	Fitter  vertex.Fitter
	// Rand assigns roles to same-sign pairs. Same-sign pairs are rejected
	// when it is nil.
	Rand *rand.Rand
	Flow *CutFlow
}

// Pairs yields every accepted two-body resonance in (i, j) order. Stopping
// the iteration stops the enumeration.
func (c *Combiner) Pairs(tracks []track.Track) iter.Seq[TwoBody] {
	return func(yield func(TwoBody) bool) {
		for i := 0; i < len(tracks); i++ {
			for j := i + 1; j < len(tracks); j++ {
				tb, ok := c.combine(tracks, i, j)
				if !ok {
					continue
				}
				if !yield(tb) {
					return
				}
			}
		}
	}
}

func (c *Combiner) combine(tracks []track.Track, i, j int) (TwoBody, bool) {
	ch := c.Channel
	tr1, tr2 := tracks[i], tracks[j]
	sameSign := tr1.Charge*tr2.Charge >= 0
	c.Flow.pass(StagePairs, sameSign)

	if tr1.Pt < ch.PairMinPt || tr2.Pt < ch.PairMinPt {
		return TwoBody{}, false
	}
	dr := kin.DeltaR(tr1.Eta, tr1.Phi, tr2.Eta, tr2.Phi)
	if dr > ch.PairDeltaR {
		return TwoBody{}, false
	}
	sep := track.Separation(tr1.Ref, tr2.Ref)
	if !sep.Within(ch.PairSep) {
		return TwoBody{}, false
	}
	c.Flow.pass(StagePairGeometry, sameSign)

	pos, neg := i, j
	switch {
	case tr1.Charge > 0 && tr2.Charge < 0:
	case tr1.Charge < 0 && tr2.Charge > 0:
		pos, neg = j, i
	default:
		if !ch.AllowSameSign || c.Rand == nil {
			return TwoBody{}, false
		}
		if c.Rand.Intn(2) == 1 {
			pos, neg = j, i
		}
	}
	c.Flow.pass(StagePairCharge, sameSign)

	p, n, p4, ok := c.resolve(tracks, pos, neg)
	if !ok {
		return TwoBody{}, false
	}
	if p.Track.Pt < p.Daughter.MinPt || n.Track.Pt < n.Daughter.MinPt {
		return TwoBody{}, false
	}
	c.Flow.pass(StageTwoBodyMass, sameSign)

	vtx := c.Fitter.Fit([]track.Track{tr1, tr2})
	c.Flow.fit()
	if !acceptVertex(vtx, ch.MaxNormChi2) {
		return TwoBody{}, false
	}
	c.Flow.pass(StageTwoBodyVertex, sameSign)

	return TwoBody{
		I:        i,
		J:        j,
		Pos:      p,
		Neg:      n,
		P4:       p4,
		DeltaR:   dr,
		Sep:      sep,
		Vertex:   vtx,
		SameSign: sameSign,
	}, true
}

// resolve picks the mass hypothesis of the pair. With distinct daughter
// masses both role assignments are tried and the one strictly closer to the
// resonance mass wins, provided it is inside the window.
func (c *Combiner) resolve(tracks []track.Track, pos, neg int) (p, n Constituent, p4 fmom.PxPyPzE, ok bool) {
	ch := c.Channel
	hyps := [][2]Daughter{{ch.First, ch.Second}}
	if !ch.SingleHypothesis() {
		hyps = append(hyps, [2]Daughter{ch.Second, ch.First})
	}

	ps := make([]Constituent, len(hyps))
	ns := make([]Constituent, len(hyps))
	sums := make([]fmom.PxPyPzE, len(hyps))
	for k, h := range hyps {
		ps[k] = newConstituent(tracks, pos, h[0])
		ns[k] = newConstituent(tracks, neg, h[1])
		sums[k] = kin.Sum(&ps[k].P4, &ns[k].P4)
	}

	for k := range hyps {
		d := ch.TwoBody.Dist(sums[k].M())
		if d > ch.TwoBody.HalfWidth {
			continue
		}
		if len(hyps) == 2 && d >= ch.TwoBody.Dist(sums[1-k].M()) {
			continue
		}
		return ps[k], ns[k], sums[k], true
	}
	return Constituent{}, Constituent{}, fmom.PxPyPzE{}, false
}

func acceptVertex(r vertex.Result, maxNormChi2 float64) bool {
	return r.Valid && r.NormChi2 >= 0 && r.NormChi2 <= maxNormChi2
}
