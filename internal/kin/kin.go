// Package kin builds four-momenta from tracks under a mass hypothesis.
package kin

import (
	"math"

	"go-hep.org/x/hep/fmom"

	"github.com/decibelcooper/hcreco/internal/track"
)

// Rest masses in GeV.
const (
	PionMass  = 0.13957
	KaonMass  = 0.493677
	PhiMass   = 1.019461
	DsMass    = 1.96847
	DZeroMass = 1.86484
	DStarMass = 2.01026
)

// FromTrack returns the four-momentum of t assuming rest mass m.
func FromTrack(t track.Track, m float64) fmom.PtEtaPhiM {
	return fmom.NewPtEtaPhiM(t.Pt, t.Eta, t.Phi, m)
}

// Sum adds four-momenta component-wise.
func Sum(ps ...fmom.P4) fmom.PxPyPzE {
	var px, py, pz, e float64
	for _, p := range ps {
		px += p.Px()
		py += p.Py()
		pz += p.Pz()
		e += p.E()
	}
	return fmom.NewPxPyPzE(px, py, pz, e)
}

// DeltaR is the eta/phi distance between two directions, with the azimuthal
// difference wrapped into [-pi, pi].
func DeltaR(eta1, phi1, eta2, phi2 float64) float64 {
	deta := eta1 - eta2
	dphi := math.Remainder(phi1-phi2, 2*math.Pi)
	return math.Hypot(deta, dphi)
}

// DeltaRP4 is DeltaR between two four-momenta.
func DeltaRP4(a, b fmom.P4) float64 {
	return DeltaR(a.Eta(), a.Phi(), b.Eta(), b.Phi())
}

// TrackDeltaR is DeltaR between a track and a four-momentum.
func TrackDeltaR(t track.Track, p fmom.P4) float64 {
	return DeltaR(t.Eta, t.Phi, p.Eta(), p.Phi())
}
