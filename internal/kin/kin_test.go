package kin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/decibelcooper/hcreco/internal/track"
)

func TestSumInvariantMass(t *testing.T) {
	// back-to-back kaons at rest in the transverse plane
	p := 0.2
	k1 := FromTrack(track.Track{Pt: p, Eta: 0, Phi: 0}, KaonMass)
	k2 := FromTrack(track.Track{Pt: p, Eta: 0, Phi: math.Pi}, KaonMass)

	sum := Sum(&k1, &k2)
	want := 2 * math.Sqrt(p*p+KaonMass*KaonMass)
	assert.InDelta(t, want, sum.M(), 1e-9)
	assert.InDelta(t, 0, sum.Pt(), 1e-9)
}

func TestDeltaRWrapsAzimuth(t *testing.T) {
	tests := []struct {
		name                   string
		eta1, phi1, eta2, phi2 float64
		want                   float64
	}{
		{"same direction", 0.5, 1, 0.5, 1, 0},
		{"eta only", 0.5, 1, 0.2, 1, 0.3},
		{"across pi", 0, math.Pi - 0.1, 0, -math.Pi + 0.1, 0.2},
		{"both", 1, 0.3, 1.3, -0.1, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DeltaR(tt.eta1, tt.phi1, tt.eta2, tt.phi2), 1e-9)
			assert.InDelta(t, tt.want, DeltaR(tt.eta2, tt.phi2, tt.eta1, tt.phi1), 1e-9)
		})
	}
}

func TestTrackDeltaR(t *testing.T) {
	tr := track.Track{Pt: 1, Eta: 0.4, Phi: 2}
	p := FromTrack(track.Track{Pt: 3, Eta: 0.4, Phi: 2}, PionMass)
	assert.InDelta(t, 0, TrackDeltaR(tr, &p), 1e-9)
}
