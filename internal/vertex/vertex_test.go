package vertex

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibelcooper/hcreco/internal/track"
)

func TestLineFitterIntersection(t *testing.T) {
	tracks := []track.Track{
		{Pt: 1, Eta: 0, Phi: 0, Ref: track.Point{X: 5}},
		{Pt: 1, Eta: 0, Phi: math.Pi / 2, Ref: track.Point{Y: 3}},
	}

	res := NewLineFitter(0.01).Fit(tracks)
	require.True(t, res.Valid)
	assert.InDelta(t, 0, res.Position.X, 1e-9)
	assert.InDelta(t, 0, res.Position.Y, 1e-9)
	assert.InDelta(t, 0, res.Position.Z, 1e-9)
	assert.InDelta(t, 0, res.NormChi2, 1e-9)
}

func TestLineFitterSkewLines(t *testing.T) {
	tracks := []track.Track{
		{Pt: 1, Eta: 0, Phi: 0, Ref: track.Point{X: 5}},
		{Pt: 1, Eta: 0, Phi: math.Pi / 2, Ref: track.Point{Y: 3, Z: 0.2}},
	}

	res := NewLineFitter(0.1).Fit(tracks)
	require.True(t, res.Valid)
	assert.InDelta(t, 0.1, res.Position.Z, 1e-9)
	// two residuals of 0.1 over a resolution of 0.1, one degree of freedom
	assert.InDelta(t, 2, res.NormChi2, 1e-9)
}

func TestLineFitterThreeTracks(t *testing.T) {
	vtx := track.Point{X: 0.3, Y: -0.2, Z: 1.5}
	var tracks []track.Track
	for _, dir := range []struct{ eta, phi float64 }{{0.2, 0.1}, {0.5, 0.3}, {-0.1, 0.25}} {
		tr := track.Track{Pt: 1, Eta: dir.eta, Phi: dir.phi}
		x, y, z := tr.Direction()
		// move the reference point along the line so it is not the vertex itself
		tr.Ref = track.Point{X: vtx.X + 2*x, Y: vtx.Y + 2*y, Z: vtx.Z + 2*z}
		tracks = append(tracks, tr)
	}

	res := NewLineFitter(0).Fit(tracks)
	require.True(t, res.Valid)
	assert.InDelta(t, vtx.X, res.Position.X, 1e-6)
	assert.InDelta(t, vtx.Y, res.Position.Y, 1e-6)
	assert.InDelta(t, vtx.Z, res.Position.Z, 1e-6)
	assert.InDelta(t, 0, res.NormChi2, 1e-6)
}

func TestLineFitterRejectsDegenerateInput(t *testing.T) {
	parallel := []track.Track{
		{Pt: 1, Eta: 0.3, Phi: 1, Ref: track.Point{}},
		{Pt: 2, Eta: 0.3, Phi: 1, Ref: track.Point{X: 0.01}},
	}
	assert.False(t, NewLineFitter(0.01).Fit(parallel).Valid)
	assert.False(t, NewLineFitter(0.01).Fit(parallel[:1]).Valid)
}

func TestLineFitterCoincidentParallelTracks(t *testing.T) {
	ref := track.Point{X: 0.1, Y: 0.2, Z: 0.3}
	same := []track.Track{
		{Pt: 1, Eta: 0.3, Phi: 1, Ref: ref},
		{Pt: 2, Eta: 0.3, Phi: 1, Ref: ref},
	}
	res := NewLineFitter(0.01).Fit(same)
	require.True(t, res.Valid)
	assert.InDelta(t, ref.X, res.Position.X, 1e-9)
	assert.InDelta(t, ref.Y, res.Position.Y, 1e-9)
	assert.InDelta(t, ref.Z, res.Position.Z, 1e-9)
	assert.InDelta(t, 0, res.NormChi2, 1e-9)

	// reference points further along the same line
	ux, uy, uz := same[0].Direction()
	along := append(same, track.Track{Pt: 3, Eta: 0.3, Phi: 1,
		Ref: track.Point{X: ref.X + 0.6*ux, Y: ref.Y + 0.6*uy, Z: ref.Z + 0.6*uz}})
	res = NewLineFitter(0.01).Fit(along)
	require.True(t, res.Valid)
	assert.InDelta(t, ref.X+0.2*ux, res.Position.X, 1e-9)
	assert.InDelta(t, ref.Z+0.2*uz, res.Position.Z, 1e-9)
	assert.InDelta(t, 0, res.NormChi2, 1e-9)
}
