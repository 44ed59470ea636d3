package source

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/lcio"

	"github.com/decibelcooper/hcreco/internal/config"
)

func TestSlice(t *testing.T) {
	s := &Slice{Events: []*Event{{Number: 1}, {Number: 2}}}
	for _, want := range []int64{1, 2} {
		ev, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, want, ev.Number)
	}
	_, err := s.Next()
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, s.Close())
}

func TestOpenUnknownFormat(t *testing.T) {
	_, err := Open("x", config.Input{Format: "root"})
	assert.Error(t, err)
}

func TestLCIOTrackConversion(t *testing.T) {
	in := config.Default().Input
	s := &LCIO{in: in}

	omega := -ptPerTeslaMM * in.FieldTesla / 2
	trk := lcio.Track{
		Chi2: 12,
		NdF:  4,
		States: []lcio.TrackState{{
			D0:    1,
			Phi:   0.3,
			Omega: float32(omega),
			Z0:    -2,
			TanL:  float32(math.Sinh(0.5)),
			Ref:   [3]float32{0, 0, 10},
		}},
	}
	got, ok := s.convertTrack(&trk)
	require.True(t, ok)
	assert.InDelta(t, 2, got.Pt, 1e-5)
	assert.InDelta(t, 0.5, got.Eta, 1e-6)
	assert.InDelta(t, 0.3, got.Phi, 1e-6)
	assert.Equal(t, -1, got.Charge)
	assert.InDelta(t, -0.1*math.Sin(0.3), got.Ref.X, 1e-6)
	assert.InDelta(t, 0.1*math.Cos(0.3), got.Ref.Y, 1e-6)
	assert.InDelta(t, 0.8, got.Ref.Z, 1e-6)
	assert.True(t, got.HighPurity)

	trk.Chi2 = 100
	got, _ = s.convertTrack(&trk)
	assert.False(t, got.HighPurity)

	trk.States[0].Omega = 0
	_, ok = s.convertTrack(&trk)
	assert.False(t, ok)
}

func TestPseudorapidity(t *testing.T) {
	assert.InDelta(t, 0, pseudorapidity(1, 0), 1e-12)
	assert.InDelta(t, math.Asinh(2), pseudorapidity(1, 2), 1e-12)
	assert.True(t, math.IsInf(pseudorapidity(0, -1), -1))
}
