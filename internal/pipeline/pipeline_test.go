package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibelcooper/hcreco/internal/config"
	"github.com/decibelcooper/hcreco/internal/gen"
	"github.com/decibelcooper/hcreco/internal/kin"
	"github.com/decibelcooper/hcreco/internal/output"
	"github.com/decibelcooper/hcreco/internal/reco"
	"github.com/decibelcooper/hcreco/internal/source"
	"github.com/decibelcooper/hcreco/internal/track"
	"github.com/decibelcooper/hcreco/internal/vertex"
)

type fitter struct{}

func (fitter) Fit(tracks []track.Track) vertex.Result {
	return vertex.Result{Valid: true, Position: tracks[0].Ref}
}

type memWriter struct {
	records []output.Record
	closed  bool
}

func (w *memWriter) Write(rec output.Record) error {
	w.records = append(w.records, rec)
	return nil
}

func (w *memWriter) Close() error {
	w.closed = true
	return nil
}

const eta, phi = 0.5, 0.3

var (
	kPlus  = track.Track{Pt: 2, Eta: eta, Phi: phi, Charge: 1, HighPurity: true}
	kMinus = track.Track{Pt: 1, Eta: eta, Phi: phi, Charge: -1, HighPurity: true}
	pion   = track.Track{Pt: 0.5, Eta: eta, Phi: phi, Charge: 1, HighPurity: true}
	junk   = track.Track{Pt: 5, Eta: -1, Phi: 2, Charge: 1}
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	ch, err := reco.Preset("DsMeson")
	require.NoError(t, err)
	k1, k2 := kin.FromTrack(kPlus, kin.KaonMass), kin.FromTrack(kMinus, kin.KaonMass)
	pi := kin.FromTrack(pion, kin.PionMass)
	two := kin.Sum(&k1, &k2)
	final := kin.Sum(&k1, &k2, &pi)
	ch.TwoBody.Mass = two.M()
	ch.Final.Mass = final.M()

	cfg := config.Default()
	cfg.Workers = 4
	cfg.BatchSize = 3
	cfg.Channels = []config.Channel{{Channel: ch}}
	return cfg
}

func dsDecay() gen.Event {
	return gen.Event{
		{PDG: gen.PDGProton},
		{PDG: gen.PDGDs, Mothers: []int{0}, Daughters: []int{2, 3}},
		{PDG: gen.PDGPhi, Mothers: []int{1}, Daughters: []int{4, 5}},
		{PDG: gen.PDGPion, Charge: 1, Pt: 0.5, Eta: eta, Phi: phi, Mothers: []int{1}},
		{PDG: gen.PDGKaon, Charge: 1, Pt: 2, Eta: eta, Phi: phi, Mothers: []int{2}},
		{PDG: -gen.PDGKaon, Charge: -1, Pt: 1, Eta: eta, Phi: phi, Mothers: []int{2}},
	}
}

func events(n int) *source.Slice {
	src := &source.Slice{}
	for i := 0; i < n; i++ {
		ev := &source.Event{
			Run:    1,
			Number: int64(i + 1),
			Tracks: [][]track.Track{{kPlus, junk}, {kMinus, pion}},
		}
		if i%2 == 0 {
			ev.Gen = dsDecay()
			ev.HasGen = true
		}
		src.Events = append(src.Events, ev)
	}
	return src
}

func TestRunWritesInOrder(t *testing.T) {
	p, err := New(testConfig(t))
	require.NoError(t, err)
	p.Factory = func() vertex.Fitter { return fitter{} }

	out := &memWriter{}
	sum, err := p.Run(context.Background(), events(10), out)
	require.NoError(t, err)

	require.Len(t, out.records, 10)
	for i, rec := range out.records {
		assert.Equal(t, int64(i+1), rec.Event)

		var ds, decayType, bundles bool
		for _, tab := range rec.Tables {
			switch tab.Name {
			case "DsMeson":
				ds = true
				require.Equal(t, 1, tab.Rows())
				assert.Equal(t, i%2 == 0, tab.Column("hasFastGenmatch").Bools[0])
				assert.Equal(t, i%2 == 0, tab.Column("hasFastPartialGenmatch").Bools[0])
			case "DsMesonGenDecayType":
				decayType = true
				assert.Equal(t, int64(1), tab.Column("decayType").Ints[0])
			case "DsMesonGen":
				bundles = true
				assert.Equal(t, 1, tab.Rows())
			}
		}
		assert.True(t, ds)
		assert.Equal(t, i%2 == 0, decayType)
		assert.Equal(t, i%2 == 0, bundles)
	}

	assert.Equal(t, 10, sum.Events)
	assert.Equal(t, 5, sum.EventsNoGen)
	assert.Equal(t, 10, sum.Candidates["DsMeson"])
	assert.Equal(t, 10, sum.CutFlows["DsMeson"].OS[reco.StageFinalVertex])
	assert.Equal(t, 20, sum.CutFlows["DsMeson"].Fits)
	assert.NotPanics(t, sum.Log)
}

func TestRunMaxEvents(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxEvents = 4
	p, err := New(cfg)
	require.NoError(t, err)
	p.Factory = func() vertex.Fitter { return fitter{} }

	out := &memWriter{}
	sum, err := p.Run(context.Background(), events(10), out)
	require.NoError(t, err)
	assert.Len(t, out.records, 4)
	assert.Equal(t, 4, sum.Events)
}

func TestRunCancelled(t *testing.T) {
	p, err := New(testConfig(t))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Run(ctx, events(3), &memWriter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessTruthDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Truth.Enabled = false
	p, err := New(cfg)
	require.NoError(t, err)
	p.Factory = func() vertex.Fitter { return fitter{} }

	res := p.Process(events(1).Events[0])
	require.Len(t, res.Record.Tables, 1)
	assert.False(t, res.Record.Tables[0].Column("hasFastGenmatch").Bools[0])
	assert.False(t, res.NoGen)
}

func TestProcessSameSignIsReproducible(t *testing.T) {
	cfg := testConfig(t)
	cfg.Channels[0].AllowSameSign = true
	p, err := New(cfg)
	require.NoError(t, err)
	p.Factory = func() vertex.Fitter { return fitter{} }

	ev := &source.Event{Run: 3, Number: 9, Tracks: [][]track.Track{{kPlus, kPlus, kMinus, pion, pion}}}
	a := p.Process(ev)
	b := p.Process(ev)
	assert.Equal(t, a.Record, b.Record)
	assert.NotZero(t, a.Flows[0].SS[reco.StagePairs])
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Workers = 0
	_, err := New(cfg)
	assert.Error(t, err)
}
