package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/decibelcooper/hcreco/internal/reco"
	"github.com/decibelcooper/hcreco/internal/track"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Channels, 4)
	for _, ch := range cfg.RecoChannels() {
		assert.False(t, ch.AllowSameSign, ch.Name)
	}
}

func TestParseOverridesPreset(t *testing.T) {
	data := []byte(`
seed: 7
workers: 2
input:
  format: proio
  track_collections: [Reconstructed]
channels:
  - preset: DsMeson
    allow_same_sign: true
    max_candidates: 5
    pair_sep: {x: 0.05, y: 0.05, z: 0.2}
  - preset: DStarMeson
    name: DStarWide
    cone: 0.2
`)
	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 64, cfg.BatchSize, "untouched default")
	assert.Equal(t, []string{"Reconstructed"}, cfg.Input.TrackCollections)

	chs := cfg.RecoChannels()
	require.Len(t, chs, 2)

	ds, _ := reco.Preset("DsMeson")
	assert.Equal(t, "DsMeson", chs[0].Name)
	assert.True(t, chs[0].AllowSameSign)
	assert.Equal(t, 5, chs[0].MaxCandidates)
	assert.Equal(t, track.Point{X: 0.05, Y: 0.05, Z: 0.2}, chs[0].PairSep)
	assert.Equal(t, ds.TwoBody, chs[0].TwoBody)
	assert.Equal(t, ds.Assignments, chs[0].Assignments)

	assert.Equal(t, "DStarWide", chs[1].Name)
	assert.Equal(t, 0.2, chs[1].Cone)
	assert.Equal(t, 0.035, chs[1].TwoBody.HalfWidth)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown top-level field", "sed: 1\n"},
		{"unknown channel field", "channels:\n  - preset: DsMeson\n    windw: 1\n"},
		{"unknown preset", "channels:\n  - preset: BsMeson\n"},
		{"bad format", "input:\n  format: root\n"},
		{"no workers", "workers: 0\n"},
		{"duplicate channel", "channels:\n  - preset: DsMeson\n  - preset: DsMeson\n"},
		{"incomplete channel", "channels:\n  - name: Custom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestChannelsRoundTrip(t *testing.T) {
	cfg := Default()
	data, err := yaml.Marshal(map[string]any{"channels": cfg.Channels})
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.RecoChannels(), back.RecoChannels())
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Seed, cfg.Seed)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("truth:\n  enabled: false\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Truth.Enabled)
	assert.Equal(t, 0.05, cfg.Truth.Threshold)
}
