package reco

import (
	"fmt"
	"sort"

	"github.com/decibelcooper/hcreco/internal/kin"
	"github.com/decibelcooper/hcreco/internal/track"
	"github.com/decibelcooper/hcreco/internal/truth"
)

const (
	defaultMaxNormChi2   = 5
	defaultMaxCandidates = 30
)

func dsChannel() Channel {
	return Channel{
		Name:          "DsMeson",
		Resonance:     "PhiMeson",
		Tag:           "phi",
		FinalTag:      "ds",
		First:         Daughter{Role: "KPlus", Mass: kin.KaonMass},
		Second:        Daughter{Role: "KMinus", Mass: kin.KaonMass},
		Third:         Daughter{Role: "Pi", Mass: kin.PionMass},
		TwoBody:       Window{Mass: kin.PhiMass, HalfWidth: 0.07},
		Final:         Window{Mass: kin.DsMass, HalfWidth: 0.1},
		PairMinPt:     0.6,
		PairDeltaR:    0.27,
		PairSep:       track.Point{X: 0.1, Y: 0.1, Z: 0.1},
		Cone:          0.4,
		VertexSep:     track.Point{X: 0.1, Y: 0.1, Z: 0.1},
		MaxNormChi2:   defaultMaxNormChi2,
		MaxCandidates: defaultMaxCandidates,
		ChargeColumns: true,
		Decay:         "ds",
		Assignments:   []truth.Assignment{{Pos: "KPlus", Neg: "KMinus", Ext: "Pi"}},
	}
}

func dstarChannel() Channel {
	return Channel{
		Name:          "DStarMeson",
		Resonance:     "DZeroMeson",
		Tag:           "d0",
		FinalTag:      "dstar",
		First:         Daughter{Role: "K", Mass: kin.KaonMass},
		Second:        Daughter{Role: "Pi2", Mass: kin.PionMass},
		Third:         Daughter{Role: "Pi1", Mass: kin.PionMass, MinPt: 0.5},
		TwoBody:       Window{Mass: kin.DZeroMass, HalfWidth: 0.035},
		Final:         Window{Mass: kin.DStarMass, HalfWidth: 0.1},
		PairDeltaR:    0.4,
		PairSep:       track.Point{X: 0.1, Y: 0.1, Z: 0.1},
		Cone:          0.1,
		VertexSep:     track.Point{X: 0.1, Y: 0.1, Z: 0.1},
		MaxNormChi2:   defaultMaxNormChi2,
		MaxCandidates: defaultMaxCandidates,
		Decay:         "dstar",
		Assignments: []truth.Assignment{
			{Pos: "K", Neg: "Pi2", Ext: "Pi1"},
			{Pos: "Pi2", Neg: "K", Ext: "Pi1"},
		},
	}
}

var presets = map[string]func() Channel{
	"DsMeson": dsChannel,
	"HToDsMeson": func() Channel {
		c := dsChannel()
		c.Name = "HToDsMeson"
		c.PairMinPt = 1
		c.PairDeltaR = 0.2
		c.PairSep = track.Point{X: 0.02, Y: 0.02, Z: 0.05}
		c.Decay = "h-ds"
		return c
	},
	"DStarMeson": dstarChannel,
	"HToDStarMeson": func() Channel {
		c := dstarChannel()
		c.Name = "HToDStarMeson"
		c.First.MinPt = 1
		c.PairSep = track.Point{X: 0.02, Y: 0.02, Z: 0.05}
		c.ChargeColumns = true
		c.Decay = "h-dstar"
		return c
	},
}

// Preset returns a fresh copy of the named built-in channel.
func Preset(name string) (Channel, error) {
	p, ok := presets[name]
	if !ok {
		return Channel{}, fmt.Errorf("unknown channel preset %q; valid: %v", name, PresetNames())
	}
	return p(), nil
}

// PresetNames lists the built-in channels.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Presets returns all built-in channels in name order.
func Presets() []Channel {
	var chs []Channel
	for _, n := range PresetNames() {
		chs = append(chs, presets[n]())
	}
	return chs
}
