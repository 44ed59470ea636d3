// Package reco reconstructs two-body resonances from track pairs and extends
// them with a third track to three-body final states.
package reco

import (
	"fmt"
	"math"

	"github.com/decibelcooper/hcreco/internal/gen"
	"github.com/decibelcooper/hcreco/internal/track"
	"github.com/decibelcooper/hcreco/internal/truth"
)

// Daughter is one constituent role together with its mass hypothesis.
type Daughter struct {
	Role string  `yaml:"role"`
	Mass float64 `yaml:"mass"`
	// MinPt is applied once the role has been assigned to a track.
	MinPt float64 `yaml:"min_pt,omitempty"`
}

// Window is an acceptance interval around a target invariant mass.
type Window struct {
	Mass      float64 `yaml:"mass"`
	HalfWidth float64 `yaml:"half_width"`
}

// Dist returns the distance of m from the target mass.
func (w Window) Dist(m float64) float64 {
	return math.Abs(m - w.Mass)
}

// Contains reports whether m lies inside the window, edges included.
func (w Window) Contains(m float64) bool {
	return w.Dist(m) <= w.HalfWidth
}

// Channel is the full configuration of one decay channel.
type Channel struct {
	Name string `yaml:"name"`

	// Column naming: the two-body resonance prefix (e.g. "PhiMeson") and the
	// short tags of the two-body and final vertices (e.g. "phi", "ds").
	Resonance string `yaml:"resonance"`
	Tag       string `yaml:"tag"`
	FinalTag  string `yaml:"final_tag"`

	// First and Second form the two-body resonance, Third extends it.
	First  Daughter `yaml:"first"`
	Second Daughter `yaml:"second"`
	Third  Daughter `yaml:"third"`

	TwoBody Window `yaml:"two_body"`
	Final   Window `yaml:"final"`

	PairMinPt  float64     `yaml:"pair_min_pt"`
	PairDeltaR float64     `yaml:"pair_delta_r"`
	PairSep    track.Point `yaml:"pair_sep"`

	Cone      float64     `yaml:"cone"`
	VertexSep track.Point `yaml:"vertex_sep"`

	MaxNormChi2   float64 `yaml:"max_norm_chi2"`
	MaxCandidates int     `yaml:"max_candidates"`

	// AllowSameSign keeps same-sign pairs for background studies, assigning
	// the positive and negative slots at random.
	AllowSameSign bool `yaml:"allow_same_sign"`
	ChargeColumns bool `yaml:"charge_columns"`

	// Decay names the generator-level chain used for truth matching.
	Decay       string             `yaml:"decay"`
	Assignments []truth.Assignment `yaml:"assignments"`
}

// SingleHypothesis reports whether both two-body daughters share one rest
// mass, in which case swapping roles cannot change the invariant mass.
func (c *Channel) SingleHypothesis() bool {
	return c.First.Mass == c.Second.Mass
}

// Validate checks that the channel can be run.
func (c *Channel) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("channel has no name")
	}
	roles := map[string]bool{}
	for _, d := range []Daughter{c.First, c.Second, c.Third} {
		if d.Role == "" {
			return fmt.Errorf("channel %s: daughter without role", c.Name)
		}
		if roles[d.Role] {
			return fmt.Errorf("channel %s: duplicate role %q", c.Name, d.Role)
		}
		roles[d.Role] = true
		if d.Mass <= 0 {
			return fmt.Errorf("channel %s: non-positive mass for %s", c.Name, d.Role)
		}
	}
	if c.TwoBody.HalfWidth <= 0 || c.Final.HalfWidth <= 0 {
		return fmt.Errorf("channel %s: mass windows must be positive", c.Name)
	}
	if c.PairDeltaR <= 0 || c.Cone <= 0 {
		return fmt.Errorf("channel %s: angular cuts must be positive", c.Name)
	}
	if c.MaxNormChi2 < 0 {
		return fmt.Errorf("channel %s: negative chi2 cap", c.Name)
	}
	if c.MaxCandidates <= 0 {
		return fmt.Errorf("channel %s: max_candidates must be positive", c.Name)
	}
	if c.Decay != "" {
		if _, err := gen.Lookup(c.Decay); err != nil {
			return fmt.Errorf("channel %s: %w", c.Name, err)
		}
	}
	for _, a := range c.Assignments {
		for s := truth.Pos; s < truth.NumSlots; s++ {
			if a.Label(s) == "" {
				return fmt.Errorf("channel %s: assignment without %s label", c.Name, s)
			}
		}
	}
	return nil
}
