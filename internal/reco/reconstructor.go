package reco

import (
	"math/rand"

	"github.com/decibelcooper/hcreco/internal/gen"
	"github.com/decibelcooper/hcreco/internal/track"
	"github.com/decibelcooper/hcreco/internal/truth"
	"github.com/decibelcooper/hcreco/internal/vertex"
)

// Collector receives accepted candidates. Once Full reports true no further
// candidates are produced for the event.
type Collector interface {
	Add(c Candidate)
	Full() bool
}

// Reconstructor runs one channel over the preselected tracks of one event.
type Reconstructor struct {
	Channel Channel
	Fitter  vertex.Fitter
	// Rand is only consulted for same-sign pairs when the channel allows
	// them.
	Rand      *rand.Rand
	Threshold float64

	Flow CutFlow
}

// Run reconstructs candidates from tracks into out. Truth flags are only
// computed when bundles is non-empty; otherwise they stay false.
func (r *Reconstructor) Run(tracks []track.Track, bundles []gen.Bundle, out Collector) {
	if out.Full() {
		return
	}
	comb := Combiner{Channel: &r.Channel, Fitter: r.Fitter, Rand: r.Rand, Flow: &r.Flow}
	ext := Extender{Channel: &r.Channel, Fitter: r.Fitter, Flow: &r.Flow}
	matcher := truth.Matcher{Threshold: r.Threshold, Assignments: r.Channel.Assignments}

	for tb := range comb.Pairs(tracks) {
		for c := range ext.Extend(tracks, tb) {
			if len(bundles) > 0 {
				c.Truth = matcher.Match(c.Constituents(), bundles)
			}
			out.Add(c)
			if out.Full() {
				return
			}
		}
	}
}
