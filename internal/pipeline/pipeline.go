// Package pipeline runs the configured channels over every event of a source
// and hands the resulting tables to a writer in input order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/decibelcooper/hcreco/internal/config"
	"github.com/decibelcooper/hcreco/internal/gen"
	"github.com/decibelcooper/hcreco/internal/output"
	"github.com/decibelcooper/hcreco/internal/reco"
	"github.com/decibelcooper/hcreco/internal/sink"
	"github.com/decibelcooper/hcreco/internal/source"
	"github.com/decibelcooper/hcreco/internal/track"
	"github.com/decibelcooper/hcreco/internal/vertex"
)

type channel struct {
	reco.Channel
	decay *gen.Decay
}

// Pipeline is safe for concurrent Process calls; Run drives them.
type Pipeline struct {
	cfg      *config.Config
	channels []channel
	// Factory builds the vertex fitter used for one event.
	Factory vertex.Factory
}

// Summary aggregates a whole run.
type Summary struct {
	Events       int
	EventsNoGen  int
	Candidates   map[string]int
	CutFlows     map[string]*reco.CutFlow
	channelOrder []string
}

// Result is the outcome of one event.
type Result struct {
	Record output.Record
	Flows  []reco.CutFlow
	Counts []int
	NoGen  bool
}

// New validates cfg and resolves the generator decay of every channel.
func New(cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{cfg: cfg}
	for _, ch := range cfg.RecoChannels() {
		c := channel{Channel: ch}
		if ch.Decay != "" {
			d, err := gen.Lookup(ch.Decay)
			if err != nil {
				return nil, fmt.Errorf("channel %s: %w", ch.Name, err)
			}
			c.decay = &d
		}
		p.channels = append(p.channels, c)
	}
	resolution := cfg.Vertex.Resolution
	p.Factory = func() vertex.Fitter { return vertex.NewLineFitter(resolution) }
	return p, nil
}

// Process reconstructs every channel in one event.
func (p *Pipeline) Process(ev *source.Event) Result {
	tracks := track.Preselect(track.Merge(ev.Tracks...), p.cfg.Input.MinPt)
	fitter := p.Factory()
	matching := p.cfg.Truth.Enabled && ev.HasGen

	res := Result{
		Record: output.Record{Run: ev.Run, Event: ev.Number},
		Flows:  make([]reco.CutFlow, len(p.channels)),
		Counts: make([]int, len(p.channels)),
		NoGen:  p.cfg.Truth.Enabled && !ev.HasGen,
	}
	for i := range p.channels {
		ch := &p.channels[i]

		var bundles []gen.Bundle
		if matching && ch.decay != nil {
			bundles = ch.decay.Extract(ev.Gen)
			name := ch.Name + "Gen"
			res.Record.Tables = append(res.Record.Tables,
				sink.DecayTypeTable(name, ch.decay.Classify(ev.Gen)),
				sink.BundleTable(name, ch.decay.Labels, bundles),
			)
		}

		r := reco.Reconstructor{
			Channel:   ch.Channel,
			Fitter:    fitter,
			Threshold: p.cfg.Truth.Threshold,
		}
		if ch.AllowSameSign {
			r.Rand = reco.EventRand(p.cfg.Seed, ch.Name, ev.Run, ev.Number)
		}
		s := sink.New(&ch.Channel)
		r.Run(tracks, bundles, s)

		res.Record.Tables = append(res.Record.Tables, s.Table())
		res.Flows[i] = r.Flow
		res.Counts[i] = s.Len()
	}
	logrus.Debugf("run %d event %d: %d preselected tracks, candidates %v", ev.Run, ev.Number, len(tracks), res.Counts)
	return res
}

// Run reads src in batches, processes each batch in parallel and writes the
// records in input order.
func (p *Pipeline) Run(ctx context.Context, src source.Source, out output.Writer) (*Summary, error) {
	sum := &Summary{
		Candidates: map[string]int{},
		CutFlows:   map[string]*reco.CutFlow{},
	}
	for _, ch := range p.channels {
		sum.CutFlows[ch.Name] = &reco.CutFlow{}
		sum.channelOrder = append(sum.channelOrder, ch.Name)
	}

	for done := false; !done; {
		batch, err := p.readBatch(src, sum.Events)
		switch {
		case errors.Is(err, io.EOF):
			done = true
		case err != nil:
			return sum, err
		}
		if len(batch) == 0 {
			break
		}

		results := make([]Result, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.cfg.Workers)
		for i, ev := range batch {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = p.Process(ev)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return sum, err
		}

		for _, res := range results {
			if err := out.Write(res.Record); err != nil {
				return sum, fmt.Errorf("writing event %d: %w", res.Record.Event, err)
			}
			sum.add(p, res)
		}
	}
	return sum, nil
}

// readBatch returns up to BatchSize events, honouring MaxEvents. The error is
// io.EOF once the source or the event limit is exhausted.
func (p *Pipeline) readBatch(src source.Source, seen int) ([]*source.Event, error) {
	n := p.cfg.BatchSize
	if p.cfg.MaxEvents > 0 {
		left := p.cfg.MaxEvents - seen
		if left <= 0 {
			return nil, io.EOF
		}
		n = min(n, left)
	}
	var batch []*source.Event
	for len(batch) < n {
		ev, err := src.Next()
		if err != nil {
			return batch, err
		}
		batch = append(batch, ev)
	}
	return batch, nil
}

func (s *Summary) add(p *Pipeline, res Result) {
	s.Events++
	if res.NoGen {
		s.EventsNoGen++
	}
	for i, ch := range p.channels {
		s.Candidates[ch.Name] += res.Counts[i]
		s.CutFlows[ch.Name].Add(res.Flows[i])
	}
}

// Log reports the run summary and per-channel cut flows.
func (s *Summary) Log() {
	logrus.Infof("processed %d events", s.Events)
	if s.EventsNoGen > 0 {
		logrus.Warnf("%d events without generator particles, truth matching disabled for them", s.EventsNoGen)
	}
	for _, name := range s.channelOrder {
		flow := s.CutFlows[name]
		fields := logrus.Fields{
			"channel":    name,
			"candidates": s.Candidates[name],
			"fits":       flow.Fits,
		}
		for st := reco.Stage(0); st < reco.NumStages; st++ {
			fields[st.String()] = fmt.Sprintf("%d/%d", flow.OS[st], flow.SS[st])
		}
		logrus.WithFields(fields).Info("cut flow (opposite/same sign)")
	}
}
