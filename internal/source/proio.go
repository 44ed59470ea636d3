package source

import (
	"fmt"
	"io"
	"math"

	"github.com/proio-org/go-proio"
	"github.com/proio-org/go-proio-pb/model/eic"
	"github.com/sirupsen/logrus"

	"github.com/decibelcooper/hcreco/internal/config"
	"github.com/decibelcooper/hcreco/internal/gen"
	"github.com/decibelcooper/hcreco/internal/track"
)

// Proio reads events from a proio file using the eic data model. Track
// collections and the generator collection are entry tags. Events carry no
// run number and are numbered in file order.
type Proio struct {
	reader *proio.Reader
	events <-chan *proio.Event
	in     config.Input
	n      int64
}

func OpenProio(path string, in config.Input) (*Proio, error) {
	reader, err := proio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening proio file %s: %w", path, err)
	}
	return &Proio{reader: reader, events: reader.ScanEvents(), in: in}, nil
}

func (s *Proio) Next() (*Event, error) {
	event, ok := <-s.events
	if !ok || event == nil {
		return nil, io.EOF
	}
	s.n++

	ev := &Event{
		Number: s.n,
		Tracks: make([][]track.Track, len(s.in.TrackCollections)),
	}
	for i, tag := range s.in.TrackCollections {
		ev.Tracks[i] = s.tracks(event, tag)
	}
	if s.in.GenCollection != "" {
		ev.Gen, ev.HasGen = particles(event, s.in.GenCollection)
	}
	return ev, nil
}

func (s *Proio) Close() error {
	return s.reader.Close()
}

func (s *Proio) tracks(event *proio.Event, tag string) []track.Track {
	ids := event.TaggedEntries(tag)
	if len(ids) == 0 {
		logrus.Debugf("event %d: no entries tagged %q", s.n, tag)
	}
	var tracks []track.Track
	for _, id := range ids {
		trk, ok := event.GetEntry(id).(*eic.Track)
		if !ok || len(trk.Segment) == 0 {
			continue
		}
		seg := trk.Segment[0]
		poq := seg.GetPoq()
		sign := float64(seg.GetChargesign())
		if sign == 0 {
			continue
		}
		// momentum over charge times the charge sign gives the momentum
		px, py, pz := sign*poq.GetX(), sign*poq.GetY(), sign*poq.GetZ()
		pt := math.Hypot(px, py)
		if pt == 0 {
			continue
		}
		charge := 1
		if sign < 0 {
			charge = -1
		}
		vtx := seg.GetVertex()
		tracks = append(tracks, track.Track{
			Pt:         pt,
			Eta:        math.Asinh(pz / pt),
			Phi:        math.Atan2(py, px),
			Charge:     charge,
			Ref:        track.Point{X: float64(vtx.GetX()) * mmToCm, Y: float64(vtx.GetY()) * mmToCm, Z: float64(vtx.GetZ()) * mmToCm},
			HighPurity: len(trk.Observation) >= s.in.MinHits,
		})
	}
	return tracks
}

// particles collects the tagged particles together with every particle
// reachable from them through parent and child links.
func particles(event *proio.Event, tag string) (gen.Event, bool) {
	ids := event.TaggedEntries(tag)
	if len(ids) == 0 {
		return nil, false
	}

	index := map[uint64]int{}
	var parts []*eic.Particle
	work := append([]uint64(nil), ids...)
	for len(work) > 0 {
		id := work[0]
		work = work[1:]
		if _, seen := index[id]; seen {
			continue
		}
		p, ok := event.GetEntry(id).(*eic.Particle)
		if !ok {
			continue
		}
		index[id] = len(parts)
		parts = append(parts, p)
		work = append(work, p.GetParent()...)
		work = append(work, p.GetChild()...)
	}
	if len(parts) == 0 {
		return nil, false
	}

	indices := func(ids []uint64) []int {
		var res []int
		for _, id := range ids {
			if i, ok := index[id]; ok {
				res = append(res, i)
			}
		}
		return res
	}
	ev := make(gen.Event, len(parts))
	for i, p := range parts {
		mom := p.GetP()
		px, py, pz := float64(mom.GetX()), float64(mom.GetY()), float64(mom.GetZ())
		pt := math.Hypot(px, py)
		ev[i] = gen.Particle{
			PDG:       int(p.GetPdg()),
			Status:    int(p.GetStatus()),
			Charge:    float64(p.GetCharge()),
			Pt:        pt,
			Eta:       pseudorapidity(pt, pz),
			Phi:       math.Atan2(py, px),
			Mothers:   indices(p.GetParent()),
			Daughters: indices(p.GetChild()),
		}
	}
	return ev, true
}
