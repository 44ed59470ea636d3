package source

import (
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
	"go-hep.org/x/hep/lcio"

	"github.com/decibelcooper/hcreco/internal/config"
	"github.com/decibelcooper/hcreco/internal/gen"
	"github.com/decibelcooper/hcreco/internal/track"
)

// curvature constant c in GeV / (T mm)
const ptPerTeslaMM = 2.99792458e-4

const mmToCm = 0.1

// LCIO reads events from an LCIO file.
type LCIO struct {
	r  *lcio.Reader
	in config.Input
}

func OpenLCIO(path string, in config.Input) (*LCIO, error) {
	r, err := lcio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening LCIO file %s: %w", path, err)
	}
	return &LCIO{r: r, in: in}, nil
}

func (s *LCIO) Next() (*Event, error) {
	if !s.r.Next() {
		if err := s.r.Err(); err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading LCIO event: %w", err)
		}
		return nil, io.EOF
	}
	evt := s.r.Event()

	ev := &Event{
		Run:    int64(evt.RunNumber),
		Number: int64(evt.EventNumber),
		Tracks: make([][]track.Track, len(s.in.TrackCollections)),
	}
	for i, name := range s.in.TrackCollections {
		ev.Tracks[i] = s.tracks(&evt, name)
	}
	if s.in.GenCollection != "" {
		ev.Gen, ev.HasGen = s.particles(&evt, s.in.GenCollection)
	}
	return ev, nil
}

func (s *LCIO) Close() error {
	return s.r.Close()
}

func (s *LCIO) tracks(evt *lcio.Event, name string) []track.Track {
	if !evt.Has(name) {
		logrus.Warnf("event %d: no track collection %q", evt.EventNumber, name)
		return nil
	}
	c, ok := evt.Get(name).(*lcio.TrackContainer)
	if !ok {
		logrus.Warnf("event %d: collection %q is not a track collection", evt.EventNumber, name)
		return nil
	}
	var tracks []track.Track
	for i := range c.Tracks {
		if t, ok := s.convertTrack(&c.Tracks[i]); ok {
			tracks = append(tracks, t)
		}
	}
	return tracks
}

func (s *LCIO) convertTrack(trk *lcio.Track) (track.Track, bool) {
	if len(trk.States) == 0 || trk.States[0].Omega == 0 {
		return track.Track{}, false
	}
	st := trk.States[0]
	omega := float64(st.Omega)
	phi := float64(st.Phi)
	d0, z0 := float64(st.D0), float64(st.Z0)

	charge := 1
	if omega < 0 {
		charge = -1
	}
	// point of closest approach to the state's reference point
	ref := track.Point{
		X: (float64(st.Ref[0]) - d0*math.Sin(phi)) * mmToCm,
		Y: (float64(st.Ref[1]) + d0*math.Cos(phi)) * mmToCm,
		Z: (float64(st.Ref[2]) + z0) * mmToCm,
	}
	highPurity := trk.NdF > 0 && float64(trk.Chi2)/float64(trk.NdF) <= s.in.MaxNormChi2

	return track.Track{
		Pt:         ptPerTeslaMM * s.in.FieldTesla / math.Abs(omega),
		Eta:        math.Asinh(float64(st.TanL)),
		Phi:        phi,
		Charge:     charge,
		Ref:        ref,
		HighPurity: highPurity,
	}, true
}

func (s *LCIO) particles(evt *lcio.Event, name string) (gen.Event, bool) {
	if !evt.Has(name) {
		logrus.Debugf("event %d: no generator collection %q, matching disabled", evt.EventNumber, name)
		return nil, false
	}
	c, ok := evt.Get(name).(*lcio.McParticleContainer)
	if !ok {
		logrus.Warnf("event %d: collection %q is not an MC particle collection", evt.EventNumber, name)
		return nil, false
	}

	index := make(map[*lcio.McParticle]int, len(c.Particles))
	for i := range c.Particles {
		index[&c.Particles[i]] = i
	}
	indices := func(ps []*lcio.McParticle) []int {
		var res []int
		for _, p := range ps {
			if i, ok := index[p]; ok {
				res = append(res, i)
			}
		}
		return res
	}

	ev := make(gen.Event, len(c.Particles))
	for i := range c.Particles {
		p := &c.Particles[i]
		px, py, pz := p.P[0], p.P[1], p.P[2]
		pt := math.Hypot(px, py)
		ev[i] = gen.Particle{
			PDG:       int(p.PDG),
			Status:    int(p.GenStatus),
			Charge:    float64(p.Charge),
			Pt:        pt,
			Eta:       pseudorapidity(pt, pz),
			Phi:       math.Atan2(py, px),
			Mothers:   indices(p.Parents),
			Daughters: indices(p.Children),
		}
	}
	return ev, true
}

func pseudorapidity(pt, pz float64) float64 {
	if pt == 0 {
		return math.Copysign(math.Inf(1), pz)
	}
	return math.Asinh(pz / pt)
}
