package sink

import (
	"github.com/decibelcooper/hcreco/internal/reco"
	"github.com/decibelcooper/hcreco/internal/track"
)

// Sink is an append-only, capped sequence of candidates for one channel in
// one event. It implements reco.Collector.
type Sink struct {
	channel    *reco.Channel
	candidates []reco.Candidate
}

// New returns an empty sink capped at ch.MaxCandidates.
func New(ch *reco.Channel) *Sink {
	return &Sink{channel: ch}
}

// Add appends c unless the sink is full.
func (s *Sink) Add(c reco.Candidate) {
	if s.Full() {
		return
	}
	s.candidates = append(s.candidates, c)
}

// Full reports whether the cap has been reached.
func (s *Sink) Full() bool {
	return len(s.candidates) >= s.channel.MaxCandidates
}

// Len returns the number of candidates collected.
func (s *Sink) Len() int { return len(s.candidates) }

// Candidates returns the collected candidates in discovery order.
func (s *Sink) Candidates() []reco.Candidate { return s.candidates }

// Table converts the collected candidates into the channel's column layout.
func (s *Sink) Table() Table {
	defs := columns(s.channel)
	t := Table{Name: s.channel.Name, Columns: make([]Column, len(defs))}
	for j, sp := range defs {
		col := Column{Name: sp.name, Kind: sp.kind}
		for i := range s.candidates {
			c := &s.candidates[i]
			switch sp.kind {
			case Float:
				col.Floats = append(col.Floats, sp.float(c))
			case Int:
				col.Ints = append(col.Ints, sp.int(c))
			case Bool:
				col.Bools = append(col.Bools, sp.bool(c))
			}
		}
		if col.Len() == 0 {
			switch sp.kind {
			case Float:
				col.Floats = []float64{}
			case Int:
				col.Ints = []int64{}
			case Bool:
				col.Bools = []bool{}
			}
		}
		t.Columns[j] = col
	}
	return t
}

type colDef struct {
	name  string
	kind  Kind
	float func(*reco.Candidate) float64
	int   func(*reco.Candidate) int64
	bool  func(*reco.Candidate) bool
}

func f(name string, fn func(*reco.Candidate) float64) colDef {
	return colDef{name: name, kind: Float, float: fn}
}

func i(name string, fn func(*reco.Candidate) int64) colDef {
	return colDef{name: name, kind: Int, int: fn}
}

func b(name string, fn func(*reco.Candidate) bool) colDef {
	return colDef{name: name, kind: Bool, bool: fn}
}

// ColumnNames returns the column order of ch's candidate table.
func ColumnNames(ch *reco.Channel) []string {
	defs := columns(ch)
	names := make([]string, len(defs))
	for k, sp := range defs {
		names[k] = sp.name
	}
	return names
}

func columns(ch *reco.Channel) []colDef {
	res := ch.Resonance + "_"
	defs := []colDef{
		f("mass", func(c *reco.Candidate) float64 { return c.P4.M() }),
		f("pt", func(c *reco.Candidate) float64 { return c.P4.Pt() }),
		f("eta", func(c *reco.Candidate) float64 { return c.P4.Eta() }),
		f("phi", func(c *reco.Candidate) float64 { return c.P4.Phi() }),
		f(res+"mass", func(c *reco.Candidate) float64 { return c.TwoBody.P4.M() }),
		f(res+"pt", func(c *reco.Candidate) float64 { return c.TwoBody.P4.Pt() }),
		f(res+"eta", func(c *reco.Candidate) float64 { return c.TwoBody.P4.Eta() }),
		f(res+"phi", func(c *reco.Candidate) float64 { return c.TwoBody.P4.Phi() }),
		f(res+"massDiff", func(c *reco.Candidate) float64 { return c.MassDiff() }),
	}

	for _, d := range []reco.Daughter{ch.Third, ch.First, ch.Second} {
		role := d.Role
		get := func(c *reco.Candidate) track.Track {
			cs, _ := c.Role(role)
			return cs.Track
		}
		defs = append(defs,
			f(role+"_pt", func(c *reco.Candidate) float64 { return get(c).Pt }),
			f(role+"_eta", func(c *reco.Candidate) float64 { return get(c).Eta }),
			f(role+"_phi", func(c *reco.Candidate) float64 { return get(c).Phi }),
		)
		if ch.ChargeColumns {
			defs = append(defs, i(role+"_charge", func(c *reco.Candidate) int64 { return int64(get(c).Charge) }))
		}
	}

	tr3 := "tr3" + ch.Tag + "_"
	defs = append(defs,
		f("tr1tr2_deltaR", func(c *reco.Candidate) float64 { return c.TwoBody.DeltaR }),
		f(tr3+"deltaR", func(c *reco.Candidate) float64 { return c.ExtDeltaR }),
		f(ch.Tag+"vtx_normchi2", func(c *reco.Candidate) float64 { return c.TwoBody.Vertex.NormChi2 }),
		f(ch.FinalTag+"vtx_normchi2", func(c *reco.Candidate) float64 { return c.Vertex.NormChi2 }),
		f("tr1tr2_sepx", func(c *reco.Candidate) float64 { return c.TwoBody.Sep.X }),
		f("tr1tr2_sepy", func(c *reco.Candidate) float64 { return c.TwoBody.Sep.Y }),
		f("tr1tr2_sepz", func(c *reco.Candidate) float64 { return c.TwoBody.Sep.Z }),
		f(tr3+"sepx", func(c *reco.Candidate) float64 { return c.ExtSep.X }),
		f(tr3+"sepy", func(c *reco.Candidate) float64 { return c.ExtSep.Y }),
		f(tr3+"sepz", func(c *reco.Candidate) float64 { return c.ExtSep.Z }),
		b("hasFastGenmatch", func(c *reco.Candidate) bool { return c.Truth.Full }),
		b("hasFastPartialGenmatch", func(c *reco.Candidate) bool { return c.Truth.Partial }),
	)
	return defs
}
