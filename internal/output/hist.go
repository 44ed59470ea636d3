package output

import (
	"fmt"
	"path/filepath"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/decibelcooper/hcreco"
	"github.com/decibelcooper/hcreco/internal/reco"
)

const histBins = 50

// Histograms fills the candidate mass of every channel and saves one PNG per
// channel into a directory on Close.
type Histograms struct {
	dir   string
	hists map[string]*hbook.H1D
	order []string
}

// NewHistograms books one mass histogram per channel spanning its final-state
// mass window.
func NewHistograms(dir string, channels []reco.Channel) *Histograms {
	h := &Histograms{dir: dir, hists: map[string]*hbook.H1D{}}
	for _, ch := range channels {
		lo, hi := ch.Final.Mass-ch.Final.HalfWidth, ch.Final.Mass+ch.Final.HalfWidth
		h.hists[ch.Name] = hbook.NewH1D(histBins, lo, hi)
		h.order = append(h.order, ch.Name)
	}
	return h
}

// Hist returns the mass histogram of the named channel.
func (h *Histograms) Hist(name string) *hbook.H1D {
	return h.hists[name]
}

func (h *Histograms) Write(rec Record) error {
	for _, t := range rec.Tables {
		hist, ok := h.hists[t.Name]
		if !ok {
			continue
		}
		mass := t.Column("mass")
		if mass == nil {
			continue
		}
		for _, m := range mass.Floats {
			hist.Fill(m, 1)
		}
	}
	return nil
}

func (h *Histograms) Close() error {
	for _, name := range h.order {
		path := filepath.Join(h.dir, name+"_mass.png")
		if err := SaveMassPlot(h.hists[name], name, path); err != nil {
			return err
		}
	}
	return nil
}

// SaveMassPlot draws hist as an invariant mass distribution.
func SaveMassPlot(hist *hbook.H1D, title, path string) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = title
	p.X.Label.Text = "Mass (GeV)"
	p.Y.Label.Text = "Candidates"
	p.X.Tick.Marker = hcreco.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = hcreco.PreciseTicks{NSuggestedTicks: 5}

	hp := hplot.NewH1D(hist)
	hp.Infos.Style = hplot.HInfoSummary
	p.Add(hp)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
