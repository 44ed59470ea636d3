package main

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go-hep.org/x/hep/hbook"

	"github.com/decibelcooper/hcreco"
	"github.com/decibelcooper/hcreco/internal/output"
	"github.com/decibelcooper/hcreco/internal/reco"
)

var (
	plotTable  string
	plotColumn string
	plotRunID  string
	plotOutput string
	plotBins   int
	plotRange  hcreco.FloatList
)

var plotCmd = &cobra.Command{
	Use:   "plot <db>",
	Short: "Histogram a candidate column of a produced SQLite file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return plotColumnHist(args[0])
	},
}

func plotColumnHist(dbPath string) error {
	lo, hi, err := plotBounds()
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	defer db.Close()

	vals, err := output.ReadFloats(db, plotTable, plotColumn, plotRunID)
	if err != nil {
		return err
	}
	hist := hbook.NewH1D(plotBins, lo, hi)
	for _, v := range vals {
		hist.Fill(v, 1)
	}
	logrus.Infof("%d values of %s.%s, %d in range", len(vals), plotTable, plotColumn, hist.Entries())

	out := plotOutput
	if out == "" {
		out = plotTable + "_" + plotColumn + ".png"
	}
	return output.SaveMassPlot(hist, plotTable, out)
}

// plotBounds takes the histogram range from --range or, without it, from the
// final-state window of the preset named like the table.
func plotBounds() (lo, hi float64, err error) {
	if plotBins < 1 {
		return 0, 0, fmt.Errorf("--bins must be at least 1, got %d", plotBins)
	}
	switch len(plotRange.Array) {
	case 2:
		lo, hi = plotRange.Array[0], plotRange.Array[1]
	case 0:
		ch, err := reco.Preset(plotTable)
		if err != nil {
			return 0, 0, fmt.Errorf("no --range given and %w", err)
		}
		lo, hi = ch.Final.Mass-ch.Final.HalfWidth, ch.Final.Mass+ch.Final.HalfWidth
	default:
		return 0, 0, fmt.Errorf("--range takes exactly two values, got %d", len(plotRange.Array))
	}
	if !(hi > lo) {
		return 0, 0, fmt.Errorf("empty range [%g, %g]", lo, hi)
	}
	return lo, hi, nil
}

func addPlotFlags(fs *pflag.FlagSet) {
	fs.StringVar(&plotTable, "table", "DsMeson", "channel table to read")
	fs.StringVar(&plotColumn, "column", "mass", "float column to histogram")
	fs.StringVar(&plotRunID, "run", "", "restrict to one run ID")
	fs.StringVarP(&plotOutput, "output", "o", "", "output PNG (defaults to <table>_<column>.png)")
	fs.IntVar(&plotBins, "bins", 50, "number of bins")
	fs.Var(&plotRange, "range", "histogram range as lo,hi")
}

func init() {
	addPlotFlags(plotCmd.Flags())
	rootCmd.AddCommand(plotCmd)
}
