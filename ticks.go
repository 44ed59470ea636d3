package hcreco

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// PreciseTicks places labelled major ticks on round values and unlabelled
// minor ticks between them, labelling with only as many digits as the tick
// spacing needs.
type PreciseTicks struct {
	NSuggestedTicks int
}

// Ticks implements plot.Ticker.
func (t PreciseTicks) Ticks(min, max float64) []plot.Tick {
	n := t.NSuggestedTicks
	if n < 2 {
		n = 4
	}
	if !(max > min) {
		return nil
	}

	step, mult := majorStep(max-min, n)
	var ticks []plot.Tick
	major := map[float64]bool{}
	prec := int(math.Ceil(math.Log10(math.Max(math.Abs(min), math.Abs(max))+step)) - math.Floor(math.Log10(step)))
	for v := math.Floor(min/step) * step; v <= max; v += step {
		if v < min {
			continue
		}
		v = round(v, prec)
		major[v] = true
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', -1, 64)})
	}

	minor := step / 2
	switch mult {
	case 3, 6:
		minor = step / 3
	case 5:
		minor = step / 5
	}
	for v := math.Floor(min/minor) * minor; v <= max; v += minor {
		if v < min || major[round(v, prec)] {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: v})
	}
	return ticks
}

// majorStep returns the major tick spacing for a range of width w holding
// about n ticks, and the multiple of a power of ten it uses.
func majorStep(w float64, n int) (float64, int) {
	tens := math.Pow10(int(math.Floor(math.Log10(w))))
	for w/tens < float64(n-1) {
		tens /= 10
	}
	mult := int(w / tens / float64(n-1))
	switch mult {
	case 7:
		mult = 6
	case 9:
		mult = 8
	}
	if mult < 1 {
		mult = 1
	}
	return float64(mult) * tens, mult
}

// round rounds x to prec decimal places, leaving integers untouched.
func round(x float64, prec int) float64 {
	if x == 0 || (prec >= 0 && x == math.Trunc(x)) {
		return x
	}
	pow := math.Pow10(prec)
	scaled := x * pow
	if math.IsInf(scaled, 0) {
		return x
	}
	r := math.Round(scaled) / pow
	if r == 0 {
		return 0
	}
	return r
}
