// Package vertex provides the common-vertex fitting capability used by the
// combinatorial reconstruction.
package vertex

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/decibelcooper/hcreco/internal/track"
)

// Result is the outcome of fitting a set of tracks to one vertex.
type Result struct {
	Valid    bool
	Position track.Point
	NormChi2 float64
}

// Fitter fits tracks to a common vertex. Implementations must be safe to
// call repeatedly from a single goroutine and must not retain tracks.
type Fitter interface {
	Fit(tracks []track.Track) Result
}

// Factory constructs a Fitter; it is invoked once per event.
type Factory func() Fitter

// minDet marks (nearly) parallel lines, for which the least-squares system
// is singular.
const minDet = 1e-12

// coincident is the distance in cm under which parallel lines are taken to
// be the same line.
const coincident = 1e-6

// DefaultResolution is the per-track transverse position resolution in cm.
const DefaultResolution = 0.01

// LineFitter approximates each track by a straight line through its
// reference point along its momentum direction and finds the point with the
// smallest summed squared perpendicular distance to all lines.
type LineFitter struct {
	// Resolution is the per-track position uncertainty in cm.
	Resolution float64
}

// NewLineFitter returns a LineFitter with the given resolution, falling back
// to DefaultResolution for non-positive values.
func NewLineFitter(resolution float64) *LineFitter {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	return &LineFitter{Resolution: resolution}
}

// Fit implements Fitter.
func (f *LineFitter) Fit(tracks []track.Track) Result {
	ndf := 2*len(tracks) - 3
	if ndf <= 0 {
		return Result{}
	}

	a := mat.NewDense(3, 3, nil)
	b := mat.NewVecDense(3, nil)
	projectors := make([]*mat.Dense, len(tracks))
	for i, t := range tracks {
		p := projector(t)
		projectors[i] = p
		r := mat.NewVecDense(3, []float64{t.Ref.X, t.Ref.Y, t.Ref.Z})
		var pr mat.VecDense
		pr.MulVec(p, r)
		a.Add(a, p)
		b.AddVec(b, &pr)
	}

	var x *mat.VecDense
	if math.Abs(mat.Det(a)) < minDet {
		// All lines are parallel. Only a single shared line has a vertex,
		// taken at the mean reference point.
		x = meanRef(tracks)
		for i, t := range tracks {
			if perp(projectors[i], x, t.Ref) > coincident {
				return Result{}
			}
		}
	} else {
		x = mat.NewVecDense(3, nil)
		if err := x.SolveVec(a, b); err != nil {
			return Result{}
		}
	}

	var chi2 float64
	sigma2 := f.Resolution * f.Resolution
	for i, t := range tracks {
		d := perp(projectors[i], x, t.Ref)
		chi2 += d * d / sigma2
	}

	return Result{
		Valid:    true,
		Position: track.Point{X: x.AtVec(0), Y: x.AtVec(1), Z: x.AtVec(2)},
		NormChi2: chi2 / float64(ndf),
	}
}

// perp is the distance from x to the line through ref with projector p.
func perp(p *mat.Dense, x *mat.VecDense, ref track.Point) float64 {
	d := mat.NewVecDense(3, []float64{x.AtVec(0) - ref.X, x.AtVec(1) - ref.Y, x.AtVec(2) - ref.Z})
	var pd mat.VecDense
	pd.MulVec(p, d)
	return mat.Norm(&pd, 2)
}

func meanRef(tracks []track.Track) *mat.VecDense {
	m := mat.NewVecDense(3, nil)
	for _, t := range tracks {
		m.AddVec(m, mat.NewVecDense(3, []float64{t.Ref.X, t.Ref.Y, t.Ref.Z}))
	}
	m.ScaleVec(1/float64(len(tracks)), m)
	return m
}

// projector returns I - u u^T for the unit direction u of t.
func projector(t track.Track) *mat.Dense {
	ux, uy, uz := t.Direction()
	u := []float64{ux, uy, uz}
	p := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := -u[i] * u[j]
			if i == j {
				v++
			}
			p.Set(i, j, v)
		}
	}
	return p
}
