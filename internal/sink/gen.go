package sink

import "github.com/decibelcooper/hcreco/internal/gen"

// DecayTypeTable is the singleton table holding the generator-level decay
// type of one event.
func DecayTypeTable(name string, decayType int) Table {
	return Table{
		Name:      name + "DecayType",
		Singleton: true,
		Columns: []Column{
			{Name: "decayType", Kind: Int, Ints: []int64{int64(decayType)}},
		},
	}
}

// BundleTable lists the reference particles of each bundle, one row per
// bundle, with <label>_pt, <label>_eta and <label>_phi columns.
func BundleTable(name string, labels []string, bundles []gen.Bundle) Table {
	t := Table{Name: name}
	for _, l := range labels {
		pt := Column{Name: l + "_pt", Kind: Float, Floats: []float64{}}
		eta := Column{Name: l + "_eta", Kind: Float, Floats: []float64{}}
		phi := Column{Name: l + "_phi", Kind: Float, Floats: []float64{}}
		for _, bd := range bundles {
			r := bd[l]
			pt.Floats = append(pt.Floats, r.Pt)
			eta.Floats = append(eta.Floats, r.Eta)
			phi.Floats = append(phi.Floats, r.Phi)
		}
		t.Columns = append(t.Columns, pt, eta, phi)
	}
	return t
}
