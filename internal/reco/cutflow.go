package reco

// Stage is one gate of the reconstruction.
type Stage int

const (
	StagePairs Stage = iota
	StagePairGeometry
	StagePairCharge
	StageTwoBodyMass
	StageTwoBodyVertex
	StageTriplets
	StageTripletGeometry
	StageFinalMass
	StageFinalVertex

	NumStages
)

var stageNames = [NumStages]string{
	"pairs",
	"pair_geometry",
	"pair_charge",
	"two_body_mass",
	"two_body_vertex",
	"triplets",
	"triplet_geometry",
	"final_mass",
	"final_vertex",
}

func (s Stage) String() string {
	if s < 0 || s >= NumStages {
		return "unknown"
	}
	return stageNames[s]
}

// CutFlow counts the combinations reaching each stage, split by whether the
// two-body pair is opposite-sign or same-sign.
type CutFlow struct {
	OS, SS [NumStages]int
	// Fits is the number of vertex fits attempted.
	Fits int
}

func (f *CutFlow) pass(s Stage, sameSign bool) {
	if f == nil {
		return
	}
	if sameSign {
		f.SS[s]++
	} else {
		f.OS[s]++
	}
}

func (f *CutFlow) fit() {
	if f != nil {
		f.Fits++
	}
}

// Add accumulates o into f.
func (f *CutFlow) Add(o CutFlow) {
	for s := range f.OS {
		f.OS[s] += o.OS[s]
		f.SS[s] += o.SS[s]
	}
	f.Fits += o.Fits
}
