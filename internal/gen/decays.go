package gen

import (
	"fmt"
	"sort"
)

// Decay describes one targeted generator-level decay chain.
type Decay struct {
	Name string
	// Labels lists the bundle labels in output order.
	Labels   []string
	Extract  func(Event) []Bundle
	Classify func(Event) int
}

var decays = map[string]Decay{
	"ds": {
		Name:     "ds",
		Labels:   []string{"Ds", "Phi", "Pi", "KPlus", "KMinus"},
		Extract:  DsToPhiPi,
		Classify: DsDecayType,
	},
	"dstar": {
		Name:     "dstar",
		Labels:   []string{"DStar", "DZero", "Pi1", "K", "Pi2"},
		Extract:  DStarToD0Pi,
		Classify: DStarDecayType,
	},
	"h-ds": {
		Name:     "h-ds",
		Labels:   []string{"H", "Ds", "Phi", "Pi", "KPlus", "KMinus"},
		Extract:  HToDs,
		Classify: HToDsDecayType,
	},
	"h-dstar": {
		Name:     "h-dstar",
		Labels:   []string{"H", "DStar", "DZero", "Pi1", "K", "Pi2"},
		Extract:  HToDStar,
		Classify: HToDStarDecayType,
	},
}

// Lookup returns the decay chain registered under name.
func Lookup(name string) (Decay, error) {
	d, ok := decays[name]
	if !ok {
		return Decay{}, fmt.Errorf("unknown decay %q; valid: %v", name, Names())
	}
	return d, nil
}

// Names lists the registered decay chains.
func Names() []string {
	var names []string
	for n := range decays {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// chain matches the decay below a candidate mother. stage is 1 for a full
// match and grows the earlier the chain breaks off; the bundle is only set
// for stage 1.
type chain func(ev Event, mother int) (b Bundle, stage int)

// pair returns the two daughters of i with absolute PDG codes pa and pb, in
// that order, if i has exactly these two daughters.
func (ev Event) pair(i, pa, pb int) (a, b int, ok bool) {
	ds := ev.Daughters(i)
	if len(ds) != 2 {
		return -1, -1, false
	}
	switch {
	case ev.absPDG(ds[0]) == pa && ev.absPDG(ds[1]) == pb:
		return ds[0], ds[1], true
	case ev.absPDG(ds[0]) == pb && ev.absPDG(ds[1]) == pa:
		return ds[1], ds[0], true
	}
	return -1, -1, false
}

// dsChain matches Ds -> phi pi, phi -> K+ K-.
func dsChain(ev Event, ds int) (Bundle, int) {
	phi, pi, ok := ev.pair(ds, PDGPhi, PDGPion)
	if !ok {
		return nil, 3
	}
	phi = ev.LastCopy(phi)
	k1, k2, ok := ev.pair(phi, PDGKaon, PDGKaon)
	if !ok {
		return nil, 2
	}
	kPlus, kMinus := k2, k1
	if ev[k1].Charge > 0 && ev[k2].Charge < 0 {
		kPlus, kMinus = k1, k2
	}
	return Bundle{
		"Ds":     ev.ref(ds),
		"Phi":    ev.ref(phi),
		"Pi":     ev.ref(pi),
		"KPlus":  ev.ref(kPlus),
		"KMinus": ev.ref(kMinus),
	}, 1
}

// dstarChain matches D* -> D0 pi, D0 -> K pi.
func dstarChain(ev Event, dstar int) (Bundle, int) {
	dzero, pi1, ok := ev.pair(dstar, PDGDZero, PDGPion)
	if !ok {
		return nil, 3
	}
	dzero = ev.LastCopy(dzero)
	k, pi2, ok := ev.pair(dzero, PDGKaon, PDGPion)
	if !ok {
		return nil, 2
	}
	return Bundle{
		"DStar": ev.ref(dstar),
		"DZero": ev.ref(dzero),
		"Pi1":   ev.ref(pi1),
		"K":     ev.ref(k),
		"Pi2":   ev.ref(pi2),
	}, 1
}

func inclusive(ev Event, pdg int, match chain) []Bundle {
	var res []Bundle
	for _, i := range ev.HardScatter() {
		if ev.absPDG(i) != pdg {
			continue
		}
		if b, stage := match(ev, i); stage == 1 {
			res = append(res, b)
		}
	}
	return res
}

// inclusiveType numbers events as
// 0: none of the below,
// 1: at least one full chain,
// 2: at least one first decay step, but excluding the above,
// 3: at least one mother hadron, but excluding the above,
// 4: at least one charmed hadron, but excluding the above.
func inclusiveType(ev Event, pdg int, match chain) int {
	res := 99
	for _, i := range ev.HardScatter() {
		if !isCharmHadron(ev[i].PDG) {
			continue
		}
		res = min(res, 4)
		if ev.absPDG(i) != pdg {
			continue
		}
		_, stage := match(ev, i)
		res = min(res, stage)
		if res == 1 {
			break
		}
	}
	if res > 4 {
		return 0
	}
	return res
}

// higgsCharm calls fn with each H boson and the hadrons of its c cbar decay.
// It returns false as soon as fn does.
func higgsCharm(ev Event, fn func(h int, hadrons []int, stage int) bool) {
	for h := range ev {
		if ev.absPDG(h) != PDGHiggs || !ev.IsLastCopy(h) {
			continue
		}
		q1, q2, ok := ev.pair(h, PDGCharm, PDGCharm)
		if !ok {
			if !fn(h, nil, 5) {
				return
			}
			continue
		}
		if !fn(h, ev.QuarkPairDaughters(q1, q2), 4) {
			return
		}
	}
}

func fromHiggs(ev Event, pdg int, match chain) []Bundle {
	var res []Bundle
	higgsCharm(ev, func(h int, hadrons []int, _ int) bool {
		for _, i := range hadrons {
			if ev.absPDG(i) != pdg {
				continue
			}
			b, stage := match(ev, i)
			if stage != 1 {
				continue
			}
			b["H"] = ev.ref(h)
			res = append(res, b)
		}
		return true
	})
	return res
}

// higgsType numbers events as
// 0: none of the below,
// 1: at least one H -> c cbar with the full chain,
// 2: at least one first decay step, but excluding the above,
// 3: at least one mother hadron from H -> c cbar, but excluding the above,
// 4: at least one H -> c cbar, but excluding the above,
// 5: at least one H, but excluding the above.
func higgsType(ev Event, pdg int, match chain) int {
	res := 99
	higgsCharm(ev, func(_ int, hadrons []int, stage int) bool {
		res = min(res, stage)
		for _, i := range hadrons {
			if ev.absPDG(i) != pdg {
				continue
			}
			_, s := match(ev, i)
			res = min(res, s)
			if res == 1 {
				return false
			}
		}
		return true
	})
	if res > 5 {
		return 0
	}
	return res
}

// DsToPhiPi finds Ds -> phi pi -> K K pi among the hard-scatter particles.
func DsToPhiPi(ev Event) []Bundle { return inclusive(ev, PDGDs, dsChain) }

// DStarToD0Pi finds D* -> D0 pi -> K pi pi among the hard-scatter particles.
func DStarToD0Pi(ev Event) []Bundle { return inclusive(ev, PDGDStar, dstarChain) }

// HToDs finds H -> c cbar with a Ds -> phi pi -> K K pi in the c cbar hadrons.
func HToDs(ev Event) []Bundle { return fromHiggs(ev, PDGDs, dsChain) }

// HToDStar finds H -> c cbar with a D* -> D0 pi -> K pi pi in the c cbar hadrons.
func HToDStar(ev Event) []Bundle { return fromHiggs(ev, PDGDStar, dstarChain) }

func DsDecayType(ev Event) int       { return inclusiveType(ev, PDGDs, dsChain) }
func DStarDecayType(ev Event) int    { return inclusiveType(ev, PDGDStar, dstarChain) }
func HToDsDecayType(ev Event) int    { return higgsType(ev, PDGDs, dsChain) }
func HToDStarDecayType(ev Event) int { return higgsType(ev, PDGDStar, dstarChain) }
