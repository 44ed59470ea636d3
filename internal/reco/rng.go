package reco

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// EventRand returns the random source used to assign roles to same-sign
// pairs of one channel in one event. It depends only on its arguments, so
// results do not change with the order in which events are processed.
func EventRand(seed int64, channel string, run, event int64) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s/%d/%d", channel, run, event)
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64())))
}
