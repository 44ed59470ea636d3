// Package hcreco holds the command-line helpers shared by the hcreco tools:
// repeatable float flags and histogram axis ticks.
package hcreco

import (
	"fmt"
	"strconv"
	"strings"
)

// FloatList is a flag value collecting one float per occurrence. A default
// set through Array is replaced by the first value given on the command
// line.
type FloatList struct {
	Array   []float64
	beenSet bool
}

func (f *FloatList) Set(valueStr string) error {
	for _, s := range strings.Split(valueStr, ",") {
		value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("invalid float %q: %w", s, err)
		}
		if !f.beenSet {
			f.beenSet = true
			f.Array = nil
		}
		f.Array = append(f.Array, value)
	}
	return nil
}

func (f *FloatList) String() string {
	return fmt.Sprint(f.Array)
}

// Type implements pflag.Value.
func (f *FloatList) Type() string {
	return "floats"
}
