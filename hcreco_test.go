package hcreco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatList(t *testing.T) {
	f := FloatList{Array: []float64{1, 2}}
	assert.Equal(t, "[1 2]", f.String())

	require.NoError(t, f.Set("1.8"))
	require.NoError(t, f.Set("2.1,2.2"))
	assert.Equal(t, []float64{1.8, 2.1, 2.2}, f.Array)
	assert.Error(t, f.Set("x"))
	assert.Equal(t, "floats", f.Type())
}

func TestPreciseTicks(t *testing.T) {
	ticks := PreciseTicks{NSuggestedTicks: 5}.Ticks(0, 10)

	var labels []string
	var minor []float64
	for _, tk := range ticks {
		if tk.Label != "" {
			labels = append(labels, tk.Label)
		} else {
			minor = append(minor, tk.Value)
		}
	}
	assert.Equal(t, []string{"0", "2", "4", "6", "8", "10"}, labels)
	assert.Equal(t, []float64{1, 3, 5, 7, 9}, minor)

	for _, tk := range (PreciseTicks{NSuggestedTicks: 5}).Ticks(1.86, 2.16) {
		assert.GreaterOrEqual(t, tk.Value, 1.86)
		assert.LessOrEqual(t, tk.Value, 2.16)
	}

	assert.Nil(t, PreciseTicks{}.Ticks(1, 1))
}
