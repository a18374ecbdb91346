package topology

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(arcs ...[2]string) *Digraph {
	d := NewDigraph()
	for _, a := range arcs {
		d.AddArc(a[0], a[1])
	}
	return d
}

func TestDigraph_Arena(t *testing.T) {
	d := build([2]string{"a", "b"}, [2]string{"a", "b"}, [2]string{"c", "b"})

	assert.Equal(t, 3, d.Len())
	i, ok := d.Index("c")
	require.True(t, ok)
	assert.Equal(t, "c", d.ID(i))
	assert.Equal(t, []string{"b"}, d.Successors("a"))
	assert.Equal(t, []string{"a", "c"}, d.Predecessors("b"))
	assert.Nil(t, d.Successors("ghost"))
	assert.Equal(t, i, d.AddVertex("c"))
}

func TestDigraph_FindCycles(t *testing.T) {
	tests := []struct {
		name   string
		arcs   [][2]string
		cycles [][]string
	}{
		{
			name: "acyclic tree",
			arcs: [][2]string{{"root", "a"}, {"root", "b"}, {"a", "c"}},
		},
		{
			name: "diamond is not a cycle",
			arcs: [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}},
		},
		{
			name:   "three cycle",
			arcs:   [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}},
			cycles: [][]string{{"a", "b", "c"}},
		},
		{
			name:   "self loop",
			arcs:   [][2]string{{"a", "a"}},
			cycles: [][]string{{"a"}},
		},
		{
			name:   "two separate cycles",
			arcs:   [][2]string{{"a", "b"}, {"b", "a"}, {"x", "y"}, {"y", "z"}, {"z", "y"}},
			cycles: [][]string{{"a", "b"}, {"y", "z"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := build(tt.arcs...)
			assert.Equal(t, tt.cycles, d.FindCycles())
			assert.Equal(t, len(tt.cycles) > 0, d.HasCycle())
		})
	}
}

func TestDigraph_DeepChainDoesNotRecurse(t *testing.T) {
	d := NewDigraph()
	prev := "n0"
	for i := 1; i < 100000; i++ {
		next := "n" + strconv.Itoa(i)
		d.AddArc(prev, next)
		prev = next
	}
	assert.False(t, d.HasCycle())

	d.AddArc(prev, "n0")
	cycles := d.FindCycles()
	require.Len(t, cycles, 1)
	assert.Len(t, cycles[0], 100000)
}
