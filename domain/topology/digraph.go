// Package topology holds the directed-graph structure shared by the
// hierarchy invariants and the structural analyzer.
package topology

// Digraph is a directed graph over string ids stored in an arena: every
// vertex gets a stable index on insertion and arcs refer to indices.
type Digraph struct {
	ids   []string
	index map[string]int
	succ  [][]int
	pred  [][]int
}

// NewDigraph creates an empty digraph
func NewDigraph() *Digraph {
	return &Digraph{index: make(map[string]int)}
}

// AddVertex inserts a vertex if missing and returns its index
func (d *Digraph) AddVertex(id string) int {
	if i, ok := d.index[id]; ok {
		return i
	}
	i := len(d.ids)
	d.ids = append(d.ids, id)
	d.index[id] = i
	d.succ = append(d.succ, nil)
	d.pred = append(d.pred, nil)
	return i
}

// AddArc inserts from -> to, creating vertices as needed. Parallel arcs are
// collapsed.
func (d *Digraph) AddArc(from, to string) {
	u := d.AddVertex(from)
	v := d.AddVertex(to)
	for _, w := range d.succ[u] {
		if w == v {
			return
		}
	}
	d.succ[u] = append(d.succ[u], v)
	d.pred[v] = append(d.pred[v], u)
}

// Len returns the number of vertices
func (d *Digraph) Len() int { return len(d.ids) }

// ID returns the id stored at an arena index
func (d *Digraph) ID(i int) string { return d.ids[i] }

// Index returns the arena index of an id
func (d *Digraph) Index(id string) (int, bool) {
	i, ok := d.index[id]
	return i, ok
}

// Successors returns the ids reachable by one arc from id
func (d *Digraph) Successors(id string) []string {
	i, ok := d.index[id]
	if !ok {
		return nil
	}
	return d.names(d.succ[i])
}

// Predecessors returns the ids with an arc into id
func (d *Digraph) Predecessors(id string) []string {
	i, ok := d.index[id]
	if !ok {
		return nil
	}
	return d.names(d.pred[i])
}

func (d *Digraph) names(idx []int) []string {
	out := make([]string, len(idx))
	for k, i := range idx {
		out[k] = d.ids[i]
	}
	return out
}

// HasCycle reports whether any directed cycle exists
func (d *Digraph) HasCycle() bool {
	found := false
	d.walk(func([]string) bool {
		found = true
		return false
	})
	return found
}

// FindCycles returns one cycle per back arc met by a depth-first traversal
// started from each unvisited vertex in insertion order. A cycle lists its
// vertices in arc order; the last one has an arc back to the first.
func (d *Digraph) FindCycles() [][]string {
	var cycles [][]string
	d.walk(func(c []string) bool {
		cycles = append(cycles, c)
		return true
	})
	return cycles
}

const (
	white = iota
	grey
	black
)

// walk runs an iterative DFS keeping the recursion stack explicit, so a back
// arc can be turned into the cycle it closes. visit returns false to stop.
func (d *Digraph) walk(visit func(cycle []string) bool) {
	color := make([]uint8, len(d.ids))
	stackPos := make([]int, len(d.ids))

	type frame struct{ v, next int }
	var stack []frame

	for start := range d.ids {
		if color[start] != white {
			continue
		}
		color[start] = grey
		stackPos[start] = 0
		stack = append(stack[:0], frame{v: start})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next >= len(d.succ[top.v]) {
				color[top.v] = black
				stack = stack[:len(stack)-1]
				continue
			}
			w := d.succ[top.v][top.next]
			top.next++

			switch color[w] {
			case white:
				color[w] = grey
				stackPos[w] = len(stack)
				stack = append(stack, frame{v: w})
			case grey:
				cycle := make([]string, 0, len(stack)-stackPos[w])
				for _, f := range stack[stackPos[w]:] {
					cycle = append(cycle, d.ids[f.v])
				}
				if !visit(cycle) {
					return
				}
			}
		}
	}
}
