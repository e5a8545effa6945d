package schema

// Dependency graph over calculated columns.
//
// An edge A -> B means "A's formula reads B". Only calculated-to-
// calculated references create edges: editable columns carry raw values
// and are always available, and rate names are document-level constants
// with no row dependency. The graph is a property of the template (or a
// document's column snapshot), so it is built and checked once at save
// time, never per row.

type depGraph struct {
	// order preserves declaration order for deterministic output
	order []string
	edges map[string][]string
}

func newDepGraph() *depGraph {
	return &depGraph{edges: make(map[string][]string)}
}

// addNode registers a calculated column. Idempotent.
func (g *depGraph) addNode(id string) {
	if _, exists := g.edges[id]; exists {
		return
	}
	g.order = append(g.order, id)
	g.edges[id] = nil
}

// addEdge records that from's formula reads to. Both must be nodes.
func (g *depGraph) addEdge(from, to string) {
	g.edges[from] = append(g.edges[from], to)
}

// visit states for the depth-first topological sort.
const (
	unvisited = iota
	visiting
	visited
)

// topoSort returns the calculated columns ordered so every column
// appears after all columns it depends on. On a cycle it returns a
// CycleError naming the columns along the cycle.
func (g *depGraph) topoSort() ([]string, *CycleError) {
	state := make(map[string]int, len(g.order))
	onStack := make([]string, 0, len(g.order))
	sorted := make([]string, 0, len(g.order))

	var cycle *CycleError

	var dfs func(id string) bool
	dfs = func(id string) bool {
		switch state[id] {
		case visiting:
			// Back edge: extract the cycle from the current stack.
			cycle = extractCycle(onStack, id)
			return false
		case visited:
			return true
		}

		state[id] = visiting
		onStack = append(onStack, id)

		for _, dep := range g.edges[id] {
			if !dfs(dep) {
				return false
			}
		}

		onStack = onStack[:len(onStack)-1]
		state[id] = visited
		sorted = append(sorted, id)
		return true
	}

	for _, id := range g.order {
		if state[id] == unvisited {
			if !dfs(id) {
				return nil, cycle
			}
		}
	}

	return sorted, nil
}

// extractCycle slices the DFS stack from the first occurrence of start
// and closes the loop by repeating it at the end.
func extractCycle(stack []string, start string) *CycleError {
	for i, id := range stack {
		if id == start {
			ids := make([]string, 0, len(stack)-i+1)
			ids = append(ids, stack[i:]...)
			ids = append(ids, start)
			return &CycleError{ColumnIDs: ids}
		}
	}
	// start not on the stack should be unreachable; report it alone.
	return &CycleError{ColumnIDs: []string{start, start}}
}
