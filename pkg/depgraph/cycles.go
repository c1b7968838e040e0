package depgraph

import "slices"

// FindCycles returns the circular dependency chains of m in the same shape
// Build accepts. Each chain lists the modules of one back-edge cycle in
// dependency order, starting at the module the back-edge points to.
//
// It runs a depth-first search with white/gray/black colouring, visiting
// keys in mapping order so results are deterministic. A module that depends
// on itself yields a single-element chain.
//
// Time complexity is O(V + E) plus the length of the reported chains.
func FindCycles(m *Mapping) [][]string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var stack []string
	var cycles [][]string

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		stack = append(stack, id)
		deps, _ := m.Deps(id)
		for _, dep := range deps {
			switch color[dep] {
			case white:
				dfs(dep)
			case gray:
				start := slices.Index(stack, dep)
				cycles = append(cycles, slices.Clone(stack[start:]))
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, id := range m.Keys() {
		if color[id] == white {
			dfs(id)
		}
	}
	return cycles
}
