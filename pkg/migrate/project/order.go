package project

import "sort"

// Dependency is one edge in the migration graph: From should convert after
// the files it depends on.
type Dependency struct {
	From string
	To   string
}

// Order returns a migration order over ids: dependencies first, dependents
// later. The sort is deterministic (ties break lexicographically) and cycle
// tolerant: when a cycle blocks progress the smallest remaining id is forced
// out, so every id appears exactly once and a cyclic graph still yields a
// usable order.
func Order(ids []string, deps []Dependency) []string {
	present := make(map[string]bool, len(ids))
	for _, id := range ids {
		present[id] = true
	}
	// indegree counts unmet dependencies; edges fan out from prerequisite
	// to dependent
	indegree := make(map[string]int, len(ids))
	dependents := make(map[string][]string)
	for _, id := range ids {
		indegree[id] = 0
	}
	for _, d := range deps {
		if !present[d.From] || !present[d.To] || d.From == d.To {
			continue
		}
		indegree[d.From]++
		dependents[d.To] = append(dependents[d.To], d.From)
	}

	ready := make([]string, 0, len(ids))
	for id, n := range indegree {
		if n == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	out := make([]string, 0, len(ids))
	emitted := make(map[string]bool, len(ids))
	emit := func(id string) {
		out = append(out, id)
		emitted[id] = true
		for _, dep := range dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 && !emitted[dep] {
				ready = insertSorted(ready, dep)
			}
		}
	}

	for len(out) < len(indegree) {
		if len(ready) == 0 {
			// cycle: force the smallest remaining id
			var forced string
			for id := range indegree {
				if !emitted[id] && (forced == "" || id < forced) {
					forced = id
				}
			}
			emit(forced)
			continue
		}
		next := ready[0]
		ready = ready[1:]
		if emitted[next] {
			continue
		}
		emit(next)
	}
	return out
}

func insertSorted(s []string, v string) []string {
	i := sort.SearchStrings(s, v)
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
