package sln

import (
	"slices"
	"strings"
)

// BuildOrder computes a deterministic topological ordering of the projects
// accepted by the filter (nil accepts everything except solution folders)
// using Kahn's algorithm. Ties between ready nodes break by ascending project
// name so the result never depends on map iteration order.
//
// The ordering is best-effort: when the filtered subgraph contains a cycle
// the unresolved remainder is appended in declaration order and returned as
// the second value so callers can surface a warning. The result is always a
// permutation of the filtered node set.
func (s *Solution) BuildOrder(filter func(*Project) bool) (order, cyclic []*Project) {
	return s.BuildOrderBy(filter, nil)
}

// BuildOrderBy is BuildOrder with an extra rank function applied before the
// name tie-break: among ready nodes, lower rank schedules first. Dependency
// edges always win over rank.
func (s *Solution) BuildOrderBy(filter func(*Project) bool, rank func(*Project) int) (order, cyclic []*Project) {
	if filter == nil {
		filter = func(p *Project) bool { return p.Type != TypeFolder }
	}

	var nodes []string // declaration order
	accepted := make(map[string]bool)
	for _, guid := range s.order {
		if filter(s.projects[guid]) {
			nodes = append(nodes, guid)
			accepted[guid] = true
		}
	}

	// in-degree restricted to the filtered subgraph; edge dep -> dependent
	dependents := make(map[string][]string)
	inDegree := make(map[string]int, len(nodes))
	for _, guid := range nodes {
		inDegree[guid] = 0
	}
	for _, guid := range nodes {
		for _, depGUID := range s.deps[guid] {
			if accepted[depGUID] {
				dependents[depGUID] = append(dependents[depGUID], guid)
				inDegree[guid]++
			}
		}
	}

	var queue []string
	for _, guid := range nodes {
		if inDegree[guid] == 0 {
			queue = append(queue, guid)
		}
	}

	placed := make(map[string]bool, len(nodes))
	for len(queue) > 0 {
		slices.SortFunc(queue, func(a, b string) int {
			if rank != nil {
				if c := rank(s.projects[a]) - rank(s.projects[b]); c != 0 {
					return c
				}
			}
			return strings.Compare(s.projects[a].Name, s.projects[b].Name)
		})
		guid := queue[0]
		queue = queue[1:]

		placed[guid] = true
		order = append(order, s.projects[guid])

		for _, next := range dependents[guid] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	// cycle remainder, appended in declaration order
	if len(order) != len(nodes) {
		for _, guid := range nodes {
			if !placed[guid] {
				cyclic = append(cyclic, s.projects[guid])
				order = append(order, s.projects[guid])
			}
		}
	}

	return order, cyclic
}
