package roadmap

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Ancestors returns every node id that nodeID transitively depends on,
// in ascending order.
func Ancestors(nodes []Node, nodeID int) []int {
	byID := make(map[int]Node, len(nodes))
	for _, n := range nodes {
		byID[n.NodeID] = n
	}

	seen := make(map[int]bool)
	stack := append([]int(nil), byID[nodeID].Dependencies...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] || id == nodeID {
			continue
		}
		seen[id] = true
		stack = append(stack, byID[id].Dependencies...)
	}

	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Unlocked reports whether every dependency of nodeID is in completed.
func Unlocked(nodes []Node, nodeID int, completed map[int]bool) bool {
	for _, n := range nodes {
		if n.NodeID != nodeID {
			continue
		}
		for _, dep := range n.Dependencies {
			if !completed[dep] {
				return false
			}
		}
		return true
	}
	return false
}

// HasNode reports whether nodeID belongs to nodes.
func HasNode(nodes []Node, nodeID int) bool {
	for _, n := range nodes {
		if n.NodeID == nodeID {
			return true
		}
	}
	return false
}

// Validate checks the chain and layout invariants and reports every
// violation together.
func Validate(nodes []Node) error {
	var errs []string

	ids := make(map[int]bool, len(nodes))
	for i, n := range nodes {
		if n.NodeID != i+1 {
			errs = append(errs, fmt.Sprintf("node at position %d has id %d, want %d", i, n.NodeID, i+1))
		}
		if ids[n.NodeID] {
			errs = append(errs, fmt.Sprintf("duplicate node id %d", n.NodeID))
		}
		ids[n.NodeID] = true

		want := Dependencies(i + 1)
		if !slices.Equal(n.Dependencies, want) {
			errs = append(errs, fmt.Sprintf("node %d depends on %v, want %v", n.NodeID, n.Dependencies, want))
		}

		x, y := Position(i)
		if n.PositionX != x || n.PositionY != y {
			errs = append(errs, fmt.Sprintf("node %d at (%d,%d), want (%d,%d)", n.NodeID, n.PositionX, n.PositionY, x, y))
		}
	}

	for _, n := range nodes {
		for _, dep := range n.Dependencies {
			if !ids[dep] {
				errs = append(errs, fmt.Sprintf("node %d references nonexistent dependency %d", n.NodeID, dep))
			}
		}
	}

	if order, err := TopologicalOrder(nodes); err != nil {
		errs = append(errs, err.Error())
	} else if len(order) != len(nodes) {
		errs = append(errs, "topological order is incomplete")
	}

	if len(errs) > 0 {
		return errors.New("invalid roadmap:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}

// TopologicalOrder returns node ids in dependency order using Kahn's
// algorithm, or an error naming the nodes on a cycle.
func TopologicalOrder(nodes []Node) ([]int, error) {
	inDegree := make(map[int]int, len(nodes))
	dependents := make(map[int][]int)
	for _, n := range nodes {
		inDegree[n.NodeID] = len(n.Dependencies)
		for _, dep := range n.Dependencies {
			dependents[dep] = append(dependents[dep], n.NodeID)
		}
	}

	var queue []int
	for _, n := range nodes {
		if inDegree[n.NodeID] == 0 {
			queue = append(queue, n.NodeID)
		}
	}

	order := make([]int, 0, len(nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		deps := slices.Clone(dependents[id])
		slices.Sort(deps)
		for _, d := range deps {
			inDegree[d]--
			if inDegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	if len(order) < len(nodes) {
		var cycle []string
		for _, n := range nodes {
			if inDegree[n.NodeID] > 0 {
				cycle = append(cycle, fmt.Sprint(n.NodeID))
			}
		}
		return nil, fmt.Errorf("cycle detected involving nodes: %s", strings.Join(cycle, ", "))
	}
	return order, nil
}
