package graph

import (
	"context"
	"errors"
	"fmt"
)

// NodeType represents the type of a node in the graph
type NodeType string

const (
	NodeTypeStart     NodeType = "start"
	NodeTypeEnd       NodeType = "end"
	NodeTypeLLM       NodeType = "llm"
	NodeTypeTool      NodeType = "tool"
	NodeTypeCondition NodeType = "condition"
	NodeTypeCustom    NodeType = "custom"
)

// ErrLoopLimit is returned when a node is entered more often than the visit guard allows.
var ErrLoopLimit = errors.New("node visit limit exceeded")

// NodeFunc is the function executed by a node. It mutates the state in place.
type NodeFunc[S any] func(context.Context, S) error

// ConditionFunc evaluates a condition and returns the branch key to follow.
type ConditionFunc[S any] func(context.Context, S) (string, error)

// Node is one state of the machine.
type Node[S any] struct {
	Name      string
	Type      NodeType
	Execute   NodeFunc[S]
	Condition ConditionFunc[S] // Only for condition nodes
	Next      string           // Unconditional successor
	NextMap   map[string]string
}

// Graph is a single-path state machine: at every step exactly one node runs and
// exactly one successor is chosen. Execution stops at the end node.
type Graph[S any] struct {
	nodes     map[string]*Node[S]
	startNode string
	endNode   string
	maxVisits int
}

// New creates an empty graph.
func New[S any]() *Graph[S] {
	return &Graph[S]{
		nodes:     make(map[string]*Node[S]),
		maxVisits: 10,
	}
}

// Execute walks the graph from the start node until the end node has run.
func (g *Graph[S]) Execute(ctx context.Context, state S) (S, error) {
	if g.startNode == "" {
		return state, fmt.Errorf("start node not set")
	}

	visited := make(map[string]int)
	current := g.startNode
	for {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		node, ok := g.nodes[current]
		if !ok {
			return state, fmt.Errorf("node %s not found", current)
		}

		visited[current]++
		if visited[current] > g.maxVisits {
			return state, fmt.Errorf("%w at node %s (%d)", ErrLoopLimit, current, g.maxVisits)
		}

		if node.Type == NodeTypeCondition {
			key, err := node.Condition(ctx, state)
			if err != nil {
				return state, fmt.Errorf("error evaluating condition at node %s: %w", node.Name, err)
			}
			next, ok := node.NextMap[key]
			if !ok || next == "" {
				return state, fmt.Errorf("condition node %s has no branch for %q", node.Name, key)
			}
			current = next
			continue
		}

		if err := node.Execute(ctx, state); err != nil {
			return state, fmt.Errorf("error executing node %s: %w", node.Name, err)
		}
		if node.Type == NodeTypeEnd || node.Name == g.endNode {
			return state, nil
		}
		if node.Next == "" {
			return state, fmt.Errorf("no next node specified for node %s", node.Name)
		}
		current = node.Next
	}
}

// GetNode returns a node by name
func (g *Graph[S]) GetNode(name string) (*Node[S], error) {
	node, exists := g.nodes[name]
	if !exists {
		return nil, fmt.Errorf("node %s not found", name)
	}
	return node, nil
}

// MaxVisits returns the per-node visit guard.
func (g *Graph[S]) MaxVisits() int {
	return g.maxVisits
}

func (g *Graph[S]) validate() error {
	if g.startNode == "" {
		return fmt.Errorf("start node not set")
	}
	if g.endNode == "" {
		return fmt.Errorf("end node not set")
	}
	for _, node := range g.nodes {
		targets := []string{node.Next}
		if node.Type == NodeTypeCondition {
			if len(node.NextMap) == 0 {
				return fmt.Errorf("condition node %s has no branches", node.Name)
			}
			targets = targets[:0]
			for _, to := range node.NextMap {
				targets = append(targets, to)
			}
		}
		for _, to := range targets {
			if to == "" {
				continue
			}
			if _, ok := g.nodes[to]; !ok {
				return fmt.Errorf("node %s points to unknown node %s", node.Name, to)
			}
		}
	}
	return nil
}
