package graph

import "fmt"

// Builder helps build graphs fluently. The first error sticks and is reported by Build.
type Builder[S any] struct {
	graph *Graph[S]
	err   error
}

// NewBuilder creates a new graph builder
func NewBuilder[S any]() *Builder[S] {
	return &Builder[S]{graph: New[S]()}
}

// AddNode adds an executing node.
func (b *Builder[S]) AddNode(name string, nodeType NodeType, execute NodeFunc[S]) *Builder[S] {
	if nodeType == NodeTypeCondition {
		return b.fail(fmt.Errorf("node %s: use AddConditionNode for condition nodes", name))
	}
	if execute == nil {
		return b.fail(fmt.Errorf("node %s of type %s must have non-nil Execute function", name, nodeType))
	}
	return b.add(&Node[S]{Name: name, Type: nodeType, Execute: execute})
}

// AddConditionNode adds a routing node whose result selects an entry of nextMap.
func (b *Builder[S]) AddConditionNode(name string, condition ConditionFunc[S], nextMap map[string]string) *Builder[S] {
	if condition == nil {
		return b.fail(fmt.Errorf("condition node %s must have non-nil Condition function", name))
	}
	branches := make(map[string]string, len(nextMap))
	for k, v := range nextMap {
		branches[k] = v
	}
	return b.add(&Node[S]{Name: name, Type: NodeTypeCondition, Condition: condition, NextMap: branches})
}

// AddEdge sets the unconditional successor of from.
func (b *Builder[S]) AddEdge(from, to string) *Builder[S] {
	if b.err != nil {
		return b
	}
	node, ok := b.graph.nodes[from]
	if !ok {
		return b.fail(fmt.Errorf("node %s not found", from))
	}
	if node.Type == NodeTypeCondition {
		return b.fail(fmt.Errorf("condition node %s routes through its branch map", from))
	}
	if node.Next != "" && node.Next != to {
		return b.fail(fmt.Errorf("node %s already continues to %s", from, node.Next))
	}
	node.Next = to
	return b
}

// SetStart sets the start node
func (b *Builder[S]) SetStart(name string) *Builder[S] {
	if b.err != nil {
		return b
	}
	if _, ok := b.graph.nodes[name]; !ok {
		return b.fail(fmt.Errorf("node %s not found", name))
	}
	b.graph.startNode = name
	return b
}

// SetEnd sets the end node
func (b *Builder[S]) SetEnd(name string) *Builder[S] {
	if b.err != nil {
		return b
	}
	if _, ok := b.graph.nodes[name]; !ok {
		return b.fail(fmt.Errorf("node %s not found", name))
	}
	b.graph.endNode = name
	return b
}

// SetMaxVisits sets the maximum number of visits to a node
func (b *Builder[S]) SetMaxVisits(maxVisits int) *Builder[S] {
	if maxVisits > 0 {
		b.graph.maxVisits = maxVisits
	}
	return b
}

// Build validates and returns the constructed graph
func (b *Builder[S]) Build() (*Graph[S], error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.graph.validate(); err != nil {
		return nil, err
	}
	return b.graph, nil
}

func (b *Builder[S]) add(node *Node[S]) *Builder[S] {
	if b.err != nil {
		return b
	}
	if node.Name == "" {
		return b.fail(fmt.Errorf("node name cannot be empty"))
	}
	if _, exists := b.graph.nodes[node.Name]; exists {
		return b.fail(fmt.Errorf("node %s already exists", node.Name))
	}
	b.graph.nodes[node.Name] = node

	// Auto-set start and end nodes
	switch node.Type {
	case NodeTypeStart:
		b.graph.startNode = node.Name
	case NodeTypeEnd:
		b.graph.endNode = node.Name
	}
	return b
}

func (b *Builder[S]) fail(err error) *Builder[S] {
	if b.err == nil {
		b.err = err
	}
	return b
}
