package questionnaire

import "sort"

// Node is the graph entry for one question ID.
type Node struct {
	Question     Question
	Branches     map[string]BranchTargets
	OnAnswered   *Question
	OnUnanswered *Question
	// Stub is set for IDs referenced as a target but never defined.
	Stub bool
}

// Graph maps question IDs to their branching and follow-up declarations.
// It is built once and never mutated afterwards.
type Graph struct {
	nodes map[string]*Node
	stubs []string
}

// BuildGraph visits every question of both sets plus every question nested
// under on_answered/on_unanswered. Already-seen IDs are not revisited, so
// reused IDs and cycles terminate. Branch or follow-up targets that no
// question defines get a stub node.
func BuildGraph(basic, dynamic []Question) *Graph {
	g := &Graph{nodes: make(map[string]*Node)}

	work := make([]Question, 0, len(basic)+len(dynamic))
	// reversed so the stack pops in declaration order
	for i := len(dynamic) - 1; i >= 0; i-- {
		work = append(work, dynamic[i])
	}
	for i := len(basic) - 1; i >= 0; i-- {
		work = append(work, basic[i])
	}

	for len(work) > 0 {
		q := work[len(work)-1]
		work = work[:len(work)-1]

		if q.ID == "" {
			continue
		}
		if _, seen := g.nodes[q.ID]; seen {
			continue
		}
		g.nodes[q.ID] = &Node{
			Question:     q.Shallow(),
			Branches:     q.Branches,
			OnAnswered:   q.OnAnswered,
			OnUnanswered: q.OnUnanswered,
		}
		if q.OnUnanswered != nil {
			work = append(work, *q.OnUnanswered)
		}
		if q.OnAnswered != nil {
			work = append(work, *q.OnAnswered)
		}
	}

	var missing []string
	for _, n := range g.nodes {
		for _, targets := range n.Branches {
			for _, id := range targets {
				if _, ok := g.nodes[id]; !ok && id != "" {
					missing = append(missing, id)
				}
			}
		}
	}
	sort.Strings(missing)
	for _, id := range missing {
		if _, ok := g.nodes[id]; ok {
			continue
		}
		g.nodes[id] = &Node{Question: Question{ID: id, Type: TypeText}, Stub: true}
		g.stubs = append(g.stubs, id)
	}

	return g
}

// Node returns a copy of the node for id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Question returns the definition registered for id.
func (g *Graph) Question(id string) (Question, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Question{}, false
	}
	return n.Question, true
}

// Total is the number of distinct question IDs in the graph.
func (g *Graph) Total() int { return len(g.nodes) }

// Stubs lists IDs that were referenced but never defined.
func (g *Graph) Stubs() []string {
	out := make([]string, len(g.stubs))
	copy(out, g.stubs)
	return out
}

// IDs returns every node ID in sorted order.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
