package questionnaire

import "sort"

// BranchTargetsFor collects the follow-up IDs selected by an answer. List
// answers contribute the targets of every element. The result is a set: its
// order is not defined. Null and complex answers never match.
func BranchTargetsFor(node Node, a Answer) []string {
	if len(node.Branches) == 0 {
		return nil
	}
	set := make(map[string]struct{})
	for _, v := range a.Values() {
		targets, ok := node.Branches[v]
		if !ok {
			continue
		}
		for _, id := range targets {
			if id != "" {
				set[id] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// ApplyBranches enqueues at the back every branch target of the answer
// that is neither answered nor already queued. It returns the added IDs.
func (s *State) ApplyBranches(g *Graph, id string, a Answer) []string {
	node, ok := g.Node(id)
	if !ok {
		return nil
	}
	var added []string
	for _, target := range BranchTargetsFor(node, a) {
		if s.IsAnswered(target) || s.Queue.Contains(target) {
			continue
		}
		s.Queue.PushBack(target)
		added = append(added, target)
	}
	return added
}

// InjectFollowUp pushes the on_answered (truthy answer) or on_unanswered
// (falsy answer) question of id onto the front of the queue.
func (s *State) InjectFollowUp(g *Graph, id string, a Answer) (string, bool) {
	node, ok := g.Node(id)
	if !ok {
		return "", false
	}
	var follow *Question
	if a.Truthy() {
		follow = node.OnAnswered
	} else {
		follow = node.OnUnanswered
	}
	if follow == nil || follow.ID == "" {
		return "", false
	}
	if s.Queue.Contains(follow.ID) || s.IsAnswered(follow.ID) {
		return "", false
	}
	s.Queue.PushFront(follow.ID)
	return follow.ID, true
}

func sortedKeys(m map[string]Answer) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
