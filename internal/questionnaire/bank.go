package questionnaire

// Bank is the immutable question set shared by every request: the ordered
// basic questions, the dynamic pool and the graph built over both.
type Bank struct {
	basic    []Question
	dynamic  []Question
	basicIDs []string
	known    map[string]struct{}
	graph    *Graph
	degraded bool
}

// NewBank builds the graph over both sets. Duplicate IDs keep their first
// definition, basic before dynamic.
func NewBank(basic, dynamic []Question) *Bank {
	b := &Bank{known: make(map[string]struct{})}
	for _, q := range basic {
		if _, dup := b.known[q.ID]; dup || q.ID == "" {
			continue
		}
		b.known[q.ID] = struct{}{}
		b.basic = append(b.basic, q)
		b.basicIDs = append(b.basicIDs, q.ID)
	}
	for _, q := range dynamic {
		if _, dup := b.known[q.ID]; dup || q.ID == "" {
			continue
		}
		b.known[q.ID] = struct{}{}
		b.dynamic = append(b.dynamic, q)
	}
	b.graph = BuildGraph(b.basic, b.dynamic)
	return b
}

// PlaceholderBank is served when the question store is unavailable or empty.
func PlaceholderBank() *Bank {
	b := NewBank(placeholderBasic(), nil)
	b.degraded = true
	return b
}

func placeholderBasic() []Question {
	importance := []string{"Very important", "Important", "Somewhat important", "Not important"}
	return []Question{
		{
			ID:       "housing_purpose",
			Category: "Basic",
			Text:     "Who are you looking to live with?",
			Type:     TypeSingleChoice,
			Options:  []string{"Alone", "As a couple", "With family (and children)", "With roommates"},
		},
		{
			ID:       "importance_of_safety",
			Category: "Basic",
			Text:     "How important is neighborhood safety to you?",
			Type:     TypeSingleChoice,
			Options:  importance,
		},
		{
			ID:       "importance_of_quiet",
			Category: "Basic",
			Text:     "How important is a quiet, peaceful street?",
			Type:     TypeSingleChoice,
			Options:  importance,
		},
	}
}

func (b *Bank) Graph() *Graph { return b.graph }

// Degraded reports whether this is the placeholder set.
func (b *Bank) Degraded() bool { return b.degraded }

// BasicIDs returns the basic question IDs in declaration order.
func (b *Bank) BasicIDs() []string {
	out := make([]string, len(b.basicIDs))
	copy(out, b.basicIDs)
	return out
}

// Dynamic returns the dynamic questions in declaration order.
func (b *Bank) Dynamic() []Question {
	out := make([]Question, len(b.dynamic))
	copy(out, b.dynamic)
	return out
}

// KnownIDs returns basic then dynamic IDs. Completion is measured against
// this set; nested follow-ups are not part of it.
func (b *Bank) KnownIDs() []string {
	out := make([]string, 0, len(b.basic)+len(b.dynamic))
	out = append(out, b.basicIDs...)
	for _, q := range b.dynamic {
		out = append(out, q.ID)
	}
	return out
}

func (b *Bank) IsKnown(id string) bool {
	_, ok := b.known[id]
	return ok
}

// Question looks up any question reachable through the graph.
func (b *Bank) Question(id string) (Question, bool) {
	return b.graph.Question(id)
}

// TotalQuestions counts every distinct graph node; progress is computed
// against it.
func (b *Bank) TotalQuestions() int { return b.graph.Total() }
