package questionnaire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGraph_NestedFollowUps(t *testing.T) {
	basic := []Question{
		{
			ID: "has_children",
			OnAnswered: &Question{
				ID: "children_ages",
				OnAnswered: &Question{
					ID: "school_type",
				},
			},
			OnUnanswered: &Question{ID: "plans_for_children"},
		},
	}
	dynamic := []Question{{ID: "proximity_to_parks", Category: CategoryLocationAndConvenience}}

	g := BuildGraph(basic, dynamic)

	assert.Equal(t, 5, g.Total())
	for _, id := range []string{"has_children", "children_ages", "school_type", "plans_for_children", "proximity_to_parks"} {
		assert.True(t, g.Has(id), id)
	}

	node, ok := g.Node("has_children")
	require.True(t, ok)
	require.NotNil(t, node.OnAnswered)
	assert.Equal(t, "children_ages", node.OnAnswered.ID)
	assert.Nil(t, node.Question.OnAnswered, "stored question is shallow")
}

func TestBuildGraph_ReusedIDsAreNotRevisited(t *testing.T) {
	loop := &Question{ID: "a"}
	loop.OnAnswered = &Question{ID: "b", OnAnswered: loop}

	g := BuildGraph([]Question{*loop}, []Question{{ID: "a", Text: "duplicate"}})

	assert.Equal(t, 2, g.Total())
	q, ok := g.Question("a")
	require.True(t, ok)
	assert.Empty(t, q.Text, "first definition wins")
}

func TestBuildGraph_BranchTargetsAlwaysHaveNodes(t *testing.T) {
	basic := []Question{
		{ID: "q1", Branches: map[string]BranchTargets{"Yes": {"q2"}, "No": {"ghost", "q3"}}},
		{ID: "q2"},
	}
	dynamic := []Question{{ID: "q3"}}

	g := BuildGraph(basic, dynamic)

	for _, id := range []string{"q1", "q2", "q3", "ghost"} {
		assert.True(t, g.Has(id), id)
	}
	assert.Equal(t, []string{"ghost"}, g.Stubs())

	ghost, _ := g.Node("ghost")
	assert.True(t, ghost.Stub)
	q2, _ := g.Node("q2")
	assert.False(t, q2.Stub)
}

func TestBank_PlaceholderIsDegraded(t *testing.T) {
	b := PlaceholderBank()

	assert.True(t, b.Degraded())
	assert.Equal(t, []string{"housing_purpose", "importance_of_safety", "importance_of_quiet"}, b.BasicIDs())
	assert.Equal(t, 3, b.TotalQuestions())
	assert.Empty(t, b.Dynamic())
}

func TestBank_DuplicateIDsKeepFirst(t *testing.T) {
	b := NewBank(
		[]Question{{ID: "q1", Text: "basic"}, {ID: "q1", Text: "again"}},
		[]Question{{ID: "q1", Text: "dynamic"}, {ID: "d1"}},
	)

	assert.Equal(t, []string{"q1"}, b.BasicIDs())
	assert.Equal(t, []string{"q1", "d1"}, b.KnownIDs())
	q, _ := b.Question("q1")
	assert.Equal(t, "basic", q.Text)
}
