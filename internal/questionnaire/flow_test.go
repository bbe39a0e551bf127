package questionnaire

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(b *Bank) *State {
	return NewState(b.BasicIDs(), 1, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

// dynamicPool builds n location questions followed by m questions of another category.
func dynamicPool(n, m int) []Question {
	var out []Question
	for i := 0; i < n; i++ {
		out = append(out, Question{ID: fmt.Sprintf("loc_%02d", i), Category: CategoryLocationAndConvenience})
	}
	for i := 0; i < m; i++ {
		out = append(out, Question{ID: fmt.Sprintf("life_%02d", i), Category: "Lifestyle"})
	}
	return out
}

func answerHead(t *testing.T, f *Flow, s *State, value string) Step {
	t.Helper()
	head, ok := s.Queue.Front()
	require.True(t, ok, "queue should not be empty")
	return f.Advance(s, map[string]Answer{head: TextAnswer(value)})
}

func TestFlow_BasicExample(t *testing.T) {
	bank := NewBank([]Question{{ID: "q1"}, {ID: "q2"}}, nil)
	flow := NewFlow(bank, nil)
	s := newTestState(bank)

	assert.Equal(t, Queue{"q1", "q2"}, s.Queue)
	assert.Empty(t, s.AnsweredQuestions)

	step := flow.Advance(s, map[string]Answer{})
	require.NotNil(t, step.Question)
	assert.Equal(t, "q1", step.Question.ID)
	assert.Equal(t, "q1", s.CurrentQuestionID)
	assert.Equal(t, Queue{"q1", "q2"}, s.Queue)

	step = flow.Advance(s, map[string]Answer{"q1": TextAnswer("yes")})
	require.NotNil(t, step.Question)
	assert.Equal(t, "q2", step.Question.ID)
	assert.Equal(t, Queue{"q2"}, s.Queue)
	assert.Equal(t, []string{"q1"}, s.AnsweredQuestions)
	assert.Equal(t, "q2", s.CurrentQuestionID)
}

func TestFlow_IdempotentPeek(t *testing.T) {
	bank := NewBank([]Question{{ID: "q1"}, {ID: "q2"}}, dynamicPool(3, 0))
	flow := NewFlow(bank, nil)
	s := newTestState(bank)

	first := flow.Resolve(s)
	for i := 0; i < 5; i++ {
		again := flow.Advance(s, nil)
		require.NotNil(t, again.Question)
		assert.Equal(t, first.Question.ID, again.Question.ID)
	}
	assert.Empty(t, s.AnsweredQuestions)
	assert.Equal(t, Queue{"q1", "q2"}, s.Queue)
}

func TestFlow_ResubmissionDoesNotDuplicateHistory(t *testing.T) {
	bank := NewBank([]Question{{ID: "q1"}, {ID: "q2"}}, nil)
	flow := NewFlow(bank, nil)
	s := newTestState(bank)

	flow.Advance(s, map[string]Answer{"q1": TextAnswer("first")})
	flow.Advance(s, map[string]Answer{"q1": TextAnswer("second")})

	assert.Equal(t, []string{"q1"}, s.AnsweredQuestions)
	assert.Equal(t, "second", s.Answers["q1"].String())
}

func TestFlow_BranchClosure(t *testing.T) {
	bank := NewBank(
		[]Question{
			{ID: "amenities", Branches: map[string]BranchTargets{
				"Parks":    {"park_type"},
				"Shopping": {"mall_or_street", "grocery"},
				"Gym":      {"grocery"},
			}},
			{ID: "q2"},
		},
		[]Question{{ID: "park_type"}, {ID: "mall_or_street"}, {ID: "grocery"}},
	)
	flow := NewFlow(bank, nil)
	s := newTestState(bank)

	step := flow.Advance(s, map[string]Answer{"amenities": ListAnswer("Parks", "Shopping", "Gym", "Unknown")})

	assert.ElementsMatch(t, []string{"park_type", "mall_or_street", "grocery"}, step.Branched)
	for _, id := range []string{"park_type", "mall_or_street", "grocery"} {
		assert.True(t, s.Queue.Contains(id) || s.IsAnswered(id), id)
	}
	head, _ := s.Queue.Front()
	assert.Equal(t, "q2", head, "branch targets are appended at the back")
}

func TestFlow_BranchSkipsAnsweredAndComplexAnswers(t *testing.T) {
	bank := NewBank(
		[]Question{
			{ID: "q1", Branches: map[string]BranchTargets{"Yes": {"q3"}}},
			{ID: "q2", Branches: map[string]BranchTargets{"Yes": {"q3"}}},
			{ID: "q3"},
		},
		nil,
	)
	flow := NewFlow(bank, nil)
	s := newTestState(bank)

	complexAnswer, err := ParseAnswer([]byte(`{"Yes": true}`))
	require.NoError(t, err)

	step := flow.Advance(s, map[string]Answer{"q1": complexAnswer})
	assert.Empty(t, step.Branched)

	flow.Advance(s, map[string]Answer{"q3": TextAnswer("done")})
	step = flow.Advance(s, map[string]Answer{"q2": TextAnswer("Yes")})
	assert.Empty(t, step.Branched, "answered targets are not re-queued")
	assert.False(t, s.Queue.Contains("q3"))
}

func TestFlow_FollowUpInjection(t *testing.T) {
	newBank := func() *Bank {
		return NewBank([]Question{
			{
				ID:           "has_children",
				OnAnswered:   &Question{ID: "children_ages"},
				OnUnanswered: &Question{ID: "plans_for_children"},
			},
			{ID: "q2"},
		}, nil)
	}

	t.Run("truthy answer pushes on_answered to the front", func(t *testing.T) {
		bank := newBank()
		flow := NewFlow(bank, nil)
		s := newTestState(bank)

		step := flow.Advance(s, map[string]Answer{"has_children": TextAnswer("Yes")})

		assert.Equal(t, "children_ages", step.FollowUp)
		require.NotNil(t, step.Question)
		assert.Equal(t, "children_ages", step.Question.ID)
		assert.Equal(t, Queue{"children_ages", "q2"}, s.Queue)
		assert.Equal(t, "children_ages", s.CurrentQuestionID)
	})

	t.Run("falsy answer pushes on_unanswered", func(t *testing.T) {
		bank := newBank()
		flow := NewFlow(bank, nil)
		s := newTestState(bank)

		step := flow.Advance(s, map[string]Answer{"has_children": TextAnswer("")})

		assert.Equal(t, "plans_for_children", step.FollowUp)
		assert.Equal(t, Queue{"plans_for_children", "q2"}, s.Queue)
	})

	t.Run("already queued follow-up is not duplicated", func(t *testing.T) {
		bank := newBank()
		flow := NewFlow(bank, nil)
		s := newTestState(bank)
		s.Queue.PushBack("children_ages")

		step := flow.Advance(s, map[string]Answer{"has_children": TextAnswer("Yes")})

		assert.Empty(t, step.FollowUp)
		assert.Equal(t, Queue{"q2", "children_ages"}, s.Queue)
	})
}

func TestFlow_ContinueMarkerIsNotAnAnswer(t *testing.T) {
	bank := NewBank([]Question{{ID: "q1"}}, nil)
	flow := NewFlow(bank, nil)
	s := newTestState(bank)

	step := flow.Advance(s, map[string]Answer{ContinueMarker: TextAnswer("true")})

	assert.True(t, step.UserChoseToContinue)
	assert.NotContains(t, s.Answers, ContinueMarker)
	assert.Empty(t, s.AnsweredQuestions)
}

func TestFlow_RepopulationSchedule(t *testing.T) {
	bank := NewBank([]Question{{ID: "b1"}, {ID: "b2"}}, dynamicPool(12, 8))
	flow := NewFlow(bank, nil)
	s := newTestState(bank)

	answerHead(t, flow, s, "x")
	step := answerHead(t, flow, s, "x")

	// two basics answered: refill to ten answered+queued, location first
	require.Len(t, step.Repopulated, 8)
	for _, id := range step.Repopulated {
		q, _ := bank.Question(id)
		assert.Equal(t, CategoryLocationAndConvenience, q.Category)
	}
	assert.Equal(t, 8, s.Queue.Len())

	for i := 0; i < 8; i++ {
		step = answerHead(t, flow, s, "x")
	}
	assert.Equal(t, 10, s.AnsweredCount())
	require.Len(t, step.Repopulated, 5)
	assert.True(t, step.ContinuationPrompt)

	// four location questions remain, then the other category fills in
	var locations, others int
	for _, id := range step.Repopulated {
		q, _ := bank.Question(id)
		if q.Category == CategoryLocationAndConvenience {
			locations++
		} else {
			others++
		}
	}
	assert.Equal(t, 4, locations)
	assert.Equal(t, 1, others)
}

func TestFlow_RepopulationUsesShuffler(t *testing.T) {
	bank := NewBank(nil, dynamicPool(30, 0))
	reversed := func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}
	flow := NewFlow(bank, reversed)
	s := newTestState(bank)

	step := flow.Resolve(s)

	require.NotNil(t, step.Question)
	assert.Equal(t, "loc_29", step.Question.ID)
	assert.Len(t, s.Queue, InitialBatchSize)
}

func TestFlow_ContinuationPromptUntilConfirmed(t *testing.T) {
	bank := NewBank(nil, dynamicPool(20, 0))
	flow := NewFlow(bank, nil)
	s := newTestState(bank)
	flow.Resolve(s)

	var step Step
	for i := 0; i < InitialBatchSize; i++ {
		step = answerHead(t, flow, s, "x")
	}
	assert.True(t, step.ContinuationPrompt)
	assert.Equal(t, PhaseContinuationPrompt, flow.Phase(s))

	again := flow.Resolve(s)
	assert.True(t, again.ContinuationPrompt, "shown until the user confirms")

	step = flow.Advance(s, map[string]Answer{ContinueMarker: TextAnswer("yes")})
	assert.True(t, step.UserChoseToContinue)
	assert.False(t, step.ContinuationPrompt)
	assert.Equal(t, PhaseAwaitingAnswer, flow.Phase(s))

	step = answerHead(t, flow, s, "x")
	assert.False(t, step.ContinuationPrompt)
}

func TestFlow_SkipDoesNotAnswer(t *testing.T) {
	bank := NewBank([]Question{{ID: "q1"}, {ID: "q2"}}, nil)
	flow := NewFlow(bank, nil)
	s := newTestState(bank)
	flow.Resolve(s)

	step := flow.Skip(s)

	require.NotNil(t, step.Question)
	assert.Equal(t, "q2", step.Question.ID)
	assert.NotContains(t, s.Answers, "q1")
	assert.False(t, s.IsAnswered("q1"))
	assert.Equal(t, []string{"q1"}, s.SkippedQuestions)

	// once everything else is answered the skipped question comes back
	step = flow.Advance(s, map[string]Answer{"q2": TextAnswer("x")})
	require.NotNil(t, step.Question)
	assert.Equal(t, "q1", step.Question.ID)
	assert.Empty(t, s.SkippedQuestions)

	step = flow.Advance(s, map[string]Answer{"q1": TextAnswer("x")})
	assert.True(t, step.Complete)
}

func TestFlow_Back(t *testing.T) {
	bank := NewBank([]Question{{ID: "q1"}, {ID: "q2"}, {ID: "q3"}}, nil)
	flow := NewFlow(bank, nil)
	s := newTestState(bank)

	_, err := flow.Back(s)
	assert.ErrorIs(t, err, ErrNoPreviousQuestion)

	flow.Advance(s, map[string]Answer{"q1": TextAnswer("a")})
	flow.Advance(s, map[string]Answer{"q2": TextAnswer("b")})

	step, err := flow.Back(s)
	require.NoError(t, err)
	require.NotNil(t, step.Question)
	assert.Equal(t, "q2", step.Question.ID)
	assert.Equal(t, Queue{"q2", "q3"}, s.Queue)
	assert.Equal(t, []string{"q1"}, s.AnsweredQuestions)
	assert.Equal(t, "b", s.Answers["q2"].String(), "answer stays editable")
	assert.Equal(t, "q2", s.CurrentQuestionID)
}

func TestFlow_CompletionAndMonotonicProgress(t *testing.T) {
	bank := NewBank([]Question{{ID: "b1"}, {ID: "b2"}, {ID: "b3"}}, dynamicPool(15, 10))
	flow := NewFlow(bank, rand.New(rand.NewSource(7)).Shuffle)
	s := newTestState(bank)
	total := bank.TotalQuestions()

	step := flow.Resolve(s)
	last := OverallPercent(0, total)
	for !step.Complete {
		require.NotNil(t, step.Question)
		step = flow.Advance(s, map[string]Answer{
			step.Question.ID: TextAnswer("x"),
			ContinueMarker:   TextAnswer("yes"),
		})
		p := OverallPercent(s.AnsweredCount(), total)
		assert.GreaterOrEqual(t, p, last)
		last = p
		require.LessOrEqual(t, s.AnsweredCount(), total, "flow must terminate")
	}

	assert.True(t, flow.IsComplete(s))
	assert.Equal(t, PhaseComplete, flow.Phase(s))
	assert.Equal(t, float64(100), ProgressPercent(s.AnsweredCount(), total))
	assert.Equal(t, float64(100), OverallPercent(s.AnsweredCount(), total))
	assert.Empty(t, s.CurrentQuestionID)
}

func TestFlow_FirstBatchFallsBackToOtherCategories(t *testing.T) {
	bank := NewBank([]Question{{ID: "b1"}}, dynamicPool(1, 12))
	flow := NewFlow(bank, nil)
	s := newTestState(bank)

	step := answerHead(t, flow, s, "x")

	// one answered: nine slots, the single location question first
	require.Len(t, step.Repopulated, 9)
	assert.Equal(t, "loc_00", step.Repopulated[0])
	for _, id := range step.Repopulated[1:] {
		q, _ := bank.Question(id)
		assert.Equal(t, "Lifestyle", q.Category)
	}
	assert.False(t, flow.IsComplete(s))
}
