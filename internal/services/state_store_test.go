package services

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homematch/internal/models/db_models"
	"homematch/internal/questionnaire"
	mem "homematch/pkg/memcache"
)

func newTestStateStore(cache mem.Store, repo *memQuestionnaireRepo) *StateStore {
	return NewStateStore(cache, repo, testBank(), testConfig(), testLogger(), nil).(*StateStore)
}

func TestStateStore_FreshStateIsSeededWithBasicQuestions(t *testing.T) {
	store := newTestStateStore(mem.NewMemoryStore(), newMemQuestionnaireRepo())

	state := store.GetState(context.Background(), "u1")

	assert.Equal(t, questionnaire.Queue{"housing_purpose", "has_children"}, state.Queue)
	assert.Empty(t, state.AnsweredQuestions)
	assert.Equal(t, 2, state.Version)
	assert.False(t, state.Completed)
}

func TestStateStore_RoundTripThroughCacheAndDurableStore(t *testing.T) {
	ctx := context.Background()
	repo := newMemQuestionnaireRepo()
	store := newTestStateStore(mem.NewMemoryStore(), repo)

	state := store.GetState(ctx, "u1")
	state.RecordAnswer("housing_purpose", questionnaire.TextAnswer("Alone"))
	state.PopIfHead("housing_purpose")
	require.True(t, store.UpdateState(ctx, "u1", state))

	cached := store.GetState(ctx, "u1")
	assert.Equal(t, []string{"housing_purpose"}, cached.AnsweredQuestions)

	// a new process with a cold cache reads the durable copy
	cold := newTestStateStore(mem.NewMemoryStore(), repo)
	durable := cold.GetState(ctx, "u1")
	assert.Equal(t, questionnaire.Queue{"has_children"}, durable.Queue)
	v, _ := durable.Answers["housing_purpose"].Scalar()
	assert.Equal(t, "Alone", v)
}

func TestStateStore_ReplaysCompletedQuestionnaire(t *testing.T) {
	repo := newMemQuestionnaireRepo()
	answers, err := json.Marshal(map[string]questionnaire.Answer{
		"housing_purpose": questionnaire.ListAnswer("With family (and children)"),
		"has_children":    questionnaire.TextAnswer("Yes"),
	})
	require.NoError(t, err)
	submitted := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.completed = append(repo.completed, db_models.CompletedQuestionnaire{
		UserID:            "u1",
		Answers:           answers,
		AnsweredQuestions: []string{"has_children", "housing_purpose"},
		Version:           1,
		SubmittedAt:       submitted,
	})
	store := newTestStateStore(mem.NewMemoryStore(), repo)

	state := store.GetState(context.Background(), "u1")

	assert.True(t, state.Completed)
	assert.Equal(t, []string{"has_children", "housing_purpose"}, state.AnsweredQuestions)
	assert.Empty(t, state.Queue)
	assert.Equal(t, questionnaire.AnswerList, state.Answers["housing_purpose"].Kind())
	assert.Equal(t, submitted, state.StartTime)
}

func TestStateStore_StoreFailuresDegrade(t *testing.T) {
	ctx := context.Background()
	repo := newMemQuestionnaireRepo()
	repo.err = errStoreDown

	store := newTestStateStore(mem.NewMemoryStore(), repo)
	state := store.GetState(ctx, "u1")
	assert.Equal(t, questionnaire.Queue{"housing_purpose", "has_children"}, state.Queue)

	assert.True(t, store.UpdateState(ctx, "u1", state), "cache write alone is enough")
	assert.False(t, store.DeleteState(ctx, "u1"))

	noCache := newTestStateStore(failingCache{}, repo)
	assert.False(t, noCache.UpdateState(ctx, "u1", state))
}

func TestStateStore_DurableWriteAloneSucceeds(t *testing.T) {
	ctx := context.Background()
	repo := newMemQuestionnaireRepo()
	store := newTestStateStore(failingCache{}, repo)

	state := store.GetState(ctx, "u1")
	assert.True(t, store.UpdateState(ctx, "u1", state))
	assert.Contains(t, repo.states, "u1")
}

func TestStateStore_DeletePurgesBoth(t *testing.T) {
	ctx := context.Background()
	cache := mem.NewMemoryStore()
	repo := newMemQuestionnaireRepo()
	store := newTestStateStore(cache, repo)

	state := store.GetState(ctx, "u1")
	state.Queue.PushBack("proximity_to_parks")
	store.UpdateState(ctx, "u1", state)

	require.True(t, store.DeleteState(ctx, "u1"))
	_, cached := cache.Get(ctx, stateCacheKey("u1"))
	assert.False(t, cached)
	assert.NotContains(t, repo.states, "u1")
	assert.Equal(t, questionnaire.Queue{"housing_purpose", "has_children"}, store.GetState(ctx, "u1").Queue)
}
