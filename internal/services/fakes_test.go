package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"homematch/internal/config"
	"homematch/internal/models/db_models"
	"homematch/internal/questionnaire"
)

var errStoreDown = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

type memQuestionnaireRepo struct {
	mu        sync.Mutex
	states    map[string]db_models.QuestionnaireState
	completed []db_models.CompletedQuestionnaire
	err       error
}

func newMemQuestionnaireRepo() *memQuestionnaireRepo {
	return &memQuestionnaireRepo{states: make(map[string]db_models.QuestionnaireState)}
}

func (m *memQuestionnaireRepo) FindState(_ context.Context, userID string) (*db_models.QuestionnaireState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.states[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memQuestionnaireRepo) UpsertState(_ context.Context, state db_models.QuestionnaireState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.states[state.UserID] = state
	return nil
}

func (m *memQuestionnaireRepo) DeleteState(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.states, userID)
	return nil
}

func (m *memQuestionnaireRepo) FindLatestCompleted(_ context.Context, userID string) (*db_models.CompletedQuestionnaire, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i := len(m.completed) - 1; i >= 0; i-- {
		if m.completed[i].UserID == userID {
			c := m.completed[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memQuestionnaireRepo) InsertCompleted(_ context.Context, record db_models.CompletedQuestionnaire) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.completed = append(m.completed, record)
	return nil
}

func (m *memQuestionnaireRepo) Finalize(ctx context.Context, record db_models.CompletedQuestionnaire) error {
	if err := m.InsertCompleted(ctx, record); err != nil {
		return err
	}
	return m.DeleteState(ctx, record.UserID)
}

func (m *memQuestionnaireRepo) completedFor(userID string) []db_models.CompletedQuestionnaire {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db_models.CompletedQuestionnaire
	for _, c := range m.completed {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out
}

type stubQuestionRepo struct {
	rows map[string][]db_models.Question
	err  error
}

func (s *stubQuestionRepo) FindAll(_ context.Context, collection string) ([]db_models.Question, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows[collection], nil
}

type mockNeighborhoodRepo struct {
	mock.Mock
}

func (m *mockNeighborhoodRepo) ListFeatures(ctx context.Context, city string) ([]db_models.NeighborhoodFeature, error) {
	args := m.Called(ctx, city)
	rows, _ := args.Get(0).([]db_models.NeighborhoodFeature)
	return rows, args.Error(1)
}

func (m *mockNeighborhoodRepo) GetFeature(ctx context.Context, id uuid.UUID) (*db_models.NeighborhoodFeature, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(*db_models.NeighborhoodFeature)
	return row, args.Error(1)
}

// failingCache never stores anything.
type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, bool)              { return nil, false }
func (failingCache) Set(context.Context, string, []byte, time.Duration) bool { return false }
func (failingCache) Delete(context.Context, string) bool                     { return false }

func testConfig() *config.Config {
	return &config.Config{
		Environment:                 "test",
		StateCacheTTL:               time.Hour,
		PreferenceCacheTTL:          time.Hour,
		QuestionnaireVersion:        2,
		RecommendationLimit:         2,
		ExtendedRecommendationLimit: 10,
	}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// testBank has two basic questions and a small dynamic pool. has_children
// declares an inline follow-up.
func testBank() *questionnaire.Bank {
	basic := []questionnaire.Question{
		{ID: "housing_purpose", Text: "Who will live with you?", Type: questionnaire.TypeSingleChoice,
			Options: []string{"Alone", "As a couple", "With family (and children)", "With roommates"}},
		{ID: "has_children", Text: "Do you have children?", Type: questionnaire.TypeBoolean,
			OnAnswered: &questionnaire.Question{ID: "kindergarten_proximity", Text: "How close to a kindergarten?"}},
	}
	dynamic := []questionnaire.Question{
		{ID: "proximity_to_shopping", Category: questionnaire.CategoryLocationAndConvenience},
		{ID: "proximity_to_parks", Category: questionnaire.CategoryLocationAndConvenience},
		{ID: "nightlife_proximity", Category: "Lifestyle"},
	}
	return questionnaire.NewBank(basic, dynamic)
}
