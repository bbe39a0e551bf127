package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"homematch/internal/config"
	"homematch/internal/infra"
	"homematch/internal/models/db_models"
	"homematch/internal/models/response_models"
	"homematch/internal/questionnaire"
	"homematch/internal/repositories"
	mem "homematch/pkg/memcache"
	"homematch/pkg/utils"
)

type QuestionnaireServiceInterface interface {
	Start(ctx context.Context, userID string) (*response_models.QuestionnaireStepResponse, error)
	SubmitAnswers(ctx context.Context, userID string, answers map[string]questionnaire.Answer) (*response_models.QuestionnaireStepResponse, error)
	Skip(ctx context.Context, userID string) (*response_models.QuestionnaireStepResponse, error)
	Previous(ctx context.Context, userID string) (*response_models.QuestionnaireStepResponse, error)
	Status(ctx context.Context, userID string) (*response_models.QuestionnaireStatusResponse, error)
	GetResponses(ctx context.Context, userID string) (*response_models.QuestionnaireResponsesResponse, error)
	UpdateResponses(ctx context.Context, userID string, answers map[string]questionnaire.Answer) (*response_models.QuestionnaireResponsesResponse, error)
	Finalize(ctx context.Context, userID string) (*response_models.FinalizeResponse, error)
	Reset(ctx context.Context, userID string) error
}

type QuestionnaireService struct {
	flow    *questionnaire.Flow
	store   StateStoreInterface
	repo    repositories.QuestionnaireRepositoryInterface
	cache   mem.Store
	cfg     *config.Config
	logger  *zap.Logger
	metrics *infra.Metrics
	now     func() time.Time
}

func NewQuestionnaireService(
	flow *questionnaire.Flow,
	store StateStoreInterface,
	repo repositories.QuestionnaireRepositoryInterface,
	cache mem.Store,
	cfg *config.Config,
	logger *zap.Logger,
	metrics *infra.Metrics,
) QuestionnaireServiceInterface {
	return &QuestionnaireService{
		flow:    flow,
		store:   store,
		repo:    repo,
		cache:   cache,
		cfg:     cfg,
		logger:  logger.Named("questionnaire"),
		metrics: metrics,
		now:     time.Now,
	}
}

// NewShuffler returns a goroutine-safe Shuffler. A zero seed uses the
// runtime's random source.
func NewShuffler(seed int64) questionnaire.Shuffler {
	if seed == 0 {
		return rand.Shuffle
	}
	var mu sync.Mutex
	rng := rand.New(rand.NewSource(seed))
	return func(n int, swap func(i, j int)) {
		mu.Lock()
		defer mu.Unlock()
		rng.Shuffle(n, swap)
	}
}

func (s *QuestionnaireService) Start(ctx context.Context, userID string) (*response_models.QuestionnaireStepResponse, error) {
	return s.next(ctx, userID, nil)
}

func (s *QuestionnaireService) SubmitAnswers(ctx context.Context, userID string, answers map[string]questionnaire.Answer) (*response_models.QuestionnaireStepResponse, error) {
	return s.next(ctx, userID, s.expandAnswers(userID, answers))
}

func (s *QuestionnaireService) next(ctx context.Context, userID string, answers map[string]questionnaire.Answer) (*response_models.QuestionnaireStepResponse, error) {
	state := s.store.GetState(ctx, userID)

	var step questionnaire.Step
	if state.Completed {
		// a replayed submission only takes edits; it never reopens the flow
		for _, id := range sortedAnswerIDs(answers) {
			state.RecordAnswer(id, answers[id])
		}
		step = questionnaire.Step{Complete: true}
	} else {
		step = s.flow.Advance(state, answers)
	}

	if recorded := countAnswers(answers); recorded > 0 {
		s.metrics.AnswersSubmitted(recorded)
		s.invalidatePreferences(ctx, userID)
	}
	if len(step.Branched) > 0 || step.FollowUp != "" || len(step.Repopulated) > 0 {
		s.logger.Debug("queue changed",
			zap.String("user_id", userID),
			zap.Strings("branched", step.Branched),
			zap.String("follow_up", step.FollowUp),
			zap.Strings("repopulated", step.Repopulated))
	}

	s.persist(ctx, userID, state)
	return s.stepResponse(state, step), nil
}

func (s *QuestionnaireService) Skip(ctx context.Context, userID string) (*response_models.QuestionnaireStepResponse, error) {
	state := s.store.GetState(ctx, userID)
	if state.Completed {
		return s.stepResponse(state, questionnaire.Step{Complete: true}), nil
	}

	step := s.flow.Skip(state)
	s.persist(ctx, userID, state)
	return s.stepResponse(state, step), nil
}

func (s *QuestionnaireService) Previous(ctx context.Context, userID string) (*response_models.QuestionnaireStepResponse, error) {
	state := s.store.GetState(ctx, userID)
	if state.Completed {
		return s.stepResponse(state, questionnaire.Step{Complete: true}), nil
	}

	step, err := s.flow.Back(state)
	if err != nil {
		return nil, fmt.Errorf("previous question: %w", utils.ErrNoPreviousQuestion)
	}

	s.persist(ctx, userID, state)
	return s.stepResponse(state, step), nil
}

func (s *QuestionnaireService) Status(ctx context.Context, userID string) (*response_models.QuestionnaireStatusResponse, error) {
	state := s.store.GetState(ctx, userID)
	bank := s.flow.Bank()

	phase := s.flow.Phase(state)
	if state.Completed {
		phase = questionnaire.PhaseComplete
	}

	n, total := state.AnsweredCount(), bank.TotalQuestions()
	progress, overall := questionnaire.ProgressPercent(n, total), questionnaire.OverallPercent(n, total)
	if phase == questionnaire.PhaseComplete {
		// untriggered follow-ups still count toward total
		progress, overall = 100, 100
	}
	return &response_models.QuestionnaireStatusResponse{
		Phase:              string(phase),
		IsComplete:         phase == questionnaire.PhaseComplete,
		ContinuationPrompt: phase == questionnaire.PhaseContinuationPrompt,
		CurrentQuestionID:  state.CurrentQuestionID,
		AnsweredCount:      n,
		SkippedCount:       len(state.SkippedQuestions),
		QueuedCount:        state.Queue.Len(),
		TotalQuestions:     total,
		BatchTarget:        questionnaire.BatchTarget(n, total),
		Progress:           progress,
		OverallProgress:    overall,
		Version:            state.Version,
		StartTime:          state.StartTime,
		Degraded:           bank.Degraded(),
	}, nil
}

func (s *QuestionnaireService) GetResponses(ctx context.Context, userID string) (*response_models.QuestionnaireResponsesResponse, error) {
	state := s.store.GetState(ctx, userID)
	return s.responses(state), nil
}

// UpdateResponses edits answers. A submitted questionnaire gets a new
// completed record; an in-progress one is advanced as if the answers were
// submitted.
func (s *QuestionnaireService) UpdateResponses(ctx context.Context, userID string, answers map[string]questionnaire.Answer) (*response_models.QuestionnaireResponsesResponse, error) {
	if len(answers) == 0 {
		return nil, utils.ErrInvalidAnswers
	}
	answers = s.expandAnswers(userID, answers)
	delete(answers, questionnaire.ContinueMarker)

	completed, err := s.repo.FindLatestCompleted(ctx, userID)
	if err != nil {
		s.logger.Error("loading completed questionnaire", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("update responses: %w", utils.ErrDatabaseError)
	}

	if completed == nil {
		if _, err := s.next(ctx, userID, answers); err != nil {
			return nil, err
		}
		return s.GetResponses(ctx, userID)
	}

	merged, err := decodeAnswers(completed.Answers)
	if err != nil {
		s.logger.Error("decoding completed answers", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("update responses: %w", utils.ErrInternal)
	}
	state := questionnaire.ReplayState(merged, completed.AnsweredQuestions, completed.Version, completed.SubmittedAt)
	for _, id := range sortedAnswerIDs(answers) {
		state.RecordAnswer(id, answers[id])
	}

	record, err := s.completedRecord(userID, state)
	if err != nil {
		return nil, err
	}
	if err := s.repo.InsertCompleted(ctx, record); err != nil {
		s.logger.Error("storing edited responses", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("update responses: %w", utils.ErrDatabaseError)
	}

	// a stale replay may still be stored from an earlier edit
	s.store.DeleteState(ctx, userID)
	s.invalidatePreferences(ctx, userID)
	s.metrics.AnswersSubmitted(len(answers))

	return s.responses(state), nil
}

func (s *QuestionnaireService) Finalize(ctx context.Context, userID string) (*response_models.FinalizeResponse, error) {
	state := s.store.GetState(ctx, userID)
	if len(state.Answers) == 0 {
		return nil, utils.ErrNoAnswers
	}

	record, err := s.completedRecord(userID, state)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Finalize(ctx, record); err != nil {
		s.logger.Error("finalizing questionnaire", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("finalize: %w", utils.ErrDatabaseError)
	}

	s.store.DeleteState(ctx, userID)
	s.invalidatePreferences(ctx, userID)
	s.metrics.QuestionnaireCompleted()
	s.logger.Info("questionnaire finalized",
		zap.String("user_id", userID),
		zap.Int("question_count", record.QuestionCount))

	return &response_models.FinalizeResponse{
		QuestionCount: record.QuestionCount,
		SubmittedAt:   record.SubmittedAt,
		Version:       record.Version,
	}, nil
}

// Reset discards in-progress state. Submitted questionnaires are kept.
func (s *QuestionnaireService) Reset(ctx context.Context, userID string) error {
	if !s.store.DeleteState(ctx, userID) {
		return fmt.Errorf("reset questionnaire: %w", utils.ErrDatabaseError)
	}
	s.invalidatePreferences(ctx, userID)
	return nil
}

func (s *QuestionnaireService) completedRecord(userID string, state *questionnaire.State) (db_models.CompletedQuestionnaire, error) {
	data, err := json.Marshal(state.Answers)
	if err != nil {
		s.logger.Error("encoding answers", zap.String("user_id", userID), zap.Error(err))
		return db_models.CompletedQuestionnaire{}, fmt.Errorf("encode answers: %w", utils.ErrInternal)
	}
	return db_models.CompletedQuestionnaire{
		UserID:            userID,
		Answers:           data,
		AnsweredQuestions: pq.StringArray(append([]string(nil), state.AnsweredQuestions...)),
		Version:           state.Version,
		QuestionCount:     len(state.Answers),
		SubmittedAt:       s.now().UTC(),
	}, nil
}

func (s *QuestionnaireService) persist(ctx context.Context, userID string, state *questionnaire.State) {
	if !s.store.UpdateState(ctx, userID, state) {
		s.logger.Warn("questionnaire state not persisted", zap.String("user_id", userID))
	}
}

func (s *QuestionnaireService) invalidatePreferences(ctx context.Context, userID string) {
	s.cache.Delete(ctx, preferenceCacheKey(userID))
}

// expandAnswers decodes answers that arrived as serialized lists, e.g. a
// multi-choice value sent as the string `["a","b"]`. Malformed ones are kept
// as plain text.
func (s *QuestionnaireService) expandAnswers(userID string, answers map[string]questionnaire.Answer) map[string]questionnaire.Answer {
	out := make(map[string]questionnaire.Answer, len(answers))
	for id, a := range answers {
		if a.LooksLikeSerializedList() {
			expanded, err := a.ExpandSerializedList()
			if err != nil {
				s.logger.Warn("malformed list answer kept as text",
					zap.String("user_id", userID),
					zap.String("question_id", id),
					zap.Error(err))
			} else {
				a = expanded
			}
		}
		out[id] = a
	}
	return out
}

func (s *QuestionnaireService) stepResponse(state *questionnaire.State, step questionnaire.Step) *response_models.QuestionnaireStepResponse {
	n, total := state.AnsweredCount(), s.flow.Bank().TotalQuestions()
	resp := &response_models.QuestionnaireStepResponse{
		IsComplete:          step.Complete,
		UserChoseToContinue: step.UserChoseToContinue,
		ContinuationPrompt:  step.ContinuationPrompt,
		AnsweredCount:       n,
		TotalQuestions:      total,
		BatchTarget:         questionnaire.BatchTarget(n, total),
		Progress:            questionnaire.ProgressPercent(n, total),
		OverallProgress:     questionnaire.OverallPercent(n, total),
	}
	if step.Complete {
		resp.Progress = 100
		resp.OverallProgress = 100
	}
	if step.Question != nil {
		resp.Question = &response_models.QuestionResponse{
			ID:       step.Question.ID,
			Category: step.Question.Category,
			Text:     step.Question.Text,
			Type:     string(step.Question.Type),
			Options:  step.Question.Options,
		}
	}
	return resp
}

func (s *QuestionnaireService) responses(state *questionnaire.State) *response_models.QuestionnaireResponsesResponse {
	answers := make(map[string]questionnaire.Answer, len(state.Answers))
	questions := make(map[string]string, len(state.Answers))
	for id, a := range state.Answers {
		answers[id] = a
		if text := s.flow.Question(id).Text; text != "" {
			questions[id] = text
		}
	}
	return &response_models.QuestionnaireResponsesResponse{
		Answers:           answers,
		Questions:         questions,
		AnsweredQuestions: append([]string{}, state.AnsweredQuestions...),
		IsSubmitted:       state.Completed,
		Version:           state.Version,
	}
}

func countAnswers(answers map[string]questionnaire.Answer) int {
	n := len(answers)
	if _, ok := answers[questionnaire.ContinueMarker]; ok {
		n--
	}
	return n
}

func sortedAnswerIDs(answers map[string]questionnaire.Answer) []string {
	ids := make([]string, 0, len(answers))
	for id := range answers {
		if id == questionnaire.ContinueMarker {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
