package services

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"homematch/internal/config"
	"homematch/internal/infra"
	"homematch/internal/models/db_models"
	"homematch/internal/questionnaire"
	"homematch/internal/repositories"
	mem "homematch/pkg/memcache"
)

const stateCacheName = "questionnaire_state"

func stateCacheKey(userID string) string {
	return stateCacheName + ":" + userID
}

// StateStoreInterface keeps per-user questionnaire progress in the cache and
// the durable store. Store failures degrade to "no state yet" rather than
// surfacing to the caller.
type StateStoreInterface interface {
	GetState(ctx context.Context, userID string) *questionnaire.State
	// UpdateState succeeds if either the cache or the durable write does.
	UpdateState(ctx context.Context, userID string, state *questionnaire.State) bool
	DeleteState(ctx context.Context, userID string) bool
}

type StateStore struct {
	cache   mem.Store
	repo    repositories.QuestionnaireRepositoryInterface
	bank    *questionnaire.Bank
	cfg     *config.Config
	logger  *zap.Logger
	metrics *infra.Metrics
	now     func() time.Time
}

func NewStateStore(
	cache mem.Store,
	repo repositories.QuestionnaireRepositoryInterface,
	bank *questionnaire.Bank,
	cfg *config.Config,
	logger *zap.Logger,
	metrics *infra.Metrics,
) StateStoreInterface {
	return &StateStore{
		cache:   cache,
		repo:    repo,
		bank:    bank,
		cfg:     cfg,
		logger:  logger.Named("state_store"),
		metrics: metrics,
		now:     time.Now,
	}
}

// GetState tries the cache, then the durable store, then a replay of the
// latest completed questionnaire, and finally starts a fresh state seeded
// with the basic questions.
func (s *StateStore) GetState(ctx context.Context, userID string) *questionnaire.State {
	log := s.logger.With(zap.String("user_id", userID))

	if data, ok := s.cache.Get(ctx, stateCacheKey(userID)); ok {
		var state questionnaire.State
		err := json.Unmarshal(data, &state)
		if err == nil {
			s.metrics.CacheLookup(stateCacheName, true)
			return normalizeState(&state)
		}
		log.Warn("dropping undecodable cached state", zap.Error(err))
		s.cache.Delete(ctx, stateCacheKey(userID))
	}
	s.metrics.CacheLookup(stateCacheName, false)

	row, err := s.repo.FindState(ctx, userID)
	if err != nil {
		log.Warn("loading durable state failed", zap.Error(err))
	} else if row != nil {
		var state questionnaire.State
		err := json.Unmarshal(row.State, &state)
		if err == nil {
			s.cacheState(ctx, userID, &state)
			return normalizeState(&state)
		}
		log.Warn("durable state is undecodable, ignoring it", zap.Error(err))
	}

	completed, err := s.repo.FindLatestCompleted(ctx, userID)
	if err != nil {
		log.Warn("loading completed questionnaire failed", zap.Error(err))
	} else if completed != nil {
		answers, err := decodeAnswers(completed.Answers)
		if err == nil {
			return questionnaire.ReplayState(answers, completed.AnsweredQuestions, completed.Version, completed.SubmittedAt)
		}
		log.Warn("completed questionnaire is undecodable", zap.Error(err))
	}

	return questionnaire.NewState(s.bank.BasicIDs(), s.cfg.QuestionnaireVersion, s.now().UTC())
}

func (s *StateStore) UpdateState(ctx context.Context, userID string, state *questionnaire.State) bool {
	data, err := json.Marshal(state)
	if err != nil {
		s.logger.Error("encoding state", zap.String("user_id", userID), zap.Error(err))
		return false
	}

	cached := s.cache.Set(ctx, stateCacheKey(userID), data, s.cfg.StateCacheTTL)

	durable := true
	if err := s.repo.UpsertState(ctx, db_models.QuestionnaireState{
		UserID:  userID,
		State:   data,
		Version: state.Version,
	}); err != nil {
		durable = false
		s.logger.Warn("persisting state failed", zap.String("user_id", userID), zap.Error(err))
	}

	return cached || durable
}

func (s *StateStore) DeleteState(ctx context.Context, userID string) bool {
	s.cache.Delete(ctx, stateCacheKey(userID))
	if err := s.repo.DeleteState(ctx, userID); err != nil {
		s.logger.Warn("deleting durable state failed", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	return true
}

func (s *StateStore) cacheState(ctx context.Context, userID string, state *questionnaire.State) {
	data, err := json.Marshal(state)
	if err != nil {
		return
	}
	s.cache.Set(ctx, stateCacheKey(userID), data, s.cfg.StateCacheTTL)
}

func normalizeState(state *questionnaire.State) *questionnaire.State {
	if state.Answers == nil {
		state.Answers = make(map[string]questionnaire.Answer)
	}
	return state
}

func decodeAnswers(data []byte) (map[string]questionnaire.Answer, error) {
	answers := make(map[string]questionnaire.Answer)
	if len(data) == 0 {
		return answers, nil
	}
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
