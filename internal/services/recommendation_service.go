package services

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"homematch/internal/config"
	"homematch/internal/infra"
	"homematch/internal/models/db_models"
	"homematch/internal/models/response_models"
	"homematch/internal/preference"
	"homematch/internal/questionnaire"
	"homematch/internal/repositories"
	"homematch/internal/scoring"
	mem "homematch/pkg/memcache"
	"homematch/pkg/utils"
)

const preferenceCacheName = "preference_vector"

func preferenceCacheKey(userID string) string {
	return preferenceCacheName + ":" + userID
}

type RecommendationServiceInterface interface {
	GetRecommendations(ctx context.Context, userID, city string) (*response_models.RecommendationsResponse, error)
	GetExtendedRecommendations(ctx context.Context, userID, city string) (*response_models.RecommendationsResponse, error)
	GetNeighborhoodDetail(ctx context.Context, userID string, neighborhoodID uuid.UUID) (*response_models.NeighborhoodDetailResponse, error)
	// PreferenceVector returns utils.ErrQuestionnaireRequired when the user
	// has neither a submitted questionnaire nor in-progress answers.
	PreferenceVector(ctx context.Context, userID string) (preference.Vector, error)
}

type RecommendationService struct {
	neighborhoods  repositories.NeighborhoodRepositoryInterface
	questionnaires repositories.QuestionnaireRepositoryInterface
	store          StateStoreInterface
	cache          mem.Store
	calculator     *preference.Calculator
	engine         *scoring.Engine
	cfg            *config.Config
	logger         *zap.Logger
	metrics        *infra.Metrics
}

func NewRecommendationService(
	neighborhoods repositories.NeighborhoodRepositoryInterface,
	questionnaireRepo repositories.QuestionnaireRepositoryInterface,
	store StateStoreInterface,
	cache mem.Store,
	calculator *preference.Calculator,
	engine *scoring.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	metrics *infra.Metrics,
) RecommendationServiceInterface {
	return &RecommendationService{
		neighborhoods:  neighborhoods,
		questionnaires: questionnaireRepo,
		store:          store,
		cache:          cache,
		calculator:     calculator,
		engine:         engine,
		cfg:            cfg,
		logger:         logger.Named("recommendations"),
		metrics:        metrics,
	}
}

func (r *RecommendationService) GetRecommendations(ctx context.Context, userID, city string) (*response_models.RecommendationsResponse, error) {
	return r.recommend(ctx, userID, city, r.cfg.RecommendationLimit, "top")
}

func (r *RecommendationService) GetExtendedRecommendations(ctx context.Context, userID, city string) (*response_models.RecommendationsResponse, error) {
	return r.recommend(ctx, userID, city, r.cfg.ExtendedRecommendationLimit, "extended")
}

func (r *RecommendationService) recommend(ctx context.Context, userID, city string, limit int, view string) (*response_models.RecommendationsResponse, error) {
	vec, err := r.PreferenceVector(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := r.loadNeighborhoods(ctx, city)
	if err != nil {
		return nil, err
	}

	matches := r.engine.Score(vec, candidates)
	top := scoring.Top(matches, limit)

	out := make([]response_models.NeighborhoodMatchResponse, 0, len(top))
	for _, m := range top {
		out = append(out, matchResponse(m))
	}

	r.metrics.RecommendationsServed(view)
	return &response_models.RecommendationsResponse{
		Recommendations: out,
		Preferences:     vec.Named(),
		Total:           len(matches),
	}, nil
}

func (r *RecommendationService) GetNeighborhoodDetail(ctx context.Context, userID string, neighborhoodID uuid.UUID) (*response_models.NeighborhoodDetailResponse, error) {
	vec, err := r.PreferenceVector(ctx, userID)
	if err != nil {
		return nil, err
	}

	row, err := r.neighborhoods.GetFeature(ctx, neighborhoodID)
	if err != nil {
		r.logger.Error("loading neighborhood", zap.Stringer("neighborhood_id", neighborhoodID), zap.Error(err))
		return nil, fmt.Errorf("neighborhood detail: %w", utils.ErrDatabaseError)
	}
	if row == nil {
		return nil, utils.ErrNeighborhoodNotFound
	}

	n := r.toNeighborhood(*row)
	match := r.engine.Score(vec, []scoring.Neighborhood{n})[0]
	match.Rank = r.rankAmongAll(ctx, vec, n.ID)

	explanation := r.engine.Explain(vec, n)
	strengths, concerns := scoring.Highlights(explanation)

	axes := make([]response_models.AxisMatchResponse, 0, len(explanation))
	for _, e := range explanation {
		axes = append(axes, response_models.AxisMatchResponse{
			Axis:       e.Axis.String(),
			Importance: e.Importance,
			Score:      e.Score,
			Quality:    string(e.Quality),
		})
	}

	r.metrics.RecommendationsServed("detail")
	return &response_models.NeighborhoodDetailResponse{
		NeighborhoodMatchResponse: matchResponse(match),
		Features:                  n.Features.Named(),
		Explanation:               axes,
		Strengths:                 axisNames(strengths),
		Concerns:                  axisNames(concerns),
	}, nil
}

// rankAmongAll places the neighborhood in the full ranking. It returns 0
// when the ranking cannot be loaded.
func (r *RecommendationService) rankAmongAll(ctx context.Context, vec preference.Vector, id uuid.UUID) int {
	all, err := r.loadNeighborhoods(ctx, "")
	if err != nil {
		return 0
	}
	for _, m := range r.engine.Score(vec, all) {
		if m.Neighborhood.ID == id {
			return m.Rank
		}
	}
	return 0
}

func (r *RecommendationService) PreferenceVector(ctx context.Context, userID string) (preference.Vector, error) {
	key := preferenceCacheKey(userID)
	if data, ok := r.cache.Get(ctx, key); ok {
		var vec preference.Vector
		if err := json.Unmarshal(data, &vec); err == nil {
			r.metrics.CacheLookup(preferenceCacheName, true)
			return vec, nil
		}
		r.cache.Delete(ctx, key)
	}
	r.metrics.CacheLookup(preferenceCacheName, false)

	answers := r.answersFor(ctx, userID)
	if len(answers) == 0 {
		return preference.Vector{}, utils.ErrQuestionnaireRequired
	}

	vec := r.calculator.Calculate(answers)
	if data, err := json.Marshal(vec); err == nil {
		r.cache.Set(ctx, key, data, r.cfg.PreferenceCacheTTL)
	}
	return vec, nil
}

// answersFor prefers the latest submitted questionnaire and falls back to
// in-progress answers.
func (r *RecommendationService) answersFor(ctx context.Context, userID string) map[string]questionnaire.Answer {
	completed, err := r.questionnaires.FindLatestCompleted(ctx, userID)
	if err != nil {
		r.logger.Warn("loading completed questionnaire failed", zap.String("user_id", userID), zap.Error(err))
	}
	if completed != nil {
		answers, err := decodeAnswers(completed.Answers)
		if err == nil && len(answers) > 0 {
			return answers
		}
	}
	return r.store.GetState(ctx, userID).Answers
}

func (r *RecommendationService) loadNeighborhoods(ctx context.Context, city string) ([]scoring.Neighborhood, error) {
	rows, err := r.neighborhoods.ListFeatures(ctx, city)
	if err != nil {
		r.logger.Error("loading neighborhood features", zap.String("city", city), zap.Error(err))
		return nil, fmt.Errorf("load neighborhoods: %w", utils.ErrDatabaseError)
	}
	out := make([]scoring.Neighborhood, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.toNeighborhood(row))
	}
	return out, nil
}

func (r *RecommendationService) toNeighborhood(row db_models.NeighborhoodFeature) scoring.Neighborhood {
	n := scoring.Neighborhood{
		ID:       row.ID,
		Name:     row.Name,
		City:     row.City,
		Features: preference.FromSlice(row.Features.Slice()),
	}
	for _, name := range row.MissingAxes {
		a, ok := preference.ParseAxis(name)
		if !ok {
			r.logger.Debug("unknown axis in missing_axes", zap.String("axis", name), zap.Stringer("neighborhood_id", row.ID))
			continue
		}
		n.Missing = append(n.Missing, a)
	}
	return n
}

func matchResponse(m scoring.Match) response_models.NeighborhoodMatchResponse {
	return response_models.NeighborhoodMatchResponse{
		ID:           m.Neighborhood.ID.String(),
		Name:         m.Neighborhood.Name,
		City:         m.Neighborhood.City,
		Rank:         m.Rank,
		Score:        m.Score,
		MatchPercent: m.MatchPercent,
	}
}

func axisNames(axes []preference.Axis) []string {
	out := make([]string, 0, len(axes))
	for _, a := range axes {
		out = append(out, a.String())
	}
	return out
}
