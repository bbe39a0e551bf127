package recommendation_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"homematch/internal/config"
	"homematch/internal/infra"
	"homematch/internal/preference"
	"homematch/internal/repositories"
	"homematch/internal/scoring"
	"homematch/internal/services"
)

var Module = fx.Provide(
	provideNeighborhoodRepo,
	preference.NewCalculator,
	scoring.NewEngine,
	services.NewRecommendationService,
)

func provideNeighborhoodRepo(db *gorm.DB, cfg *config.Config, logger *zap.Logger, metrics *infra.Metrics) repositories.NeighborhoodRepositoryInterface {
	cb := infra.NewBreaker("neighborhood_store", cfg, logger, metrics)
	return repositories.NewGuardedNeighborhoodRepository(repositories.NewNeighborhoodRepository(db), cb)
}
