package questionnaire_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"homematch/internal/config"
	"homematch/internal/infra"
	"homematch/internal/questionnaire"
	"homematch/internal/repositories"
	"homematch/internal/services"
)

var Module = fx.Provide(
	provideQuestionRepo,
	provideQuestionnaireRepo,
	provideQuestionBank,
	provideFlow,
	services.NewStateStore,
	services.NewQuestionnaireService,
)

func provideQuestionRepo(db *gorm.DB, cfg *config.Config, logger *zap.Logger, metrics *infra.Metrics) repositories.QuestionRepositoryInterface {
	cb := infra.NewBreaker("question_store", cfg, logger, metrics)
	return repositories.NewGuardedQuestionRepository(repositories.NewQuestionRepository(db), cb)
}

func provideQuestionnaireRepo(db *gorm.DB, cfg *config.Config, logger *zap.Logger, metrics *infra.Metrics) repositories.QuestionnaireRepositoryInterface {
	cb := infra.NewBreaker("questionnaire_store", cfg, logger, metrics)
	return repositories.NewGuardedQuestionnaireRepository(repositories.NewQuestionnaireRepository(db), cb)
}

// provideQuestionBank loads the bank once at startup. A store failure
// yields the placeholder bank rather than an fx error.
func provideQuestionBank(
	repo repositories.QuestionRepositoryInterface,
	cfg *config.Config,
	logger *zap.Logger,
	metrics *infra.Metrics,
) *questionnaire.Bank {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.BreakerTimeout)
	defer cancel()
	return services.LoadQuestionBank(ctx, repo, logger, metrics)
}

func provideFlow(bank *questionnaire.Bank, cfg *config.Config) *questionnaire.Flow {
	return questionnaire.NewFlow(bank, services.NewShuffler(cfg.RandomSeed))
}
