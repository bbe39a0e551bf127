package controllers_fx

import (
	"go.uber.org/fx"

	"homematch/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewQuestionnaireController),
	fx.Provide(controllers.NewRecommendationController))
