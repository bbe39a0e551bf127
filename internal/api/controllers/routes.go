package controllers

import (
	"github.com/gin-gonic/gin"

	"homematch/pkg/utils"
)

// RegisterRoutes mounts the questionnaire and recommendation endpoints. The
// group is expected to carry the user id middleware.
func RegisterRoutes(r gin.IRouter,
	questionnaireController *QuestionnaireController,
	recommendationController *RecommendationController) {

	questionnaireGroup := r.Group("/questionnaire")
	questionnaireGroup.POST("/start", questionnaireController.Start)
	questionnaireGroup.POST("/answers", questionnaireController.SubmitAnswers)
	questionnaireGroup.POST("/skip", questionnaireController.Skip)
	questionnaireGroup.POST("/previous", questionnaireController.Previous)
	questionnaireGroup.GET("/status", questionnaireController.Status)
	questionnaireGroup.GET("/responses", questionnaireController.GetResponses)
	questionnaireGroup.PUT("/responses", questionnaireController.UpdateResponses)
	questionnaireGroup.POST("/finalize", questionnaireController.Finalize)
	questionnaireGroup.DELETE("", questionnaireController.Reset)

	recommendationGroup := r.Group("/recommendations")
	recommendationGroup.GET("", recommendationController.GetRecommendations)
	recommendationGroup.GET("/extended", recommendationController.GetExtendedRecommendations)
	recommendationGroup.GET("/:neighborhoodId", recommendationController.GetNeighborhoodDetail)
}

// requireUser reads the id set by the user middleware and answers 401 when
// it is absent.
func requireUser(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.HandleServiceError(c, utils.ErrMissingUserID)
		return "", false
	}
	return userID, true
}
