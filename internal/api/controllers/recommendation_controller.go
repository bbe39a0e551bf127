package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"homematch/internal/models/request_models"
	"homematch/internal/services"
	"homematch/pkg/utils"
)

type RecommendationController struct {
	recommendationService services.RecommendationServiceInterface
}

func NewRecommendationController(recommendationService services.RecommendationServiceInterface) *RecommendationController {
	return &RecommendationController{
		recommendationService: recommendationService,
	}
}

// GetRecommendations godoc
// @Summary Top neighborhood matches
// @Description Ranks neighborhoods against the user's preference vector. Users without answers get requires_questionnaire.
// @Tags Recommendations
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param city query string false "Restrict to one city"
// @Success 200 {object} response_models.RecommendationsResponse
// @Router /recommendations [get]
func (r *RecommendationController) GetRecommendations(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var query request_models.RecommendationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	result, err := r.recommendationService.GetRecommendations(c.Request.Context(), userID, query.City)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Recommendations fetched successfully")
}

// GetExtendedRecommendations godoc
// @Summary Extended neighborhood matches
// @Tags Recommendations
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param city query string false "Restrict to one city"
// @Success 200 {object} response_models.RecommendationsResponse
// @Router /recommendations/extended [get]
func (r *RecommendationController) GetExtendedRecommendations(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var query request_models.RecommendationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	result, err := r.recommendationService.GetExtendedRecommendations(c.Request.Context(), userID, query.City)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Recommendations fetched successfully")
}

// GetNeighborhoodDetail godoc
// @Summary Explain one neighborhood match
// @Tags Recommendations
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param neighborhoodId path string true "Neighborhood ID"
// @Success 200 {object} response_models.NeighborhoodDetailResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /recommendations/{neighborhoodId} [get]
func (r *RecommendationController) GetNeighborhoodDetail(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	neighborhoodID, err := uuid.Parse(c.Param("neighborhoodId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid neighborhood ID")
		return
	}

	detail, err := r.recommendationService.GetNeighborhoodDetail(c.Request.Context(), userID, neighborhoodID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, detail, "Neighborhood details fetched successfully")
}
