package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homematch/internal/models/request_models"
	"homematch/internal/services"
	"homematch/pkg/utils"
)

type QuestionnaireController struct {
	questionnaireService services.QuestionnaireServiceInterface
}

func NewQuestionnaireController(questionnaireService services.QuestionnaireServiceInterface) *QuestionnaireController {
	return &QuestionnaireController{
		questionnaireService: questionnaireService,
	}
}

// Start godoc
// @Summary Start or resume the questionnaire
// @Description Returns the current question for the user, creating a fresh questionnaire when none exists
// @Tags Questionnaire
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Success 200 {object} response_models.QuestionnaireStepResponse
// @Failure 401 {object} utils.APIResponse
// @Router /questionnaire/start [post]
func (q *QuestionnaireController) Start(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	step, err := q.questionnaireService.Start(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, step, "Questionnaire started")
}

// SubmitAnswers godoc
// @Summary Submit answers
// @Description Records answers keyed by question ID and returns the next question. Send "continue_questionnaire": true to keep going after a continuation prompt.
// @Tags Questionnaire
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param request body request_models.SubmitAnswersRequest true "Answers"
// @Success 200 {object} response_models.QuestionnaireStepResponse
// @Failure 400 {object} utils.APIResponse
// @Router /questionnaire/answers [post]
func (q *QuestionnaireController) SubmitAnswers(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request_models.SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	step, err := q.questionnaireService.SubmitAnswers(c.Request.Context(), userID, req.Answers)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, step, "Answers recorded")
}

// Skip godoc
// @Summary Skip the current question
// @Tags Questionnaire
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Success 200 {object} response_models.QuestionnaireStepResponse
// @Router /questionnaire/skip [post]
func (q *QuestionnaireController) Skip(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	step, err := q.questionnaireService.Skip(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, step, "Question skipped")
}

// Previous godoc
// @Summary Go back to the previous question
// @Description Un-answers the most recently answered question and returns it
// @Tags Questionnaire
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Success 200 {object} response_models.QuestionnaireStepResponse
// @Failure 400 {object} utils.APIResponse
// @Router /questionnaire/previous [post]
func (q *QuestionnaireController) Previous(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	step, err := q.questionnaireService.Previous(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, step, "Moved to previous question")
}

// Status godoc
// @Summary Questionnaire progress
// @Tags Questionnaire
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Success 200 {object} response_models.QuestionnaireStatusResponse
// @Router /questionnaire/status [get]
func (q *QuestionnaireController) Status(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	status, err := q.questionnaireService.Status(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, status, "Questionnaire status fetched successfully")
}

// GetResponses godoc
// @Summary List recorded answers
// @Tags Questionnaire
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Success 200 {object} response_models.QuestionnaireResponsesResponse
// @Router /questionnaire/responses [get]
func (q *QuestionnaireController) GetResponses(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	responses, err := q.questionnaireService.GetResponses(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, responses, "Responses fetched successfully")
}

// UpdateResponses godoc
// @Summary Edit recorded answers
// @Description Overwrites answers. For a submitted questionnaire a new submission is stored.
// @Tags Questionnaire
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param request body request_models.UpdateResponsesRequest true "Answers"
// @Success 200 {object} response_models.QuestionnaireResponsesResponse
// @Failure 400 {object} utils.APIResponse
// @Router /questionnaire/responses [put]
func (q *QuestionnaireController) UpdateResponses(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request_models.UpdateResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	responses, err := q.questionnaireService.UpdateResponses(c.Request.Context(), userID, req.Answers)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, responses, "Responses updated successfully")
}

// Finalize godoc
// @Summary Submit the questionnaire
// @Description Stores the answers as a completed questionnaire and clears the in-progress state
// @Tags Questionnaire
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Success 200 {object} response_models.FinalizeResponse
// @Failure 400 {object} utils.APIResponse
// @Router /questionnaire/finalize [post]
func (q *QuestionnaireController) Finalize(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	result, err := q.questionnaireService.Finalize(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Questionnaire submitted successfully")
}

// Reset godoc
// @Summary Discard the in-progress questionnaire
// @Tags Questionnaire
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Success 200 {object} utils.APIResponse
// @Router /questionnaire [delete]
func (q *QuestionnaireController) Reset(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := q.questionnaireService.Reset(c.Request.Context(), userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Questionnaire reset")
}
