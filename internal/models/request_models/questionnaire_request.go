package request_models

import "homematch/internal/questionnaire"

// SubmitAnswersRequest carries answers keyed by question ID. The reserved
// key "continue_questionnaire" confirms a continuation prompt.
type SubmitAnswersRequest struct {
	Answers map[string]questionnaire.Answer `json:"answers" binding:"required"`
}

type UpdateResponsesRequest struct {
	Answers map[string]questionnaire.Answer `json:"answers" binding:"required,min=1"`
}

type RecommendationQuery struct {
	City string `form:"city"`
}
