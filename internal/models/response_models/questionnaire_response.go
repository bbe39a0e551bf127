package response_models

import (
	"time"

	"homematch/internal/questionnaire"
)

type QuestionResponse struct {
	ID       string   `json:"id"`
	Category string   `json:"category,omitempty"`
	Text     string   `json:"text"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
}

type QuestionnaireStepResponse struct {
	Question            *QuestionResponse `json:"question"`
	IsComplete          bool              `json:"is_complete"`
	UserChoseToContinue bool              `json:"user_chose_to_continue"`
	ContinuationPrompt  bool              `json:"continuation_prompt"`
	AnsweredCount       int               `json:"answered_count"`
	TotalQuestions      int               `json:"total_questions"`
	BatchTarget         int               `json:"batch_target"`
	Progress            float64           `json:"progress"`
	OverallProgress     float64           `json:"overall_progress"`
}

type QuestionnaireStatusResponse struct {
	Phase              string    `json:"phase"`
	IsComplete         bool      `json:"is_complete"`
	ContinuationPrompt bool      `json:"continuation_prompt"`
	CurrentQuestionID  string    `json:"current_question_id,omitempty"`
	AnsweredCount      int       `json:"answered_count"`
	SkippedCount       int       `json:"skipped_count"`
	QueuedCount        int       `json:"queued_count"`
	TotalQuestions     int       `json:"total_questions"`
	BatchTarget        int       `json:"batch_target"`
	Progress           float64   `json:"progress"`
	OverallProgress    float64   `json:"overall_progress"`
	Version            int       `json:"version"`
	StartTime          time.Time `json:"start_time"`
	Degraded           bool      `json:"degraded,omitempty"`
}

// QuestionnaireResponsesResponse is the edit-mode view. Questions maps each
// answered ID to its question text.
type QuestionnaireResponsesResponse struct {
	Answers           map[string]questionnaire.Answer `json:"answers"`
	Questions         map[string]string               `json:"questions"`
	AnsweredQuestions []string                        `json:"answered_questions"`
	IsSubmitted       bool                            `json:"is_submitted"`
	Version           int                             `json:"version"`
}

type FinalizeResponse struct {
	QuestionCount int       `json:"question_count"`
	SubmittedAt   time.Time `json:"submitted_at"`
	Version       int       `json:"version"`
}
