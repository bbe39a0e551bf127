package utils

import "errors"

var (
	ErrNoPreviousQuestion    = errors.New("no previous question")
	ErrQuestionnaireRequired = errors.New("questionnaire required")
	ErrNeighborhoodNotFound  = errors.New("neighborhood not found")
	ErrInvalidAnswers        = errors.New("invalid answers")
	ErrNoAnswers             = errors.New("no answers to finalize")
	ErrMissingUserID         = errors.New("missing user id")
	ErrDatabaseError         = errors.New("database error")
	ErrInternal              = errors.New("internal error")
)
