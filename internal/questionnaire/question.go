package questionnaire

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Question set collections in the question store.
const (
	BasicCollection   = "basic_questions"
	DynamicCollection = "dynamic_questions"
)

// CategoryLocationAndConvenience is the dynamic category preferred when
// refilling the queue.
const CategoryLocationAndConvenience = "Location and Convenience"

type QuestionType string

const (
	TypeText         QuestionType = "text"
	TypeSingleChoice QuestionType = "single-choice"
	TypeMultiChoice  QuestionType = "multi-choice"
	TypeScale        QuestionType = "scale"
	TypeBoolean      QuestionType = "boolean"
)

// BranchTargets holds the follow-up question IDs for one answer value. The
// store may declare a single ID or a list; both decode into a slice.
type BranchTargets []string

func (b *BranchTargets) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*b = nil
		return nil
	}
	if data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return fmt.Errorf("decode branch target: %w", err)
		}
		*b = BranchTargets{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("decode branch targets: %w", err)
	}
	*b = many
	return nil
}

// Question is a read-only question definition. OnAnswered and OnUnanswered
// declare follow-up questions inline.
type Question struct {
	ID           string                   `json:"id"`
	Category     string                   `json:"category"`
	Text         string                   `json:"text"`
	Type         QuestionType             `json:"type"`
	Options      []string                 `json:"options,omitempty"`
	Branches     map[string]BranchTargets `json:"branches,omitempty"`
	OnAnswered   *Question                `json:"on_answered,omitempty"`
	OnUnanswered *Question                `json:"on_unanswered,omitempty"`
}

// Shallow returns the question without its nested follow-up definitions.
func (q Question) Shallow() Question {
	q.OnAnswered = nil
	q.OnUnanswered = nil
	return q
}
