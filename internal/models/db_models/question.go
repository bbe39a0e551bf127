package db_models

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Question is one row of the question store. Collection is either
// "basic_questions" or "dynamic_questions"; Position orders the basic set.
type Question struct {
	BaseModel
	Collection   string `gorm:"index;not null"`
	QuestionID   string `gorm:"column:question_id;not null"`
	Position     int
	Category     string
	Text         string
	Type         string
	Options      pq.StringArray `gorm:"type:text[]"`
	Branches     datatypes.JSON `gorm:"type:jsonb"`
	OnAnswered   datatypes.JSON `gorm:"type:jsonb"`
	OnUnanswered datatypes.JSON `gorm:"type:jsonb"`
}
