package db_models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// QuestionnaireState is the durable copy of one user's in-progress session.
type QuestionnaireState struct {
	UserID    string         `gorm:"primaryKey;column:user_id"`
	State     datatypes.JSON `gorm:"type:jsonb;not null"`
	Version   int
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// CompletedQuestionnaire is append-only; the newest row per user wins.
type CompletedQuestionnaire struct {
	BaseModel
	UserID            string         `gorm:"index;not null"`
	Answers           datatypes.JSON `gorm:"type:jsonb;not null"`
	AnsweredQuestions pq.StringArray `gorm:"type:text[]"`
	Version           int
	QuestionCount     int
	SubmittedAt       time.Time `gorm:"index"`
}
