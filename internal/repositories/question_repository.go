package repositories

import (
	"context"

	"gorm.io/gorm"

	"homematch/internal/models/db_models"
)

type QuestionRepositoryInterface interface {
	FindAll(ctx context.Context, collection string) ([]db_models.Question, error)
}

func NewQuestionRepository(db *gorm.DB) QuestionRepositoryInterface {
	return &QuestionRepository{db: db}
}

type QuestionRepository struct {
	db *gorm.DB
}

func (q *QuestionRepository) FindAll(ctx context.Context, collection string) ([]db_models.Question, error) {
	var questions []db_models.Question
	err := q.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("position ASC").
		Order("question_id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}
