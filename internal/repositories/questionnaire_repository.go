package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"homematch/internal/infra"
	"homematch/internal/models/db_models"
)

type QuestionnaireRepositoryInterface interface {
	FindState(ctx context.Context, userID string) (*db_models.QuestionnaireState, error)
	UpsertState(ctx context.Context, state db_models.QuestionnaireState) error
	DeleteState(ctx context.Context, userID string) error
	FindLatestCompleted(ctx context.Context, userID string) (*db_models.CompletedQuestionnaire, error)
	InsertCompleted(ctx context.Context, record db_models.CompletedQuestionnaire) error
	// Finalize stores the completed record and drops the in-progress state
	// in one transaction.
	Finalize(ctx context.Context, record db_models.CompletedQuestionnaire) error
}

func NewQuestionnaireRepository(db *gorm.DB) QuestionnaireRepositoryInterface {
	return &QuestionnaireRepository{db: db}
}

type QuestionnaireRepository struct {
	db *gorm.DB
}

func (r *QuestionnaireRepository) FindState(ctx context.Context, userID string) (*db_models.QuestionnaireState, error) {
	var state db_models.QuestionnaireState
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

func (r *QuestionnaireRepository) UpsertState(ctx context.Context, state db_models.QuestionnaireState) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "version", "updated_at"}),
	}).Create(&state).Error
}

func (r *QuestionnaireRepository) DeleteState(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&db_models.QuestionnaireState{}).Error
}

func (r *QuestionnaireRepository) FindLatestCompleted(ctx context.Context, userID string) (*db_models.CompletedQuestionnaire, error) {
	var record db_models.CompletedQuestionnaire
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *QuestionnaireRepository) InsertCompleted(ctx context.Context, record db_models.CompletedQuestionnaire) error {
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *QuestionnaireRepository) Finalize(ctx context.Context, record db_models.CompletedQuestionnaire) error {
	tx := infra.StartTransaction(r.db.WithContext(ctx))
	if tx.Error != nil {
		return tx.Error
	}

	err := tx.Create(&record).Error
	if err == nil {
		err = tx.Where("user_id = ?", record.UserID).Delete(&db_models.QuestionnaireState{}).Error
	}
	return infra.ReleaseTransaction(tx, err)
}
