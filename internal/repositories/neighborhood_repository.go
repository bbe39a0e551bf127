package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"homematch/internal/models/db_models"
)

type NeighborhoodRepositoryInterface interface {
	// ListFeatures returns every neighborhood, or only those in city when
	// it is set.
	ListFeatures(ctx context.Context, city string) ([]db_models.NeighborhoodFeature, error)
	GetFeature(ctx context.Context, id uuid.UUID) (*db_models.NeighborhoodFeature, error)
}

func NewNeighborhoodRepository(db *gorm.DB) NeighborhoodRepositoryInterface {
	return &NeighborhoodRepository{db: db}
}

type NeighborhoodRepository struct {
	db *gorm.DB
}

func (n *NeighborhoodRepository) ListFeatures(ctx context.Context, city string) ([]db_models.NeighborhoodFeature, error) {
	var rows []db_models.NeighborhoodFeature
	query := n.db.WithContext(ctx).Order("name ASC")
	if city != "" {
		query = query.Where("city = ?", city)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (n *NeighborhoodRepository) GetFeature(ctx context.Context, id uuid.UUID) (*db_models.NeighborhoodFeature, error) {
	var row db_models.NeighborhoodFeature
	err := n.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
