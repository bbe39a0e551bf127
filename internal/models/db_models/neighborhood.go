package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// NeighborhoodFeature holds the precomputed 11-axis feature vector.
// MissingAxes names axes the source data had no value for.
type NeighborhoodFeature struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string
	City        string          `gorm:"index"`
	Features    pgvector.Vector `gorm:"type:vector(11)"`
	MissingAxes pq.StringArray  `gorm:"type:text[]"`
}
