package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"homematch/internal/infra"
	"homematch/internal/models/db_models"
)

// The guarded repositories route every call through a circuit breaker so an
// unreachable database fails fast and callers can fall back.

type guardedQuestionRepository struct {
	next QuestionRepositoryInterface
	cb   *gobreaker.CircuitBreaker
}

func NewGuardedQuestionRepository(next QuestionRepositoryInterface, cb *gobreaker.CircuitBreaker) QuestionRepositoryInterface {
	return &guardedQuestionRepository{next: next, cb: cb}
}

func (g *guardedQuestionRepository) FindAll(ctx context.Context, collection string) ([]db_models.Question, error) {
	return infra.Guard(g.cb, func() ([]db_models.Question, error) {
		return g.next.FindAll(ctx, collection)
	})
}

type guardedQuestionnaireRepository struct {
	next QuestionnaireRepositoryInterface
	cb   *gobreaker.CircuitBreaker
}

func NewGuardedQuestionnaireRepository(next QuestionnaireRepositoryInterface, cb *gobreaker.CircuitBreaker) QuestionnaireRepositoryInterface {
	return &guardedQuestionnaireRepository{next: next, cb: cb}
}

func (g *guardedQuestionnaireRepository) FindState(ctx context.Context, userID string) (*db_models.QuestionnaireState, error) {
	return infra.Guard(g.cb, func() (*db_models.QuestionnaireState, error) {
		return g.next.FindState(ctx, userID)
	})
}

func (g *guardedQuestionnaireRepository) UpsertState(ctx context.Context, state db_models.QuestionnaireState) error {
	return g.exec(func() error { return g.next.UpsertState(ctx, state) })
}

func (g *guardedQuestionnaireRepository) DeleteState(ctx context.Context, userID string) error {
	return g.exec(func() error { return g.next.DeleteState(ctx, userID) })
}

func (g *guardedQuestionnaireRepository) FindLatestCompleted(ctx context.Context, userID string) (*db_models.CompletedQuestionnaire, error) {
	return infra.Guard(g.cb, func() (*db_models.CompletedQuestionnaire, error) {
		return g.next.FindLatestCompleted(ctx, userID)
	})
}

func (g *guardedQuestionnaireRepository) InsertCompleted(ctx context.Context, record db_models.CompletedQuestionnaire) error {
	return g.exec(func() error { return g.next.InsertCompleted(ctx, record) })
}

func (g *guardedQuestionnaireRepository) Finalize(ctx context.Context, record db_models.CompletedQuestionnaire) error {
	return g.exec(func() error { return g.next.Finalize(ctx, record) })
}

func (g *guardedQuestionnaireRepository) exec(fn func() error) error {
	_, err := infra.Guard(g.cb, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

type guardedNeighborhoodRepository struct {
	next NeighborhoodRepositoryInterface
	cb   *gobreaker.CircuitBreaker
}

func NewGuardedNeighborhoodRepository(next NeighborhoodRepositoryInterface, cb *gobreaker.CircuitBreaker) NeighborhoodRepositoryInterface {
	return &guardedNeighborhoodRepository{next: next, cb: cb}
}

func (g *guardedNeighborhoodRepository) ListFeatures(ctx context.Context, city string) ([]db_models.NeighborhoodFeature, error) {
	return infra.Guard(g.cb, func() ([]db_models.NeighborhoodFeature, error) {
		return g.next.ListFeatures(ctx, city)
	})
}

func (g *guardedNeighborhoodRepository) GetFeature(ctx context.Context, id uuid.UUID) (*db_models.NeighborhoodFeature, error) {
	return infra.Guard(g.cb, func() (*db_models.NeighborhoodFeature, error) {
		return g.next.GetFeature(ctx, id)
	})
}
