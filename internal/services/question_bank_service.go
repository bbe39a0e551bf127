package services

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"homematch/internal/infra"
	"homematch/internal/models/db_models"
	"homematch/internal/questionnaire"
	"homematch/internal/repositories"
)

// LoadQuestionBank reads both question collections concurrently and builds
// the bank. Any store failure, or an empty store, yields the placeholder
// bank so the questionnaire keeps working in degraded mode.
func LoadQuestionBank(
	ctx context.Context,
	repo repositories.QuestionRepositoryInterface,
	logger *zap.Logger,
	metrics *infra.Metrics,
) *questionnaire.Bank {
	logger = logger.Named("question_bank")

	var basicRows, dynamicRows []db_models.Question
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := repo.FindAll(gctx, questionnaire.BasicCollection)
		basicRows = rows
		return err
	})
	g.Go(func() error {
		rows, err := repo.FindAll(gctx, questionnaire.DynamicCollection)
		dynamicRows = rows
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Warn("question store unavailable, using placeholder questions", zap.Error(err))
		metrics.DegradedLoad()
		return questionnaire.PlaceholderBank()
	}

	basic := toQuestions(basicRows, logger)
	dynamic := toQuestions(dynamicRows, logger)
	if len(basic) == 0 && len(dynamic) == 0 {
		logger.Warn("question store is empty, using placeholder questions")
		metrics.DegradedLoad()
		return questionnaire.PlaceholderBank()
	}

	bank := questionnaire.NewBank(basic, dynamic)
	if stubs := bank.Graph().Stubs(); len(stubs) > 0 {
		logger.Warn("branch targets without a definition", zap.Strings("question_ids", stubs))
	}
	logger.Info("question bank loaded",
		zap.Int("basic", len(basic)),
		zap.Int("dynamic", len(dynamic)),
		zap.Int("total", bank.TotalQuestions()))
	return bank
}

func toQuestions(rows []db_models.Question, logger *zap.Logger) []questionnaire.Question {
	out := make([]questionnaire.Question, 0, len(rows))
	for _, row := range rows {
		q, err := toQuestion(row)
		if err != nil {
			logger.Warn("skipping malformed question", zap.String("question_id", row.QuestionID), zap.Error(err))
			continue
		}
		out = append(out, q)
	}
	return out
}

func toQuestion(row db_models.Question) (questionnaire.Question, error) {
	q := questionnaire.Question{
		ID:       row.QuestionID,
		Category: row.Category,
		Text:     row.Text,
		Type:     questionnaire.QuestionType(row.Type),
		Options:  []string(row.Options),
	}
	if q.ID == "" {
		return q, fmt.Errorf("question row %s has no question_id", row.ID)
	}
	if len(row.Branches) > 0 && string(row.Branches) != "null" {
		if err := json.Unmarshal(row.Branches, &q.Branches); err != nil {
			return q, fmt.Errorf("decode branches: %w", err)
		}
	}
	var err error
	if q.OnAnswered, err = nestedQuestion(row.OnAnswered); err != nil {
		return q, fmt.Errorf("decode on_answered: %w", err)
	}
	if q.OnUnanswered, err = nestedQuestion(row.OnUnanswered); err != nil {
		return q, fmt.Errorf("decode on_unanswered: %w", err)
	}
	return q, nil
}

func nestedQuestion(data []byte) (*questionnaire.Question, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var q questionnaire.Question
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, err
	}
	if q.ID == "" {
		return nil, nil
	}
	return &q, nil
}
