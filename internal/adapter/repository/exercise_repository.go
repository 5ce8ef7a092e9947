package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
)

type exerciseRepository struct {
	db *bun.DB
}

// NewExerciseRepository stores translator approaches.
func NewExerciseRepository(db *bun.DB) repository.ExerciseRepository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) CreateApproach(ctx context.Context, approach *entity.ExerciseApproach) error {
	db := idb(ctx, r.db)
	m := &approachModel{
		ID:          approach.ID,
		UserID:      approach.UserID,
		Language:    approach.Language,
		Direction:   string(approach.Direction),
		WordsAmount: approach.WordsAmount,
		CreatedAt:   approach.CreatedAt,
	}
	if _, err := db.NewInsert().Model(m).Exec(ctx); err != nil {
		return translateError(err)
	}
	if len(approach.Tasks) == 0 {
		return nil
	}
	tasks := make([]taskModel, 0, len(approach.Tasks))
	for i, task := range approach.Tasks {
		tasks = append(tasks, taskModel{
			ApproachID: approach.ID,
			WordID:     task.WordID,
			Position:   i,
			Prompt:     task.Prompt,
		})
	}
	_, err := db.NewInsert().Model(&tasks).Exec(ctx)
	return translateError(err)
}

func (r *exerciseRepository) GetApproach(ctx context.Context, userID, id uuid.UUID) (*entity.ExerciseApproach, error) {
	db := idb(ctx, r.db)
	m := new(approachModel)
	err := db.NewSelect().
		Model(m).
		Where("ea.id = ?", id).
		Where("ea.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err, entity.ErrApproachNotFound)
	}

	var tasks []taskModel
	if err := db.NewSelect().Model(&tasks).Where("et.approach_id = ?", id).OrderExpr("et.position ASC").Scan(ctx); err != nil {
		return nil, translateError(err)
	}
	var answers []answerModel
	if err := db.NewSelect().Model(&answers).Where("ean.approach_id = ?", id).OrderExpr("ean.created_at ASC").Scan(ctx); err != nil {
		return nil, translateError(err)
	}

	approach := &entity.ExerciseApproach{
		ID:          m.ID,
		UserID:      m.UserID,
		Language:    m.Language,
		Direction:   entity.TranslatorDirection(m.Direction),
		WordsAmount: m.WordsAmount,
		Corrects:    m.Corrects,
		Incorrects:  m.Incorrects,
		CreatedAt:   m.CreatedAt,
		CompletedAt: m.CompletedAt,
	}
	for _, t := range tasks {
		approach.Tasks = append(approach.Tasks, entity.ExerciseTask{WordID: t.WordID, Prompt: t.Prompt})
	}
	for _, a := range answers {
		approach.Answers = append(approach.Answers, entity.ExerciseAnswer{
			ID:         a.ID,
			ApproachID: a.ApproachID,
			WordID:     a.WordID,
			Answer:     a.Answer,
			Verdict:    entity.Verdict(a.Verdict),
			CreatedAt:  a.CreatedAt,
		})
	}
	return approach, nil
}

// SaveAnswer stores the answer and the approach counters together.
func (r *exerciseRepository) SaveAnswer(ctx context.Context, approach *entity.ExerciseApproach, answer *entity.ExerciseAnswer) error {
	db := idb(ctx, r.db)
	a := &answerModel{
		ID:         answer.ID,
		ApproachID: approach.ID,
		WordID:     answer.WordID,
		Answer:     answer.Answer,
		Verdict:    string(answer.Verdict),
		CreatedAt:  answer.CreatedAt,
	}
	if _, err := db.NewInsert().Model(a).Exec(ctx); err != nil {
		return translateError(err)
	}
	_, err := db.NewUpdate().
		Model((*approachModel)(nil)).
		Set("corrects = ?", approach.Corrects).
		Set("incorrects = ?", approach.Incorrects).
		Set("completed_at = ?", approach.CompletedAt).
		Where("ea.id = ?", approach.ID).
		Exec(ctx)
	return translateError(err)
}
