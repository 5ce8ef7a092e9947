package repository

import (
	"context"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/google/uuid"
)

// ExerciseRepository stores translator approaches and their answers.
type ExerciseRepository interface {
	CreateApproach(ctx context.Context, approach *entity.ExerciseApproach) error
	GetApproach(ctx context.Context, userID, id uuid.UUID) (*entity.ExerciseApproach, error)
	SaveAnswer(ctx context.Context, approach *entity.ExerciseApproach, answer *entity.ExerciseAnswer) error
}
