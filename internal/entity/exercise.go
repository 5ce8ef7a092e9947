package entity

import (
	"time"

	"github.com/google/uuid"
)

// TranslatorDirection selects which side of a word is shown as the prompt.
type TranslatorDirection string

const (
	// DirectionLearningToNative shows the word and expects a translation.
	DirectionLearningToNative TranslatorDirection = "LTN"
	// DirectionNativeToLearning shows a translation and expects the word.
	DirectionNativeToLearning TranslatorDirection = "NTL"
)

// Verdict is the result of a single answer.
type Verdict string

const (
	VerdictCorrect   Verdict = "C"
	VerdictIncorrect Verdict = "I"
)

// ExerciseApproach is one translator drill session.
type ExerciseApproach struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Language    string
	Direction   TranslatorDirection
	WordsAmount int
	Corrects    int
	Incorrects  int
	CreatedAt   time.Time
	CompletedAt *time.Time

	Tasks   []ExerciseTask
	Answers []ExerciseAnswer
}

// ExerciseTask is a prompt handed to the user.
type ExerciseTask struct {
	WordID uuid.UUID
	Prompt string
}

// ExerciseAnswer records what the user typed for a task.
type ExerciseAnswer struct {
	ID         uuid.UUID
	ApproachID uuid.UUID
	WordID     uuid.UUID
	Answer     string
	Verdict    Verdict
	CreatedAt  time.Time
}
