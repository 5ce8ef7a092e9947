package mapping

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/lingvo/internal/entity"
)

type Language struct {
	Code              string `json:"code"`
	Name              string `json:"name"`
	NativeName        string `json:"native_name"`
	LearningAvailable bool   `json:"learning_available"`
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	CreatedAt time.Time `json:"created_at"`
}

type Profile struct {
	User
	NativeLanguages   []Language `json:"native_languages"`
	LearningLanguages []Language `json:"learning_languages"`
	WordsCount        int        `json:"words_count"`
}

type Token struct {
	Key string `json:"key"`
}

type WordType struct {
	Name string `json:"name"`
}

func ToLanguage(l entity.Language) Language {
	return Language{Code: l.Code, Name: l.Name, NativeName: l.NativeName, LearningAvailable: l.LearningAvailable}
}

func ToLanguages(langs []entity.Language) []Language {
	out := lo.Map(langs, func(l entity.Language, _ int) Language { return ToLanguage(l) })
	if out == nil {
		return []Language{}
	}
	return out
}

func ToUser(u *entity.User) User {
	return User{ID: u.ID, Username: u.Username, Email: u.Email, FirstName: u.FirstName, CreatedAt: u.CreatedAt}
}

func ToProfile(p *entity.Profile) Profile {
	return Profile{
		User:              ToUser(&p.User),
		NativeLanguages:   ToLanguages(p.NativeLanguages),
		LearningLanguages: ToLanguages(p.LearningLanguages),
		WordsCount:        p.WordsCount,
	}
}

func ToWordTypes(types []entity.WordType) []WordType {
	return lo.Map(types, func(t entity.WordType, _ int) WordType { return WordType{Name: t.Name} })
}

type Task struct {
	WordID uuid.UUID `json:"word_id"`
	Prompt string    `json:"prompt"`
}

type Answer struct {
	ID        uuid.UUID `json:"id"`
	WordID    uuid.UUID `json:"word_id"`
	Answer    string    `json:"answer"`
	Verdict   string    `json:"verdict"`
	CreatedAt time.Time `json:"created_at"`
}

type Approach struct {
	ID          uuid.UUID  `json:"id"`
	Language    string     `json:"language"`
	Direction   string     `json:"direction"`
	WordsAmount int        `json:"words_amount"`
	Corrects    int        `json:"corrects"`
	Incorrects  int        `json:"incorrects"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Tasks       []Task     `json:"tasks"`
	Answers     []Answer   `json:"answers"`
}

func ToAnswer(a *entity.ExerciseAnswer) Answer {
	return Answer{ID: a.ID, WordID: a.WordID, Answer: a.Answer, Verdict: string(a.Verdict), CreatedAt: a.CreatedAt}
}

func ToApproach(a *entity.ExerciseApproach) Approach {
	return Approach{
		ID:          a.ID,
		Language:    a.Language,
		Direction:   string(a.Direction),
		WordsAmount: a.WordsAmount,
		Corrects:    a.Corrects,
		Incorrects:  a.Incorrects,
		CreatedAt:   a.CreatedAt,
		CompletedAt: a.CompletedAt,
		Tasks:       mapItems(a.Tasks, func(t *entity.ExerciseTask) Task { return Task{WordID: t.WordID, Prompt: t.Prompt} }),
		Answers:     mapItems(a.Answers, ToAnswer),
	}
}
