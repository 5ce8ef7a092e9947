package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/eslsoft/lingvo/internal/entity"
)

type userModel struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk"`
	Username     string    `bun:"username,notnull"`
	Email        string    `bun:"email,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	FirstName    string    `bun:"first_name,notnull"`
	IsStaff      bool      `bun:"is_staff,notnull"`
	IsSuperuser  bool      `bun:"is_superuser,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
	UpdatedAt    time.Time `bun:"updated_at,notnull"`
}

type tokenModel struct {
	bun.BaseModel `bun:"table:auth_tokens,alias:at"`

	Token     string    `bun:"token,pk"`
	UserID    uuid.UUID `bun:"user_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

type languageModel struct {
	bun.BaseModel `bun:"table:languages,alias:l"`

	Code              string `bun:"code,pk"`
	Name              string `bun:"name,notnull"`
	NativeName        string `bun:"native_name,notnull"`
	LearningAvailable bool   `bun:"learning_available,notnull"`
	SortOrder         int    `bun:"sort_order,notnull"`
}

type userLanguageModel struct {
	bun.BaseModel `bun:"table:user_languages,alias:ul"`

	UserID       uuid.UUID `bun:"user_id,pk"`
	LanguageCode string    `bun:"language_code,pk"`
	Kind         string    `bun:"kind,pk"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
}

type wordTypeModel struct {
	bun.BaseModel `bun:"table:word_types,alias:wt"`

	Name      string `bun:"name,pk"`
	SortOrder int    `bun:"sort_order,notnull"`
}

type wordWordTypeModel struct {
	bun.BaseModel `bun:"table:word_word_types,alias:wwt"`

	WordID   uuid.UUID `bun:"word_id,pk"`
	TypeName string    `bun:"type_name,pk"`
}

type wordModel struct {
	bun.BaseModel `bun:"table:words,alias:w"`

	ID              uuid.UUID  `bun:"id,pk"`
	AuthorID        uuid.UUID  `bun:"author_id,notnull"`
	Language        string     `bun:"language,notnull"`
	Text            string     `bun:"text,notnull"`
	Normalized      string     `bun:"normalized,notnull"`
	Note            string     `bun:"note,notnull"`
	ActivityStatus  string     `bun:"activity_status,notnull"`
	IsProblematic   bool       `bun:"is_problematic,notnull"`
	LastExercisedAt *time.Time `bun:"last_exercised_at,nullzero"`
	CreatedAt       time.Time  `bun:"created_at,notnull"`
	UpdatedAt       time.Time  `bun:"updated_at,notnull"`
}

func toWordModel(w *entity.Word) *wordModel {
	return &wordModel{
		ID:              w.ID,
		AuthorID:        w.AuthorID,
		Language:        w.Language,
		Text:            w.Text,
		Normalized:      entity.NormalizeText(w.Text),
		Note:            w.Note,
		ActivityStatus:  string(w.ActivityStatus),
		IsProblematic:   w.IsProblematic,
		LastExercisedAt: w.LastExercisedAt,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func (m *wordModel) toEntity() *entity.Word {
	return &entity.Word{
		ID:              m.ID,
		AuthorID:        m.AuthorID,
		Language:        m.Language,
		Text:            m.Text,
		Note:            m.Note,
		ActivityStatus:  entity.ActivityStatus(m.ActivityStatus),
		IsProblematic:   m.IsProblematic,
		LastExercisedAt: m.LastExercisedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

type translationModel struct {
	bun.BaseModel `bun:"table:translations,alias:t"`

	ID         uuid.UUID `bun:"id,pk"`
	AuthorID   uuid.UUID `bun:"author_id,notnull"`
	Language   string    `bun:"language,notnull"`
	Text       string    `bun:"text,notnull"`
	Normalized string    `bun:"normalized,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

type definitionModel struct {
	bun.BaseModel `bun:"table:definitions,alias:t"`

	ID          uuid.UUID `bun:"id,pk"`
	AuthorID    uuid.UUID `bun:"author_id,notnull"`
	Language    string    `bun:"language,notnull"`
	Text        string    `bun:"text,notnull"`
	Normalized  string    `bun:"normalized,notnull"`
	Translation string    `bun:"translation,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

type exampleModel struct {
	bun.BaseModel `bun:"table:examples,alias:t"`

	ID          uuid.UUID `bun:"id,pk"`
	AuthorID    uuid.UUID `bun:"author_id,notnull"`
	Language    string    `bun:"language,notnull"`
	Text        string    `bun:"text,notnull"`
	Normalized  string    `bun:"normalized,notnull"`
	Translation string    `bun:"translation,notnull"`
	Source      string    `bun:"source,notnull"`
	SourceURL   string    `bun:"source_url,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

type tagModel struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID         uuid.UUID `bun:"id,pk"`
	AuthorID   uuid.UUID `bun:"author_id,notnull"`
	Name       string    `bun:"name,notnull"`
	Normalized string    `bun:"normalized,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

type formGroupModel struct {
	bun.BaseModel `bun:"table:form_groups,alias:t"`

	ID          uuid.UUID `bun:"id,pk"`
	AuthorID    uuid.UUID `bun:"author_id,notnull"`
	Language    string    `bun:"language,notnull"`
	Name        string    `bun:"name,notnull"`
	Normalized  string    `bun:"normalized,notnull"`
	Color       string    `bun:"color,notnull"`
	Translation string    `bun:"translation,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

type collectionModel struct {
	bun.BaseModel `bun:"table:collections,alias:t"`

	ID          uuid.UUID `bun:"id,pk"`
	AuthorID    uuid.UUID `bun:"author_id,notnull"`
	Title       string    `bun:"title,notnull"`
	Normalized  string    `bun:"normalized,notnull"`
	Description string    `bun:"description,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

type imageModel struct {
	bun.BaseModel `bun:"table:image_associations,alias:t"`

	ID        uuid.UUID `bun:"id,pk"`
	AuthorID  uuid.UUID `bun:"author_id,notnull"`
	ImageURL  string    `bun:"image_url,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

type quoteModel struct {
	bun.BaseModel `bun:"table:quote_associations,alias:t"`

	ID          uuid.UUID `bun:"id,pk"`
	AuthorID    uuid.UUID `bun:"author_id,notnull"`
	Text        string    `bun:"text,notnull"`
	Normalized  string    `bun:"normalized,notnull"`
	QuoteAuthor string    `bun:"quote_author,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

// linkModel rows live in one join table per kind; the table is chosen with ModelTableExpr.
type linkModel struct {
	bun.BaseModel `bun:"table:word_links"`

	WordID    uuid.UUID `bun:"word_id,pk"`
	ItemID    uuid.UUID `bun:"item_id,pk"`
	Position  int       `bun:"position,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

type relationModel struct {
	bun.BaseModel `bun:"table:word_relations,alias:r"`

	ID         uuid.UUID `bun:"id,pk"`
	Kind       string    `bun:"kind,notnull"`
	FromWordID uuid.UUID `bun:"from_word_id,notnull"`
	ToWordID   uuid.UUID `bun:"to_word_id,notnull"`
	Note       string    `bun:"note,notnull"`
	Position   int       `bun:"position,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
}

type favoriteModel struct {
	bun.BaseModel `bun:"table:favorite_words"`

	UserID    uuid.UUID `bun:"user_id,pk"`
	ObjectID  uuid.UUID `bun:"object_id,pk"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

type approachModel struct {
	bun.BaseModel `bun:"table:exercise_approaches,alias:ea"`

	ID          uuid.UUID  `bun:"id,pk"`
	UserID      uuid.UUID  `bun:"user_id,notnull"`
	Language    string     `bun:"language,notnull"`
	Direction   string     `bun:"direction,notnull"`
	WordsAmount int        `bun:"words_amount,notnull"`
	Corrects    int        `bun:"corrects,notnull"`
	Incorrects  int        `bun:"incorrects,notnull"`
	CreatedAt   time.Time  `bun:"created_at,notnull"`
	CompletedAt *time.Time `bun:"completed_at,nullzero"`
}

type taskModel struct {
	bun.BaseModel `bun:"table:exercise_tasks,alias:et"`

	ApproachID uuid.UUID `bun:"approach_id,pk"`
	WordID     uuid.UUID `bun:"word_id,pk"`
	Position   int       `bun:"position,notnull"`
	Prompt     string    `bun:"prompt,notnull"`
}

type answerModel struct {
	bun.BaseModel `bun:"table:exercise_answers,alias:ean"`

	ID         uuid.UUID `bun:"id,pk"`
	ApproachID uuid.UUID `bun:"approach_id,notnull"`
	WordID     uuid.UUID `bun:"word_id,notnull"`
	Answer     string    `bun:"answer,notnull"`
	Verdict    string    `bun:"verdict,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
}
