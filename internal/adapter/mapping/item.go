package mapping

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/eslsoft/lingvo/internal/entity"
)

type Translation struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	Language   string    `json:"language"`
	WordsCount int       `json:"words_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Definition struct {
	ID          uuid.UUID `json:"id"`
	Text        string    `json:"text"`
	Translation string    `json:"translation"`
	Language    string    `json:"language"`
	WordsCount  int       `json:"words_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Example struct {
	ID          uuid.UUID `json:"id"`
	Text        string    `json:"text"`
	Translation string    `json:"translation"`
	Language    string    `json:"language"`
	Source      string    `json:"source"`
	SourceURL   string    `json:"source_url"`
	WordsCount  int       `json:"words_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Tag struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	WordsCount int       `json:"words_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type FormGroup struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Language    string    `json:"language"`
	Color       string    `json:"color"`
	Translation string    `json:"translation"`
	WordsCount  int       `json:"words_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Collection struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Favorite    bool      `json:"favorite"`
	WordsCount  int       `json:"words_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Image struct {
	ID         uuid.UUID `json:"id"`
	ImageURL   string    `json:"image_url"`
	WordsCount int       `json:"words_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Quote struct {
	ID          uuid.UUID `json:"id"`
	Text        string    `json:"text"`
	QuoteAuthor string    `json:"quote_author"`
	WordsCount  int       `json:"words_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToTranslation(t *entity.Translation) Translation {
	return Translation{ID: t.ID, Text: t.Text, Language: t.Language, WordsCount: t.WordsCount, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

func ToDefinition(d *entity.Definition) Definition {
	return Definition{
		ID:          d.ID,
		Text:        d.Text,
		Translation: d.Translation,
		Language:    d.Language,
		WordsCount:  d.WordsCount,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func ToExample(e *entity.UsageExample) Example {
	return Example{
		ID:          e.ID,
		Text:        e.Text,
		Translation: e.Translation,
		Language:    e.Language,
		Source:      string(e.Source),
		SourceURL:   e.SourceURL,
		WordsCount:  e.WordsCount,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToTag(t *entity.Tag) Tag {
	return Tag{ID: t.ID, Name: t.Name, WordsCount: t.WordsCount, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

func ToFormGroup(g *entity.FormGroup) FormGroup {
	return FormGroup{
		ID:          g.ID,
		Name:        g.Name,
		Language:    g.Language,
		Color:       g.Color,
		Translation: g.Translation,
		WordsCount:  g.WordsCount,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func ToCollection(c *entity.Collection) Collection {
	return Collection{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Favorite:    c.Favorite,
		WordsCount:  c.WordsCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func ToImage(i *entity.ImageAssociation) Image {
	return Image{ID: i.ID, ImageURL: i.ImageURL, WordsCount: i.WordsCount, CreatedAt: i.CreatedAt, UpdatedAt: i.UpdatedAt}
}

func ToQuote(q *entity.QuoteAssociation) Quote {
	return Quote{ID: q.ID, Text: q.Text, QuoteAuthor: q.QuoteAuthor, WordsCount: q.WordsCount, CreatedAt: q.CreatedAt, UpdatedAt: q.UpdatedAt}
}

// ToList maps a page of stored items with fn.
func ToList[E any, D any](items []*E, fn func(*E) D) []D {
	return lo.Map(items, func(item *E, _ int) D { return fn(item) })
}

// ToObject serializes any entity a conflict can point at.
func ToObject(v any) any {
	switch o := v.(type) {
	case *entity.Word:
		return ToWordDetail(o)
	case *entity.Translation:
		return ToTranslation(o)
	case *entity.Definition:
		return ToDefinition(o)
	case *entity.UsageExample:
		return ToExample(o)
	case *entity.Tag:
		return ToTag(o)
	case *entity.FormGroup:
		return ToFormGroup(o)
	case *entity.Collection:
		return ToCollection(o)
	case *entity.ImageAssociation:
		return ToImage(o)
	case *entity.QuoteAssociation:
		return ToQuote(o)
	}
	return v
}
