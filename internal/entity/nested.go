package entity

import (
	"time"

	"github.com/google/uuid"
)

// Kind names an entity that can be embedded into a word payload.
type Kind string

const (
	KindWord        Kind = "word"
	KindTranslation Kind = "translation"
	KindDefinition  Kind = "definition"
	KindExample     Kind = "example"
	KindTag         Kind = "tag"
	KindFormGroup   Kind = "form_group"
	KindCollection  Kind = "collection"
	KindImage       Kind = "image"
	KindQuote       Kind = "quote"
)

// ExampleSource tells where a usage example was taken from.
type ExampleSource string

const (
	SourceOther ExampleSource = "other"
	SourceBook  ExampleSource = "book"
	SourceFilm  ExampleSource = "film"
	SourceSong  ExampleSource = "song"
	SourceQuote ExampleSource = "quote"
)

// Translation is unique per (author, language, lower(text)).
type Translation struct {
	ID         uuid.UUID
	AuthorID   uuid.UUID
	Text       string
	Language   string
	WordsCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Definition is unique per (author, lower(text)).
type Definition struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	Text        string
	Translation string
	Language    string
	WordsCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UsageExample is unique per (author, lower(text)).
type UsageExample struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	Text        string
	Translation string
	Language    string
	Source      ExampleSource
	SourceURL   string
	WordsCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Tag names are stored lowercased and unique per author.
type Tag struct {
	ID         uuid.UUID
	AuthorID   uuid.UUID
	Name       string
	WordsCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FormGroup names are stored capitalized and unique per (author, language).
type FormGroup struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	Name        string
	Language    string
	Color       string
	Translation string
	WordsCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Collection groups words under a title unique per author.
type Collection struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	Title       string
	Description string
	Favorite    bool
	WordsCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ImageAssociation references an image by URL. It has no natural key.
type ImageAssociation struct {
	ID         uuid.UUID
	AuthorID   uuid.UUID
	ImageURL   string
	WordsCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// QuoteAssociation is unique per (author, lower(text)).
type QuoteAssociation struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	Text        string
	QuoteAuthor string
	WordsCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
