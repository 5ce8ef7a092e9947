package usecase

import (
	"github.com/google/uuid"

	"github.com/eslsoft/lingvo/internal/entity"
)

// WordInput is a word payload as submitted by clients. Nil pointers and nil
// lists mean "not supplied"; an empty list clears the word's links.
type WordInput struct {
	ID             *uuid.UUID `json:"id,omitempty"`
	Text           *string    `json:"text,omitempty"`
	Language       *string    `json:"language,omitempty"`
	Note           *string    `json:"note,omitempty"`
	ActivityStatus *string    `json:"activity_status,omitempty"`
	IsProblematic  *bool      `json:"is_problematic,omitempty"`
	Favorite       *bool      `json:"favorite,omitempty"`
	Types          []string   `json:"types,omitempty"`

	Translations      []TranslationInput `json:"translations,omitempty"`
	Definitions       []DefinitionInput  `json:"definitions,omitempty"`
	Examples          []ExampleInput     `json:"examples,omitempty"`
	Tags              []TagInput         `json:"tags,omitempty"`
	FormGroups        []FormGroupInput   `json:"form_groups,omitempty"`
	Collections       []CollectionInput  `json:"collections,omitempty"`
	ImageAssociations []ImageInput       `json:"image_associations,omitempty"`
	QuoteAssociations []QuoteInput       `json:"quote_associations,omitempty"`

	Synonyms []RelationInput `json:"synonyms,omitempty"`
	Antonyms []RelationInput `json:"antonyms,omitempty"`
	Forms    []RelationInput `json:"forms,omitempty"`
	Similars []RelationInput `json:"similars,omitempty"`
}

type TranslationInput struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	Text     *string    `json:"text,omitempty"`
	Language *string    `json:"language,omitempty"`
}

type DefinitionInput struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Text        *string    `json:"text,omitempty"`
	Translation *string    `json:"translation,omitempty"`
	Language    *string    `json:"language,omitempty"`
}

type ExampleInput struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Text        *string    `json:"text,omitempty"`
	Translation *string    `json:"translation,omitempty"`
	Language    *string    `json:"language,omitempty"`
	Source      *string    `json:"source,omitempty"`
	SourceURL   *string    `json:"source_url,omitempty"`
}

type TagInput struct {
	ID   *uuid.UUID `json:"id,omitempty"`
	Name *string    `json:"name,omitempty"`
}

type FormGroupInput struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Name        *string    `json:"name,omitempty"`
	Language    *string    `json:"language,omitempty"`
	Color       *string    `json:"color,omitempty"`
	Translation *string    `json:"translation,omitempty"`
}

type CollectionInput struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
}

type ImageInput struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	ImageURL *string    `json:"image_url,omitempty"`
}

type QuoteInput struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Text        *string    `json:"text,omitempty"`
	QuoteAuthor *string    `json:"quote_author,omitempty"`
}

// RelationInput is one entry of synonyms, antonyms, forms or similars.
type RelationInput struct {
	FromWord RelatedWordInput `json:"from_word"`
	Note     *string          `json:"note,omitempty"`
}

// RelatedWordInput is the word on the other side of a relation. It carries
// scalar fields only; relations do not nest further.
type RelatedWordInput struct {
	ID            *uuid.UUID `json:"id,omitempty"`
	Text          *string    `json:"text,omitempty"`
	Language      *string    `json:"language,omitempty"`
	Note          *string    `json:"note,omitempty"`
	IsProblematic *bool      `json:"is_problematic,omitempty"`
}

type relationList struct {
	field string
	kind  entity.RelationKind
	items []RelationInput
}

// relationLists returns the relation lists in display order.
func (in *WordInput) relationLists() []relationList {
	return []relationList{
		{field: "synonyms", kind: entity.RelationSynonym, items: in.Synonyms},
		{field: "antonyms", kind: entity.RelationAntonym, items: in.Antonyms},
		{field: "forms", kind: entity.RelationForm, items: in.Forms},
		{field: "similars", kind: entity.RelationSimilar, items: in.Similars},
	}
}
