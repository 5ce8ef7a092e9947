package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
)

// fieldRule maps one payload field onto the stored entity.
type fieldRule[I any, E any] struct {
	name     string
	supplied func(*I) bool
	equal    func(*I, *E) bool
	apply    func(*I, *E)
}

func same(s string) string { return s }

// textRule builds a rule for a string field. compare normalizes both sides
// before comparing; store shapes the value that gets persisted.
func textRule[I any, E any](name string, in func(*I) *string, out func(*E) *string, compare, store func(string) string) fieldRule[I, E] {
	return fieldRule[I, E]{
		name:     name,
		supplied: func(i *I) bool { return in(i) != nil },
		equal:    func(i *I, e *E) bool { return compare(*in(i)) == compare(*out(e)) },
		apply:    func(i *I, e *E) { *out(e) = store(*in(i)) },
	}
}

// nestedKind describes how items of one nested list are resolved, compared,
// created and linked.
type nestedKind[I any, E any] struct {
	kind  entity.Kind
	field string
	limit int
	// keyField is reported when a changed item collides with another row.
	keyField string
	repo     repository.ItemRepository[E]

	inputID   func(*I) *uuid.UUID
	key       func(*I, *scope) entity.Key
	storedKey func(*E) entity.Key
	id        func(*E) uuid.UUID
	newItem   func(*scope) *E
	touch     func(*E, time.Time)
	fields    []fieldRule[I, E]
	validate  func(*I, *scope) error

	// language is set for kinds that must share the word's language.
	language func(*E) string
}

func (k *nestedKind[I, E]) detail() string {
	return fmt.Sprintf("This %s already exists.", strings.ReplaceAll(string(k.kind), "_", " "))
}

// firstDiff returns the first supplied field whose value differs from e.
func (k *nestedKind[I, E]) firstDiff(in *I, e *E) string {
	for _, f := range k.fields {
		if f.supplied(in) && !f.equal(in, e) {
			return f.name
		}
	}
	return ""
}

func (k *nestedKind[I, E]) apply(in *I, e *E) {
	for _, f := range k.fields {
		if f.supplied(in) {
			f.apply(in, e)
		}
	}
}

func optional(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ItemRepositories groups the repositories of every nested kind.
type ItemRepositories struct {
	Translations repository.ItemRepository[entity.Translation]
	Definitions  repository.ItemRepository[entity.Definition]
	Examples     repository.ItemRepository[entity.UsageExample]
	Tags         repository.ItemRepository[entity.Tag]
	FormGroups   repository.ItemRepository[entity.FormGroup]
	Collections  repository.ItemRepository[entity.Collection]
	Images       repository.ItemRepository[entity.ImageAssociation]
	Quotes       repository.ItemRepository[entity.QuoteAssociation]
}

type nestedKinds struct {
	translations nestedKind[TranslationInput, entity.Translation]
	definitions  nestedKind[DefinitionInput, entity.Definition]
	examples     nestedKind[ExampleInput, entity.UsageExample]
	tags         nestedKind[TagInput, entity.Tag]
	formGroups   nestedKind[FormGroupInput, entity.FormGroup]
	collections  nestedKind[CollectionInput, entity.Collection]
	images       nestedKind[ImageInput, entity.ImageAssociation]
	quotes       nestedKind[QuoteInput, entity.QuoteAssociation]
}

func newNestedKinds(repos ItemRepositories) nestedKinds {
	return nestedKinds{
		translations: translationKind(repos.Translations),
		definitions:  definitionKind(repos.Definitions),
		examples:     exampleKind(repos.Examples),
		tags:         tagKind(repos.Tags),
		formGroups:   formGroupKind(repos.FormGroups),
		collections:  collectionKind(repos.Collections),
		images:       imageKind(repos.Images),
		quotes:       quoteKind(repos.Quotes),
	}
}

func translationKind(repo repository.ItemRepository[entity.Translation]) nestedKind[TranslationInput, entity.Translation] {
	return nestedKind[TranslationInput, entity.Translation]{
		kind:     entity.KindTranslation,
		field:    "translations",
		limit:    entity.MaxTranslationsAmount,
		keyField: "text",
		repo:     repo,
		inputID:  func(i *TranslationInput) *uuid.UUID { return i.ID },
		key: func(i *TranslationInput, _ *scope) entity.Key {
			return entity.NewKey(optional(i.Text), optional(i.Language))
		},
		storedKey: func(e *entity.Translation) entity.Key { return entity.NewKey(e.Text, e.Language) },
		id:        func(e *entity.Translation) uuid.UUID { return e.ID },
		newItem: func(s *scope) *entity.Translation {
			return &entity.Translation{ID: uuid.New(), AuthorID: s.authorID, CreatedAt: s.now, UpdatedAt: s.now}
		},
		touch: func(e *entity.Translation, now time.Time) { e.UpdatedAt = now },
		fields: []fieldRule[TranslationInput, entity.Translation]{
			textRule("text",
				func(i *TranslationInput) *string { return i.Text },
				func(e *entity.Translation) *string { return &e.Text },
				entity.NormalizeText, same),
			textRule("language",
				func(i *TranslationInput) *string { return i.Language },
				func(e *entity.Translation) *string { return &e.Language },
				same, same),
		},
		validate: validateTranslation,
	}
}

func definitionKind(repo repository.ItemRepository[entity.Definition]) nestedKind[DefinitionInput, entity.Definition] {
	return nestedKind[DefinitionInput, entity.Definition]{
		kind:      entity.KindDefinition,
		field:     "definitions",
		limit:     entity.MaxDefinitionsAmount,
		keyField:  "text",
		repo:      repo,
		inputID:   func(i *DefinitionInput) *uuid.UUID { return i.ID },
		key:       func(i *DefinitionInput, _ *scope) entity.Key { return entity.NewKey(optional(i.Text), "") },
		storedKey: func(e *entity.Definition) entity.Key { return entity.NewKey(e.Text, "") },
		id:        func(e *entity.Definition) uuid.UUID { return e.ID },
		newItem: func(s *scope) *entity.Definition {
			return &entity.Definition{ID: uuid.New(), AuthorID: s.authorID, Language: s.language, CreatedAt: s.now, UpdatedAt: s.now}
		},
		touch:    func(e *entity.Definition, now time.Time) { e.UpdatedAt = now },
		language: func(e *entity.Definition) string { return e.Language },
		fields: []fieldRule[DefinitionInput, entity.Definition]{
			textRule("text",
				func(i *DefinitionInput) *string { return i.Text },
				func(e *entity.Definition) *string { return &e.Text },
				entity.NormalizeText, same),
			textRule("translation",
				func(i *DefinitionInput) *string { return i.Translation },
				func(e *entity.Definition) *string { return &e.Translation },
				same, same),
			textRule("language",
				func(i *DefinitionInput) *string { return i.Language },
				func(e *entity.Definition) *string { return &e.Language },
				same, same),
		},
		validate: validateDefinition,
	}
}

func exampleKind(repo repository.ItemRepository[entity.UsageExample]) nestedKind[ExampleInput, entity.UsageExample] {
	return nestedKind[ExampleInput, entity.UsageExample]{
		kind:      entity.KindExample,
		field:     "examples",
		limit:     entity.MaxExamplesAmount,
		keyField:  "text",
		repo:      repo,
		inputID:   func(i *ExampleInput) *uuid.UUID { return i.ID },
		key:       func(i *ExampleInput, _ *scope) entity.Key { return entity.NewKey(optional(i.Text), "") },
		storedKey: func(e *entity.UsageExample) entity.Key { return entity.NewKey(e.Text, "") },
		id:        func(e *entity.UsageExample) uuid.UUID { return e.ID },
		newItem: func(s *scope) *entity.UsageExample {
			return &entity.UsageExample{
				ID:        uuid.New(),
				AuthorID:  s.authorID,
				Language:  s.language,
				Source:    entity.SourceOther,
				CreatedAt: s.now,
				UpdatedAt: s.now,
			}
		},
		touch:    func(e *entity.UsageExample, now time.Time) { e.UpdatedAt = now },
		language: func(e *entity.UsageExample) string { return e.Language },
		fields: []fieldRule[ExampleInput, entity.UsageExample]{
			textRule("text",
				func(i *ExampleInput) *string { return i.Text },
				func(e *entity.UsageExample) *string { return &e.Text },
				entity.NormalizeText, same),
			textRule("translation",
				func(i *ExampleInput) *string { return i.Translation },
				func(e *entity.UsageExample) *string { return &e.Translation },
				same, same),
			textRule("language",
				func(i *ExampleInput) *string { return i.Language },
				func(e *entity.UsageExample) *string { return &e.Language },
				same, same),
			{
				name:     "source",
				supplied: func(i *ExampleInput) bool { return i.Source != nil },
				equal:    func(i *ExampleInput, e *entity.UsageExample) bool { return *i.Source == string(e.Source) },
				apply:    func(i *ExampleInput, e *entity.UsageExample) { e.Source = entity.ExampleSource(*i.Source) },
			},
			textRule("source_url",
				func(i *ExampleInput) *string { return i.SourceURL },
				func(e *entity.UsageExample) *string { return &e.SourceURL },
				same, same),
		},
		validate: validateExample,
	}
}

func tagKind(repo repository.ItemRepository[entity.Tag]) nestedKind[TagInput, entity.Tag] {
	return nestedKind[TagInput, entity.Tag]{
		kind:      entity.KindTag,
		field:     "tags",
		limit:     entity.MaxTagsAmount,
		keyField:  "name",
		repo:      repo,
		inputID:   func(i *TagInput) *uuid.UUID { return i.ID },
		key:       func(i *TagInput, _ *scope) entity.Key { return entity.NewKey(optional(i.Name), "") },
		storedKey: func(e *entity.Tag) entity.Key { return entity.NewKey(e.Name, "") },
		id:        func(e *entity.Tag) uuid.UUID { return e.ID },
		newItem: func(s *scope) *entity.Tag {
			return &entity.Tag{ID: uuid.New(), AuthorID: s.authorID, CreatedAt: s.now, UpdatedAt: s.now}
		},
		touch: func(e *entity.Tag, now time.Time) { e.UpdatedAt = now },
		fields: []fieldRule[TagInput, entity.Tag]{
			textRule("name",
				func(i *TagInput) *string { return i.Name },
				func(e *entity.Tag) *string { return &e.Name },
				entity.NormalizeText, strings.ToLower),
		},
		validate: validateTag,
	}
}

func formGroupKind(repo repository.ItemRepository[entity.FormGroup]) nestedKind[FormGroupInput, entity.FormGroup] {
	return nestedKind[FormGroupInput, entity.FormGroup]{
		kind:     entity.KindFormGroup,
		field:    "form_groups",
		limit:    entity.MaxFormGroupsAmount,
		keyField: "name",
		repo:     repo,
		inputID:  func(i *FormGroupInput) *uuid.UUID { return i.ID },
		key: func(i *FormGroupInput, s *scope) entity.Key {
			language := s.language
			if i.Language != nil {
				language = *i.Language
			}
			return entity.NewKey(optional(i.Name), language)
		},
		storedKey: func(e *entity.FormGroup) entity.Key { return entity.NewKey(e.Name, e.Language) },
		id:        func(e *entity.FormGroup) uuid.UUID { return e.ID },
		newItem: func(s *scope) *entity.FormGroup {
			return &entity.FormGroup{ID: uuid.New(), AuthorID: s.authorID, Language: s.language, CreatedAt: s.now, UpdatedAt: s.now}
		},
		touch:    func(e *entity.FormGroup, now time.Time) { e.UpdatedAt = now },
		language: func(e *entity.FormGroup) string { return e.Language },
		fields: []fieldRule[FormGroupInput, entity.FormGroup]{
			textRule("name",
				func(i *FormGroupInput) *string { return i.Name },
				func(e *entity.FormGroup) *string { return &e.Name },
				entity.NormalizeText, entity.Capitalize),
			textRule("language",
				func(i *FormGroupInput) *string { return i.Language },
				func(e *entity.FormGroup) *string { return &e.Language },
				same, same),
			textRule("color",
				func(i *FormGroupInput) *string { return i.Color },
				func(e *entity.FormGroup) *string { return &e.Color },
				strings.ToLower, strings.ToLower),
			textRule("translation",
				func(i *FormGroupInput) *string { return i.Translation },
				func(e *entity.FormGroup) *string { return &e.Translation },
				same, same),
		},
		validate: validateFormGroup,
	}
}

func collectionKind(repo repository.ItemRepository[entity.Collection]) nestedKind[CollectionInput, entity.Collection] {
	return nestedKind[CollectionInput, entity.Collection]{
		kind:      entity.KindCollection,
		field:     "collections",
		limit:     -1,
		keyField:  "title",
		repo:      repo,
		inputID:   func(i *CollectionInput) *uuid.UUID { return i.ID },
		key:       func(i *CollectionInput, _ *scope) entity.Key { return entity.NewKey(optional(i.Title), "") },
		storedKey: func(e *entity.Collection) entity.Key { return entity.NewKey(e.Title, "") },
		id:        func(e *entity.Collection) uuid.UUID { return e.ID },
		newItem: func(s *scope) *entity.Collection {
			return &entity.Collection{ID: uuid.New(), AuthorID: s.authorID, CreatedAt: s.now, UpdatedAt: s.now}
		},
		touch: func(e *entity.Collection, now time.Time) { e.UpdatedAt = now },
		fields: []fieldRule[CollectionInput, entity.Collection]{
			textRule("title",
				func(i *CollectionInput) *string { return i.Title },
				func(e *entity.Collection) *string { return &e.Title },
				entity.NormalizeText, same),
			textRule("description",
				func(i *CollectionInput) *string { return i.Description },
				func(e *entity.Collection) *string { return &e.Description },
				same, same),
		},
		validate: validateCollection,
	}
}

func imageKind(repo repository.ItemRepository[entity.ImageAssociation]) nestedKind[ImageInput, entity.ImageAssociation] {
	return nestedKind[ImageInput, entity.ImageAssociation]{
		kind:      entity.KindImage,
		field:     "image_associations",
		limit:     entity.MaxImagesAmount,
		keyField:  "image_url",
		repo:      repo,
		inputID:   func(i *ImageInput) *uuid.UUID { return i.ID },
		key:       func(*ImageInput, *scope) entity.Key { return entity.Key{} },
		storedKey: func(*entity.ImageAssociation) entity.Key { return entity.Key{} },
		id:        func(e *entity.ImageAssociation) uuid.UUID { return e.ID },
		newItem: func(s *scope) *entity.ImageAssociation {
			return &entity.ImageAssociation{ID: uuid.New(), AuthorID: s.authorID, CreatedAt: s.now, UpdatedAt: s.now}
		},
		touch: func(e *entity.ImageAssociation, now time.Time) { e.UpdatedAt = now },
		fields: []fieldRule[ImageInput, entity.ImageAssociation]{
			textRule("image_url",
				func(i *ImageInput) *string { return i.ImageURL },
				func(e *entity.ImageAssociation) *string { return &e.ImageURL },
				same, same),
		},
		validate: validateImage,
	}
}

func quoteKind(repo repository.ItemRepository[entity.QuoteAssociation]) nestedKind[QuoteInput, entity.QuoteAssociation] {
	return nestedKind[QuoteInput, entity.QuoteAssociation]{
		kind:      entity.KindQuote,
		field:     "quote_associations",
		limit:     entity.MaxQuotesAmount,
		keyField:  "text",
		repo:      repo,
		inputID:   func(i *QuoteInput) *uuid.UUID { return i.ID },
		key:       func(i *QuoteInput, _ *scope) entity.Key { return entity.NewKey(optional(i.Text), "") },
		storedKey: func(e *entity.QuoteAssociation) entity.Key { return entity.NewKey(e.Text, "") },
		id:        func(e *entity.QuoteAssociation) uuid.UUID { return e.ID },
		newItem: func(s *scope) *entity.QuoteAssociation {
			return &entity.QuoteAssociation{ID: uuid.New(), AuthorID: s.authorID, CreatedAt: s.now, UpdatedAt: s.now}
		},
		touch: func(e *entity.QuoteAssociation, now time.Time) { e.UpdatedAt = now },
		fields: []fieldRule[QuoteInput, entity.QuoteAssociation]{
			textRule("text",
				func(i *QuoteInput) *string { return i.Text },
				func(e *entity.QuoteAssociation) *string { return &e.Text },
				entity.NormalizeText, same),
			textRule("quote_author",
				func(i *QuoteInput) *string { return i.QuoteAuthor },
				func(e *entity.QuoteAssociation) *string { return &e.QuoteAuthor },
				same, same),
		},
		validate: validateQuote,
	}
}
