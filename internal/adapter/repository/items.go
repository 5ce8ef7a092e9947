package repository

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/repository"
)

// linkTables maps each nested kind to its word join table.
var linkTables = map[entity.Kind]string{
	entity.KindTranslation: "word_translations",
	entity.KindDefinition:  "word_definitions",
	entity.KindExample:     "word_examples",
	entity.KindTag:         "word_tags",
	entity.KindFormGroup:   "word_form_groups",
	entity.KindCollection:  "word_collections",
	entity.KindImage:       "word_images",
	entity.KindQuote:       "word_quotes",
}

// NewTranslationRepository stores translations.
func NewTranslationRepository(db *bun.DB) repository.ItemRepository[entity.Translation] {
	return newItemRepository(db, itemTable[entity.Translation, translationModel]{
		kind:         entity.KindTranslation,
		table:        "translations",
		link:         linkTables[entity.KindTranslation],
		searchColumn: "normalized",
		keyed:        true,
		byLanguage:   true,
		hasLanguage:  true,
		toModel: func(e *entity.Translation) *translationModel {
			return &translationModel{
				ID:         e.ID,
				AuthorID:   e.AuthorID,
				Language:   e.Language,
				Text:       e.Text,
				Normalized: entity.NormalizeText(e.Text),
				CreatedAt:  e.CreatedAt,
				UpdatedAt:  e.UpdatedAt,
			}
		},
		toEntity: func(m *translationModel) *entity.Translation {
			return &entity.Translation{
				ID:        m.ID,
				AuthorID:  m.AuthorID,
				Language:  m.Language,
				Text:      m.Text,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			}
		},
		id:            func(e *entity.Translation) uuid.UUID { return e.ID },
		setWordsCount: func(e *entity.Translation, n int) { e.WordsCount = n },
	})
}

// NewDefinitionRepository stores definitions.
func NewDefinitionRepository(db *bun.DB) repository.ItemRepository[entity.Definition] {
	return newItemRepository(db, itemTable[entity.Definition, definitionModel]{
		kind:         entity.KindDefinition,
		table:        "definitions",
		link:         linkTables[entity.KindDefinition],
		searchColumn: "normalized",
		keyed:        true,
		hasLanguage:  true,
		toModel: func(e *entity.Definition) *definitionModel {
			return &definitionModel{
				ID:          e.ID,
				AuthorID:    e.AuthorID,
				Language:    e.Language,
				Text:        e.Text,
				Normalized:  entity.NormalizeText(e.Text),
				Translation: e.Translation,
				CreatedAt:   e.CreatedAt,
				UpdatedAt:   e.UpdatedAt,
			}
		},
		toEntity: func(m *definitionModel) *entity.Definition {
			return &entity.Definition{
				ID:          m.ID,
				AuthorID:    m.AuthorID,
				Language:    m.Language,
				Text:        m.Text,
				Translation: m.Translation,
				CreatedAt:   m.CreatedAt,
				UpdatedAt:   m.UpdatedAt,
			}
		},
		id:            func(e *entity.Definition) uuid.UUID { return e.ID },
		setWordsCount: func(e *entity.Definition, n int) { e.WordsCount = n },
	})
}

// NewExampleRepository stores usage examples.
func NewExampleRepository(db *bun.DB) repository.ItemRepository[entity.UsageExample] {
	return newItemRepository(db, itemTable[entity.UsageExample, exampleModel]{
		kind:         entity.KindExample,
		table:        "examples",
		link:         linkTables[entity.KindExample],
		searchColumn: "normalized",
		keyed:        true,
		hasLanguage:  true,
		toModel: func(e *entity.UsageExample) *exampleModel {
			source := e.Source
			if source == "" {
				source = entity.SourceOther
			}
			return &exampleModel{
				ID:          e.ID,
				AuthorID:    e.AuthorID,
				Language:    e.Language,
				Text:        e.Text,
				Normalized:  entity.NormalizeText(e.Text),
				Translation: e.Translation,
				Source:      string(source),
				SourceURL:   e.SourceURL,
				CreatedAt:   e.CreatedAt,
				UpdatedAt:   e.UpdatedAt,
			}
		},
		toEntity: func(m *exampleModel) *entity.UsageExample {
			return &entity.UsageExample{
				ID:          m.ID,
				AuthorID:    m.AuthorID,
				Language:    m.Language,
				Text:        m.Text,
				Translation: m.Translation,
				Source:      entity.ExampleSource(m.Source),
				SourceURL:   m.SourceURL,
				CreatedAt:   m.CreatedAt,
				UpdatedAt:   m.UpdatedAt,
			}
		},
		id:            func(e *entity.UsageExample) uuid.UUID { return e.ID },
		setWordsCount: func(e *entity.UsageExample, n int) { e.WordsCount = n },
	})
}

// NewTagRepository stores tags.
func NewTagRepository(db *bun.DB) repository.ItemRepository[entity.Tag] {
	return newItemRepository(db, itemTable[entity.Tag, tagModel]{
		kind:         entity.KindTag,
		table:        "tags",
		link:         linkTables[entity.KindTag],
		searchColumn: "normalized",
		keyed:        true,
		toModel: func(e *entity.Tag) *tagModel {
			return &tagModel{
				ID:         e.ID,
				AuthorID:   e.AuthorID,
				Name:       e.Name,
				Normalized: entity.NormalizeText(e.Name),
				CreatedAt:  e.CreatedAt,
				UpdatedAt:  e.UpdatedAt,
			}
		},
		toEntity: func(m *tagModel) *entity.Tag {
			return &entity.Tag{
				ID:        m.ID,
				AuthorID:  m.AuthorID,
				Name:      m.Name,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			}
		},
		id:            func(e *entity.Tag) uuid.UUID { return e.ID },
		setWordsCount: func(e *entity.Tag, n int) { e.WordsCount = n },
	})
}

// NewFormGroupRepository stores form groups.
func NewFormGroupRepository(db *bun.DB) repository.ItemRepository[entity.FormGroup] {
	return newItemRepository(db, itemTable[entity.FormGroup, formGroupModel]{
		kind:         entity.KindFormGroup,
		table:        "form_groups",
		link:         linkTables[entity.KindFormGroup],
		searchColumn: "normalized",
		keyed:        true,
		byLanguage:   true,
		hasLanguage:  true,
		toModel: func(e *entity.FormGroup) *formGroupModel {
			return &formGroupModel{
				ID:          e.ID,
				AuthorID:    e.AuthorID,
				Language:    e.Language,
				Name:        e.Name,
				Normalized:  entity.NormalizeText(e.Name),
				Color:       e.Color,
				Translation: e.Translation,
				CreatedAt:   e.CreatedAt,
				UpdatedAt:   e.UpdatedAt,
			}
		},
		toEntity: func(m *formGroupModel) *entity.FormGroup {
			return &entity.FormGroup{
				ID:          m.ID,
				AuthorID:    m.AuthorID,
				Language:    m.Language,
				Name:        m.Name,
				Color:       m.Color,
				Translation: m.Translation,
				CreatedAt:   m.CreatedAt,
				UpdatedAt:   m.UpdatedAt,
			}
		},
		id:            func(e *entity.FormGroup) uuid.UUID { return e.ID },
		setWordsCount: func(e *entity.FormGroup, n int) { e.WordsCount = n },
	})
}

// NewCollectionRepository stores collections.
func NewCollectionRepository(db *bun.DB) repository.ItemRepository[entity.Collection] {
	return newItemRepository(db, itemTable[entity.Collection, collectionModel]{
		kind:         entity.KindCollection,
		table:        "collections",
		link:         linkTables[entity.KindCollection],
		searchColumn: "normalized",
		keyed:        true,
		toModel: func(e *entity.Collection) *collectionModel {
			return &collectionModel{
				ID:          e.ID,
				AuthorID:    e.AuthorID,
				Title:       e.Title,
				Normalized:  entity.NormalizeText(e.Title),
				Description: e.Description,
				CreatedAt:   e.CreatedAt,
				UpdatedAt:   e.UpdatedAt,
			}
		},
		toEntity: func(m *collectionModel) *entity.Collection {
			return &entity.Collection{
				ID:          m.ID,
				AuthorID:    m.AuthorID,
				Title:       m.Title,
				Description: m.Description,
				CreatedAt:   m.CreatedAt,
				UpdatedAt:   m.UpdatedAt,
			}
		},
		id:            func(e *entity.Collection) uuid.UUID { return e.ID },
		setWordsCount: func(e *entity.Collection, n int) { e.WordsCount = n },
	})
}

// NewImageRepository stores image associations. Images have no natural key.
func NewImageRepository(db *bun.DB) repository.ItemRepository[entity.ImageAssociation] {
	return newItemRepository(db, itemTable[entity.ImageAssociation, imageModel]{
		kind:         entity.KindImage,
		table:        "image_associations",
		link:         linkTables[entity.KindImage],
		searchColumn: "image_url",
		toModel: func(e *entity.ImageAssociation) *imageModel {
			return &imageModel{
				ID:        e.ID,
				AuthorID:  e.AuthorID,
				ImageURL:  e.ImageURL,
				CreatedAt: e.CreatedAt,
				UpdatedAt: e.UpdatedAt,
			}
		},
		toEntity: func(m *imageModel) *entity.ImageAssociation {
			return &entity.ImageAssociation{
				ID:        m.ID,
				AuthorID:  m.AuthorID,
				ImageURL:  m.ImageURL,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			}
		},
		id:            func(e *entity.ImageAssociation) uuid.UUID { return e.ID },
		setWordsCount: func(e *entity.ImageAssociation, n int) { e.WordsCount = n },
	})
}

// NewQuoteRepository stores quote associations.
func NewQuoteRepository(db *bun.DB) repository.ItemRepository[entity.QuoteAssociation] {
	return newItemRepository(db, itemTable[entity.QuoteAssociation, quoteModel]{
		kind:         entity.KindQuote,
		table:        "quote_associations",
		link:         linkTables[entity.KindQuote],
		searchColumn: "normalized",
		keyed:        true,
		toModel: func(e *entity.QuoteAssociation) *quoteModel {
			return &quoteModel{
				ID:          e.ID,
				AuthorID:    e.AuthorID,
				Text:        e.Text,
				Normalized:  entity.NormalizeText(e.Text),
				QuoteAuthor: e.QuoteAuthor,
				CreatedAt:   e.CreatedAt,
				UpdatedAt:   e.UpdatedAt,
			}
		},
		toEntity: func(m *quoteModel) *entity.QuoteAssociation {
			return &entity.QuoteAssociation{
				ID:          m.ID,
				AuthorID:    m.AuthorID,
				Text:        m.Text,
				QuoteAuthor: m.QuoteAuthor,
				CreatedAt:   m.CreatedAt,
				UpdatedAt:   m.UpdatedAt,
			}
		},
		id:            func(e *entity.QuoteAssociation) uuid.UUID { return e.ID },
		setWordsCount: func(e *entity.QuoteAssociation, n int) { e.WordsCount = n },
	})
}
