package entity

// Amount limits per word list and per user.
const (
	MaxTypesAmount         = 3
	MaxTagsAmount          = 10
	MaxFormGroupsAmount    = 4
	MaxTranslationsAmount  = 24
	MaxExamplesAmount      = 10
	MaxDefinitionsAmount   = 10
	MaxImagesAmount        = 10
	MaxQuotesAmount        = 10
	MaxSynonymsAmount      = 16
	MaxAntonymsAmount      = 16
	MaxFormsAmount         = 10
	MaxSimilarsAmount      = 16
	MaxNativeLanguages     = 2
	MaxLearningLanguages   = 5
	MaxTranslatorWords     = 100
	DefaultTranslatorWords = 10
)

// Field length limits.
const (
	MinWordLength                  = 1
	MaxWordLength                  = 256
	MaxNoteLength                  = 256
	MinTranslationLength           = 1
	MaxTranslationLength           = 256
	MinDefinitionLength            = 2
	MaxDefinitionLength            = 512
	MinExampleLength               = 2
	MaxExampleLength               = 512
	MinTagLength                   = 1
	MaxTagLength                   = 32
	MinFormGroupLength             = 1
	MaxFormGroupLength             = 64
	MaxFormGroupTranslationLength  = 64
	MinCollectionTitleLength       = 1
	MaxCollectionTitleLength       = 32
	MaxCollectionDescriptionLength = 128
	MaxQuoteTextLength             = 256
	MaxQuoteAuthorLength           = 64
	MaxImageURLLength              = 1024
	MinUsernameLength              = 3
	MaxUsernameLength              = 64
	MinPasswordLength              = 8
)

// TextMask is the allowed shape of word and translation texts.
const TextMask = `^([A-Za-zА-Яа-яёЁ]+)([A-Za-zА-Яа-я-!?.,:'()ёЁ ]*)$`

// RelationLimit returns the ceiling for a relation list.
func RelationLimit(kind RelationKind) int {
	switch kind {
	case RelationSynonym:
		return MaxSynonymsAmount
	case RelationAntonym:
		return MaxAntonymsAmount
	case RelationForm:
		return MaxFormsAmount
	case RelationSimilar:
		return MaxSimilarsAmount
	}
	return 0
}
