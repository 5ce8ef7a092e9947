package rest

import (
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingvo/internal/entity"
	"github.com/eslsoft/lingvo/internal/usecase"
)

// Items groups the usecases behind the nested entity libraries.
type Items struct {
	Translations usecase.ItemUsecase[usecase.TranslationInput, entity.Translation]
	Definitions  usecase.ItemUsecase[usecase.DefinitionInput, entity.Definition]
	Examples     usecase.ItemUsecase[usecase.ExampleInput, entity.UsageExample]
	Tags         usecase.ItemUsecase[usecase.TagInput, entity.Tag]
	FormGroups   usecase.ItemUsecase[usecase.FormGroupInput, entity.FormGroup]
	Images       usecase.ItemUsecase[usecase.ImageInput, entity.ImageAssociation]
	Quotes       usecase.ItemUsecase[usecase.QuoteInput, entity.QuoteAssociation]
}

// Handler serves the JSON API.
type Handler struct {
	auth        usecase.AuthUsecase
	profile     usecase.ProfileUsecase
	words       usecase.WordUsecase
	collections usecase.CollectionUsecase
	exercises   usecase.ExerciseUsecase
	items       Items
	logger      logrus.FieldLogger
}

func NewHandler(
	auth usecase.AuthUsecase,
	profile usecase.ProfileUsecase,
	words usecase.WordUsecase,
	collections usecase.CollectionUsecase,
	exercises usecase.ExerciseUsecase,
	items Items,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		auth:        auth,
		profile:     profile,
		words:       words,
		collections: collections,
		exercises:   exercises,
		items:       items,
		logger:      logger,
	}
}
