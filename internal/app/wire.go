//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/eslsoft/lingvo/internal/adapter/repository"
	"github.com/eslsoft/lingvo/internal/adapter/rest"
	"github.com/eslsoft/lingvo/internal/infrastructure/config"
	"github.com/eslsoft/lingvo/internal/infrastructure/database"
	"github.com/eslsoft/lingvo/internal/infrastructure/server"
	"github.com/eslsoft/lingvo/internal/usecase"
)

var configSet = wire.NewSet(
	config.Load,
)

var databaseSet = wire.NewSet(
	database.NewDB,
)

var repositorySet = wire.NewSet(
	repository.NewStore,
	repository.NewTransactor,
	repository.NewUserRepository,
	repository.NewLanguageRepository,
	repository.NewWordRepository,
	repository.NewLinkRepository,
	repository.NewRelationRepository,
	repository.NewFavoriteRepository,
	repository.NewExerciseRepository,
	repository.NewTranslationRepository,
	repository.NewDefinitionRepository,
	repository.NewExampleRepository,
	repository.NewTagRepository,
	repository.NewFormGroupRepository,
	repository.NewCollectionRepository,
	repository.NewImageRepository,
	repository.NewQuoteRepository,
	wire.Struct(new(usecase.ItemRepositories), "*"),
)

var usecaseSet = wire.NewSet(
	usecase.NewMaterializer,
	usecase.NewWordUsecase,
	usecase.NewAuthUsecase,
	usecase.NewProfileUsecase,
	usecase.NewCollectionUsecase,
	usecase.NewExerciseUsecase,
	usecase.NewTranslationUsecase,
	usecase.NewDefinitionUsecase,
	usecase.NewExampleUsecase,
	usecase.NewTagUsecase,
	usecase.NewFormGroupUsecase,
	usecase.NewImageUsecase,
	usecase.NewQuoteUsecase,
)

var handlerSet = wire.NewSet(
	wire.Struct(new(rest.Items), "*"),
	rest.NewHandler,
)

var serverSet = wire.NewSet(
	server.NewLogger,
	server.NewServer,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		databaseSet,
		repositorySet,
		usecaseSet,
		handlerSet,
		serverSet,
		wire.Struct(new(Container), "Config", "Logger", "DB", "Server"),
	)
	return nil, nil, nil
}
