package app

import (
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"github.com/eslsoft/lingvo/internal/infrastructure/config"
	"github.com/eslsoft/lingvo/internal/infrastructure/server"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	DB     *bun.DB
	Server *server.Server
}
