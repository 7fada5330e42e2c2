package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/viatica/backoffice/internal/config"
	"github.com/viatica/backoffice/internal/logger"
	"github.com/viatica/backoffice/internal/migration"
	"github.com/viatica/backoffice/internal/server"
	"github.com/viatica/backoffice/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
