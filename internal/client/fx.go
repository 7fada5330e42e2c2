package client

import (
	"github.com/viatica/backoffice/internal/client/repository"
	"github.com/viatica/backoffice/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
