package receipt

import (
	"github.com/viatica/backoffice/internal/receipt/repository"
	"github.com/viatica/backoffice/internal/receipt/service"
	"go.uber.org/fx"
)

var Module = fx.Module("receipt.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
