package invoice

import (
	"github.com/viatica/backoffice/internal/invoice/repository"
	"github.com/viatica/backoffice/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
