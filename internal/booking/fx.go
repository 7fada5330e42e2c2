package booking

import (
	"github.com/viatica/backoffice/internal/booking/repository"
	"github.com/viatica/backoffice/internal/booking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("booking.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
