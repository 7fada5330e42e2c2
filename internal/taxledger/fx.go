package taxledger

import (
	"github.com/viatica/backoffice/internal/taxledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("taxledger.service",
	fx.Provide(service.New),
)
