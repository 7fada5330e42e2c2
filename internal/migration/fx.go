package migration

import (
	bookingdomain "github.com/viatica/backoffice/internal/booking/domain"
	clientdomain "github.com/viatica/backoffice/internal/client/domain"
	"github.com/viatica/backoffice/internal/config"
	invoicedomain "github.com/viatica/backoffice/internal/invoice/domain"
	receiptdomain "github.com/viatica/backoffice/internal/receipt/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// sqlite and mysql installs are dev setups; AutoMigrate keeps them
		// in sync without a second migration file set.
		return conn.AutoMigrate(
			&clientdomain.Client{},
			&bookingdomain.Booking{},
			&bookingdomain.Service{},
			&invoicedomain.Document{},
			&receiptdomain.Receipt{},
		)
	}),
)
