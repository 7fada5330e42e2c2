package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/viatica/backoffice/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, receipt *Receipt) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Receipt, error)
	List(ctx context.Context, db *gorm.DB, filter ListReceiptFilter, page pagination.Pagination) ([]*Receipt, error)

	// NextNumber reserves the next sequential number for a point of sale.
	// Must run inside the issuing transaction.
	NextNumber(ctx context.Context, db *gorm.DB, pointOfSale int) (int64, error)
}
