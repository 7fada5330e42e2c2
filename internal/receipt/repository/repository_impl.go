package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/viatica/backoffice/internal/receipt/domain"
	"github.com/viatica/backoffice/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, receipt *domain.Receipt) error {
	return db.WithContext(ctx).Create(receipt).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&receipt).Error
	if err != nil {
		return nil, err
	}
	if receipt.ID == 0 {
		return nil, nil
	}
	return &receipt, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListReceiptFilter, page pagination.Pagination) ([]*domain.Receipt, error) {
	var receipts []*domain.Receipt
	stmt := db.WithContext(ctx).Model(&domain.Receipt{})
	if filter.BookingID != "" {
		stmt = stmt.Where("booking_id = ?", filter.BookingID)
	}
	if filter.ClientID != "" {
		stmt = stmt.Where("client_id = ?", filter.ClientID)
	}
	if filter.From != nil {
		stmt = stmt.Where("received_at >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("received_at < ?", *filter.To)
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	if page.PageSize > 0 {
		stmt = stmt.Limit(page.PageSize + 1)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Find(&receipts).Error
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

func (r *repo) NextNumber(ctx context.Context, db *gorm.DB, pointOfSale int) (int64, error) {
	var current int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(number), 0) FROM receipts WHERE point_of_sale = ?`,
		pointOfSale,
	).Scan(&current).Error
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}
