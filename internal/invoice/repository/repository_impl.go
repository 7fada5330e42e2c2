package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/viatica/backoffice/internal/invoice/domain"
	"github.com/viatica/backoffice/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, doc *domain.Document) error {
	return db.WithContext(ctx).Create(doc).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, doc *domain.Document) error {
	return db.WithContext(ctx).Save(doc).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Document, error) {
	var doc domain.Document
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&doc).Error
	if err != nil {
		return nil, err
	}
	if doc.ID == 0 {
		return nil, nil
	}
	return &doc, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListDocumentFilter, page pagination.Pagination) ([]*domain.Document, error) {
	var docs []*domain.Document
	stmt := db.WithContext(ctx).Model(&domain.Document{})
	if filter.Kind != "" {
		stmt = stmt.Where("kind = ?", filter.Kind)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.ClientID != "" {
		stmt = stmt.Where("client_id = ?", filter.ClientID)
	}
	if filter.From != nil {
		stmt = stmt.Where("issued_at >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("issued_at < ?", *filter.To)
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
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *repo) NextNumber(ctx context.Context, db *gorm.DB, pointOfSale int) (int64, error) {
	var current int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(number), 0) FROM documents WHERE point_of_sale = ?`,
		pointOfSale,
	).Scan(&current).Error
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}
