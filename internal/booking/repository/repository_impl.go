package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/viatica/backoffice/internal/booking/domain"
	"github.com/viatica/backoffice/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, booking *domain.Booking) error {
	return db.WithContext(ctx).Omit("Services").Create(booking).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, booking *domain.Booking) error {
	return db.WithContext(ctx).Omit("Services").Save(booking).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Booking, error) {
	var booking domain.Booking
	err := db.WithContext(ctx).
		Preload("Services", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at asc, id asc")
		}).
		Where("id = ?", id).
		Limit(1).
		Find(&booking).Error
	if err != nil {
		return nil, err
	}
	if booking.ID == 0 {
		return nil, nil
	}
	return &booking, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListBookingFilter, page pagination.Pagination) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	stmt := db.WithContext(ctx).Model(&domain.Booking{})
	if filter.ClientID != "" {
		stmt = stmt.Where("client_id = ?", filter.ClientID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
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
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repo) InsertService(ctx context.Context, db *gorm.DB, svc *domain.Service) error {
	return db.WithContext(ctx).Create(svc).Error
}

func (r *repo) SaveService(ctx context.Context, db *gorm.DB, svc *domain.Service) error {
	return db.WithContext(ctx).Save(svc).Error
}

func (r *repo) FindServiceByID(ctx context.Context, db *gorm.DB, bookingID, serviceID snowflake.ID) (*domain.Service, error) {
	var svc domain.Service
	err := db.WithContext(ctx).
		Where("booking_id = ? AND id = ?", bookingID, serviceID).
		Limit(1).
		Find(&svc).Error
	if err != nil {
		return nil, err
	}
	if svc.ID == 0 {
		return nil, nil
	}
	return &svc, nil
}

func (r *repo) DeleteService(ctx context.Context, db *gorm.DB, bookingID, serviceID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("booking_id = ? AND id = ?", bookingID, serviceID).
		Delete(&domain.Service{}).Error
}
