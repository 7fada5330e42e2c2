package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/viatica/backoffice/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, booking *Booking) error
	Save(ctx context.Context, db *gorm.DB, booking *Booking) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Booking, error)
	List(ctx context.Context, db *gorm.DB, filter ListBookingFilter, page pagination.Pagination) ([]*Booking, error)

	InsertService(ctx context.Context, db *gorm.DB, svc *Service) error
	SaveService(ctx context.Context, db *gorm.DB, svc *Service) error
	FindServiceByID(ctx context.Context, db *gorm.DB, bookingID, serviceID snowflake.ID) (*Service, error)
	DeleteService(ctx context.Context, db *gorm.DB, bookingID, serviceID snowflake.ID) error
}
