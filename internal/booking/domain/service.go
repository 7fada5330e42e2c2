package domain

import (
	"context"
	"errors"
	"time"

	billingdomain "github.com/viatica/backoffice/internal/billing/domain"
	"github.com/viatica/backoffice/pkg/db/pagination"
)

type CreateBookingRequest struct {
	FileNumber    string     `json:"file_number"`
	ClientID      string     `json:"client_id"`
	Destination   string     `json:"destination"`
	DepartureDate *time.Time `json:"departure_date,omitempty"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	Notes         string     `json:"notes"`
}

type ListBookingRequest struct {
	PageToken string
	PageSize  int
	ClientID  string
	Status    string
}

type ListBookingFilter struct {
	ClientID string
	Status   string
}

type ListBookingResponse struct {
	pagination.PageInfo
	Bookings []Booking `json:"bookings"`
}

// ServiceRequest carries a service's editable fields plus its billing figures.
// The billing part is a billing domain request so the same payload drives both
// the live preview and the save path.
type ServiceRequest struct {
	Description string     `json:"description"`
	Operator    string     `json:"operator"`
	ServiceDate *time.Time `json:"service_date,omitempty"`

	Billing billingdomain.Request `json:"billing"`
}

type UpdateStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

type BookingService interface {
	Create(context.Context, CreateBookingRequest) (Booking, error)
	GetByID(ctx context.Context, id string) (Booking, error)
	List(context.Context, ListBookingRequest) (ListBookingResponse, error)
	UpdateStatus(context.Context, UpdateStatusRequest) (Booking, error)

	AddService(ctx context.Context, bookingID string, req ServiceRequest) (Service, error)
	UpdateService(ctx context.Context, bookingID, serviceID string, req ServiceRequest) (Service, error)
	RemoveService(ctx context.Context, bookingID, serviceID string) error
}

var (
	ErrInvalidFileNumber  = errors.New("invalid_file_number")
	ErrInvalidClient      = errors.New("invalid_client")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrServiceNotFound    = errors.New("service_not_found")
	ErrDuplicateFile      = errors.New("duplicate_file_number")
	ErrBookingClosed      = errors.New("booking_closed")
)
