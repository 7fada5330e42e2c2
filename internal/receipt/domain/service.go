package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/viatica/backoffice/pkg/db/pagination"
)

type CreateReceiptRequest struct {
	BookingID   string     `json:"booking_id"`
	PointOfSale int        `json:"point_of_sale"`
	Amount      float64    `json:"amount"`
	Method      string     `json:"method"`
	Concept     string     `json:"concept"`
	ReceivedAt  *time.Time `json:"received_at,omitempty"`
}

type ListReceiptRequest struct {
	PageToken string
	PageSize  int
	BookingID string
	ClientID  string
	From      *time.Time
	To        *time.Time
}

type ListReceiptFilter struct {
	BookingID string
	ClientID  string
	From      *time.Time
	To        *time.Time
}

type ListReceiptResponse struct {
	pagination.PageInfo
	Receipts []Receipt `json:"receipts"`
}

type Service interface {
	Create(context.Context, CreateReceiptRequest) (Receipt, error)
	GetByID(ctx context.Context, id string) (Receipt, error)
	List(context.Context, ListReceiptRequest) (ListReceiptResponse, error)
	RenderPDF(ctx context.Context, id string) (io.Reader, error)
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidMethod      = errors.New("invalid_method")
	ErrInvalidPointOfSale = errors.New("invalid_point_of_sale")
	ErrNotFound           = errors.New("not_found")
)
