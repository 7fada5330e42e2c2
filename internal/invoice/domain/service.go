package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/viatica/backoffice/pkg/db/pagination"
)

type IssueRequest struct {
	Kind        string `json:"kind"`
	BookingID   string `json:"booking_id"`
	ServiceID   string `json:"service_id"`
	PointOfSale int    `json:"point_of_sale"`
	RefID       string `json:"ref_id,omitempty"` // required for credit notes
	Description string `json:"description"`
}

type ListDocumentRequest struct {
	PageToken string
	PageSize  int
	Kind      string
	Status    string
	ClientID  string
	From      *time.Time
	To        *time.Time
}

type ListDocumentFilter struct {
	Kind     string
	Status   string
	ClientID string
	From     *time.Time
	To       *time.Time
}

type ListDocumentResponse struct {
	pagination.PageInfo
	Documents []Document `json:"documents"`
}

type Service interface {
	Issue(context.Context, IssueRequest) (Document, error)
	GetByID(ctx context.Context, id string) (Document, error)
	List(context.Context, ListDocumentRequest) (ListDocumentResponse, error)
	Void(ctx context.Context, id string) (Document, error)
	RenderPDF(ctx context.Context, id string) (io.Reader, error)
}

var (
	ErrInvalidKind        = errors.New("invalid_kind")
	ErrInvalidPointOfSale = errors.New("invalid_point_of_sale")
	ErrInvalidReference   = errors.New("invalid_reference")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrServiceNotFound    = errors.New("service_not_found")
	ErrAlreadyVoid        = errors.New("already_void")
)
