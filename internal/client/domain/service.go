package domain

import (
	"context"
	"errors"

	"github.com/viatica/backoffice/pkg/db/pagination"
)

type CreateClientRequest struct {
	Name         string `json:"name"`
	TaxID        string `json:"tax_id"`
	VATCondition string `json:"vat_condition"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

type UpdateClientRequest struct {
	ID           string  `json:"-"`
	Name         *string `json:"name,omitempty"`
	TaxID        *string `json:"tax_id,omitempty"`
	VATCondition *string `json:"vat_condition,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
}

type ListClientRequest struct {
	PageToken string
	PageSize  int
	Name      string
	TaxID     string
}

type ListClientFilter struct {
	Name  string
	TaxID string
}

type ListClientResponse struct {
	pagination.PageInfo
	Clients []Client `json:"clients"`
}

type Service interface {
	Create(context.Context, CreateClientRequest) (Client, error)
	Update(context.Context, UpdateClientRequest) (Client, error)
	GetByID(ctx context.Context, id string) (Client, error)
	List(context.Context, ListClientRequest) (ListClientResponse, error)
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidVATCondition = errors.New("invalid_vat_condition")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
