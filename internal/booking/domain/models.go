// Package domain contains persistence models for bookings and the services
// sold under them.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/viatica/backoffice/internal/billing/breakdown"
	"gorm.io/datatypes"
)

// BookingStatus represents booking lifecycle states.
type BookingStatus string

const (
	BookingStatusOpen      BookingStatus = "OPEN"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusClosed    BookingStatus = "CLOSED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking is a client file grouping the services of one trip.
type Booking struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	FileNumber    string            `gorm:"type:text;not null;uniqueIndex" json:"file_number"`
	ClientID      snowflake.ID      `gorm:"not null;index" json:"client_id"`
	Status        BookingStatus     `gorm:"type:text;not null;default:'OPEN'" json:"status"`
	Destination   string            `gorm:"type:text" json:"destination"`
	DepartureDate *time.Time        `gorm:"" json:"departure_date,omitempty"`
	ReturnDate    *time.Time        `gorm:"" json:"return_date,omitempty"`
	Notes         string            `gorm:"type:text" json:"notes"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Services []Service `gorm:"foreignKey:BookingID" json:"services,omitempty"`
}

// TableName sets the database table name.
func (Booking) TableName() string { return "bookings" }

// Service is one sellable item on a booking (hotel, flight, package). It
// stores both the figures the back-office entered and the full billing
// breakdown computed from them. Breakdown columns are copies of an engine
// result; they are never edited by hand.
type Service struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	BookingID   snowflake.ID `gorm:"not null;index" json:"booking_id"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Operator    string       `gorm:"type:text" json:"operator"`
	ServiceDate *time.Time   `gorm:"" json:"service_date,omitempty"`

	// Figures as entered.
	Mode                  string  `gorm:"type:text;not null" json:"mode"`
	SalePrice             float64 `gorm:"not null;default:0" json:"sale_price"`
	CostPrice             float64 `gorm:"not null;default:0" json:"cost_price"`
	VAT21Amount           float64 `gorm:"column:vat_21_amount;not null;default:0" json:"vat_21_amount"`
	VAT105Amount          float64 `gorm:"column:vat_105_amount;not null;default:0" json:"vat_105_amount"`
	ExemptAmount          float64 `gorm:"not null;default:0" json:"exempt_amount"`
	OtherTaxesAmount      float64 `gorm:"not null;default:0" json:"other_taxes_amount"`
	CardInterestAmount    float64 `gorm:"not null;default:0" json:"card_interest_amount"`
	CardInterestVATAmount float64 `gorm:"column:card_interest_vat_amount;not null;default:0" json:"card_interest_vat_amount"`
	TransferFeePct        float64 `gorm:"not null;default:0" json:"transfer_fee_pct"`

	// Billing breakdown as computed at save time.
	NonComputable             float64 `gorm:"not null;default:0" json:"non_computable"`
	TaxableBase21             float64 `gorm:"column:taxable_base_21;not null;default:0" json:"taxable_base_21"`
	TaxableBase105            float64 `gorm:"column:taxable_base_105;not null;default:0" json:"taxable_base_105"`
	CommissionExempt          float64 `gorm:"not null;default:0" json:"commission_exempt"`
	Commission21              float64 `gorm:"column:commission_21;not null;default:0" json:"commission_21"`
	Commission105             float64 `gorm:"column:commission_105;not null;default:0" json:"commission_105"`
	VATOnCommission21         float64 `gorm:"column:vat_on_commission_21;not null;default:0" json:"vat_on_commission_21"`
	VATOnCommission105        float64 `gorm:"column:vat_on_commission_105;not null;default:0" json:"vat_on_commission_105"`
	TotalCommissionWithoutVAT float64 `gorm:"column:total_commission_without_vat;not null;default:0" json:"total_commission_without_vat"`
	TaxableCardInterest       float64 `gorm:"not null;default:0" json:"taxable_card_interest"`
	VATOnCardInterest         float64 `gorm:"column:vat_on_card_interest;not null;default:0" json:"vat_on_card_interest"`
	OtherTaxes                float64 `gorm:"not null;default:0" json:"other_taxes"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Service) TableName() string { return "booking_services" }

// ApplyBreakdown copies an engine result onto the service row.
func (s *Service) ApplyBreakdown(res breakdown.Result) {
	s.NonComputable = res.NonComputable
	s.TaxableBase21 = res.TaxableBase21
	s.TaxableBase105 = res.TaxableBase105
	s.CommissionExempt = res.CommissionExempt
	s.Commission21 = res.Commission21
	s.Commission105 = res.Commission105
	s.VATOnCommission21 = res.VATOnCommission21
	s.VATOnCommission105 = res.VATOnCommission105
	s.TotalCommissionWithoutVAT = res.TotalCommissionWithoutVAT
	s.TaxableCardInterest = res.TaxableCardInterest
	s.VATOnCardInterest = res.VATOnCardInterest
	s.OtherTaxes = res.OtherTaxes
}
