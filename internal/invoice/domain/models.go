// Package domain contains persistence models for fiscal documents.
package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// DocumentKind distinguishes invoices from credit notes. Both share the model
// and the numbering scheme; credit notes subtract in the sales ledger.
type DocumentKind string

const (
	KindInvoice    DocumentKind = "INVOICE"
	KindCreditNote DocumentKind = "CREDIT_NOTE"
)

// DocumentStatus represents document lifecycle states.
type DocumentStatus string

const (
	StatusIssued DocumentStatus = "ISSUED"
	StatusVoid   DocumentStatus = "VOID"
)

// Document is an issued invoice or credit note. Its amount columns are copies
// of the booking service's persisted breakdown at issue time; they are never
// recomputed afterwards, so a later policy change cannot rewrite history.
type Document struct {
	ID     snowflake.ID   `gorm:"primaryKey" json:"id"`
	Kind   DocumentKind   `gorm:"type:text;not null;index" json:"kind"`
	Letter string         `gorm:"type:text;not null" json:"letter"`
	Status DocumentStatus `gorm:"type:text;not null;default:'ISSUED'" json:"status"`

	PointOfSale int   `gorm:"not null;uniqueIndex:ux_document_number" json:"point_of_sale"`
	Number      int64 `gorm:"not null;uniqueIndex:ux_document_number" json:"number"`

	BookingID snowflake.ID  `gorm:"not null;index" json:"booking_id"`
	ServiceID snowflake.ID  `gorm:"not null;index" json:"service_id"`
	ClientID  snowflake.ID  `gorm:"not null;index" json:"client_id"`
	RefID     *snowflake.ID `gorm:"index" json:"ref_id,omitempty"` // original invoice for credit notes

	Description string `gorm:"type:text" json:"description"`

	// Tax figures copied from the service row.
	TaxableBase21  float64 `gorm:"column:taxable_base_21;not null;default:0" json:"taxable_base_21"`
	TaxableBase105 float64 `gorm:"column:taxable_base_105;not null;default:0" json:"taxable_base_105"`
	VAT21Amount    float64 `gorm:"column:vat_21_amount;not null;default:0" json:"vat_21_amount"`
	VAT105Amount   float64 `gorm:"column:vat_105_amount;not null;default:0" json:"vat_105_amount"`
	ExemptAmount   float64 `gorm:"not null;default:0" json:"exempt_amount"`
	NonComputable  float64 `gorm:"not null;default:0" json:"non_computable"`
	OtherTaxes     float64 `gorm:"not null;default:0" json:"other_taxes"`

	TaxableCardInterest float64 `gorm:"not null;default:0" json:"taxable_card_interest"`
	VATOnCardInterest   float64 `gorm:"column:vat_on_card_interest;not null;default:0" json:"vat_on_card_interest"`

	Total float64 `gorm:"not null;default:0" json:"total"`

	// AFIP/ARCA authorization, filled by the filing flow once the document
	// is accepted. The wire protocol lives outside this repo.
	CAE        *string    `gorm:"type:text;column:cae" json:"cae,omitempty"`
	CAEDueDate *time.Time `gorm:"column:cae_due_date" json:"cae_due_date,omitempty"`

	IssuedAt  time.Time  `gorm:"not null" json:"issued_at"`
	VoidedAt  *time.Time `gorm:"" json:"voided_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Document) TableName() string { return "documents" }

// FormattedNumber renders the AFIP point-of-sale/sequence pair, e.g. 0003-00000042.
func (d Document) FormattedNumber() string {
	return fmt.Sprintf("%04d-%08d", d.PointOfSale, d.Number)
}
