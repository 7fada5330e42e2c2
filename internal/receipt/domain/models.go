// Package domain contains persistence models for payment receipts.
package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// PaymentMethod is how the client paid.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "efectivo"
	MethodTransfer PaymentMethod = "transferencia"
	MethodCard     PaymentMethod = "tarjeta"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodTransfer, MethodCard:
		return true
	default:
		return false
	}
}

// Receipt records a payment received against a booking. Receipts are not
// fiscal documents; they track collections, not tax.
type Receipt struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	PointOfSale int           `gorm:"not null;uniqueIndex:ux_receipt_number" json:"point_of_sale"`
	Number      int64         `gorm:"not null;uniqueIndex:ux_receipt_number" json:"number"`
	BookingID   snowflake.ID  `gorm:"not null;index" json:"booking_id"`
	ClientID    snowflake.ID  `gorm:"not null;index" json:"client_id"`
	Amount      float64       `gorm:"not null" json:"amount"`
	Method      PaymentMethod `gorm:"type:text;not null" json:"method"`
	Concept     string        `gorm:"type:text" json:"concept"`
	ReceivedAt  time.Time     `gorm:"not null" json:"received_at"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Receipt) TableName() string { return "receipts" }

// FormattedNumber renders the point-of-sale/sequence pair.
func (r Receipt) FormattedNumber() string {
	return fmt.Sprintf("%04d-%08d", r.PointOfSale, r.Number)
}
