// Package domain contains persistence models for agency clients.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// VATCondition is the client's standing before the tax authority. It decides
// which document kind an invoice is issued as.
type VATCondition string

const (
	VATConditionRegistered    VATCondition = "responsable_inscripto"
	VATConditionMonotax       VATCondition = "monotributo"
	VATConditionFinalConsumer VATCondition = "consumidor_final"
	VATConditionExempt        VATCondition = "exento"
)

// Client represents a travel-agency client.
type Client struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name         string            `gorm:"type:text;not null" json:"name"`
	TaxID        string            `gorm:"type:text;index" json:"tax_id"`
	VATCondition VATCondition      `gorm:"type:text;not null;default:'consumidor_final'" json:"vat_condition"`
	Email        string            `gorm:"type:text" json:"email"`
	Phone        string            `gorm:"type:text" json:"phone"`
	Address      string            `gorm:"type:text" json:"address"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }

func (c VATCondition) Valid() bool {
	switch c {
	case VATConditionRegistered, VATConditionMonotax, VATConditionFinalConsumer, VATConditionExempt:
		return true
	default:
		return false
	}
}
