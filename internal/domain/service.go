package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceListing is a bookable offer published by an agent.
type ServiceListing struct {
	ID          int64           `json:"id"`
	AgentID     int64           `json:"agent_id" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	BasePrice   decimal.Decimal `json:"base_price" gorm:"type:numeric(14,2)" validate:"required"`
	Active      bool            `json:"active" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Agent *User `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
}

func (ServiceListing) TableName() string { return "service_listings" }
