package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingAccepted  BookingStatus = "ACCEPTED"
	BookingDeclined  BookingStatus = "DECLINED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is expected from s.
// Terminal-state immutability is only enforced for client cancels; agents
// are not restricted by current status (see booking.Service.UpdateStatus).
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingDeclined, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID          int64           `json:"id"`
	ClientID    int64           `json:"client_id" validate:"required"`
	AgentID     *int64          `json:"agent_id,omitempty"`
	ServiceID   int64           `json:"service_id" validate:"required"`
	Status      BookingStatus   `json:"status"`
	ScheduledAt time.Time       `json:"scheduled_at" validate:"required"`
	Address     string          `json:"address"`
	Lat         *float64        `json:"lat,omitempty"`
	Lng         *float64        `json:"lng,omitempty"`
	TotalPrice  decimal.Decimal `json:"total_price" gorm:"type:numeric(14,2)"`
	Notes       string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Client  *User           `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Agent   *User           `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
	Service *ServiceListing `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
}
