package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserRole string

const (
	RoleClient UserRole = "CLIENT"
	RoleAgent  UserRole = "AGENT"
	RoleAdmin  UserRole = "ADMIN"
)

type AgentStatus string

const (
	AgentPending  AgentStatus = "pending"
	AgentVerified AgentStatus = "verified"
	AgentRejected AgentStatus = "rejected"
	AgentBlocked  AgentStatus = "blocked"
)

type User struct {
	ID           int64           `json:"id"`
	Email        string          `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	PasswordHash string          `json:"-"`
	Role         UserRole        `json:"role"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone,omitempty"`
	AvatarURL    string          `json:"avatar_url,omitempty"`
	Balance      decimal.Decimal `json:"balance" gorm:"type:numeric(14,2);not null;default:0"`
	AgentStatus  AgentStatus     `json:"agent_status,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// AgentProfile holds the vetting details for a service agent.
type AgentProfile struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id" gorm:"uniqueIndex"`
	Bio            string     `json:"bio,omitempty" gorm:"type:text"`
	Skills         string     `json:"skills,omitempty"`
	YearsExp       int        `json:"years_exp,omitempty"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`
	VerifiedBy     *int64     `json:"verified_by,omitempty"`
	RejectedReason string     `json:"rejected_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
