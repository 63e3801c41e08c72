package catalog

import "github.com/shopspring/decimal"

type CreateListingRequest struct {
	Category    string          `json:"category" binding:"required"`
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price" binding:"required"`
}

type UpdateListingRequest struct {
	Category    *string          `json:"category,omitempty"`
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	BasePrice   *decimal.Decimal `json:"base_price,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}
