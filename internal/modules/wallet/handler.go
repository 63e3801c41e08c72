package wallet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"servicemarket/internal/domain"
	"servicemarket/internal/paystack"
	"servicemarket/internal/pkg/response"
)

type Handler struct {
	service *Service
	db      *gorm.DB
}

func NewHandler(service *Service, db *gorm.DB) *Handler {
	return &Handler{service: service, db: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/wallet", h.GetWallet)
	rg.GET("/wallet/transactions", h.ListTransactions)
	rg.POST("/wallet/fund", h.InitializeFunding)
	rg.POST("/wallet/fund/verify", h.VerifyFunding)
	rg.POST("/bookings/:id/pay", h.PayBooking)
}

type fundRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type verifyRequest struct {
	Reference string `json:"reference" binding:"required"`
}

func (h *Handler) GetWallet(c *gin.Context) {
	balance, err := h.service.Balance(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load wallet")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"balance": balance})
}

func (h *Handler) ListTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	txns, err := h.service.Transactions(c.Request.Context(), c.GetInt64("user_id"), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list transactions")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"transactions": txns})
}

func (h *Handler) InitializeFunding(c *gin.Context) {
	var req fundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	var user domain.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, c.GetInt64("user_id")).Error; err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}

	reference, checkout, err := h.service.InitializeFunding(c.Request.Context(), &user, req.Amount)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Amount must be positive")
			return
		}
		var provErr *paystack.ProviderError
		if errors.As(err, &provErr) {
			response.ErrorWithDetails(c, http.StatusInternalServerError, "GATEWAY_ERROR", "Payment gateway rejected the request", provErr.Body)
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to initialize funding")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reference": reference, "checkout": checkout})
}

func (h *Handler) VerifyFunding(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	txn, credited, err := h.service.VerifyFunding(c.Request.Context(), req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, ErrTransactionNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "No transaction for this reference")
		case errors.Is(err, ErrFundingNotSuccessful):
			response.Error(c, http.StatusBadRequest, "NOT_SUCCESSFUL", "Gateway transaction is not successful")
		default:
			var provErr *paystack.ProviderError
			if errors.As(err, &provErr) {
				response.ErrorWithDetails(c, http.StatusInternalServerError, "GATEWAY_ERROR", "Gateway verify failed", provErr.Body)
				return
			}
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify funding")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"transaction": txn,
		"credited":    credited,
	})
}

func (h *Handler) PayBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	b, txn, err := h.service.PayBooking(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrNotBookingOwner):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this booking")
		case errors.Is(err, ErrBookingNotPending):
			response.Error(c, http.StatusBadRequest, "ALREADY_PROCESSED", "Booking has already been processed")
		case errors.Is(err, ErrInsufficientFunds):
			response.Error(c, http.StatusBadRequest, "INSUFFICIENT_FUNDS", "Wallet balance does not cover the booking price")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to pay for booking")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"booking":     gin.H{"id": b.ID, "status": b.Status},
		"transaction": txn,
	})
}
