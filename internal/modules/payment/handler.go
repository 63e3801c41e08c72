package payment

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"servicemarket/internal/paystack"
	"servicemarket/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/:id/pay/gateway", h.InitializePayment)
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/webhook", h.Webhook)
}

func (h *Handler) InitializePayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	data, err := h.service.InitializePayment(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrNotBookingOwner):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this booking")
		default:
			var provErr *paystack.ProviderError
			if errors.As(err, &provErr) {
				response.ErrorWithDetails(c, http.StatusInternalServerError, "GATEWAY_ERROR", "Payment gateway rejected the request", provErr.Body)
				return
			}
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to initialize payment")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"checkout": data})
}

func (h *Handler) Webhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "bad request")
		return
	}

	signature := c.GetHeader(paystack.SignatureHeader)
	if err := h.service.HandleWebhook(c.Request.Context(), rawBody, signature); err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			log.Warn().Str("client_ip", c.ClientIP()).Msg("webhook signature mismatch")
			c.String(http.StatusUnauthorized, "invalid signature")
			return
		}
		if errors.Is(err, ErrNotFound) {
			c.String(http.StatusNotFound, "unknown booking")
			return
		}
		log.Error().Err(err).Msg("webhook processing failed")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	c.String(http.StatusOK, "ok")
}
