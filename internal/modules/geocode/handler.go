package geocode

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"servicemarket/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/geocode", h.Resolve)
}

func (h *Handler) Resolve(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing address parameter")
		return
	}

	res, err := h.service.Resolve(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, ErrUnresolvable) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Address could not be resolved")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Geocoding failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"location": res})
}
