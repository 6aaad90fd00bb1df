package web

import (
	"fmt"
	"log/slog"
	"net/http"

	"nestchat/domain"
	"nestchat/errors"
	"nestchat/services"

	"github.com/gin-gonic/gin"
)

type ApartmentHandler struct {
	apartments services.IApartmentService
	log        *slog.Logger
}

func NewApartmentHandler(apartments services.IApartmentService, log *slog.Logger) *ApartmentHandler {
	return &ApartmentHandler{apartments: apartments, log: log}
}

type createApartmentRequest struct {
	Title     string `json:"title"`
	Address   string `json:"address"`
	RentCents int64  `json:"rent_cents"`
}

func (h *ApartmentHandler) Create(c *gin.Context) {
	callerID, ok := mustCallerID(c)
	if !ok {
		return
	}
	var req createApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.log, fmt.Errorf("%w: %v", errors.ErrValidation, err))
		return
	}

	apartment, err := h.apartments.Create(domain.CreateApartmentCommand{
		OwnerID:   callerID,
		Title:     req.Title,
		Address:   req.Address,
		RentCents: req.RentCents,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, apartment)
}

func (h *ApartmentHandler) GetByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	apartment, err := h.apartments.GetByID(id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, apartment)
}
