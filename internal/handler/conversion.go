package handler

import (
	"errors"
	"net/http"

	"github.com/ErikRoss/ConversionsManager/internal/domain"
	"github.com/ErikRoss/ConversionsManager/internal/logger"
	"github.com/ErikRoss/ConversionsManager/internal/router"
	"github.com/ErikRoss/ConversionsManager/internal/sender"
	"github.com/ErikRoss/ConversionsManager/internal/storage"
	"github.com/gin-gonic/gin"
)

// defaultTimeout is the advisory per-call timeout in seconds applied
// when the caller supplies none.
const defaultTimeout = 1

// ConversionHandler handles conversion dispatch and listing.
type ConversionHandler struct {
	router *router.ConversionRouter
	store  storage.AttributionStore
	log    logger.Logger
}

// NewConversionHandler creates a ConversionHandler with the given
// dependencies.
func NewConversionHandler(r *router.ConversionRouter, store storage.AttributionStore, log logger.Logger) *ConversionHandler {
	return &ConversionHandler{
		router: r,
		store:  store,
		log:    log,
	}
}

// SendConversion resolves the conversion's click and forwards it to
// the click's advertising network.
func (h *ConversionHandler) SendConversion(c *gin.Context) {
	var req domain.ConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": err.Error()})
		return
	}
	if req.ClickID == "" && req.Key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "click_id or key is required"})
		return
	}
	if req.Timeout <= 0 {
		req.Timeout = defaultTimeout
	}

	outcome, err := h.router.Dispatch(c.Request.Context(), &req)
	if err != nil {
		h.respondDispatchError(c, &req, err)
		return
	}

	if outcome.Sent {
		msg := "Conversion sent"
		if !outcome.Saved {
			msg += " but not saved"
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "msg": msg})
		return
	}

	msg := "Conversion not sent"
	if !outcome.Saved {
		msg += " and not saved"
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "msg": msg})
}

// respondDispatchError maps router errors onto the response envelope.
func (h *ConversionHandler) respondDispatchError(c *gin.Context, req *domain.ConversionRequest, err error) {
	switch {
	case errors.Is(err, router.ErrClickNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "msg": "Click not found"})
	case errors.Is(err, router.ErrSourceNotSupported):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "msg": "Click source not supported"})
	case errors.Is(err, sender.ErrEventNotMapped):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "msg": "Conversion event not found"})
	default:
		h.log.Error("Failed to dispatch conversion",
			logger.Error(err),
			logger.String("click_id", req.ClickID),
			logger.String("event", req.Event),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "msg": "Conversion not sent"})
	}
}

// ListConversions returns all stored conversions, newest first.
func (h *ConversionHandler) ListConversions(c *gin.Context) {
	convs, err := h.store.ListConversions(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list conversions", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "msg": "Failed to list conversions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "conversions": convs})
}
