package handler

import (
	"errors"
	"net/http"

	"github.com/ErikRoss/ConversionsManager/internal/collector"
	"github.com/ErikRoss/ConversionsManager/internal/domain"
	"github.com/ErikRoss/ConversionsManager/internal/logger"
	"github.com/ErikRoss/ConversionsManager/internal/storage"
	"github.com/gin-gonic/gin"
)

// ClickHandler handles click ingestion and listing.
type ClickHandler struct {
	store storage.AttributionStore
	log   logger.Logger
}

// NewClickHandler creates a ClickHandler with the given dependencies.
func NewClickHandler(store storage.AttributionStore, log logger.Logger) *ClickHandler {
	return &ClickHandler{
		store: store,
		log:   log,
	}
}

// SaveClick enriches and persists an inbound click.
func (h *ClickHandler) SaveClick(c *gin.Context) {
	var click domain.Click
	if err := c.ShouldBindJSON(&click); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": err.Error()})
		return
	}

	if err := collector.Enrich(&click, c.ClientIP()); err != nil {
		if errors.Is(err, collector.ErrSourceIdentifierMissing) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"msg":     "Click source not found in parameters",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "msg": "Failed to process click"})
		return
	}

	id, err := h.store.InsertClick(c.Request.Context(), &click)
	if err != nil {
		h.log.Error("Failed to save click",
			logger.Error(err),
			logger.String("click_id", click.ClickID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "msg": "Failed to save click"})
		return
	}

	h.log.Info("Click saved",
		logger.Int64("id", id),
		logger.String("click_id", click.ClickID),
		logger.String("click_source", string(click.ClickSource)),
	)
	c.JSON(http.StatusOK, gin.H{"success": true, "msg": "Click saved"})
}

// ListClicks returns all stored clicks, newest first.
func (h *ClickHandler) ListClicks(c *gin.Context) {
	clicks, err := h.store.ListClicks(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list clicks", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "msg": "Failed to list clicks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "clicks": clicks})
}
