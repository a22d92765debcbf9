package gateway

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"levelboard/internal/engine"
	"levelboard/internal/symbols"
)

// Handler holds the read-side dependencies of the REST API.
type Handler struct {
	engine  *engine.Service
	symbols *symbols.Client
}

func (h *Handler) GetTimeframes(c *gin.Context) {
	symbol := c.Param("symbol")
	c.JSON(http.StatusOK, gin.H{
		"symbol":     symbol,
		"timeframes": h.engine.ReadyTimeframes(symbol),
	})
}

func (h *Handler) GetPrice(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Price(c.Param("symbol")))
}

func (h *Handler) GetSnapshot(c *gin.Context) {
	snap, err := h.engine.Snapshot(c.Param("symbol"), c.Param("tf"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) GetLevels(c *gin.Context) {
	var priceOverride *float64
	if raw := c.Query("price"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
			return
		}
		priceOverride = &p
	}

	result, err := h.engine.Levels(c.Param("symbol"), c.Param("tf"), c.Param("indicator"), priceOverride)
	switch {
	case errors.Is(err, engine.ErrUnknownIndicator):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrNoSnapshot):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"indicator": c.Param("indicator"), "levels": result})
	}
}

func (h *Handler) GetSubKeys(c *gin.Context) {
	symbol := c.Param("symbol")
	indicator := c.Param("indicator")
	subKeys, err := h.engine.SubKeys(symbol, indicator)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"symbol":    symbol,
		"indicator": indicator,
		"subKeys":   subKeys,
	})
}

func (h *Handler) GetLevelCounts(c *gin.Context) {
	maxRes, maxSup := h.engine.LevelCounts(c.Param("symbol"))
	c.JSON(http.StatusOK, gin.H{"maxResistance": maxRes, "maxSupport": maxSup})
}

func (h *Handler) GetWatchlist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"buy":  h.symbols.Buy(),
		"sell": h.symbols.Sell(),
	})
}
