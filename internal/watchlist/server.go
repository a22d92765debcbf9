package watchlist

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"levelboard/internal/model"
)

// Handler serves the watchlist REST API.
type Handler struct {
	store *Store
	log   *logrus.Entry
}

// NewRouter builds the symbolsd gin engine.
func NewRouter(store *Store, log *logrus.Entry, mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{store: store, log: log}
	router.GET("/symbols", h.GetSymbols)
	router.POST("/symbols", h.AddSymbol)
	router.DELETE("/symbols/:id", h.RemoveSymbol)
	router.GET("/healthz", h.Healthz)

	return router
}

// GetSymbols serves the bulk list consumed by levelsd. The success flag is
// part of the wire contract: consumers reset their lists when it is false.
func (h *Handler) GetSymbols(c *gin.Context) {
	entries, err := h.store.List(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("watchlist list failed")
		c.JSON(http.StatusInternalServerError, model.SymbolListResponse{Success: false, Symbols: []model.SymbolEntry{}})
		return
	}
	c.JSON(http.StatusOK, model.SymbolListResponse{Success: true, Symbols: entries})
}

type addSymbolRequest struct {
	Symbol     string  `json:"symbol" binding:"required"`
	EntryPrice float64 `json:"entryPrice"`
	Side       string  `json:"side" binding:"required"`
}

func (h *Handler) AddSymbol(c *gin.Context) {
	var req addSymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	entry, err := h.store.Add(c.Request.Context(), req.Symbol, req.EntryPrice, model.Side(req.Side))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "symbol": entry})
}

func (h *Handler) RemoveSymbol(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return
	}
	if err := h.store.Remove(c.Request.Context(), id); err != nil {
		h.log.WithError(err).Error("watchlist remove failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) Healthz(c *gin.Context) {
	if err := h.store.DB().PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
