// Package gateway serves the read-side REST API over the levels engine and
// fans applied state out over Redis PubSub.
package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"levelboard/internal/engine"
	"levelboard/internal/symbols"
)

// RouterConfig wires the handler dependencies.
type RouterConfig struct {
	Engine  *engine.Service
	Symbols *symbols.Client
	Healthz http.Handler
	Mode    string
}

// NewRouter builds the gin engine with all API routes registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{engine: cfg.Engine, symbols: cfg.Symbols}

	api := router.Group("/api")
	{
		sym := api.Group("/symbols/:symbol")
		sym.GET("/timeframes", h.GetTimeframes)
		sym.GET("/price", h.GetPrice)
		sym.GET("/snapshots/:tf", h.GetSnapshot)
		sym.GET("/levels/:tf/:indicator", h.GetLevels)
		sym.GET("/levelcounts", h.GetLevelCounts)
		sym.GET("/subkeys/:indicator", h.GetSubKeys)

		api.GET("/watchlist", h.GetWatchlist)
	}

	if cfg.Healthz != nil {
		router.GET("/healthz", gin.WrapH(cfg.Healthz))
	}

	return router
}
