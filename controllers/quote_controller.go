package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// QuoteFetcher returns one upstream quote document.
type QuoteFetcher interface {
	Fetch(ctx context.Context) (json.RawMessage, error)
}

// QuoteController proxies the upstream quote API.
type QuoteController struct {
	quotes QuoteFetcher
	logger *zap.Logger
}

// NewQuoteController creates a new QuoteController instance.
func NewQuoteController(quotes QuoteFetcher, logger *zap.Logger) *QuoteController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteController{quotes: quotes, logger: logger}
}

// GetQuote relays the upstream JSON body as is. Upstream failures are not
// retried and get no fallback body.
func (qc *QuoteController) GetQuote(ctx *gin.Context) {
	data, err := qc.quotes.Fetch(ctx.Request.Context())
	if err != nil {
		qc.logger.Error("quote upstream failed", zap.Error(err))
		_ = ctx.Error(err)
		ctx.AbortWithStatus(http.StatusBadGateway)
		return
	}
	ctx.Header("Access-Control-Allow-Origin", "*")
	ctx.JSON(http.StatusOK, data)
}
