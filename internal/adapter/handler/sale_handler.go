package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rl1809/techstore/internal/core/domain"
)

const idempotencyHeader = "Idempotency-Key"

func (h *HTTPHandler) CreateSale(c *gin.Context) {
	var req domain.NewSale
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Warn("decode sale", zap.Error(err))
		errorJSON(c, http.StatusInternalServerError, "failed to create sale")
		return
	}

	id, err := h.sales.CreateSale(c.Request.Context(), req, c.GetHeader(idempotencyHeader))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateRequest):
			errorJSON(c, http.StatusConflict, "duplicate request")
		case errors.Is(err, domain.ErrInsufficientStock):
			errorJSON(c, http.StatusConflict, "insufficient stock")
		default:
			zap.L().Error("create sale", zap.Error(err))
			errorJSON(c, http.StatusInternalServerError, "failed to create sale")
		}
		return
	}

	zap.L().Info("sale created", zap.Int64("sale_id", id), zap.Int("items", len(req.Items)))
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *HTTPHandler) QuoteSale(c *gin.Context) {
	var req domain.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := h.sales.Quote(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSale) {
			errorJSON(c, http.StatusBadRequest, err.Error())
			return
		}
		writeError(c, err, "failed to quote sale")
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *HTTPHandler) ListSales(c *gin.Context) {
	sales, err := h.sales.ListSales(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to list sales")
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *HTTPHandler) GetSaleDetails(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	details, err := h.sales.GetSaleDetails(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to load sale")
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *HTTPHandler) ListSaleProducts(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	products, err := h.sales.ListSaleProducts(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to list sale products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *HTTPHandler) DeleteSale(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.sales.DeleteSale(c.Request.Context(), id); err != nil {
		writeError(c, err, "failed to delete sale")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sale deleted"})
}

func (h *HTTPHandler) ListPaymentMethods(c *gin.Context) {
	methods, err := h.sales.ListPaymentMethods(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to list payment methods")
		return
	}
	c.JSON(http.StatusOK, methods)
}
