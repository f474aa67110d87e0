package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
)

func wantsCSV(c *gin.Context) bool {
	return c.Query("format") == "csv"
}

// writeReport renders rows as JSON, or as CSV with ?format=csv.
func writeReport[T any](c *gin.Context, name string, rows []T) {
	if !wantsCSV(c) {
		c.JSON(http.StatusOK, rows)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+name+`.csv"`)
	c.Status(http.StatusOK)
	if err := gocsv.Marshal(rows, c.Writer); err != nil {
		zap.L().Error("write csv report", zap.String("report", name), zap.Error(err))
	}
}

func (h *HTTPHandler) SellerReport(c *gin.Context) {
	rows, err := h.reports.Sellers(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to build seller report")
		return
	}
	writeReport(c, "sellers", rows)
}

func (h *HTTPHandler) ProductReport(c *gin.Context) {
	rows, err := h.reports.Products(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to build product report")
		return
	}
	writeReport(c, "products", rows)
}

func (h *HTTPHandler) CustomerReport(c *gin.Context) {
	rows, err := h.reports.Customers(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to build customer report")
		return
	}
	writeReport(c, "customers", rows)
}

func (h *HTTPHandler) RelationshipReport(c *gin.Context) {
	if wantsCSV(c) {
		errorJSON(c, http.StatusBadRequest, "relationships report is only available as JSON")
		return
	}
	report, err := h.reports.Relationships(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to build relationships report")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *HTTPHandler) SalesByMonthReport(c *gin.Context) {
	rows, err := h.reports.SalesByMonth(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to build monthly sales report")
		return
	}
	writeReport(c, "sales-by-month", rows)
}
