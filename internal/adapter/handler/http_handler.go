package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/rl1809/techstore/internal/core/domain"
	"github.com/rl1809/techstore/internal/core/service"
)

type HTTPHandler struct {
	sales     *service.SaleService
	customers *service.CustomerService
	sellers   *service.SellerService
	products  *service.ProductService
	reports   *service.ReportService
	setup     *service.SetupService
}

func NewHTTPHandler(
	sales *service.SaleService,
	customers *service.CustomerService,
	sellers *service.SellerService,
	products *service.ProductService,
	reports *service.ReportService,
	setup *service.SetupService,
) *HTTPHandler {
	return &HTTPHandler{
		sales:     sales,
		customers: customers,
		sellers:   sellers,
		products:  products,
		reports:   reports,
		setup:     setup,
	}
}

// NewRouter returns a gin engine with tracing, access logging and every route mounted.
func NewRouter(h *HTTPHandler, serviceName string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), otelgin.Middleware(serviceName), RequestLogger())
	h.Register(r)
	return r
}

func (h *HTTPHandler) Register(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)

	r.GET("/init-db", h.InitDB)
	r.POST("/init-db", h.InitDB)

	sales := r.Group("/sales")
	sales.GET("", h.ListSales)
	sales.POST("", h.CreateSale)
	sales.POST("/quote", h.QuoteSale)
	sales.GET("/:id/details", h.GetSaleDetails)
	sales.GET("/:id/products", h.ListSaleProducts)
	sales.DELETE("/:id", h.DeleteSale)

	customers := r.Group("/customers")
	customers.GET("", h.ListCustomers)
	customers.POST("", h.CreateCustomer)
	customers.GET("/:id", h.GetCustomer)
	customers.PUT("/:id", h.UpdateCustomer)
	customers.DELETE("/:id", h.DeleteCustomer)
	customers.GET("/:id/sales", h.ListCustomerSales)

	sellers := r.Group("/sellers")
	sellers.GET("", h.ListSellers)
	sellers.POST("", h.CreateSeller)
	sellers.GET("/:id", h.GetSeller)
	sellers.PUT("/:id", h.UpdateSeller)
	sellers.PATCH("/:id/status", h.UpdateSellerStatus)
	sellers.DELETE("/:id", h.DeleteSeller)

	products := r.Group("/products")
	products.GET("", h.ListProducts)
	products.POST("", h.CreateProduct)
	products.GET("/categories", h.ListProductCategories)
	products.GET("/:id", h.GetProduct)
	products.PUT("/:id", h.UpdateProduct)
	products.DELETE("/:id", h.DeleteProduct)

	r.GET("/payment-methods", h.ListPaymentMethods)

	reports := r.Group("/reports")
	reports.GET("/sellers", h.SellerReport)
	reports.GET("/products", h.ProductReport)
	reports.GET("/customers", h.CustomerReport)
	reports.GET("/relationships", h.RelationshipReport)
	reports.GET("/sales-by-month", h.SalesByMonthReport)
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HTTPHandler) InitDB(c *gin.Context) {
	if err := h.setup.Initialize(c.Request.Context()); err != nil {
		zap.L().Error("initialize database", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to initialize database",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "database initialized",
	})
}

func errorJSON(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// writeError maps domain errors onto HTTP statuses. Anything unrecognised is
// logged and reported as a 500 carrying fallback.
func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSaleNotFound),
		errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrSellerNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		errorJSON(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrCustomerHasSales):
		errorJSON(c, http.StatusBadRequest, "cannot delete a customer with associated sales")
	case errors.Is(err, domain.ErrSellerHasSales):
		errorJSON(c, http.StatusBadRequest, "cannot delete a seller with associated sales")
	case errors.Is(err, domain.ErrProductSold):
		errorJSON(c, http.StatusBadRequest, "cannot delete a product that has been sold")
	case errors.Is(err, domain.ErrEmailTaken):
		errorJSON(c, http.StatusConflict, domain.ErrEmailTaken.Error())
	default:
		zap.L().Error(fallback,
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		errorJSON(c, http.StatusInternalServerError, fallback)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorJSON(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
