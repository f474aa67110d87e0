package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rl1809/techstore/internal/core/domain"
)

type customerRequest struct {
	Name  string  `json:"name" binding:"required"`
	Email *string `json:"email"`
	Phone string  `json:"phone"`
	domain.Preferences
}

func (r customerRequest) toDomain() domain.Customer {
	return domain.Customer{Name: r.Name, Email: r.Email, Phone: r.Phone, Preferences: r.Preferences}
}

type sellerRequest struct {
	Name   string              `json:"name" binding:"required"`
	Email  *string             `json:"email"`
	Phone  string              `json:"phone"`
	Status domain.SellerStatus `json:"status"`
}

func (r sellerRequest) toDomain() domain.Seller {
	return domain.Seller{Name: r.Name, Email: r.Email, Phone: r.Phone, Status: r.Status}
}

type sellerStatusRequest struct {
	Status domain.SellerStatus `json:"status" binding:"required"`
}

type productRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Category    string           `json:"category"`
	Stock       int              `json:"stock"`
	Origin      string           `json:"origin"`
}

func (r productRequest) toDomain() domain.Product {
	return domain.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
		Category:    r.Category,
		Stock:       r.Stock,
		Origin:      r.Origin,
	}
}

func bindBody(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (h *HTTPHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		writeError(c, err, "failed to list customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *HTTPHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	customer, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to load customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *HTTPHandler) CreateCustomer(c *gin.Context) {
	var req customerRequest
	if !bindBody(c, &req) {
		return
	}
	customer, err := h.customers.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		writeError(c, err, "failed to create customer")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *HTTPHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req customerRequest
	if !bindBody(c, &req) {
		return
	}
	customer, err := h.customers.Update(c.Request.Context(), id, req.toDomain())
	if err != nil {
		writeError(c, err, "failed to update customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *HTTPHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, "failed to delete customer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "customer deleted"})
}

func (h *HTTPHandler) ListCustomerSales(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	purchases, err := h.customers.Purchases(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to list customer sales")
		return
	}
	c.JSON(http.StatusOK, purchases)
}

func (h *HTTPHandler) ListSellers(c *gin.Context) {
	sellers, err := h.sellers.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to list sellers")
		return
	}
	c.JSON(http.StatusOK, sellers)
}

func (h *HTTPHandler) GetSeller(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	seller, err := h.sellers.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to load seller")
		return
	}
	c.JSON(http.StatusOK, seller)
}

func (h *HTTPHandler) CreateSeller(c *gin.Context) {
	var req sellerRequest
	if !bindBody(c, &req) {
		return
	}
	seller, err := h.sellers.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		writeError(c, err, "failed to create seller")
		return
	}
	c.JSON(http.StatusCreated, seller)
}

func (h *HTTPHandler) UpdateSeller(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req sellerRequest
	if !bindBody(c, &req) {
		return
	}
	seller, err := h.sellers.Update(c.Request.Context(), id, req.toDomain())
	if err != nil {
		writeError(c, err, "failed to update seller")
		return
	}
	c.JSON(http.StatusOK, seller)
}

func (h *HTTPHandler) UpdateSellerStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req sellerStatusRequest
	if !bindBody(c, &req) {
		return
	}
	seller, err := h.sellers.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeError(c, err, "failed to update seller status")
		return
	}
	c.JSON(http.StatusOK, seller)
}

func (h *HTTPHandler) DeleteSeller(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.sellers.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, "failed to delete seller")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "seller deleted"})
}

func (h *HTTPHandler) ListProducts(c *gin.Context) {
	filter := domain.ProductFilter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		Origin:   c.Query("origin"),
	}
	for param, dst := range map[string]**decimal.Decimal{
		"min_price": &filter.MinPrice,
		"max_price": &filter.MaxPrice,
	} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			errorJSON(c, http.StatusBadRequest, "invalid "+param)
			return
		}
		*dst = &v
	}

	products, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err, "failed to list products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *HTTPHandler) ListProductCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.products.Categories())
}

func (h *HTTPHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to load product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *HTTPHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if !bindBody(c, &req) {
		return
	}
	product, err := h.products.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		writeError(c, err, "failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *HTTPHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req productRequest
	if !bindBody(c, &req) {
		return
	}
	product, err := h.products.Update(c.Request.Context(), id, req.toDomain())
	if err != nil {
		writeError(c, err, "failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *HTTPHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, "failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}
