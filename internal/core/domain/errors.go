package domain

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidSale       = errors.New("invalid sale")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateRequest  = errors.New("duplicate request")
	ErrEmailTaken        = errors.New("email already registered")

	ErrSaleNotFound     = errors.New("sale not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrSellerNotFound   = errors.New("seller not found")
	ErrProductNotFound  = errors.New("product not found")

	ErrCustomerHasSales = errors.New("customer has associated sales")
	ErrSellerHasSales   = errors.New("seller has associated sales")
	ErrProductSold      = errors.New("product is referenced by sales")
)
