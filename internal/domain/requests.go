package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest is the payload of a product creation
//
// swagger:model
type ProductRequest struct {
	// required: true
	Name string `json:"name" validate:"required,max=200"`

	Description string `json:"description" validate:"max=2000"`

	// required: true
	// example: HP-EB-840
	ProductCode string `json:"productCode" validate:"required,productcode,max=64"`

	Model string `json:"model" validate:"max=128"`

	// required: true
	// enum: NEW,USED,RECONDITIONED,PART
	Type string `json:"type" validate:"required"`

	// Must be omitted for NEW products
	Price *decimal.Decimal `json:"price"`

	Purchasable *bool `json:"purchasable"`

	Specifications Specifications `json:"specifications"`

	CategoryID *int64 `json:"categoryId"`
}

// NullPrice converts the optional request price for the rule checks
func (r ProductRequest) NullPrice() decimal.NullDecimal {
	if r.Price == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*r.Price)
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type RegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token          string    `json:"token"`
	Role           Role      `json:"role"`
	ExpirationTime time.Time `json:"expirationTime"`
}

type AddressRequest struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country" validate:"required"`
}

type OrderItemRequest struct {
	ProductID int64 `json:"productId" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type OrderRequest struct {
	// Optional; when absent or not positive the line prices are summed
	TotalPrice *decimal.Decimal   `json:"totalPrice"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}
