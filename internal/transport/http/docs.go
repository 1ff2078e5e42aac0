// Package classification of E-Commerce API
//
// # Documentation for E-Commerce API
//
// Schemes: http
// BasePath: /
// Version: 1.0.0
//
// Consumes:
// - application/json
// - multipart/form-data
//
// Produces:
// - application/json
//
// SecurityDefinitions:
// bearer:
//
//	type: apiKey
//	name: Authorization
//	in: header
//
// swagger:meta
package http

import (
	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"github.com/kahvecikaan/ecommerce-api/internal/service"
)

// NOTE: The wrapper types below are for documentation only.
// The models at the bottom are the handlers' response bodies.

// Generic error message returned as a string
// swagger:response errorResponse
type errorResponseWrapper struct {
	// Description of the error
	// in: body
	Body ErrorResponse
}

// Validation errors defined as an array of strings
// swagger:response validationErrorResponse
type validationErrorResponseWrapper struct {
	// Collection of the errors
	// in: body
	Body ValidationError
}

// swagger:response messageResponse
type messageResponseWrapper struct {
	// in: body
	Body MessageResponse
}

// Data structure representing a single product
// swagger:response productResponse
type productResponseWrapper struct {
	// A single product
	// in: body
	Body domain.ProductView
}

// A list of products
// swagger:response productsResponse
type productsResponseWrapper struct {
	// in: body
	Body []domain.ProductView
}

// One page of products
// swagger:response productPageResponse
type productPageResponseWrapper struct {
	// in: body
	Body domain.Page[domain.ProductView]
}

// JSON schema of a product type's specifications
// swagger:response schemaResponse
type schemaResponseWrapper struct {
	// in: body
	Body map[string]any
}

// swagger:response categoryResponse
type categoryResponseWrapper struct {
	// in: body
	Body domain.Category
}

// swagger:response categoriesResponse
type categoriesResponseWrapper struct {
	// in: body
	Body []domain.Category
}

// swagger:response categoryProductsResponse
type categoryProductsResponseWrapper struct {
	// in: body
	Body service.CategoryProducts
}

// swagger:response loginResponse
type loginResponseWrapper struct {
	// in: body
	Body domain.LoginResponse
}

// swagger:response userResponse
type userResponseWrapper struct {
	// in: body
	Body domain.User
}

// swagger:response usersResponse
type usersResponseWrapper struct {
	// in: body
	Body []domain.User
}

// swagger:response addressResponse
type addressResponseWrapper struct {
	// in: body
	Body domain.Address
}

// swagger:response orderResponse
type orderResponseWrapper struct {
	// in: body
	Body domain.Order
}

// swagger:response orderItemResponse
type orderItemResponseWrapper struct {
	// in: body
	Body domain.OrderItem
}

// swagger:response orderItemPageResponse
type orderItemPageResponseWrapper struct {
	// in: body
	Body domain.Page[domain.OrderItem]
}

// Raw image bytes
// swagger:response imageResponse
type imageResponseWrapper struct {
	// in: body
	Body []byte
}

// No content response for endpoints that return 204
// swagger:response noContentResponse
type noContentResponseWrapper struct{}

// swagger:parameters getProduct deleteProduct updateProduct
type productIDParamsWrapper struct {
	// The ID of the product
	// in: path
	// required: true
	ID int64 `json:"id"`
}

// swagger:parameters createProduct
type productBodyParamsWrapper struct {
	// in: body
	// required: true
	Body domain.ProductRequest
}

// swagger:parameters updateProduct
type productPatchParamsWrapper struct {
	// Only the supplied fields are changed
	// in: body
	// required: true
	Body domain.ProductPatch
}

// swagger:parameters listProducts filterProducts searchProducts productsByType displayOnlyProducts purchasableProducts categoryProducts filterItems
type pageParamsWrapper struct {
	// Zero-based page index
	// in: query
	// minimum: 0
	// maximum: 1000000
	Page int `json:"page"`

	// in: query
	// minimum: 1
	// maximum: 100
	Size int `json:"size"`
}

// swagger:parameters searchProducts
type searchParamsWrapper struct {
	// A price, or text matched against names, descriptions and specifications
	// in: query
	// required: true
	Q string `json:"q"`
}

// swagger:parameters updateItemStatus
type itemStatusParamsWrapper struct {
	// in: path
	// required: true
	ID int64 `json:"id"`

	// in: query
	// required: true
	// enum: PENDING,CONFIRMED,SHIPPED,DELIVERED,CANCELLED,RETURNED
	Status string `json:"status"`
}

// ErrorResponse defines the structure for API error responses
//
// swagger:model
type ErrorResponse struct {
	// The error message
	//
	// required: true
	Message string `json:"message"`

	// Extra guidance, e.g. how to resolve a conflict
	Details string `json:"details,omitempty"`
}

// ValidationError defines the structure for API validation error responses
//
// swagger:model
type ValidationError struct {
	// The validation errors
	//
	// required: true
	Messages []string `json:"messages"`
}

// MessageResponse is a plain acknowledgement
//
// swagger:model
type MessageResponse struct {
	Message string `json:"message"`
}
