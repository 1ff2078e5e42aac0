package http

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"github.com/kahvecikaan/ecommerce-api/internal/service"
	"github.com/shopspring/decimal"
)

// multipart bodies above this size spill to temporary files
const maxFormMemory = 32 << 20

type ProductHandler struct {
	productService service.ProductService
	mw             *Middleware
	logger         hclog.Logger
}

func NewProductHandler(ps service.ProductService, mw *Middleware, log hclog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: ps,
		mw:             mw,
		logger:         log,
	}
}

// ListProducts handles GET /products
//
// swagger:route GET /products products listProducts
//
// Returns every product, sorted and paged. Administrators only.
//
// Responses:
//
//	200: productPageResponse
//	400: errorResponse
//	401: errorResponse
//	403: errorResponse
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.productService.ListProducts(r.Context(), principalFrom(r), r.URL.Query().Get("sort"), page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetProduct handles GET /products/{id}
//
// swagger:route GET /products/{id} products getProduct
//
// Returns a product by ID.
//
// Responses:
//
//	200: productResponse
//	400: errorResponse
//	404: errorResponse
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(mux.Vars(r)["id"], "product id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	product, err := h.productService.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// CreateProduct handles POST /products
//
// swagger:route POST /products products createProduct
//
// Adds a new product. Accepts JSON, or multipart/form-data with an optional image part.
//
// Responses:
//
//	201: productResponse
//	400: errorResponse
//	409: errorResponse
//	422: validationErrorResponse
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var (
		req domain.ProductRequest
		img *service.Image
	)

	if isMultipart(r) {
		form, err := parseForm(r)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		defer form.close()

		if req, err = form.productRequest(); err != nil {
			writeError(w, h.logger, err)
			return
		}
		if !validate(w, h.mw, &req) {
			return
		}
		img = form.image
	} else if !decodeBody(w, r, h.mw, &req) {
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), principalFrom(r), req, img)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/{id}
//
// swagger:route PUT /products/{id} products updateProduct
//
// Partially updates a product. Omitted fields are left unchanged, explicit
// nulls (or empty form values) clear nullable fields.
//
// Responses:
//
//	200: productResponse
//	400: errorResponse
//	404: errorResponse
//	409: errorResponse
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(mux.Vars(r)["id"], "product id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var (
		patch domain.ProductPatch
		img   *service.Image
	)

	if isMultipart(r) {
		form, err := parseForm(r)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		defer form.close()

		if patch, err = form.productPatch(); err != nil {
			writeError(w, h.logger, err)
			return
		}
		img = form.image
	} else if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logger.Debug("Unable to decode product patch", "id", id, "error", err)
		writeError(w, h.logger, domain.InvalidArgument("Malformed JSON request body"))
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), principalFrom(r), id, patch, img)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{id}
//
// swagger:route DELETE /products/{id} products deleteProduct
//
// Deletes a product that has never been ordered.
//
// Responses:
//
//	204: noContentResponse
//	404: errorResponse
//	409: errorResponse
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(mux.Vars(r)["id"], "product id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.productService.DeleteProduct(r.Context(), principalFrom(r), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FilterProducts handles GET /products/filter
//
// swagger:route GET /products/filter products filterProducts
//
// Filters products by type, purchasability and price range.
//
// Responses:
//
//	200: productPageResponse
//	400: errorResponse
func (h *ProductHandler) FilterProducts(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	filter, err := productFilter(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.productService.FilterProducts(r.Context(), filter, page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SearchProducts handles GET /products/search
//
// swagger:route GET /products/search products searchProducts
//
// Searches by exact price, then by text and specifications.
//
// Responses:
//
//	200: productPageResponse
//	400: errorResponse
//	404: errorResponse
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		q = r.URL.Query().Get("searchValue")
	}

	res, err := h.productService.SearchProducts(r.Context(), q, page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ProductsByType handles GET /products/type/{type}
//
// swagger:route GET /products/type/{type} products productsByType
//
// Returns the products of one type.
//
// Responses:
//
//	200: productPageResponse
//	400: errorResponse
//	404: errorResponse
func (h *ProductHandler) ProductsByType(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.productService.ProductsByType(r.Context(), mux.Vars(r)["type"], page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ProductsByCategory handles GET /products/category/{id}
//
// swagger:route GET /products/category/{id} products productsByCategory
//
// Returns every product of a category.
//
// Responses:
//
//	200: productsResponse
//	404: errorResponse
func (h *ProductHandler) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(mux.Vars(r)["id"], "category id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	products, err := h.productService.ProductsByCategory(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// DisplayOnlyProducts handles GET /products/display-only
//
// swagger:route GET /products/display-only products displayOnlyProducts
//
// Returns NEW products that cannot be bought.
//
// Responses:
//
//	200: productPageResponse
func (h *ProductHandler) DisplayOnlyProducts(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.productService.DisplayOnlyProducts(r.Context(), page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// PurchasableProducts handles GET /products/purchasable
//
// swagger:route GET /products/purchasable products purchasableProducts
//
// Returns the products that can be ordered.
//
// Responses:
//
//	200: productPageResponse
func (h *ProductHandler) PurchasableProducts(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.productService.PurchasableProducts(r.Context(), page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SpecificationsSchema handles GET /products/specs-schema/{type}
//
// swagger:route GET /products/specs-schema/{type} products specificationsSchema
//
// Returns the JSON schema of a type's specifications.
//
// Responses:
//
//	200: schemaResponse
//	400: errorResponse
func (h *ProductHandler) SpecificationsSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := h.productService.SpecificationsSchema(mux.Vars(r)["type"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, schema)
}

func productFilter(r *http.Request) (domain.ProductFilter, error) {
	var f domain.ProductFilter
	q := r.URL.Query()

	if raw := q.Get("type"); raw != "" {
		t, err := domain.ParseProductType(raw)
		if err != nil {
			return f, err
		}
		f.Type = &t
	}
	if raw := q.Get("purchasable"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, domain.InvalidArgument("Invalid value for purchasable: %s", raw)
		}
		f.Purchasable = &b
	}

	var err error
	if f.MinPrice, err = decimalParam(q.Get("minPrice"), "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = decimalParam(q.Get("maxPrice"), "maxPrice"); err != nil {
		return f, err
	}
	return f, nil
}

func decimalParam(raw, name string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domain.InvalidArgument("Invalid value for %s: %s", name, raw)
	}
	return &d, nil
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.EqualFold(mt, "multipart/form-data")
}
