package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"github.com/kahvecikaan/ecommerce-api/internal/service"
)

type CategoryHandler struct {
	categoryService service.CategoryService
	mw              *Middleware
	logger          hclog.Logger
}

func NewCategoryHandler(cs service.CategoryService, mw *Middleware, log hclog.Logger) *CategoryHandler {
	return &CategoryHandler{categoryService: cs, mw: mw, logger: log}
}

// swagger:route POST /categories categories createCategory
//
// Creates a category. Administrators only.
//
// Responses:
//
//	201: categoryResponse
//	409: errorResponse
//	422: validationErrorResponse
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req domain.CategoryRequest
	if !decodeBody(w, r, h.mw, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(r.Context(), principalFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// swagger:route PUT /categories/{id} categories updateCategory
//
// Renames a category. Administrators only.
//
// Responses:
//
//	200: categoryResponse
//	404: errorResponse
//	409: errorResponse
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(mux.Vars(r)["id"], "category id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req domain.CategoryRequest
	if !decodeBody(w, r, h.mw, &req) {
		return
	}

	category, err := h.categoryService.UpdateCategory(r.Context(), principalFrom(r), id, req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// swagger:route DELETE /categories/{id} categories deleteCategory
//
// Deletes a category and detaches its products. Administrators only.
//
// Responses:
//
//	204: noContentResponse
//	404: errorResponse
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(mux.Vars(r)["id"], "category id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.categoryService.DeleteCategory(r.Context(), principalFrom(r), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// swagger:route GET /categories categories listCategories
//
// Returns all categories ordered by name.
//
// Responses:
//
//	200: categoriesResponse
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListCategories(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// swagger:route GET /categories/{id} categories getCategory
//
// Returns one category.
//
// Responses:
//
//	200: categoryResponse
//	404: errorResponse
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(mux.Vars(r)["id"], "category id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	category, err := h.categoryService.GetCategory(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// swagger:route GET /categories/{id}/products categories categoryProducts
//
// Returns a page of the category's purchasable products.
//
// Responses:
//
//	200: categoryProductsResponse
//	404: errorResponse
func (h *CategoryHandler) CategoryProducts(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(mux.Vars(r)["id"], "category id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	page, err := pageParams(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.categoryService.CategoryProducts(r.Context(), id, page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
