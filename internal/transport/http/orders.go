package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"github.com/kahvecikaan/ecommerce-api/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
	mw           *Middleware
	logger       hclog.Logger
}

func NewOrderHandler(s service.OrderService, mw *Middleware, log hclog.Logger) *OrderHandler {
	return &OrderHandler{orderService: s, mw: mw, logger: log}
}

// swagger:route POST /orders orders placeOrder
//
// Places an order for the caller.
//
// Responses:
//
//	201: orderResponse
//	400: errorResponse
//	404: errorResponse
//	422: validationErrorResponse
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.OrderRequest
	if !decodeBody(w, r, h.mw, &req) {
		return
	}

	order, err := h.orderService.PlaceOrder(r.Context(), principalFrom(r), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// swagger:route PUT /orders/items/{id}/status orders updateItemStatus
//
// Changes the status of one order line. Administrators only.
//
// Responses:
//
//	200: orderItemResponse
//	400: errorResponse
//	404: errorResponse
func (h *OrderHandler) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(mux.Vars(r)["id"], "order item id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	item, err := h.orderService.UpdateItemStatus(r.Context(), principalFrom(r), id, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// swagger:route GET /orders/items orders filterItems
//
// Filters order lines, newest first. Administrators only.
//
// Responses:
//
//	200: orderItemPageResponse
//	400: errorResponse
//	404: errorResponse
func (h *OrderHandler) FilterItems(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	filter, err := orderItemFilter(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.orderService.FilterItems(r.Context(), principalFrom(r), filter, page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func orderItemFilter(r *http.Request) (domain.OrderItemFilter, error) {
	var f domain.OrderItemFilter
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		st, err := domain.ParseOrderStatus(raw)
		if err != nil {
			return f, err
		}
		f.Status = &st
	}

	var err error
	if f.StartDate, err = timeParam(q.Get("startDate"), "startDate"); err != nil {
		return f, err
	}
	if f.EndDate, err = timeParam(q.Get("endDate"), "endDate"); err != nil {
		return f, err
	}

	if raw := q.Get("itemId"); raw != "" {
		id, err := idParam(raw, "itemId")
		if err != nil {
			return f, err
		}
		f.ItemID = &id
	}
	return f, nil
}

// timeParam accepts RFC 3339 or a zone-less ISO date-time
func timeParam(raw, name string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, domain.InvalidArgument("Invalid value for %s: %s", name, raw)
}
