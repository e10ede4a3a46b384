package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
	"github.com/niksmo/shop-admin/internal/core/view"
)

const fetchNotice = "Failed to fetch data, showing an empty list"

type OrdersHandler struct {
	orders port.OrdersManager
	views  *view.Registry
}

// RegisterOrders registers the order routes behind protect.
func RegisterOrders(
	mux *http.ServeMux,
	protect func(http.Handler) http.Handler,
	orders port.OrdersManager,
	views *view.Registry,
) {
	h := OrdersHandler{orders, views}
	mux.Handle("GET /v1/orders", protect(http.HandlerFunc(h.ListOrders)))
	mux.Handle("GET /v1/orders/{id}", protect(http.HandlerFunc(h.GetOrder)))
	mux.Handle("POST /v1/orders/{id}/toggle", protect(http.HandlerFunc(h.ToggleOrder)))
	mux.Handle("PATCH /v1/orders/{id}/status", protect(http.HandlerFunc(h.SetStatus)))
	mux.Handle("DELETE /v1/orders/{id}", protect(http.HandlerFunc(h.DeleteOrder)))
}

// ListOrders loads the list on first access or on refresh=true.
// A failed fetch leaves an empty list and a notice.
func (h OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.ListOrders"
	log := slog.With("op", op)

	refresh, err := queryBool(r, "refresh")
	if err != nil {
		writeError(w, log, err)
		return
	}

	ws := workspace(r, h.views)

	if status := r.URL.Query().Get("status"); status != "" {
		if err := ws.Orders.SetFilter(status); err != nil {
			writeError(w, log, err)
			return
		}
	}

	var notice string
	if refresh || !ws.Orders.Snapshot().Loaded {
		orders, err := h.orders.ListOrders(r.Context())
		if err != nil {
			log.Error("failed to fetch orders", "err", err)
			orders = nil
			notice = fetchNotice
		}
		ws.Orders.Load(orders)
	}

	s := ws.Orders.Snapshot()
	writeJSON(w, log, http.StatusOK, OrdersPage{
		Filter:   s.Filter,
		Expanded: nullable(s.Expanded),
		Orders:   ordersFromDomain(s.Visible()),
		Notice:   notice,
	})
}

// GetOrder reads the order from the gateway and refreshes it in the list.
func (h OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.GetOrder"
	log := slog.With("op", op)

	o, err := h.orders.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}

	workspace(r, h.views).Orders.Replace(o)
	writeJSON(w, log, http.StatusOK, orderFromDomain(o))
}

func (h OrdersHandler) ToggleOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.ToggleOrder"
	log := slog.With("op", op)

	expanded := workspace(r, h.views).Orders.Toggle(r.PathValue("id"))
	writeJSON(w, log, http.StatusOK, ToggleResponse{Expanded: nullable(expanded)})
}

func (h OrdersHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.SetStatus"
	log := slog.With("op", op)

	var req StatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	id := r.PathValue("id")
	evt, err := h.orders.SetOrderStatus(
		r.Context(), id, domain.OrderStatus(req.Status),
	)
	if err != nil {
		writeError(w, log, err)
		return
	}

	ws := workspace(r, h.views)
	ws.Orders.Apply(evt)

	o, ok := ws.Orders.Get(id)
	if !ok {
		o = domain.Order{ID: id, Status: evt.Status}
	}
	writeJSON(w, log, http.StatusOK, orderFromDomain(o))
	log.Info("order status changed", "orderID", id, "status", evt.Status)
}

// DeleteOrder requires confirm=true. Without it nothing is deleted.
func (h OrdersHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.DeleteOrder"
	log := slog.With("op", op)

	confirmed, err := queryBool(r, "confirm")
	if err != nil {
		writeError(w, log, err)
		return
	}

	id := r.PathValue("id")
	evt, err := h.orders.DeleteOrder(r.Context(), id, confirmed)
	if err != nil {
		writeError(w, log, err)
		return
	}

	workspace(r, h.views).Orders.Apply(evt)
	w.WriteHeader(http.StatusNoContent)
	log.Info("order deleted", "orderID", id)
}

// workspace returns the views of the request session.
// Routes are registered behind [RequireSession].
func workspace(r *http.Request, views *view.Registry) *view.Workspace {
	s, ok := SessionFrom(r.Context())
	if !ok {
		panic("httphandler: route is not protected by RequireSession") // develop mistake
	}
	return views.Workspace(s.Token)
}
