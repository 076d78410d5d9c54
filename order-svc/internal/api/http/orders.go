package httpapi

import (
	"net/http"
	"strings"

	"tableside/order-svc/internal/domain"

	"github.com/gorilla/mux"
)

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		raw = string(domain.OrderPending)
	}
	status, err := domain.ParseOrderStatus(raw)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	orders, err := h.Orders.ListByStatus(r.Context(), status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.FindByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderTotal(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	total, err := h.Orders.ComputeTotal(r.Context(), code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"code":  strings.ToUpper(strings.TrimSpace(code)),
		"total": total,
	})
}

func (h *Handler) getReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.Orders.Receipt(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	qr, err := h.Orders.QRCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(qr)
}

func (h *Handler) advanceStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	target, err := domain.ParseOrderStatus(payload.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	order, err := h.Orders.AdvanceStatus(r.Context(), mux.Vars(r)["code"], target)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) setNotes(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Notes string `json:"notes"`
	}
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	order, err := h.Orders.SetNotes(r.Context(), mux.Vars(r)["code"], payload.Notes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) addOrderItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		DishID   string `json:"dish_id"`
		Quantity int    `json:"quantity"`
		Note     string `json:"note"`
	}
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	if payload.Quantity == 0 {
		payload.Quantity = 1
	}
	order, err := h.Orders.AddItem(r.Context(), mux.Vars(r)["code"], payload.DishID, payload.Quantity, payload.Note)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) sendItems(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.SendAdditionalItems(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) updateItemQuantity(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Delta int `json:"delta"`
	}
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	if payload.Delta == 0 {
		http.Error(w, "delta must be non-zero", http.StatusBadRequest)
		return
	}
	vars := mux.Vars(r)
	order, err := h.Orders.UpdateItemQuantity(r.Context(), vars["code"], vars["dishId"], payload.Delta)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) advanceItemStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	target, err := domain.ParseItemStatus(payload.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	vars := mux.Vars(r)
	order, err := h.Orders.AdvanceItemStatus(r.Context(), vars["code"], vars["itemId"], target)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) readyOrders(w http.ResponseWriter, r *http.Request) {
	waiter := r.URL.Query().Get("waiter")
	if waiter == "" {
		http.Error(w, "waiter is required", http.StatusBadRequest)
		return
	}
	ready, fresh, err := h.Notifications.Ready(r.Context(), waiter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ready": ready, "new": fresh})
}

func (h *Handler) ackReady(w http.ResponseWriter, r *http.Request) {
	waiter := r.URL.Query().Get("waiter")
	if waiter == "" {
		http.Error(w, "waiter is required", http.StatusBadRequest)
		return
	}
	if err := h.Notifications.Ack(r.Context(), waiter, mux.Vars(r)["code"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
