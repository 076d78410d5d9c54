package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tableside/order-svc/internal/domain"
	"tableside/order-svc/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Catalog       service.CatalogServiceInterface
	Carts         service.CartServiceInterface
	Orders        service.OrderServiceInterface
	Notifications service.NotificationServiceInterface
	Log           *zap.Logger
}

func NewHandler(catalog service.CatalogServiceInterface, carts service.CartServiceInterface,
	orders service.OrderServiceInterface, notifications service.NotificationServiceInterface, log *zap.Logger) *Handler {
	return &Handler{
		Catalog:       catalog,
		Carts:         carts,
		Orders:        orders,
		Notifications: notifications,
		Log:           log,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/categories", h.listCategories).Methods("GET")
	r.HandleFunc("/api/categories/{id}", h.updateCategory).Methods("PUT")

	r.HandleFunc("/api/dishes", h.listDishes).Methods("GET")
	r.HandleFunc("/api/dishes", h.upsertDish).Methods("POST")
	r.HandleFunc("/api/dishes/{id}", h.getDish).Methods("GET")
	r.HandleFunc("/api/dishes/{id}", h.upsertDish).Methods("PUT")
	r.HandleFunc("/api/dishes/{id}", h.deleteDish).Methods("DELETE")
	r.HandleFunc("/api/dishes/{id}/availability", h.setAvailability).Methods("PATCH")

	r.HandleFunc("/api/carts/{session}", h.getCart).Methods("GET")
	r.HandleFunc("/api/carts/{session}", h.resetCart).Methods("DELETE")
	r.HandleFunc("/api/carts/{session}/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/carts/{session}/items/{dishId}", h.removeCartItem).Methods("DELETE")
	r.HandleFunc("/api/carts/{session}/items/{dishId}/note", h.setCartNote).Methods("PUT")
	r.HandleFunc("/api/carts/{session}/finalize", h.finalizeCart).Methods("POST")

	r.HandleFunc("/api/orders", h.listOrders).Methods("GET")
	r.HandleFunc("/api/orders/{code}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{code}/total", h.getOrderTotal).Methods("GET")
	r.HandleFunc("/api/orders/{code}/receipt", h.getReceipt).Methods("GET")
	r.HandleFunc("/api/orders/{code}/qrcode", h.getOrderQRCode).Methods("GET")
	r.HandleFunc("/api/orders/{code}/status", h.advanceStatus).Methods("POST")
	r.HandleFunc("/api/orders/{code}/notes", h.setNotes).Methods("PUT")
	r.HandleFunc("/api/orders/{code}/items", h.addOrderItem).Methods("POST")
	r.HandleFunc("/api/orders/{code}/items/send", h.sendItems).Methods("POST")
	r.HandleFunc("/api/orders/{code}/items/{dishId}", h.updateItemQuantity).Methods("PATCH")
	r.HandleFunc("/api/orders/{code}/items/{itemId}/status", h.advanceItemStatus).Methods("POST")

	r.HandleFunc("/api/notifications/ready", h.readyOrders).Methods("GET")
	r.HandleFunc("/api/notifications/ready/{code}/ack", h.ackReady).Methods("POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// statusFor maps domain failures onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDishNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrOrderClosed),
		errors.Is(err, domain.ErrNoNewItems):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnavailableDish),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrEmptyOrder):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrCodeSpaceExhausted):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError && h.Log != nil {
		h.Log.Error("request_failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	http.Error(w, err.Error(), status)
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Join(domain.ErrValidation, err)
	}
	return nil
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Catalog.ListCategories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		DisplayName string `json:"display_name"`
		Icon        string `json:"icon"`
	}
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	info, err := h.Catalog.UpdateCategory(r.Context(), domain.Category(mux.Vars(r)["id"]), payload.DisplayName, payload.Icon)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) listDishes(w http.ResponseWriter, r *http.Request) {
	var category *domain.Category
	if raw := r.URL.Query().Get("category"); raw != "" {
		c := domain.Category(raw)
		if !c.Valid() {
			http.Error(w, "unknown category", http.StatusBadRequest)
			return
		}
		category = &c
	}
	dishes, err := h.Catalog.ListDishes(r.Context(), category)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if dishes == nil {
		dishes = []domain.Dish{}
	}
	writeJSON(w, http.StatusOK, dishes)
}

func (h *Handler) getDish(w http.ResponseWriter, r *http.Request) {
	dish, err := h.Catalog.GetDish(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dish)
}

func (h *Handler) upsertDish(w http.ResponseWriter, r *http.Request) {
	var dish domain.Dish
	if err := decode(r, &dish); err != nil {
		h.writeError(w, r, err)
		return
	}
	if id, ok := mux.Vars(r)["id"]; ok {
		dish.ID = id
	}
	saved, err := h.Catalog.UpsertDish(r.Context(), &dish)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) deleteDish(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.RemoveDish(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setAvailability(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Available *bool `json:"available"`
	}
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	if payload.Available == nil {
		http.Error(w, "available is required", http.StatusBadRequest)
		return
	}
	if err := h.Catalog.SetAvailability(r.Context(), mux.Vars(r)["id"], *payload.Available); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Carts.Get(r.Context(), mux.Vars(r)["session"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) resetCart(w http.ResponseWriter, r *http.Request) {
	if err := h.Carts.Reset(r.Context(), mux.Vars(r)["session"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		DishID string `json:"dish_id"`
	}
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	cart, err := h.Carts.AddItem(r.Context(), mux.Vars(r)["session"], payload.DishID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	cart, err := h.Carts.RemoveItem(r.Context(), vars["session"], vars["dishId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) setCartNote(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Note string `json:"note"`
	}
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	vars := mux.Vars(r)
	cart, err := h.Carts.SetNote(r.Context(), vars["session"], vars["dishId"], payload.Note)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) finalizeCart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		TableNumber  int    `json:"table_number"`
		CustomerName string `json:"customer_name"`
	}
	if err := decode(r, &payload); err != nil {
		h.writeError(w, r, err)
		return
	}
	order, err := h.Carts.Finalize(r.Context(), mux.Vars(r)["session"], payload.TableNumber, payload.CustomerName)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}
