package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/store"
	"github.com/dukerupert/familyhub/internal/websocket"
)

type ShoppingItemHandler struct {
	notifier
	shoppingStore *store.ShoppingStore
	logger        *slog.Logger
}

func NewShoppingItemHandler(ss *store.ShoppingStore, hub Broadcaster, logger *slog.Logger) *ShoppingItemHandler {
	return &ShoppingItemHandler{notifier: notifier{hub}, shoppingStore: ss, logger: logger}
}

type shoppingItemRequest struct {
	ListID      *int64  `json:"list_id"`
	Name        *string `json:"name"`
	Quantity    *string `json:"quantity"`
	Category    *string `json:"category"`
	Completed   *bool   `json:"completed"`
	AddedBy     *int64  `json:"added_by"`
	RelatedMeal *string `json:"related_meal"`
}

func itemMessage(action string, item *model.ShoppingItem) websocket.Message {
	return websocket.NewMessage(websocket.EntityShoppingItem, action, item.ID, map[string]any{"list_id": item.ListID})
}

func (h *ShoppingItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req shoppingItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.ListID == nil {
		writeError(w, http.StatusBadRequest, "list_id is required")
		return
	}
	in := model.NewShoppingItem{
		ListID:   *req.ListID,
		Category: model.CategoryManual,
		AddedBy:  actingUser(r, req.AddedBy),
	}
	if req.Name != nil {
		in.Name = strings.TrimSpace(*req.Name)
	}
	if in.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Quantity != nil {
		in.Quantity = strings.TrimSpace(*req.Quantity)
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) != "" {
		in.Category = strings.TrimSpace(*req.Category)
	}
	if req.Completed != nil {
		in.Completed = *req.Completed
	}
	if req.RelatedMeal != nil {
		in.RelatedMeal = *req.RelatedMeal
	}

	list, err := h.shoppingStore.GetList(r.Context(), in.ListID)
	if err != nil {
		h.logger.Error("check shopping list", "list_id", in.ListID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check shopping list")
		return
	}
	if list == nil {
		writeError(w, http.StatusBadRequest, "shopping list not found")
		return
	}

	item, err := h.shoppingStore.CreateItem(r.Context(), in)
	if err != nil {
		h.logger.Error("create shopping item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	h.broadcast(itemMessage(websocket.ActionCreated, item))
	writeJSON(w, http.StatusCreated, item)
}

// Update applies the fields present in the body. Items cannot move between lists.
func (h *ShoppingItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.shoppingStore.GetItem(r.Context(), id)
	if err != nil {
		h.logger.Error("get shopping item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	var req shoppingItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	item := *existing
	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
		if item.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
	}
	if req.Quantity != nil {
		item.Quantity = strings.TrimSpace(*req.Quantity)
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) != "" {
		item.Category = strings.TrimSpace(*req.Category)
	}
	if req.Completed != nil {
		item.Completed = *req.Completed
	}
	if req.RelatedMeal != nil {
		item.RelatedMeal = *req.RelatedMeal
	}

	updated, err := h.shoppingStore.UpdateItem(r.Context(), item)
	if err != nil {
		h.logger.Error("update shopping item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	h.broadcast(itemMessage(websocket.ActionUpdated, updated))
	writeJSON(w, http.StatusOK, updated)
}

func (h *ShoppingItemHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	item, err := h.shoppingStore.ToggleCompleted(r.Context(), id)
	if err != nil {
		h.logger.Error("toggle shopping item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	h.broadcast(itemMessage(websocket.ActionToggled, item))
	writeJSON(w, http.StatusOK, item)
}

func (h *ShoppingItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.shoppingStore.GetItem(r.Context(), id)
	if err != nil {
		h.logger.Error("get shopping item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	if _, err := h.shoppingStore.DeleteItem(r.Context(), id); err != nil {
		h.logger.Error("delete shopping item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	h.broadcast(itemMessage(websocket.ActionDeleted, existing))
	w.WriteHeader(http.StatusNoContent)
}
