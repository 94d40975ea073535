package handler

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/familyhub/internal/auth"
	"github.com/dukerupert/familyhub/internal/export"
	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/shopping"
	"github.com/dukerupert/familyhub/internal/store"
	"github.com/dukerupert/familyhub/internal/websocket"
)

type ShoppingListHandler struct {
	notifier
	shoppingStore *store.ShoppingStore
	generator     *shopping.Generator
	logger        *slog.Logger
}

func NewShoppingListHandler(ss *store.ShoppingStore, gen *shopping.Generator, hub Broadcaster, logger *slog.Logger) *ShoppingListHandler {
	return &ShoppingListHandler{notifier: notifier{hub}, shoppingStore: ss, generator: gen, logger: logger}
}

type shoppingListRequest struct {
	Name      *string `json:"name"`
	Completed *bool   `json:"completed"`
	CreatedBy *int64  `json:"created_by"`
}

// List returns every list with its items. userId narrows to one creator.
func (h *ShoppingListHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, byUser, err := parseOptionalID(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId")
		return
	}

	var lists []model.ShoppingList
	if byUser {
		lists, err = h.shoppingStore.ListListsByUser(r.Context(), userID)
	} else {
		lists, err = h.shoppingStore.ListLists(r.Context())
	}
	if err != nil {
		h.logger.Error("list shopping lists", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list shopping lists")
		return
	}

	enriched, err := shopping.WithItemsAll(r.Context(), h.shoppingStore, lists)
	if err != nil {
		h.logger.Error("enrich shopping lists", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list shopping lists")
		return
	}
	writeJSON(w, http.StatusOK, enriched)
}

func (h *ShoppingListHandler) Get(w http.ResponseWriter, r *http.Request) {
	list, ok := h.loadEnriched(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ShoppingListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req shoppingListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	name := ""
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	list, err := h.shoppingStore.CreateList(r.Context(), name, actingUser(r, req.CreatedBy))
	if err != nil {
		h.logger.Error("create shopping list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create shopping list")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityShoppingList, websocket.ActionCreated, list.ID, nil))
	writeJSON(w, http.StatusCreated, list)
}

// Update applies the fields present in the body.
func (h *ShoppingListHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.shoppingStore.GetList(r.Context(), id)
	if err != nil {
		h.logger.Error("get shopping list", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get shopping list")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "shopping list not found")
		return
	}

	var req shoppingListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	name, completed := existing.Name, existing.Completed
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
	}
	if req.Completed != nil {
		completed = *req.Completed
	}

	list, err := h.shoppingStore.UpdateList(r.Context(), id, name, completed)
	if err != nil {
		h.logger.Error("update shopping list", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update shopping list")
		return
	}
	if list == nil {
		writeError(w, http.StatusNotFound, "shopping list not found")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityShoppingList, websocket.ActionUpdated, list.ID, nil))
	writeJSON(w, http.StatusOK, list)
}

// Delete removes the list and all of its items.
func (h *ShoppingListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	deleted, err := h.shoppingStore.DeleteList(r.Context(), id)
	if err != nil {
		h.logger.Error("delete shopping list", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete shopping list")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "shopping list not found")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityShoppingList, websocket.ActionDeleted, id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// Generate builds a list from the meal plans in a date range. The body is
// {"startDate", "endDate", "userId"}; unlike the rest of the API these keys
// are camelCase, matching what household clients send. A body without
// userId is attributed to the request identity.
func (h *ShoppingListHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req shopping.GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.UserID <= 0 {
		req.UserID = auth.UserID(r.Context())
	}

	list, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		var rerr *shopping.RetrievalError
		switch {
		case errors.Is(err, shopping.ErrInvalidDate),
			errors.Is(err, shopping.ErrInvalidRange),
			errors.Is(err, shopping.ErrRangeTooLarge),
			errors.Is(err, shopping.ErrMissingUser),
			errors.Is(err, shopping.ErrUnknownUser):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &rerr):
			h.logger.Error("generate shopping list: retrieval", "op", rerr.Op, "error", rerr.Err)
			writeError(w, http.StatusInternalServerError, "failed to generate shopping list")
		default:
			h.logger.Error("generate shopping list", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to generate shopping list")
		}
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityShoppingList, websocket.ActionGenerated, list.ID, map[string]any{"items": len(list.Items)}))
	writeJSON(w, http.StatusCreated, list)
}

// PDF renders the list as a printable checklist.
func (h *ShoppingListHandler) PDF(w http.ResponseWriter, r *http.Request) {
	list, ok := h.loadEnriched(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.ShoppingListPDF(&buf, *list); err != nil {
		h.logger.Error("render shopping list pdf", "id", list.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render pdf")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"shopping-list-%d.pdf\"", list.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *ShoppingListHandler) loadEnriched(w http.ResponseWriter, r *http.Request) (*model.EnrichedShoppingList, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}

	list, err := h.shoppingStore.GetList(r.Context(), id)
	if err != nil {
		h.logger.Error("get shopping list", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get shopping list")
		return nil, false
	}
	if list == nil {
		writeError(w, http.StatusNotFound, "shopping list not found")
		return nil, false
	}

	enriched, err := shopping.WithItems(r.Context(), h.shoppingStore, *list)
	if err != nil {
		h.logger.Error("get shopping list items", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get shopping list")
		return nil, false
	}
	return enriched, true
}
