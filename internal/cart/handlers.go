package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/toko-cart/internal/common"
)

// Reconciler is the cart service surface used by the HTTP handler.
type Reconciler interface {
	Reconcile(ctx context.Context, storeID, userID string, raw RawInput) (*Snapshot, error)
	Current(ctx context.Context, storeID, userID string) (*Snapshot, error)
	Forget(ctx context.Context, storeID, userID string) error
}

// Handler wires cart services to HTTP.
type Handler struct {
	Svc Reconciler
}

// Reconcile runs a reconciliation pass for the caller.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var raw RawInput
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.writeError(w, fmt.Errorf("%w: %w", ErrInvalidCartPayload, err))
		return
	}
	userID, _ := common.UserID(r.Context())
	snap, err := h.Svc.Reconcile(r.Context(), chi.URLParam(r, "storeID"), userID, raw)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, snap)
}

// Get returns the cached snapshot of the caller.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "sign in to keep a cart", nil)
		return
	}
	snap, err := h.Svc.Current(r.Context(), chi.URLParam(r, "storeID"), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if snap == nil {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart not found", nil)
		return
	}
	common.Data(w, http.StatusOK, snap)
}

// Delete forgets the cached snapshot of the caller.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	userID, ok := common.UserID(r.Context())
	if !ok || userID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "sign in to keep a cart", nil)
		return
	}
	if err := h.Svc.Forget(r.Context(), chi.URLParam(r, "storeID"), userID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	common.WriteError(w, toAppError(err))
}

func toAppError(err error) *common.AppError {
	if appErr, ok := common.AsAppError(err); ok {
		return appErr
	}
	var appErr *common.AppError
	switch {
	case errors.Is(err, ErrCartRequiresStore):
		return common.NewAppError("CART_REQUIRES_STORE", "store not found", http.StatusNotFound, err)
	case errors.Is(err, ErrInvalidCartPayload):
		appErr = common.NewAppError("INVALID_CART_PAYLOAD", "invalid cart payload", http.StatusUnprocessableEntity, err)
		appErr.Details = err.Error()
		return appErr
	default:
		return common.NewAppError("INTERNAL", "unable to reconcile cart", http.StatusInternalServerError, err)
	}
}
