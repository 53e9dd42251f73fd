package foods

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/boshmah/HealthCommandCenter/internal/storage"
	"github.com/boshmah/HealthCommandCenter/internal/userctx"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleCreate handles POST /v1/foods
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var in RawEntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	resp, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleList handles GET /v1/foods?date=YYYY-MM-DD
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	resp, err := h.service.List(r.Context(), userID, r.URL.Query().Get("date"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /v1/foods/{foodId}
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	foodID := r.PathValue("foodId")
	if foodID == "" {
		writeError(w, http.StatusBadRequest, "foodId is required")
		return
	}

	resp, err := h.service.Get(r.Context(), userID, foodID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdate handles PUT /v1/foods/{foodId}
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	foodID := r.PathValue("foodId")
	if foodID == "" {
		writeError(w, http.StatusBadRequest, "foodId is required")
		return
	}

	var in RawEntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	resp, err := h.service.Update(r.Context(), userID, foodID, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /v1/foods/{foodId}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	foodID := r.PathValue("foodId")
	if foodID == "" {
		writeError(w, http.StatusBadRequest, "foodId is required")
		return
	}

	if err := h.service.Delete(r.Context(), userID, foodID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError converts a service error into its status code and body.
// Unexpected failures are logged in full and answered with a generic 500.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Food entry not found")
	case errors.Is(err, storage.ErrKeyExists):
		writeError(w, http.StatusConflict, "Food entry already exists")
	case errors.Is(err, storage.ErrThrottled):
		writeError(w, http.StatusServiceUnavailable, "Service temporarily unavailable, please retry")
	default:
		log.Printf("ERROR foods: %s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func callerID(r *http.Request) (string, bool) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		return "", false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
