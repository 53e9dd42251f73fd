package exports

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/boshmah/HealthCommandCenter/internal/foods"
	"github.com/boshmah/HealthCommandCenter/internal/userctx"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleExport handles GET /v1/foods/export?date=YYYY-MM-DD&format=pdf|csv
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := userctx.GetUserID(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = FormatPDF
	}
	if format != FormatPDF && format != FormatCSV {
		writeError(w, http.StatusBadRequest, "Invalid format. Use pdf or csv")
		return
	}

	doc, upload, err := h.service.Export(r.Context(), userID, r.URL.Query().Get("date"), format)
	if err != nil {
		var vErr *foods.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, vErr.Message)
			return
		}
		log.Printf("ERROR exports: %s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if upload != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(upload)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}
