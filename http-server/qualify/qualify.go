package qualify

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"bqc-backend/internal/service"
	"bqc-backend/internal/storage"
)

type Resp struct {
	Valid  bool                         `json:"valid"`
	Errors []string                     `json:"errors,omitempty"`
	Result *storage.QualificationResult `json:"result,omitempty"`
}

// QualifyTender is the live-preview endpoint: the form posts a full record
// snapshot on every edit and gets back either the complete violation list or
// the complete result, never a mix.
func QualifyTender(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.qualify.QualifyTender"

		var req storage.TenderRecord
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		ok, validationErrs := service.Validate(&req)
		if !ok {
			render.JSON(w, r, Resp{Valid: false, Errors: validationErrs})
			return
		}

		result, err := service.Qualify(&req)
		if err != nil {
			log.Error("Failed to qualify tender", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Resp{Valid: true, Result: result})
	}
}
