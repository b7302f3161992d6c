package document

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/render"

	generate_report "bqc-backend/internal/service/generate-report"
	"bqc-backend/internal/storage"
)

type TenderGetter interface {
	GetTender(ctx context.Context, userID int64, refNumber string) (*storage.TenderRecord, error)
}

// GetBqcDocument assembles the structured BQC note payload for a saved
// tender. The frontend renderer turns it into the actual docx.
func GetBqcDocument(log *slog.Logger, tenders TenderGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.document.GetBqcDocument"

		refNumber := r.URL.Query().Get("ref")
		if refNumber == "" {
			log.With(slog.String("op", op)).Error("Missing 'ref' in query parameters")
			http.Error(w, "Missing required query parameter 'ref'", http.StatusBadRequest)
			return
		}

		userID, err := strconv.ParseInt(r.URL.Query().Get("user"), 10, 64)
		if err != nil {
			log.With(slog.String("op", op)).Error("Missing or invalid 'user' in query parameters")
			http.Error(w, "Missing required query parameter 'user'", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		record, err := tenders.GetTender(ctx, userID, refNumber)
		if err != nil {
			if strings.Contains(err.Error(), "not found") || errors.Is(err, sql.ErrNoRows) {
				log.With(slog.String("op", op), slog.String("ref", refNumber)).Warn("Tender not found")
				http.Error(w, "Tender not found", http.StatusNotFound)
				return
			}

			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch tender")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		doc, err := generate_report.BuildDocument(record)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to build document")
			http.Error(w, "Tender record does not qualify for a document", http.StatusUnprocessableEntity)
			return
		}

		render.JSON(w, r, doc)
	}
}
