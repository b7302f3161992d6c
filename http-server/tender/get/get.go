package get

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"bqc-backend/internal/storage"
)

type TenderQualifier interface {
	QualifyByRef(ctx context.Context, userID int64, refNumber string) (*storage.TenderRecord, *storage.QualificationResult, []string, error)
}

type TenderJSON interface {
	GetTendersByUser(ctx context.Context, userID int64) ([]*storage.TenderRecord, error)
}

type ResponseTender struct {
	Tender *storage.TenderRecord        `json:"tender"`
	Result *storage.QualificationResult `json:"result,omitempty"`
	Errors []string                     `json:"errors,omitempty"`
}

// GetTenderDetails returns one saved record together with a freshly
// recomputed qualification result. Results are never read from storage.
func GetTenderDetails(log *slog.Logger, calc TenderQualifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tender.GetTenderDetails"

		refNumber := chi.URLParam(r, "refNumber")
		userID, err := strconv.ParseInt(r.URL.Query().Get("user"), 10, 64)
		if err != nil {
			log.With(slog.String("op", op)).Error("Missing or invalid 'user' in query parameters")
			http.Error(w, "Missing required query parameter 'user'", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		record, result, validationErrs, err := calc.QualifyByRef(ctx, userID, refNumber)
		if err != nil {
			if strings.Contains(err.Error(), "not found") || errors.Is(err, sql.ErrNoRows) {
				log.With(slog.String("op", op), slog.String("ref", refNumber)).Warn("Tender not found")
				http.Error(w, "Tender not found", http.StatusNotFound)
				return
			}

			log.With(
				slog.String("op", op),
				slog.String("ref", refNumber),
				slog.String("error", err.Error()),
			).Error("Failed to fetch tender")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ResponseTender{
			Tender: record,
			Result: result,
			Errors: validationErrs,
		})
	}
}

type ResponseAllTenders struct {
	Tenders []*storage.TenderRecord `json:"tenders"`
	Error   string                  `json:"error"`
}

func GetTendersByUser(log *slog.Logger, tenders TenderJSON) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tender.GetTendersByUser"

		userID, err := strconv.ParseInt(r.URL.Query().Get("user"), 10, 64)
		if err != nil {
			log.With(slog.String("op", op)).Error("Missing or invalid 'user' in query parameters")
			http.Error(w, "Missing required query parameter 'user'", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		records, err := tenders.GetTendersByUser(ctx, userID)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch tenders")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ResponseAllTenders{Tenders: records, Error: ""})
	}
}
