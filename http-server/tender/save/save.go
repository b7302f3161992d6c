package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"bqc-backend/internal/service"
	"bqc-backend/internal/storage"
)

type TenderSaver interface {
	SaveTender(ctx context.Context, record storage.TenderRecord) (int64, error)
}

type Response struct {
	TenderID int64    `json:"tender_id,omitempty"`
	Status   string   `json:"status"`
	Errors   []string `json:"errors,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func SaveTenderRecord(log *slog.Logger, res TenderSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.save.SaveTenderRecord"

		var req storage.TenderRecord
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		// whole violation list up front, nothing is saved for an invalid record
		ok, validationErrs := service.Validate(&req)
		if !ok {
			render.JSON(w, r, Response{Status: "invalid", Errors: validationErrs})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		tenderID, err := res.SaveTender(ctx, req)
		if err != nil {
			log.Error("failed to save tender", slog.String("op", op), slog.String("error", err.Error()))
			render.JSON(w, r, Response{Error: "failed to save tender record"})
			return
		}

		render.JSON(w, r, Response{
			TenderID: tenderID,
			Status:   strconv.Itoa(http.StatusOK),
		})
	}
}
