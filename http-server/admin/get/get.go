package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"bqc-backend/internal/storage"
)

type TenderAdmin interface {
	GetAllTendersAdmin(ctx context.Context) ([]*storage.TenderRecord, error)
}

type ResponseAllTendersAdmin struct {
	Tenders []*storage.TenderRecord `json:"tenders"`
	Error   string                  `json:"error"`
}

func GetAllTendersAdmin(log *slog.Logger, tenders TenderAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetAllTendersAdmin"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		records, err := tenders.GetAllTendersAdmin(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch tenders")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ResponseAllTendersAdmin{Tenders: records, Error: ""})
	}
}
