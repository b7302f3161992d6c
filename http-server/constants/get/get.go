package get

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/render"

	"bqc-backend/internal/constants"
)

type ResponseLookups struct {
	Groups            map[string]string `json:"groups"`
	TenderTypes       []string          `json:"tender_types"`
	ManufacturerTypes []string          `json:"manufacturer_types"`
	Divisibility      []string          `json:"divisibility"`
	Platforms         []string          `json:"platforms"`
	DivisionPatterns  []string          `json:"division_patterns"`
}

// GetLookups serves the closed option tables so both form frontends render
// the same lists.
func GetLookups(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, ResponseLookups{
			Groups:            constants.GroupOptions,
			TenderTypes:       sortedKeys(constants.TenderTypes),
			ManufacturerTypes: sortedKeys(constants.ManufacturerTypes),
			Divisibility:      sortedKeys(constants.DivisibilityOptions),
			Platforms:         sortedKeys(constants.PlatformOptions),
			DivisionPatterns:  constants.DivisionPatterns,
		})
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
