package qualify

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bqc-backend/internal/constants"
	"bqc-backend/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func worksRecord() storage.TenderRecord {
	return storage.TenderRecord{
		RefNumber:             "CPO/MKTG/2024/014",
		TenderDescription:     "Laying of product pipeline",
		PrReference:           "PR-2210",
		BudgetDetails:         "Capital budget FY 2024-25",
		ScopeOfWork:           "Pipeline laying and hydrotesting",
		TenderType:            constants.TenderTypeWorks,
		CecEstimateInclGst:    1180,
		CecEstimateExclGst:    1000,
		CecDate:               time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC),
		ContractPeriodYears:   2,
		Divisibility:          constants.NonDivisible,
		SimilarWorkDefinition: "Construction of cross-country product pipelines",
		PerformanceSecurity:   10,
	}
}

func postQualify(t *testing.T, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/tenders/qualify", bytes.NewReader(payload))
	rr := httptest.NewRecorder()

	QualifyTender(discardLogger()).ServeHTTP(rr, req)

	return rr
}

func TestQualifyTender_ValidRecord(t *testing.T) {
	rr := postQualify(t, worksRecord())

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Resp
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Errors)
	assert.NotNil(t, resp.Result)
	assert.Equal(t, 5.0, resp.Result.EmdAmount)
	assert.Equal(t, 500.0, resp.Result.AnnualizedValue)
	assert.InDelta(t, 300.0, resp.Result.TurnoverRequirement, 1e-9)
	assert.NotNil(t, resp.Result.ExperienceOptions)
}

func TestQualifyTender_InvalidRecordListsEveryViolation(t *testing.T) {
	record := worksRecord()
	record.RefNumber = ""
	record.SimilarWorkDefinition = ""

	rr := postQualify(t, record)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Resp
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	// the whole violation list comes back, never a prefix and never figures
	assert.False(t, resp.Valid)
	assert.Nil(t, resp.Result)
	assert.Equal(t, []string{
		"Field 'Ref Number' is required",
		"Definition of Similar Work is required for Service/Works tenders",
	}, resp.Errors)
}

func TestQualifyTender_MalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/tenders/qualify", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()

	QualifyTender(discardLogger()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
