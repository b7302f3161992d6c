package save

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bqc-backend/internal/constants"
	"bqc-backend/internal/storage"
)

type MockTenderSaver struct {
	mock.Mock
}

func (m *MockTenderSaver) SaveTender(ctx context.Context, record storage.TenderRecord) (int64, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(int64), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serviceRecord() storage.TenderRecord {
	return storage.TenderRecord{
		UserID:                3,
		RefNumber:             "CPO/MKTG/2024/044",
		TenderDescription:     "Annual housekeeping services",
		PrReference:           "PR-4410",
		BudgetDetails:         "Revenue budget FY 2024-25",
		ScopeOfWork:           "Housekeeping at regional office",
		TenderType:            constants.TenderTypeService,
		CecEstimateInclGst:    118,
		CecEstimateExclGst:    100,
		CecDate:               time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		ContractPeriodMonths:  24,
		Divisibility:          constants.NonDivisible,
		SimilarWorkDefinition: "Housekeeping of office complexes",
		PerformanceSecurity:   5,
	}
}

func postSave(t *testing.T, saver TenderSaver, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/tenders", bytes.NewReader(payload))
	rr := httptest.NewRecorder()

	SaveTenderRecord(discardLogger(), saver).ServeHTTP(rr, req)

	return rr
}

func TestSaveTenderRecord_Success(t *testing.T) {
	record := serviceRecord()

	saver := new(MockTenderSaver)
	saver.On("SaveTender", mock.Anything, record).Return(int64(11), nil)

	rr := postSave(t, saver, record)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(11), resp.TenderID)
	assert.Equal(t, "200", resp.Status)
	saver.AssertExpectations(t)
}

func TestSaveTenderRecord_InvalidRecordNotSaved(t *testing.T) {
	record := serviceRecord()
	record.ScopeOfWork = ""
	record.CecEstimateExclGst = 0

	saver := new(MockTenderSaver)

	rr := postSave(t, saver, record)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "invalid", resp.Status)
	assert.Equal(t, []string{
		"Field 'Scope Of Work' is required",
		"CEC Estimate (excl. GST) must be greater than 0",
	}, resp.Errors)
	saver.AssertNotCalled(t, "SaveTender")
}

func TestSaveTenderRecord_StorageError(t *testing.T) {
	record := serviceRecord()

	saver := new(MockTenderSaver)
	saver.On("SaveTender", mock.Anything, record).Return(int64(0), fmt.Errorf("user does not exist"))

	rr := postSave(t, saver, record)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "failed to save tender record", resp.Error)
}

func TestSaveTenderRecord_MalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/tenders", bytes.NewReader([]byte("not json")))
	rr := httptest.NewRecorder()

	SaveTenderRecord(discardLogger(), new(MockTenderSaver)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
