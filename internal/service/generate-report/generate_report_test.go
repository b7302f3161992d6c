package generate_report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xuri/excelize/v2"

	"bqc-backend/internal/constants"
	"bqc-backend/internal/storage"
	"bqc-backend/internal/storage/mysql"
)

type MockReportStorage struct {
	mock.Mock
}

func (m *MockReportStorage) GetTendersByDateRange(ctx context.Context, filter mysql.TenderFilter) ([]*storage.TenderRecord, error) {
	args := m.Called(ctx, filter)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*storage.TenderRecord), args.Error(1)
}

func (m *MockReportStorage) CountTendersByType(ctx context.Context, filter mysql.TenderFilter) (map[string]int, error) {
	args := m.Called(ctx, filter)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(map[string]int), args.Error(1)
}

func goodsRecord() *storage.TenderRecord {
	return &storage.TenderRecord{
		UserID:              1,
		RefNumber:           "CPO/MKTG/2024/031",
		GroupCode:           "7",
		TenderDescription:   "Dispensing units for retail outlets",
		PrReference:         "PR-3104",
		BudgetDetails:       "Revenue budget FY 2024-25",
		ScopeOfWork:         "Supply of dispensing units",
		TenderType:          constants.TenderTypeGoods,
		TenderPlatform:      "GeM",
		CecEstimateInclGst:  94.4,
		CecEstimateExclGst:  80,
		CecDate:             time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		ContractPeriodYears: 1,
		Divisibility:        constants.NonDivisible,
		ManufacturerTypes:   []string{"Original Equipment Manufacturer"},
		SupplyingCapacity:   120,
		MseRelaxation:       true,
		DeliveryPeriod:      "10 weeks",
		WarrantyPeriod:      "12 months",
		PerformanceSecurity: 5,
		PaymentTerms:        "Within 30 days",
		ProposedBy:          "XXXXX",
		RecommendedBy:       "XXXXX",
		ConcurredBy:         "Rajesh J.",
		ApprovedBy:          "Kani Amudhan N.",
		CreatedAt:           time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC),
	}
}

func worksRecord() *storage.TenderRecord {
	return &storage.TenderRecord{
		UserID:                1,
		RefNumber:             "CPO/MKTG/2024/032",
		GroupCode:             "9",
		TenderDescription:     "Pipeline rehabilitation works",
		PrReference:           "PR-3105",
		BudgetDetails:         "Capital budget FY 2024-25",
		ScopeOfWork:           "Rehabilitation of depot pipelines",
		TenderType:            constants.TenderTypeWorks,
		TenderPlatform:        "E-procurement",
		CecEstimateInclGst:    1180,
		CecEstimateExclGst:    1000,
		CecDate:               time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		ContractPeriodYears:   2,
		Divisibility:          constants.NonDivisible,
		SimilarWorkDefinition: "Rehabilitation of cross-country pipelines",
		PerformanceSecurity:   10,
		PaymentTerms:          "Within 30 days",
		ProposedBy:            "XXXXX",
		RecommendedBy:         "XXXXX",
		ConcurredBy:           "Rajesh J.",
		ApprovedBy:            "Kani Amudhan N.",
		CreatedAt:             time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC),
	}
}

func sectionByNumber(t *testing.T, doc *storage.ReportDocument, number string) storage.ReportSection {
	t.Helper()

	for _, section := range doc.Sections {
		if section.Number == number {
			return section
		}
	}

	t.Fatalf("section %s not found", number)
	return storage.ReportSection{}
}

func TestBuildDocument_Goods(t *testing.T) {
	record := goodsRecord()

	doc, err := BuildDocument(record)

	assert.NoError(t, err)
	assert.Contains(t, doc.Subject, "SUPPLY OF ITEMS FOR 'Dispensing units for retail outlets'")

	// 3.1 carries the manufacturing capability and the supplying capacity,
	// never the experience options
	technical := sectionByNumber(t, doc, "3.1")
	assert.Contains(t, technical.Paragraphs[0], "For GOODS")
	joined := ""
	for _, p := range technical.Paragraphs {
		joined += p + "\n"
	}
	assert.Contains(t, joined, "Original Equipment Manufacturer")
	// floor(120*0.3)=36, floor(36*0.85)=30
	assert.Contains(t, joined, "minimum of 30 quantity")
	assert.Contains(t, joined, "MSE bidders Relaxation of 15%")

	// 80 Lakhs excl GST sits in the Goods carve-out tier
	emd := sectionByNumber(t, doc, "6")
	assert.Contains(t, emd.Paragraphs[0], "Rs. Nil")

	scope := sectionByNumber(t, doc, "2")
	labels := make([]string, 0, len(scope.Table))
	for _, row := range scope.Table {
		labels = append(labels, row.Label)
	}
	assert.Contains(t, labels, "Delivery Period of the Item")
	assert.Contains(t, labels, "Warranty Period")
}

func TestBuildDocument_Works(t *testing.T) {
	record := worksRecord()

	doc, err := BuildDocument(record)

	assert.NoError(t, err)
	assert.Contains(t, doc.Subject, "JOB OF CONSTRUCTION OF 'Pipeline rehabilitation works'")

	technical := sectionByNumber(t, doc, "3.1")
	joined := ""
	for _, p := range technical.Paragraphs {
		joined += p + "\n"
	}
	assert.Contains(t, joined, "equal to 40% of the estimated cost")
	assert.Contains(t, joined, "equal to 50% of the estimated cost")
	assert.Contains(t, joined, "equal to 80% of the estimated cost")
	assert.Contains(t, joined, "Rehabilitation of cross-country pipelines")

	// 0.3 * 1000 Lakhs = 300 Lakhs = 3.00 Crore
	financial := sectionByNumber(t, doc, "3.2")
	assert.Contains(t, financial.Paragraphs[1], "30% of the annualized estimated value in Rs. 3.00 Crore")

	emd := sectionByNumber(t, doc, "6")
	assert.Contains(t, emd.Paragraphs[0], "Rs. 5 Lacs")

	ps := sectionByNumber(t, doc, "7")
	assert.Equal(t, []string{"Performance Security as per standard terms (5% for Goods & Services, 10% for Works)."}, ps.Paragraphs)
}

func TestBuildDocument_PerformanceSecurityOverride(t *testing.T) {
	record := worksRecord()
	record.PerformanceSecurity = 12

	doc, err := BuildDocument(record)

	assert.NoError(t, err)
	ps := sectionByNumber(t, doc, "7")
	assert.Contains(t, ps.Paragraphs[0], "Performance Security 12%")
	assert.Contains(t, ps.Paragraphs[1], "different from the standard percentage of 10%")
}

func TestBuildDocument_InvalidRecord(t *testing.T) {
	record := worksRecord()
	record.SimilarWorkDefinition = ""

	doc, err := BuildDocument(record)

	assert.Nil(t, doc)
	assert.Error(t, err)
}

func TestFormatEmd(t *testing.T) {
	assert.Equal(t, "Nil", FormatEmd(0))
	assert.Equal(t, "2.5 Lacs", FormatEmd(2.5))
	assert.Equal(t, "20 Lacs", FormatEmd(20))
}

func TestGenerateRegisterExcel(t *testing.T) {
	invalid := worksRecord()
	invalid.SimilarWorkDefinition = "" // stale draft, must stay off the register

	filter := mysql.TenderFilter{
		From: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	mockStorage := new(MockReportStorage)
	mockStorage.On("GetTendersByDateRange", mock.Anything, filter).
		Return([]*storage.TenderRecord{goodsRecord(), worksRecord(), invalid}, nil)
	mockStorage.On("CountTendersByType", mock.Anything, filter).
		Return(map[string]int{constants.TenderTypeGoods: 1, constants.TenderTypeWorks: 2}, nil)

	reportService := NewReportService(mockStorage)
	data, err := reportService.GenerateRegisterExcel(context.Background(), filter)

	assert.NoError(t, err)
	mockStorage.AssertExpectations(t)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer f.Close()

	const sheet = "BQC Register"

	header, err := f.GetCellValue(sheet, "A1")
	assert.NoError(t, err)
	assert.Equal(t, "Ref Number", header)

	firstRef, _ := f.GetCellValue(sheet, "A2")
	assert.Equal(t, "CPO/MKTG/2024/031", firstRef)

	group, _ := f.GetCellValue(sheet, "B2")
	assert.Equal(t, constants.GroupOptions["7"], group)

	emd, _ := f.GetCellValue(sheet, "G2")
	assert.Equal(t, "Nil", emd)

	secondRef, _ := f.GetCellValue(sheet, "A3")
	assert.Equal(t, "CPO/MKTG/2024/032", secondRef)

	// the stale draft is skipped, row 4 stays empty
	thirdRef, _ := f.GetCellValue(sheet, "A4")
	assert.Equal(t, "", thirdRef)

	// summary block sits two rows below the data
	summaryTitle, _ := f.GetCellValue(sheet, "A5")
	assert.Equal(t, "Tenders by type", summaryTitle)

	worksCount, _ := f.GetCellValue(sheet, "B8")
	assert.Equal(t, "2", worksCount)
}
