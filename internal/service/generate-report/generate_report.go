package generate_report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"bqc-backend/internal/constants"
	"bqc-backend/internal/service"
	"bqc-backend/internal/storage"
	"bqc-backend/internal/storage/mysql"
)

type ReportStorage interface {
	GetTendersByDateRange(ctx context.Context, filter mysql.TenderFilter) ([]*storage.TenderRecord, error)
	CountTendersByType(ctx context.Context, filter mysql.TenderFilter) (map[string]int, error)
}

type ReportService struct {
	storage ReportStorage
}

func NewReportService(storage ReportStorage) *ReportService {
	return &ReportService{storage: storage}
}

const noteTo = "NOTE TO: CHIEF PROCUREMENT OFFICER, CPO (M)/ PROCUREMENT LEADER GROUP XX"

const bidderDefinition = "*The definition of bidder is the entity which has a unique PAN (Permanent Account Number). " +
	"All documents should be in the name of the bidder only (except in cases where the bidder is allowed to take " +
	"the technical credentials of their OEM). Documents in the name of any legal entity other than the bidder, " +
	"as defined above, shall not be accepted."

// BuildDocument assembles the numbered BQC note sections for a valid record.
// All presentation rounding happens here, the engine hands over raw figures.
func BuildDocument(record *storage.TenderRecord) (*storage.ReportDocument, error) {
	const op = "service.generate_report.BuildDocument"

	result, err := service.Qualify(record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	subject := fmt.Sprintf("JOB OF CONSTRUCTION OF '%s'", record.TenderDescription)
	if record.TenderType == constants.TenderTypeGoods {
		subject = fmt.Sprintf("SUPPLY OF ITEMS FOR '%s'", record.TenderDescription)
	}

	doc := &storage.ReportDocument{
		RefNumber: record.RefNumber,
		Date:      time.Now().Format("02/01/2006"),
		NoteTo:    noteTo,
		Subject:   fmt.Sprintf("SUBJECT: %s: APPROVAL OF BID QUALIFICATION CRITERIA AND FLOATING OF OPEN DOMESTIC TENDER.", subject),
		Result:    result,
	}

	doc.Sections = append(doc.Sections, preambleSection(record))
	doc.Sections = append(doc.Sections, scopeSection(record))
	doc.Sections = append(doc.Sections, storage.ReportSection{
		Number: "3",
		Title:  "BID QUALIFICATION CRITERIA (BQC)",
		Paragraphs: []string{
			"BPCL would like to qualify vendors for undertaking the above work as indicated in the brief scope. " +
				"Detailed bid qualification criteria for short listing vendors shall be as follows:",
		},
	})
	doc.Sections = append(doc.Sections, technicalSection(record, result))
	doc.Sections = append(doc.Sections, financialSection(result))
	doc.Sections = append(doc.Sections, storage.ReportSection{
		Number: "3.3",
		Title:  "BIDS MAY BE SUBMITTED BY",
		Paragraphs: []string{
			"3.3.1 An entity (domestic bidder) should have completed 3 financial years of existence as on original " +
				"due date of tender since date of commencement of business and shall fulfil each BQC eligibility criteria as mentioned above.",
			"3.3.2 JV/Consortium bids will not be accepted (i.e. Qualification on the strength of the JV Partners/" +
				"Consortium Members /Subsidiaries / Group members will not be accepted)",
		},
	})

	if record.EscalationClause != "" {
		doc.Sections = append(doc.Sections, storage.ReportSection{
			Number:     "4",
			Title:      "ESCALATION/ DE-ESCALATION CLAUSE",
			Paragraphs: []string{record.EscalationClause},
		})
	}

	if record.AdditionalDetails != "" {
		doc.Sections = append(doc.Sections, storage.ReportSection{
			Number:     "5",
			Title:      "ADDITIONAL DETAILS",
			Paragraphs: []string{record.AdditionalDetails},
		})
	}

	doc.Sections = append(doc.Sections, storage.ReportSection{
		Number: "6",
		Title:  "EARNEST MONEY DEPOSIT (EMD)",
		Paragraphs: []string{
			fmt.Sprintf("Bidders are required to provide Earnest Money Deposit equivalent to Rs. %s for the tender.", FormatEmd(result.EmdAmount)),
			"EMD exemption shall be as per General Terms & Conditions of GeM (applicable for GeM tenders)/ MSE policy",
			"Explanatory Note: Procurement Group to justify the EMD amount as per Guidelines.",
		},
	})

	doc.Sections = append(doc.Sections, performanceSecuritySection(record, result))
	doc.Sections = append(doc.Sections, otherPointsSection())
	doc.Sections = append(doc.Sections, approvalSection(record))

	return doc, nil
}

// FormatEmd renders a zero EMD as Nil, everything else in Lacs.
func FormatEmd(amount float64) string {
	if amount == 0 {
		return "Nil"
	}
	return fmt.Sprintf("%g Lacs", amount)
}

func contractPeriodText(record *storage.TenderRecord) string {
	switch {
	case record.ContractPeriodYears > 0:
		return fmt.Sprintf("%g years", record.ContractPeriodYears)
	case record.ContractPeriodMonths > 0:
		return fmt.Sprintf("%d months", record.ContractPeriodMonths)
	default:
		return record.ContractPeriod
	}
}

func preambleSection(record *storage.TenderRecord) storage.ReportSection {
	return storage.ReportSection{
		Number: "1",
		Title:  "PREAMBLE",
		Table: []storage.ReportRow{
			{Label: "Tender Description", Value: record.TenderDescription},
			{Label: "PR reference/ Email reference", Value: record.PrReference},
			{Label: "Type of Tender", Value: record.TenderType},
			{Label: "CEC estimate (incl. of GST)/ Date", Value: fmt.Sprintf("%g / %s", record.CecEstimateInclGst, record.CecDate.Format("02/01/2006"))},
			{Label: "CEC estimate exclusive of GST", Value: fmt.Sprintf("%g", record.CecEstimateExclGst)},
		},
		Paragraphs: []string{fmt.Sprintf("Tender Platform – %s", record.TenderPlatform)},
	}
}

func scopeSection(record *storage.TenderRecord) storage.ReportSection {
	rows := []storage.ReportRow{
		{Label: "Brief Scope of Work / Supply Items", Value: record.ScopeOfWork},
		{Label: "Contract Period", Value: contractPeriodText(record)},
	}

	if record.TenderType == constants.TenderTypeGoods {
		rows = append(rows,
			storage.ReportRow{Label: "Delivery Period of the Item", Value: record.DeliveryPeriod},
			storage.ReportRow{Label: "Warranty Period", Value: record.WarrantyPeriod},
		)
	}

	if record.HasAmc {
		rows = append(rows,
			storage.ReportRow{Label: "AMC/ CAMC Period (No. of Years)", Value: record.AmcPeriod},
			storage.ReportRow{Label: "AMC/ CAMC Value (Lakhs)", Value: fmt.Sprintf("%g", record.AmcValue)},
		)
	}

	rows = append(rows, storage.ReportRow{
		Label: "Payment Terms (if different from standard terms i.e within 30 days)",
		Value: record.PaymentTerms,
	})

	return storage.ReportSection{Number: "2", Title: "BRIEF SCOPE OF WORK/ SUPPLY ITEMS", Table: rows}
}

func technicalSection(record *storage.TenderRecord, result *storage.QualificationResult) storage.ReportSection {
	if record.TenderType == constants.TenderTypeGoods {
		paragraphs := []string{
			"3.1.1. For GOODS:",
			"a) Manufacturing Capability:",
			fmt.Sprintf("Bidder* should be %s of the item being tendered.", strings.Join(record.ManufacturerTypes, ", ")),
			bidderDefinition,
			"b) Supplying Capacity:",
			supplyingCapacityText(result),
		}

		if record.MseRelaxation {
			paragraphs = append(paragraphs, "For MSE bidders Relaxation of 15% on the supplying capacity shall be given "+
				"as per Corp. Finance Circular MA.TEC.POL.CON.3A dated 26.10.2020.")
		}

		return storage.ReportSection{Number: "3.1", Title: "TECHNICAL CRITERIA", Paragraphs: paragraphs}
	}

	options := result.ExperienceOptions
	return storage.ReportSection{
		Number: "3.1",
		Title:  "TECHNICAL CRITERIA",
		Paragraphs: []string{
			"3.1.2. BQC/PQC for Procurement of Works and Services:",
			"I) Experience / Past performance / Technical Capability:",
			"The bidder# should have experience of having successfully completed similar works during last 7 years " +
				"ending last day of month previous to the one in which tender is floated should be either of the following: -",
			fmt.Sprintf("a. Three similar completed works each costing not less than the amount equal to %.0f%% of the estimated cost.", options.OptionA.Percent),
			"or",
			fmt.Sprintf("b. Two similar completed works each costing not less than the amount equal to %.0f%% of the estimated cost.", options.OptionB.Percent),
			"or",
			fmt.Sprintf("c. One similar completed work costing not less than the amount equal to %.0f%% of the estimated cost.", options.OptionC.Percent),
			fmt.Sprintf("Definition of \"similar work\" should be clearly defined: %s", record.SimilarWorkDefinition),
			"# In case of Service contracts the term bidder may be suitably modified to take care of OEMs/ System Integrators/ Authorised Channel Partner etc.",
			bidderDefinition,
		},
	}
}

func supplyingCapacityText(result *storage.QualificationResult) string {
	const sentence = "The bidder shall have experience of having successfully supplied minimum of %s quantity of the " +
		"annualized estimated quantity in any 12 continuous months during last 7 years in India or abroad, " +
		"ending on last day of the month previous to the one in which tender is invited."

	if result.SupplyingCapacityPercent != nil {
		return fmt.Sprintf(sentence, fmt.Sprintf("%g%%", result.SupplyingCapacityPercent.AfterMseRelaxation))
	}
	return fmt.Sprintf(sentence, fmt.Sprintf("%d", result.SupplyingCapacity.AfterMseRelaxation))
}

func financialSection(result *storage.QualificationResult) storage.ReportSection {
	turnoverCrore := result.TurnoverRequirement / 100

	return storage.ReportSection{
		Number: "3.2",
		Title:  "FINANCIAL CRITERIA",
		Paragraphs: []string{
			"3.2.1 AVERAGE ANNUAL TURNOVER",
			fmt.Sprintf("The average annual turnover of the Bidder for last three audited accounting years shall be "+
				"equal to or more than %.0f%% of the annualized estimated value in Rs. %.2f Crore.",
				result.TurnoverBasisPercent, turnoverCrore),
			"Explanatory Notes:",
			"i. Average annual turnover values in-line with CTE Office Memorandum No. 12-02-1-CTE-6 dated 17th Dec 2002.",
			"3.2.2 NET WORTH",
			"The bidder should have positive net worth as per the latest audited financial statement.",
			"Documents Required: Please refer the ITB (Instruction to Bidders) which mentions the documents to be " +
				"submitted by bidders for meeting the above Technical and Financial criteria.",
		},
	}
}

func performanceSecuritySection(record *storage.TenderRecord, result *storage.QualificationResult) storage.ReportSection {
	ps := result.PerformanceSecurity

	paragraphs := []string{"Performance Security as per standard terms (5% for Goods & Services, 10% for Works)."}
	if ps.IsOverridden {
		paragraphs = []string{
			fmt.Sprintf("Performance Security %d%% (approved by the competent authority).", ps.RequestedPercent),
			fmt.Sprintf("Note: The performance security percentage of %d%% is different from the standard percentage "+
				"of %d%% for %s tenders. This has been approved by the competent authority.",
				ps.RequestedPercent, ps.StandardPercent, record.TenderType),
		}
	}

	return storage.ReportSection{
		Number:     "7",
		Title:      "Performance Security (if at variance with the ITB clause)",
		Paragraphs: paragraphs,
	}
}

func otherPointsSection() storage.ReportSection {
	return storage.ReportSection{
		Title: "Other Points which may be taken into consideration while framing BQC",
		Paragraphs: []string{
			"1) Any guidelines from company, govt., industry tender practices (in case of industry tenders) etc. " +
				"shall need to be followed superseding the above criteria as applicable.",
			"2) Any services rendered by the vendor after due supply of the goods like AMC/CAMC after warranty period, " +
				"servicing, etc. needs to be appropriately excluded while fixing the qualification (technical) criteria.",
			"3) Where, the tender involves Annual Maintenance Contract (AMC) or Comprehensive Annual Maintenance " +
				"Contract (CAMC), the estimated cost towards AMC/CAMC shall be excluded while arriving at the financial " +
				"criteria (Annual Turnover) for the tender.",
			"4) Additional qualification criteria may be built upon depending on the situation on case to case basis.",
			"5) During first time procurement of any goods/services by CPO (M), inputs from User SBU/Entity should be " +
				"taken. However same may be taken for subsequent procurements also to the extent possible and depending " +
				"on the complexity of the procurement.",
		},
	}
}

func approvalSection(record *storage.TenderRecord) storage.ReportSection {
	return storage.ReportSection{
		Number: "8",
		Title:  "APPROVAL REQUIRED",
		Paragraphs: []string{
			fmt.Sprintf("In view of above, approval is requested for the Supply of items/ job -%s for:", record.TenderDescription),
			"i. Bid Qualification Criteria as per Sr. No. 3, as per Clause 13.8 of Guidelines for procurement of Goods and Contract Services.",
			"ii. Inviting bids (two-part bid) through a Domestic Open Tender.",
			"iii. Earnest Money Deposit as per Sr. No. 6 above./ Performance Security as per Sr. No. 7 (if applicable)",
		},
		Table: []storage.ReportRow{
			{Label: "Proposed by", Value: fmt.Sprintf("%s, Procurement Manager (CPO Mktg.)", record.ProposedBy)},
			{Label: "Recommended by", Value: fmt.Sprintf("%s, Procurement Leader (CPO Mktg.)", record.RecommendedBy)},
			{Label: "Concurred by", Value: fmt.Sprintf("%s, GM Finance (CPO Mktg.)", record.ConcurredBy)},
			{Label: "Approved by", Value: fmt.Sprintf("%s, Chief Procurement Officer, (CPO Mktg.)", record.ApprovedBy)},
		},
	}
}

// GenerateRegisterExcel builds the tender register workbook for a date
// range. Rows and the per-type summary are fetched concurrently.
func (g *ReportService) GenerateRegisterExcel(ctx context.Context, filter mysql.TenderFilter) ([]byte, error) {
	const op = "service.generate_report.GenerateRegisterExcel"

	var (
		records []*storage.TenderRecord
		counts  map[string]int
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		records, err = g.storage.GetTendersByDateRange(egCtx, filter)
		if err != nil {
			return fmt.Errorf("tenders: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		counts, err = g.storage.CountTendersByType(egCtx, filter)
		if err != nil {
			return fmt.Errorf("counts: %w", err)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "BQC Register"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	headers := []string{"Ref Number", "Group", "Tender Type", "Platform", "CEC Incl GST", "CEC Excl GST",
		"EMD", "Annualized Value", "Turnover Requirement", "Performance Security %", "Created"}

	for i, name := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, name)
	}

	lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", lastCol, headerStyle)

	rowNum := 1
	for _, record := range records {
		result, err := service.Qualify(record)
		if err != nil {
			// drafts that never passed validation stay off the register
			continue
		}

		rowNum++
		f.SetCellValue(sheet, cellName(1, rowNum), record.RefNumber)
		f.SetCellValue(sheet, cellName(2, rowNum), constants.GroupOptions[record.GroupCode])
		f.SetCellValue(sheet, cellName(3, rowNum), record.TenderType)
		f.SetCellValue(sheet, cellName(4, rowNum), record.TenderPlatform)
		f.SetCellValue(sheet, cellName(5, rowNum), record.CecEstimateInclGst)
		f.SetCellValue(sheet, cellName(6, rowNum), record.CecEstimateExclGst)
		f.SetCellValue(sheet, cellName(7, rowNum), FormatEmd(result.EmdAmount))
		f.SetCellValue(sheet, cellName(8, rowNum), result.AnnualizedValue)
		f.SetCellValue(sheet, cellName(9, rowNum), result.TurnoverRequirement)
		f.SetCellValue(sheet, cellName(10, rowNum), record.PerformanceSecurity)
		f.SetCellValue(sheet, cellName(11, rowNum), record.CreatedAt.Format("2006-01-02"))
	}

	summaryRow := rowNum + 2
	f.SetCellValue(sheet, cellName(1, summaryRow), "Tenders by type")
	for _, tenderType := range []string{constants.TenderTypeGoods, constants.TenderTypeService, constants.TenderTypeWorks} {
		summaryRow++
		f.SetCellValue(sheet, cellName(1, summaryRow), tenderType)
		f.SetCellValue(sheet, cellName(2, summaryRow), counts[tenderType])
	}

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
	})

	f.SetColWidth(sheet, "A", "K", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}
