package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"bqc-backend/internal/constants"
	"bqc-backend/internal/storage"
)

type TenderStorage interface {
	GetTender(ctx context.Context, userID int64, refNumber string) (*storage.TenderRecord, error)
}

type BqcService struct {
	storage TenderStorage
}

func NewBqcService(storage TenderStorage) *BqcService {
	return &BqcService{storage: storage}
}

// QualifyByRef reloads a saved record and recomputes. Stored results are
// never trusted, the record is the unit of persistence. A record that no
// longer validates (saved before a rule change) comes back with the
// violation list and no result.
func (s *BqcService) QualifyByRef(ctx context.Context, userID int64, refNumber string) (*storage.TenderRecord, *storage.QualificationResult, []string, error) {
	const op = "service.bqc_rules.QualifyByRef"

	record, err := s.storage.GetTender(ctx, userID, refNumber)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if ok, validationErrs := Validate(record); !ok {
		return record, nil, validationErrs, nil
	}

	result, err := Qualify(record)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return record, result, nil, nil
}

var emdThresholds = []struct {
	Limit float64
	Emd   float64
}{
	{50, 0},
	{100, 1},
	{500, 2.5},
	{1000, 5},
	{1500, 7.5},
	{2500, 10},
	{math.Inf(1), 20},
}

// CalculateEmd is an upper-bound-inclusive tier lookup in Lakhs. Estimates
// below 50 are always Nil. Goods and Service tenders between 50 and 100 are
// carved out to Nil as well, the table value applies to Works only there.
func CalculateEmd(estimateExclGst float64, tenderType string) float64 {
	if estimateExclGst < 50 {
		return 0
	}

	for _, tier := range emdThresholds {
		if estimateExclGst <= tier.Limit {
			if tier.Limit == 100 && (tenderType == constants.TenderTypeGoods || tenderType == constants.TenderTypeService) {
				return 0
			}
			return tier.Emd
		}
	}

	return 20
}

// Validate collects every violation in a fixed order: required base fields
// first, then numeric consistency, then the period signal, then
// type-specific fields. Never mutates the record.
func Validate(record *storage.TenderRecord) (bool, []string) {
	var errs []string

	required := []struct {
		Value string
		Label string
	}{
		{record.RefNumber, "Ref Number"},
		{record.TenderDescription, "Tender Description"},
		{record.PrReference, "Pr Reference"},
		{record.BudgetDetails, "Budget Details"},
		{record.ScopeOfWork, "Scope Of Work"},
	}

	for _, field := range required {
		if strings.TrimSpace(field.Value) == "" {
			errs = append(errs, fmt.Sprintf("Field '%s' is required", field.Label))
		}
	}

	if record.CecEstimateInclGst <= 0 {
		errs = append(errs, "CEC Estimate (incl. GST) must be greater than 0")
	}

	if record.CecEstimateExclGst <= 0 {
		errs = append(errs, "CEC Estimate (excl. GST) must be greater than 0")
	}

	if record.CecEstimateInclGst < record.CecEstimateExclGst {
		errs = append(errs, "CEC Estimate (incl. GST) must be greater than or equal to CEC Estimate (excl. GST)")
	}

	if record.ContractPeriodYears <= 0 && record.ContractPeriodMonths <= 0 && record.AnnualizedValue <= 0 {
		errs = append(errs, "Either Contract Period or Annualized Estimated Value must be greater than 0")
	}

	if record.TenderType == constants.TenderTypeGoods {
		if strings.TrimSpace(record.DeliveryPeriod) == "" {
			errs = append(errs, "Delivery Period is required for Goods tenders")
		}
		if strings.TrimSpace(record.WarrantyPeriod) == "" {
			errs = append(errs, "Warranty Period is required for Goods tenders")
		}
	}

	if record.TenderType == constants.TenderTypeService || record.TenderType == constants.TenderTypeWorks {
		if strings.TrimSpace(record.SimilarWorkDefinition) == "" {
			errs = append(errs, "Definition of Similar Work is required for Service/Works tenders")
		}
	}

	return len(errs) == 0, errs
}

// ComputeFinancials derives the annualized value and the turnover
// requirement. Years win over months, months over an explicitly supplied
// annualized value. The maintenance branch deliberately switches the base
// from the excl-GST to the incl-GST estimate, that asymmetry is the
// observed business rule and is kept as is.
func ComputeFinancials(record *storage.TenderRecord) (storage.Financials, error) {
	const op = "service.bqc_rules.ComputeFinancials"

	var annualized float64
	switch {
	case record.ContractPeriodYears > 0:
		annualized = record.CecEstimateExclGst / record.ContractPeriodYears
	case record.ContractPeriodMonths > 0:
		annualized = record.CecEstimateExclGst / float64(record.ContractPeriodMonths) * 12
	case record.AnnualizedValue > 0:
		annualized = record.AnnualizedValue
	default:
		return storage.Financials{}, fmt.Errorf("%s: no positive contract period or annualized value", op)
	}

	basis := 0.3
	if record.Divisibility == constants.Divisible {
		basis = 0.3 * (1 + record.CorrectionFactor)
	}

	var maintenance float64
	if record.HasAmc {
		maintenance = record.AmcValue
	}

	var turnover float64
	if maintenance > 0 {
		turnover = basis * (record.CecEstimateInclGst - maintenance)
	} else {
		turnover = basis * record.CecEstimateExclGst
	}

	return storage.Financials{
		AnnualizedValue:      annualized,
		TurnoverRequirement:  turnover,
		TurnoverBasisPercent: basis * 100,
	}, nil
}

// ComputeExperienceOptions returns the three similar-work value options for
// Service/Works tenders, nil for Goods.
func ComputeExperienceOptions(record *storage.TenderRecord) *storage.ExperienceOptions {
	if record.TenderType == constants.TenderTypeGoods {
		return nil
	}

	optionA, optionB, optionC := 0.4, 0.5, 0.8
	if record.Divisibility == constants.Divisible {
		optionA *= 1 + record.CorrectionFactor
		optionB *= 1 + record.CorrectionFactor
		optionC *= 1 + record.CorrectionFactor
	}

	return &storage.ExperienceOptions{
		OptionA: storage.ExperienceOption{Percent: optionA * 100, Value: optionA * record.CecEstimateInclGst},
		OptionB: storage.ExperienceOption{Percent: optionB * 100, Value: optionB * record.CecEstimateInclGst},
		OptionC: storage.ExperienceOption{Percent: optionC * 100, Value: optionC * record.CecEstimateInclGst},
	}
}

// ComputeSupplyingCapacity is the quantity variant: 30% group adjustment
// truncated first, MSE relaxation truncated on top of the truncated figure.
// The two truncations compound, the order is fixed.
func ComputeSupplyingCapacity(base int, mseRelaxation bool) storage.SupplyingCapacity {
	adjusted := int(float64(base) * 0.3)

	relaxed := adjusted
	if mseRelaxation {
		relaxed = int(float64(adjusted) * 0.85)
	}

	return storage.SupplyingCapacity{
		Base:                 base,
		AfterGroupAdjustment: adjusted,
		AfterMseRelaxation:   relaxed,
	}
}

// ComputeSupplyingCapacityPercent is the web-form variant: the capacity is
// already a percentage, no group adjustment and no truncation.
func ComputeSupplyingCapacityPercent(basePercent float64, mseRelaxation bool) storage.SupplyingCapacityPercent {
	relaxed := basePercent
	if mseRelaxation {
		relaxed = basePercent * 0.85
	}

	return storage.SupplyingCapacityPercent{
		BasePercent:        basePercent,
		AfterMseRelaxation: relaxed,
	}
}

// ResolvePerformanceSecurity echoes the requested percent unchanged and
// flags any variance from the standard (5% Goods/Service, 10% Works).
func ResolvePerformanceSecurity(tenderType string, requestedPercent int) storage.PerformanceSecurity {
	standard := 5
	if tenderType == constants.TenderTypeWorks {
		standard = 10
	}

	return storage.PerformanceSecurity{
		StandardPercent:  standard,
		RequestedPercent: requestedPercent,
		IsOverridden:     requestedPercent != standard,
	}
}

// Qualify is the all-or-nothing gate: an invalid record yields an error
// carrying every violation and no partial figures.
func Qualify(record *storage.TenderRecord) (*storage.QualificationResult, error) {
	const op = "service.bqc_rules.Qualify"

	ok, errs := Validate(record)
	if !ok {
		return nil, fmt.Errorf("%s: invalid tender record: %s", op, strings.Join(errs, "; "))
	}

	financials, err := ComputeFinancials(record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &storage.QualificationResult{
		EmdAmount:            CalculateEmd(record.CecEstimateExclGst, record.TenderType),
		AnnualizedValue:      financials.AnnualizedValue,
		TurnoverRequirement:  financials.TurnoverRequirement,
		TurnoverBasisPercent: financials.TurnoverBasisPercent,
		PerformanceSecurity:  ResolvePerformanceSecurity(record.TenderType, record.PerformanceSecurity),
	}

	if record.TenderType == constants.TenderTypeGoods {
		if record.CapacityBasis == constants.CapacityBasisPercent {
			capacity := ComputeSupplyingCapacityPercent(float64(record.SupplyingCapacity), record.MseRelaxation)
			result.SupplyingCapacityPercent = &capacity
		} else {
			capacity := ComputeSupplyingCapacity(record.SupplyingCapacity, record.MseRelaxation)
			result.SupplyingCapacity = &capacity
		}
	} else {
		result.ExperienceOptions = ComputeExperienceOptions(record)
	}

	return result, nil
}
