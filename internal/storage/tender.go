package storage

import "time"

type TenderRecord struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	RefNumber string `json:"ref_number"`

	GroupCode         string    `json:"group_code"`
	ItemName          string    `json:"item_name"`
	ProjectName       string    `json:"project_name"`
	TenderDescription string    `json:"tender_description"`
	PrReference       string    `json:"pr_reference"`
	TenderType        string    `json:"tender_type"`
	TenderPlatform    string    `json:"tender_platform"`
	CecEstimateInclGst float64  `json:"cec_estimate_incl_gst"`
	CecEstimateExclGst float64  `json:"cec_estimate_excl_gst"`
	CecDate           time.Time `json:"cec_date"`
	BudgetDetails     string    `json:"budget_details"`
	ScopeOfWork       string    `json:"scope_of_work"`

	// Period signals: years (desktop form), months + free text (web form),
	// or an explicitly supplied annualized value. At least one must be positive.
	ContractPeriodYears  float64 `json:"contract_period_years"`
	ContractPeriodMonths int     `json:"contract_period_months"`
	ContractPeriod       string  `json:"contract_period"`
	AnnualizedValue      float64 `json:"annualized_value"`

	Divisibility     string  `json:"divisibility"`
	CorrectionFactor float64 `json:"correction_factor"`

	HasAmc    bool    `json:"has_amc"`
	AmcValue  float64 `json:"amc_value"`
	AmcPeriod string  `json:"amc_period"`
	HasOM     bool    `json:"has_om"`
	OMValue   float64 `json:"o_m_value"`
	OMPeriod  string  `json:"o_m_period"`

	// Goods only
	ManufacturerTypes []string `json:"manufacturer_types"`
	SupplyingCapacity int      `json:"supplying_capacity"`
	CapacityBasis     string   `json:"capacity_basis"`
	MseRelaxation     bool     `json:"mse_relaxation"`
	DeliveryPeriod    string   `json:"delivery_period"`
	WarrantyPeriod    string   `json:"warranty_period"`

	// Service/Works only
	SimilarWorkDefinition string `json:"similar_work_definition"`

	PaymentTerms        string `json:"payment_terms"`
	EscalationClause    string `json:"escalation_clause"`
	AdditionalDetails   string `json:"additional_details"`
	PerformanceSecurity int    `json:"performance_security"`

	ProposedBy    string `json:"proposed_by"`
	RecommendedBy string `json:"recommended_by"`
	ConcurredBy   string `json:"concurred_by"`
	ApprovedBy    string `json:"approved_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QualificationResult is always recomputed from the record, never stored.
type QualificationResult struct {
	EmdAmount            float64 `json:"emd_amount"`
	AnnualizedValue      float64 `json:"annualized_value"`
	TurnoverRequirement  float64 `json:"turnover_requirement"`
	TurnoverBasisPercent float64 `json:"turnover_basis_percent"`

	ExperienceOptions        *ExperienceOptions        `json:"experience_options,omitempty"`
	SupplyingCapacity        *SupplyingCapacity        `json:"supplying_capacity,omitempty"`
	SupplyingCapacityPercent *SupplyingCapacityPercent `json:"supplying_capacity_percent,omitempty"`

	PerformanceSecurity PerformanceSecurity `json:"performance_security"`
}

type Financials struct {
	AnnualizedValue      float64 `json:"annualized_value"`
	TurnoverRequirement  float64 `json:"turnover_requirement"`
	TurnoverBasisPercent float64 `json:"turnover_basis_percent"`
}

type ExperienceOption struct {
	Percent float64 `json:"percent"`
	Value   float64 `json:"value"`
}

type ExperienceOptions struct {
	OptionA ExperienceOption `json:"option_a"`
	OptionB ExperienceOption `json:"option_b"`
	OptionC ExperienceOption `json:"option_c"`
}

type SupplyingCapacity struct {
	Base                 int `json:"base"`
	AfterGroupAdjustment int `json:"after_group_adjustment"`
	AfterMseRelaxation   int `json:"after_mse_relaxation"`
}

type SupplyingCapacityPercent struct {
	BasePercent        float64 `json:"base_percent"`
	AfterMseRelaxation float64 `json:"after_mse_relaxation"`
}

type PerformanceSecurity struct {
	StandardPercent  int  `json:"standard_percent"`
	RequestedPercent int  `json:"requested_percent"`
	IsOverridden     bool `json:"is_overridden"`
}
