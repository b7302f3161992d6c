package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"bqc-backend/internal/storage"
)

type TenderFilter struct {
	From   time.Time
	To     time.Time
	UserID int64
}

const tenderColumns = `id, user_id, ref_number, group_code, item_name, project_name,
	tender_description, pr_reference, tender_type, tender_platform,
	cec_estimate_incl_gst, cec_estimate_excl_gst, cec_date, budget_details, scope_of_work,
	contract_period_years, contract_period_months, contract_period, annualized_value,
	divisibility, correction_factor, has_amc, amc_value, amc_period, has_om, o_m_value, o_m_period,
	manufacturer_types, supplying_capacity, capacity_basis, mse_relaxation, delivery_period, warranty_period,
	similar_work_definition, payment_terms, escalation_clause, additional_details, performance_security,
	proposed_by, recommended_by, concurred_by, approved_by, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTender(row rowScanner) (*storage.TenderRecord, error) {
	record := &storage.TenderRecord{}

	var manufacturerTypesJSON string
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.RefNumber,
		&record.GroupCode,
		&record.ItemName,
		&record.ProjectName,
		&record.TenderDescription,
		&record.PrReference,
		&record.TenderType,
		&record.TenderPlatform,
		&record.CecEstimateInclGst,
		&record.CecEstimateExclGst,
		&record.CecDate,
		&record.BudgetDetails,
		&record.ScopeOfWork,
		&record.ContractPeriodYears,
		&record.ContractPeriodMonths,
		&record.ContractPeriod,
		&record.AnnualizedValue,
		&record.Divisibility,
		&record.CorrectionFactor,
		&record.HasAmc,
		&record.AmcValue,
		&record.AmcPeriod,
		&record.HasOM,
		&record.OMValue,
		&record.OMPeriod,
		&manufacturerTypesJSON,
		&record.SupplyingCapacity,
		&record.CapacityBasis,
		&record.MseRelaxation,
		&record.DeliveryPeriod,
		&record.WarrantyPeriod,
		&record.SimilarWorkDefinition,
		&record.PaymentTerms,
		&record.EscalationClause,
		&record.AdditionalDetails,
		&record.PerformanceSecurity,
		&record.ProposedBy,
		&record.RecommendedBy,
		&record.ConcurredBy,
		&record.ApprovedBy,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if manufacturerTypesJSON != "" {
		if err := json.Unmarshal([]byte(manufacturerTypesJSON), &record.ManufacturerTypes); err != nil {
			return nil, fmt.Errorf("manufacturer types json: %w", err)
		}
	}

	return record, nil
}

// SaveTender upserts on the (user_id, ref_number) unique key. One logical
// record per reference number per user.
func (s *Storage) SaveTender(ctx context.Context, record storage.TenderRecord) (int64, error) {
	const op = "storage.mysql.sql.SaveTender"

	manufacturerTypesJSON, err := json.Marshal(record.ManufacturerTypes)
	if err != nil {
		return 0, fmt.Errorf("%s: manufacturer types json: %w", op, err)
	}

	stmt := `INSERT INTO bqc_tenders (user_id, ref_number, group_code, item_name, project_name,
		tender_description, pr_reference, tender_type, tender_platform,
		cec_estimate_incl_gst, cec_estimate_excl_gst, cec_date, budget_details, scope_of_work,
		contract_period_years, contract_period_months, contract_period, annualized_value,
		divisibility, correction_factor, has_amc, amc_value, amc_period, has_om, o_m_value, o_m_period,
		manufacturer_types, supplying_capacity, capacity_basis, mse_relaxation, delivery_period, warranty_period,
		similar_work_definition, payment_terms, escalation_clause, additional_details, performance_security,
		proposed_by, recommended_by, concurred_by, approved_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			group_code = VALUES(group_code),
			item_name = VALUES(item_name),
			project_name = VALUES(project_name),
			tender_description = VALUES(tender_description),
			pr_reference = VALUES(pr_reference),
			tender_type = VALUES(tender_type),
			tender_platform = VALUES(tender_platform),
			cec_estimate_incl_gst = VALUES(cec_estimate_incl_gst),
			cec_estimate_excl_gst = VALUES(cec_estimate_excl_gst),
			cec_date = VALUES(cec_date),
			budget_details = VALUES(budget_details),
			scope_of_work = VALUES(scope_of_work),
			contract_period_years = VALUES(contract_period_years),
			contract_period_months = VALUES(contract_period_months),
			contract_period = VALUES(contract_period),
			annualized_value = VALUES(annualized_value),
			divisibility = VALUES(divisibility),
			correction_factor = VALUES(correction_factor),
			has_amc = VALUES(has_amc),
			amc_value = VALUES(amc_value),
			amc_period = VALUES(amc_period),
			has_om = VALUES(has_om),
			o_m_value = VALUES(o_m_value),
			o_m_period = VALUES(o_m_period),
			manufacturer_types = VALUES(manufacturer_types),
			supplying_capacity = VALUES(supplying_capacity),
			capacity_basis = VALUES(capacity_basis),
			mse_relaxation = VALUES(mse_relaxation),
			delivery_period = VALUES(delivery_period),
			warranty_period = VALUES(warranty_period),
			similar_work_definition = VALUES(similar_work_definition),
			payment_terms = VALUES(payment_terms),
			escalation_clause = VALUES(escalation_clause),
			additional_details = VALUES(additional_details),
			performance_security = VALUES(performance_security),
			proposed_by = VALUES(proposed_by),
			recommended_by = VALUES(recommended_by),
			concurred_by = VALUES(concurred_by),
			approved_by = VALUES(approved_by),
			updated_at = CURRENT_TIMESTAMP`

	exec, err := s.db.ExecContext(ctx, stmt,
		record.UserID, record.RefNumber, record.GroupCode, record.ItemName, record.ProjectName,
		record.TenderDescription, record.PrReference, record.TenderType, record.TenderPlatform,
		record.CecEstimateInclGst, record.CecEstimateExclGst, record.CecDate, record.BudgetDetails, record.ScopeOfWork,
		record.ContractPeriodYears, record.ContractPeriodMonths, record.ContractPeriod, record.AnnualizedValue,
		record.Divisibility, record.CorrectionFactor, record.HasAmc, record.AmcValue, record.AmcPeriod,
		record.HasOM, record.OMValue, record.OMPeriod,
		string(manufacturerTypesJSON), record.SupplyingCapacity, record.CapacityBasis, record.MseRelaxation,
		record.DeliveryPeriod, record.WarrantyPeriod,
		record.SimilarWorkDefinition, record.PaymentTerms, record.EscalationClause, record.AdditionalDetails,
		record.PerformanceSecurity,
		record.ProposedBy, record.RecommendedBy, record.ConcurredBy, record.ApprovedBy,
	)
	if err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == 1452 {
			return 0, fmt.Errorf("%s: user with id=%d does not exist", op, record.UserID)
		}
		return 0, fmt.Errorf("%s: tender save failed='%s'", op, err)
	}

	return exec.LastInsertId()
}

func (s *Storage) GetTender(ctx context.Context, userID int64, refNumber string) (*storage.TenderRecord, error) {
	const op = "storage.mysql.sql.GetTender"

	query := `SELECT ` + tenderColumns + ` FROM bqc_tenders WHERE user_id = ? AND ref_number = ?`

	record, err := scanTender(s.db.QueryRowContext(ctx, query, userID, refNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: tender with ref='%s' not found: %w", op, refNumber, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return record, nil
}

func (s *Storage) GetTendersByUser(ctx context.Context, userID int64) ([]*storage.TenderRecord, error) {
	const op = "storage.mysql.sql.GetTendersByUser"

	query := `SELECT ` + tenderColumns + ` FROM bqc_tenders WHERE user_id = ? ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var records []*storage.TenderRecord

	for rows.Next() {
		record, err := scanTender(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: row scan: %w", op, err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return records, nil
}

func (s *Storage) GetAllTendersAdmin(ctx context.Context) ([]*storage.TenderRecord, error) {
	const op = "storage.mysql.sql.GetAllTendersAdmin"

	query := `SELECT ` + tenderColumns + ` FROM bqc_tenders ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var records []*storage.TenderRecord

	for rows.Next() {
		record, err := scanTender(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: row scan: %w", op, err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return records, nil
}

func (s *Storage) GetTendersByDateRange(ctx context.Context, filter TenderFilter) ([]*storage.TenderRecord, error) {
	const op = "storage.mysql.sql.GetTendersByDateRange"

	query := `SELECT ` + tenderColumns + ` FROM bqc_tenders WHERE created_at BETWEEN ? AND ?`
	args := []any{filter.From, filter.To}

	if filter.UserID > 0 {
		query += ` AND user_id = ?`
		args = append(args, filter.UserID)
	}

	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var records []*storage.TenderRecord

	for rows.Next() {
		record, err := scanTender(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: row scan: %w", op, err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return records, nil
}

func (s *Storage) CountTendersByType(ctx context.Context, filter TenderFilter) (map[string]int, error) {
	const op = "storage.mysql.sql.CountTendersByType"

	query := `SELECT tender_type, COUNT(*) FROM bqc_tenders WHERE created_at BETWEEN ? AND ?`
	args := []any{filter.From, filter.To}

	if filter.UserID > 0 {
		query += ` AND user_id = ?`
		args = append(args, filter.UserID)
	}

	query += ` GROUP BY tender_type`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	counts := make(map[string]int)

	for rows.Next() {
		var tenderType string
		var count int
		if err := rows.Scan(&tenderType, &count); err != nil {
			return nil, fmt.Errorf("%s: row scan: %w", op, err)
		}
		counts[tenderType] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return counts, nil
}

func (s *Storage) DeleteTender(ctx context.Context, id int64) error {
	const op = "storage.mysql.sql.DeleteTender"

	_, err := s.db.ExecContext(ctx, `DELETE FROM bqc_tenders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
