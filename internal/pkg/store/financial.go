package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/compayre/backend/internal/domain"
	"github.com/compayre/backend/internal/domain/dto"
	"github.com/compayre/backend/internal/pkg/store/xpgx"
)

type ListFinancialsOpts struct {
	CompanyID *string
	FYLabel   *string
}

var financialValueColumns = []string{"fy_label", "total_income", "pat", "roa", "employee_cost", "mcap", "employees"}

var financialColumns = append(
	[]string{"id", "company_id", "fy_end_date"},
	append(financialValueColumns, "created_at", "updated_at")...,
)

func (s *store) UpsertFinancial(ctx context.Context, f *dto.FinancialDto) (bool, error) {
	query := builder().Insert(tableFinancials).
		Columns(append([]string{"company_id", "fy_end_date"}, financialValueColumns...)...).
		Values(f.CompanyID, f.FYEndDate, f.FYLabel, f.TotalIncome, f.PAT, f.ROA, f.EmployeeCost, f.MCap, f.Employees).
		Suffix(upsertSuffix(s.policy, tableFinancials,
			[]string{"company_id", "fy_end_date"},
			financialValueColumns,
		))

	var inserted bool
	if err := s.pool.QueryRowx(ctx, query).Scan(&inserted); err != nil {
		return false, fmt.Errorf("upsert financial %s/%s: %w", f.CompanyID, f.FYEndDate.Format("2006-01-02"), err)
	}

	return inserted, nil
}

func (s *store) ListFinancials(ctx context.Context, opts ListFinancialsOpts) ([]*domain.Financial, error) {
	query := builder().Select(financialColumns...).
		From(tableFinancials).
		OrderBy("fy_end_date desc", "company_id")

	if opts.CompanyID != nil {
		query = query.Where(sq.Eq{"company_id": *opts.CompanyID})
	}
	if opts.FYLabel != nil {
		query = query.Where(sq.Eq{"fy_label": *opts.FYLabel})
	}

	selected, err := xpgx.Selectx[domain.Financial](ctx, s.pool, query)
	if err != nil {
		return nil, fmt.Errorf("list financials: %w", err)
	}

	return selected, nil
}
