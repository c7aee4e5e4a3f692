package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/compayre/backend/internal/domain"
	"github.com/compayre/backend/internal/domain/dto"
	"github.com/compayre/backend/internal/pkg/store/xpgx"
)

type ListRemunerationsOpts struct {
	CompanyID   *string
	DirectorRef *int64
	FYLabel     *string
}

var remunerationValueColumns = []string{
	"fy_label", "basic_salary", "pf", "perqs", "bonus", "pay_excl_esops", "esops",
	"total_remuneration", "options_granted", "discount", "fair_value", "aggregate_value",
	"remuneration_status", "comments",
}

var remunerationColumns = append(
	[]string{"id", "company_id", "director_id", "fy_end_date"},
	append(remunerationValueColumns, "created_at", "updated_at")...,
)

func (s *store) UpsertRemuneration(ctx context.Context, r *dto.RemunerationDto) (bool, error) {
	query := builder().Insert(tableRemunerations).
		Columns(append([]string{"company_id", "director_id", "fy_end_date"}, remunerationValueColumns...)...).
		Values(
			r.CompanyID, r.DirectorRef, r.FYEndDate,
			r.FYLabel, r.BasicSalary, r.PF, r.Perqs, r.Bonus, r.PayExclESOPs, r.ESOPs,
			r.TotalRemuneration, r.OptionsGranted, r.Discount, r.FairValue, r.AggregateValue,
			r.RemunerationStatus, r.Comments,
		).
		Suffix(upsertSuffix(s.policy, tableRemunerations,
			[]string{"company_id", "director_id", "fy_end_date"},
			remunerationValueColumns,
		))

	var inserted bool
	if err := s.pool.QueryRowx(ctx, query).Scan(&inserted); err != nil {
		return false, fmt.Errorf("upsert remuneration %s/%d/%s: %w",
			r.CompanyID, r.DirectorRef, r.FYEndDate.Format("2006-01-02"), err)
	}

	return inserted, nil
}

func (s *store) ListRemunerations(ctx context.Context, opts ListRemunerationsOpts) ([]*domain.Remuneration, error) {
	query := builder().Select(remunerationColumns...).
		From(tableRemunerations).
		OrderBy("fy_end_date desc", "id")

	if opts.CompanyID != nil {
		query = query.Where(sq.Eq{"company_id": *opts.CompanyID})
	}
	if opts.DirectorRef != nil {
		query = query.Where(sq.Eq{"director_id": *opts.DirectorRef})
	}
	if opts.FYLabel != nil {
		query = query.Where(sq.Eq{"fy_label": *opts.FYLabel})
	}

	selected, err := xpgx.Selectx[domain.Remuneration](ctx, s.pool, query)
	if err != nil {
		return nil, fmt.Errorf("list remunerations: %w", err)
	}

	return selected, nil
}
