package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/compayre/backend/internal/domain"
	"github.com/compayre/backend/internal/domain/dto"
	"github.com/compayre/backend/internal/pkg/store/xpgx"
)

type ListCompaniesOpts struct {
	Sector   *string
	Industry *string
	Index    *string
	Search   *string
}

var companyColumns = []string{"company_id", "name", "sector", "industry", `"index"`, "employees", "created_at", "updated_at"}

func (s *store) UpsertCompany(ctx context.Context, company *dto.CompanyDto) (bool, error) {
	query := builder().Insert(tableCompanies).
		Columns("company_id", "name", "sector", "industry", `"index"`, "employees").
		Values(company.CompanyID, company.Name, company.Sector, company.Industry, company.Index, company.Employees).
		Suffix(upsertSuffix(s.policy, tableCompanies,
			[]string{"company_id"},
			[]string{"name", "sector", "industry", `"index"`, "employees"},
		))

	var inserted bool
	if err := s.pool.QueryRowx(ctx, query).Scan(&inserted); err != nil {
		return false, fmt.Errorf("upsert company %s: %w", company.CompanyID, err)
	}

	return inserted, nil
}

func (s *store) CompanyExists(ctx context.Context, companyID string) (bool, error) {
	query := builder().Select("1").
		Prefix("select exists (").
		From(tableCompanies).
		Where(sq.Eq{"company_id": companyID}).
		Suffix(")")

	var exists bool
	if err := s.pool.QueryRowx(ctx, query).Scan(&exists); err != nil {
		return false, fmt.Errorf("check company %s: %w", companyID, err)
	}

	return exists, nil
}

func (s *store) GetCompany(ctx context.Context, companyID string) (*domain.Company, error) {
	query := builder().Select(companyColumns...).
		From(tableCompanies).
		Where(sq.Eq{"company_id": companyID})

	selected, err := xpgx.Getx[domain.Company](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListCompanies(ctx context.Context, opts ListCompaniesOpts) ([]*domain.Company, error) {
	query := builder().Select(companyColumns...).
		From(tableCompanies).
		OrderBy("name")

	if opts.Sector != nil {
		query = query.Where(sq.Eq{"sector": *opts.Sector})
	}
	if opts.Industry != nil {
		query = query.Where(sq.Eq{"industry": *opts.Industry})
	}
	if opts.Index != nil {
		query = query.Where(sq.Eq{`"index"`: *opts.Index})
	}
	if opts.Search != nil {
		pattern := "%" + *opts.Search + "%"
		query = query.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"company_id": pattern},
		})
	}

	selected, err := xpgx.Selectx[domain.Company](ctx, s.pool, query)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}

	return selected, nil
}

func (s *store) ListSectors(ctx context.Context) ([]string, error) {
	return s.distinctCompanyColumn(ctx, "sector")
}

func (s *store) ListIndustries(ctx context.Context) ([]string, error) {
	return s.distinctCompanyColumn(ctx, "industry")
}

func (s *store) distinctCompanyColumn(ctx context.Context, column string) ([]string, error) {
	query := builder().Select(column).
		Distinct().
		From(tableCompanies).
		Where(sq.And{
			sq.NotEq{column: nil},
			sq.NotEq{column: ""},
		}).
		OrderBy(column)

	values, err := xpgx.Scalars[string](ctx, s.pool, query)
	if err != nil {
		return nil, fmt.Errorf("list distinct %s: %w", column, err)
	}

	return values, nil
}
