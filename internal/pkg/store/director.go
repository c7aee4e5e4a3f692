package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/compayre/backend/internal/domain"
	"github.com/compayre/backend/internal/domain/dto"
	"github.com/compayre/backend/internal/pkg/store/xpgx"
)

type ListDirectorsOpts struct {
	CompanyID *string
	Category  *string
	Search    *string
}

var directorColumns = []string{
	"id", "director_id", "company_id", "name", "designation", "category", "qualification",
	"dob", "promoter_status", "gender", "appointment_date", "created_at", "updated_at",
}

func (s *store) UpsertDirector(ctx context.Context, director *dto.DirectorDto) (int64, bool, error) {
	query := builder().Insert(tableDirectors).
		Columns(
			"director_id", "company_id", "name", "designation", "category", "qualification",
			"dob", "promoter_status", "gender", "appointment_date",
		).
		Values(
			director.DirectorID, director.CompanyID, director.Name, director.Designation, director.Category,
			director.Qualification, director.DOB, director.PromoterStatus, director.Gender, director.AppointmentDate,
		).
		Suffix(upsertSuffix(s.policy, tableDirectors,
			[]string{"director_id", "company_id"},
			[]string{
				"name", "designation", "category", "qualification",
				"dob", "promoter_status", "gender", "appointment_date",
			},
			"id",
		))

	var (
		id       int64
		inserted bool
	)
	if err := s.pool.QueryRowx(ctx, query).Scan(&id, &inserted); err != nil {
		return 0, false, fmt.Errorf("upsert director %s/%s: %w", director.CompanyID, director.DirectorID, err)
	}

	return id, inserted, nil
}

func (s *store) GetDirectorID(ctx context.Context, directorID, companyID string) (int64, error) {
	query := builder().Select("id").
		From(tableDirectors).
		Where(sq.Eq{
			"director_id": directorID,
			"company_id":  companyID,
		})

	var id int64
	if err := s.pool.QueryRowx(ctx, query).Scan(&id); err != nil {
		return 0, wrapErr(err)
	}

	return id, nil
}

func (s *store) GetDirector(ctx context.Context, id int64) (*domain.Director, error) {
	query := builder().Select(directorColumns...).
		From(tableDirectors).
		Where(sq.Eq{"id": id})

	selected, err := xpgx.Getx[domain.Director](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListDirectors(ctx context.Context, opts ListDirectorsOpts) ([]*domain.Director, error) {
	query := builder().Select(directorColumns...).
		From(tableDirectors).
		OrderBy("name")

	if opts.CompanyID != nil {
		query = query.Where(sq.Eq{"company_id": *opts.CompanyID})
	}
	if opts.Category != nil {
		query = query.Where(sq.Eq{"category": *opts.Category})
	}
	if opts.Search != nil {
		pattern := "%" + *opts.Search + "%"
		query = query.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"director_id": pattern},
		})
	}

	selected, err := xpgx.Selectx[domain.Director](ctx, s.pool, query)
	if err != nil {
		return nil, fmt.Errorf("list directors: %w", err)
	}

	return selected, nil
}
