package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/compayre/backend/internal/domain"
	"github.com/compayre/backend/internal/domain/dto"
	"github.com/compayre/backend/internal/pkg/store/xpgx"
)

type ListPeerComparisonsOpts struct {
	CompanyID    *string
	PeerPosition *int
}

var peerColumns = []string{
	"id", "company_id", "peer_company_id", "peer_position", "salary_to_median_emp_pay", "created_at", "updated_at",
}

func (s *store) UpsertPeer(ctx context.Context, p *dto.PeerDto) (bool, error) {
	if p.CompanyID == p.PeerCompanyID {
		return false, fmt.Errorf("peer comparison of %s with itself", p.CompanyID)
	}

	query := builder().Insert(tablePeers).
		Columns("company_id", "peer_company_id", "peer_position", "salary_to_median_emp_pay").
		Values(p.CompanyID, p.PeerCompanyID, p.PeerPosition, p.SalaryToMedianEmpPay).
		Suffix(upsertSuffix(s.policy, tablePeers,
			[]string{"company_id", "peer_company_id", "peer_position"},
			[]string{"salary_to_median_emp_pay"},
		))

	var inserted bool
	if err := s.pool.QueryRowx(ctx, query).Scan(&inserted); err != nil {
		return false, fmt.Errorf("upsert peer %s/%s/%d: %w", p.CompanyID, p.PeerCompanyID, p.PeerPosition, err)
	}

	return inserted, nil
}

func (s *store) ListPeerComparisons(ctx context.Context, opts ListPeerComparisonsOpts) ([]*domain.PeerComparison, error) {
	query := builder().Select(peerColumns...).
		From(tablePeers).
		OrderBy("company_id", "peer_position")

	if opts.CompanyID != nil {
		query = query.Where(sq.Eq{"company_id": *opts.CompanyID})
	}
	if opts.PeerPosition != nil {
		query = query.Where(sq.Eq{"peer_position": *opts.PeerPosition})
	}

	selected, err := xpgx.Selectx[domain.PeerComparison](ctx, s.pool, query)
	if err != nil {
		return nil, fmt.Errorf("list peer comparisons: %w", err)
	}

	return selected, nil
}
