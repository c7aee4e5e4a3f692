package governance

import (
	"context"
	"fmt"

	"github.com/compayre/backend/internal/domain"
	"github.com/compayre/backend/internal/pkg/store"
)

// Service отдаёт загруженные данные на чтение.
type Service struct {
	store store.Reader
}

func NewService(store store.Reader) *Service {
	return &Service{store: store}
}

func (s *Service) ListCompanies(ctx context.Context, opts store.ListCompaniesOpts) ([]*domain.Company, error) {
	companies, err := s.store.ListCompanies(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListCompanies: %w", err)
	}
	return companies, nil
}

func (s *Service) GetCompany(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.store.GetCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("store.GetCompany, company_id-%s: %w", companyID, err)
	}
	return company, nil
}

func (s *Service) ListSectors(ctx context.Context) ([]string, error) {
	sectors, err := s.store.ListSectors(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListSectors: %w", err)
	}
	return sectors, nil
}

func (s *Service) ListIndustries(ctx context.Context) ([]string, error) {
	industries, err := s.store.ListIndustries(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListIndustries: %w", err)
	}
	return industries, nil
}

func (s *Service) ListDirectors(ctx context.Context, opts store.ListDirectorsOpts) ([]*domain.Director, error) {
	directors, err := s.store.ListDirectors(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListDirectors: %w", err)
	}
	return directors, nil
}

func (s *Service) GetDirector(ctx context.Context, id int64) (*domain.Director, error) {
	director, err := s.store.GetDirector(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store.GetDirector, id-%d: %w", id, err)
	}
	return director, nil
}

// ListRemunerations отдаёт записи от нового финансового года к старому.
func (s *Service) ListRemunerations(ctx context.Context, opts store.ListRemunerationsOpts) ([]*domain.Remuneration, error) {
	remunerations, err := s.store.ListRemunerations(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListRemunerations: %w", err)
	}
	return remunerations, nil
}

func (s *Service) ListFinancials(ctx context.Context, opts store.ListFinancialsOpts) ([]*domain.Financial, error) {
	financials, err := s.store.ListFinancials(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListFinancials: %w", err)
	}
	return financials, nil
}

func (s *Service) ListPeerComparisons(ctx context.Context, opts store.ListPeerComparisonsOpts) ([]*domain.PeerComparison, error) {
	peers, err := s.store.ListPeerComparisons(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListPeerComparisons: %w", err)
	}
	return peers, nil
}
