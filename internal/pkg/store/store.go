package store

import (
	"context"

	"github.com/compayre/backend/internal/domain"
	"github.com/compayre/backend/internal/domain/dto"
	"github.com/compayre/backend/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

// Gateway идемпотентно создаёт или обновляет сущности по натуральным ключам.
type Gateway interface {
	UpsertCompany(ctx context.Context, company *dto.CompanyDto) (created bool, err error)
	UpsertDirector(ctx context.Context, director *dto.DirectorDto) (id int64, created bool, err error)
	UpsertRemuneration(ctx context.Context, remuneration *dto.RemunerationDto) (created bool, err error)
	UpsertFinancial(ctx context.Context, financial *dto.FinancialDto) (created bool, err error)
	UpsertPeer(ctx context.Context, peer *dto.PeerDto) (created bool, err error)

	CompanyExists(ctx context.Context, companyID string) (bool, error)
	// GetDirectorID возвращает суррогатный id или constants.ErrDBNotFound.
	GetDirectorID(ctx context.Context, directorID, companyID string) (int64, error)

	// Savepoint выполняет fn так, что её ошибка откатывает только её записи.
	Savepoint(ctx context.Context, fn func(Gateway) error) error
}

type Transactor interface {
	InTx(ctx context.Context, fn func(Gateway) error) error
}

type Reader interface {
	ListCompanies(ctx context.Context, opts ListCompaniesOpts) ([]*domain.Company, error)
	GetCompany(ctx context.Context, companyID string) (*domain.Company, error)
	ListSectors(ctx context.Context) ([]string, error)
	ListIndustries(ctx context.Context) ([]string, error)
	ListDirectors(ctx context.Context, opts ListDirectorsOpts) ([]*domain.Director, error)
	GetDirector(ctx context.Context, id int64) (*domain.Director, error)
	ListRemunerations(ctx context.Context, opts ListRemunerationsOpts) ([]*domain.Remuneration, error)
	ListFinancials(ctx context.Context, opts ListFinancialsOpts) ([]*domain.Financial, error)
	ListPeerComparisons(ctx context.Context, opts ListPeerComparisonsOpts) ([]*domain.PeerComparison, error)
}

type Store interface {
	Gateway
	Transactor
	Reader
}

type store struct {
	pool   Pool
	policy UpsertPolicy
}

func NewStore(pool Pool, policy UpsertPolicy) Store {
	if policy == "" {
		policy = PolicyFill
	}
	return &store{pool: pool, policy: policy}
}

func (s *store) InTx(ctx context.Context, fn func(Gateway) error) error {
	return s.pool.BeginFunc(ctx, func(p Pool) error {
		return fn(&store{pool: p, policy: s.policy})
	})
}

func (s *store) Savepoint(ctx context.Context, fn func(Gateway) error) error {
	return s.InTx(ctx, fn)
}
