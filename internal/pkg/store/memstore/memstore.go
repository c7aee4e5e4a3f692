// Package memstore держит все сущности в памяти. Семантика апсертов,
// ключей и ограничений целостности такая же, как у Postgres-хранилища
// (длины строк не проверяются); используется для пробного прогона
// (--dry-run) и в тестах.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/compayre/backend/internal/domain"
	"github.com/compayre/backend/internal/domain/dto"
	"github.com/compayre/backend/internal/pkg/constants"
	"github.com/compayre/backend/internal/pkg/store"
)

type directorKey struct {
	directorID string
	companyID  string
}

type remunerationKey struct {
	companyID   string
	directorRef int64
	fyEndDate   time.Time
}

type financialKey struct {
	companyID string
	fyEndDate time.Time
}

type peerKey struct {
	companyID     string
	peerCompanyID string
	position      int
}

type Store struct {
	mx     sync.Mutex
	policy store.UpsertPolicy
	now    func() time.Time

	companies     map[string]*domain.Company
	directors     map[directorKey]*domain.Director
	directorsByID map[int64]*domain.Director
	remunerations map[remunerationKey]*domain.Remuneration
	financials    map[financialKey]*domain.Financial
	peers         map[peerKey]*domain.PeerComparison
	nextID        int64

	// undo: журнал отката для текущей транзакции и её savepoint'ов.
	undo []func()
}

var _ store.Store = (*Store)(nil)

func New(policy store.UpsertPolicy) *Store {
	if policy == "" {
		policy = store.PolicyFill
	}
	return &Store{
		policy:        policy,
		now:           time.Now,
		companies:     make(map[string]*domain.Company),
		directors:     make(map[directorKey]*domain.Director),
		directorsByID: make(map[int64]*domain.Director),
		remunerations: make(map[remunerationKey]*domain.Remuneration),
		financials:    make(map[financialKey]*domain.Financial),
		peers:         make(map[peerKey]*domain.PeerComparison),
	}
}

// tx это Gateway внутри InTx: блокировка уже взята.
type tx struct {
	s *Store
}

func (s *Store) InTx(ctx context.Context, fn func(store.Gateway) error) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	mark := len(s.undo)
	if err := fn(&tx{s: s}); err != nil {
		s.rollbackTo(mark)
		return err
	}
	s.undo = s.undo[:mark]
	return nil
}

func (s *Store) Savepoint(ctx context.Context, fn func(store.Gateway) error) error {
	return s.InTx(ctx, fn)
}

func (t *tx) Savepoint(_ context.Context, fn func(store.Gateway) error) error {
	mark := len(t.s.undo)
	if err := fn(t); err != nil {
		t.s.rollbackTo(mark)
		return err
	}
	return nil
}

func (s *Store) rollbackTo(mark int) {
	for i := len(s.undo) - 1; i >= mark; i-- {
		s.undo[i]()
	}
	s.undo = s.undo[:mark]
}

func (s *Store) record(undo func()) {
	s.undo = append(s.undo, undo)
}

// autocommit выполняет одиночную операцию вне явной транзакции.
func (s *Store) autocommit(fn func(t *tx) error) error {
	return s.InTx(context.Background(), func(store.Gateway) error {
		return fn(&tx{s: s})
	})
}

func merge[T any](policy store.UpsertPolicy, existing, incoming *T) *T {
	if policy == store.PolicyOverwrite {
		if incoming != nil {
			return incoming
		}
		return existing
	}
	if existing != nil {
		return existing
	}
	return incoming
}

func mergeString(policy store.UpsertPolicy, existing, incoming string) string {
	if policy == store.PolicyOverwrite && incoming != "" {
		return incoming
	}
	if existing == "" {
		return incoming
	}
	return existing
}

func (t *tx) UpsertCompany(_ context.Context, c *dto.CompanyDto) (bool, error) {
	s := t.s
	if c.CompanyID == "" {
		return false, fmt.Errorf("upsert company: empty company_id")
	}

	now := s.now()
	if existing, ok := s.companies[c.CompanyID]; ok {
		old := *existing
		s.record(func() { *existing = old })

		existing.Name = mergeString(s.policy, existing.Name, c.Name)
		existing.Sector = merge(s.policy, existing.Sector, c.Sector)
		existing.Industry = merge(s.policy, existing.Industry, c.Industry)
		existing.Index = merge(s.policy, existing.Index, c.Index)
		existing.Employees = merge(s.policy, existing.Employees, c.Employees)
		existing.UpdatedAt = now
		return false, nil
	}

	s.companies[c.CompanyID] = &domain.Company{
		CompanyID: c.CompanyID,
		Name:      c.Name,
		Sector:    c.Sector,
		Industry:  c.Industry,
		Index:     c.Index,
		Employees: c.Employees,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.record(func() { delete(s.companies, c.CompanyID) })
	return true, nil
}

func (t *tx) UpsertDirector(_ context.Context, d *dto.DirectorDto) (int64, bool, error) {
	s := t.s
	if _, ok := s.companies[d.CompanyID]; !ok {
		return 0, false, fmt.Errorf("upsert director %s: company %s does not exist", d.DirectorID, d.CompanyID)
	}

	now := s.now()
	key := directorKey{directorID: d.DirectorID, companyID: d.CompanyID}
	if existing, ok := s.directors[key]; ok {
		old := *existing
		s.record(func() { *existing = old })

		existing.Name = mergeString(s.policy, existing.Name, d.Name)
		existing.Designation = merge(s.policy, existing.Designation, d.Designation)
		existing.Category = merge(s.policy, existing.Category, d.Category)
		existing.Qualification = merge(s.policy, existing.Qualification, d.Qualification)
		existing.DOB = merge(s.policy, existing.DOB, d.DOB)
		existing.PromoterStatus = merge(s.policy, existing.PromoterStatus, d.PromoterStatus)
		existing.Gender = merge(s.policy, existing.Gender, d.Gender)
		existing.AppointmentDate = merge(s.policy, existing.AppointmentDate, d.AppointmentDate)
		existing.UpdatedAt = now
		return existing.ID, false, nil
	}

	s.nextID++
	director := &domain.Director{
		ID:              s.nextID,
		DirectorID:      d.DirectorID,
		CompanyID:       d.CompanyID,
		Name:            d.Name,
		Designation:     d.Designation,
		Category:        d.Category,
		Qualification:   d.Qualification,
		DOB:             d.DOB,
		PromoterStatus:  d.PromoterStatus,
		Gender:          d.Gender,
		AppointmentDate: d.AppointmentDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.directors[key] = director
	s.directorsByID[director.ID] = director
	s.record(func() {
		delete(s.directors, key)
		delete(s.directorsByID, director.ID)
	})
	return director.ID, true, nil
}

func (t *tx) UpsertRemuneration(_ context.Context, r *dto.RemunerationDto) (bool, error) {
	s := t.s
	if _, ok := s.companies[r.CompanyID]; !ok {
		return false, fmt.Errorf("upsert remuneration: company %s does not exist", r.CompanyID)
	}
	if _, ok := s.directorsByID[r.DirectorRef]; !ok {
		return false, fmt.Errorf("upsert remuneration: director %d does not exist", r.DirectorRef)
	}

	now := s.now()
	key := remunerationKey{companyID: r.CompanyID, directorRef: r.DirectorRef, fyEndDate: r.FYEndDate}
	if existing, ok := s.remunerations[key]; ok {
		old := *existing
		s.record(func() { *existing = old })

		p := s.policy
		existing.FYLabel = mergeString(p, existing.FYLabel, r.FYLabel)
		existing.BasicSalary = merge(p, existing.BasicSalary, r.BasicSalary)
		existing.PF = merge(p, existing.PF, r.PF)
		existing.Perqs = merge(p, existing.Perqs, r.Perqs)
		existing.Bonus = merge(p, existing.Bonus, r.Bonus)
		existing.PayExclESOPs = merge(p, existing.PayExclESOPs, r.PayExclESOPs)
		existing.ESOPs = merge(p, existing.ESOPs, r.ESOPs)
		existing.TotalRemuneration = merge(p, existing.TotalRemuneration, r.TotalRemuneration)
		existing.OptionsGranted = merge(p, existing.OptionsGranted, r.OptionsGranted)
		existing.Discount = merge(p, existing.Discount, r.Discount)
		existing.FairValue = merge(p, existing.FairValue, r.FairValue)
		existing.AggregateValue = merge(p, existing.AggregateValue, r.AggregateValue)
		existing.RemunerationStatus = merge(p, existing.RemunerationStatus, r.RemunerationStatus)
		existing.Comments = merge(p, existing.Comments, r.Comments)
		existing.UpdatedAt = now
		return false, nil
	}

	s.nextID++
	s.remunerations[key] = &domain.Remuneration{
		ID:                 s.nextID,
		CompanyID:          r.CompanyID,
		DirectorRef:        r.DirectorRef,
		FYEndDate:          r.FYEndDate,
		FYLabel:            r.FYLabel,
		BasicSalary:        r.BasicSalary,
		PF:                 r.PF,
		Perqs:              r.Perqs,
		Bonus:              r.Bonus,
		PayExclESOPs:       r.PayExclESOPs,
		ESOPs:              r.ESOPs,
		TotalRemuneration:  r.TotalRemuneration,
		OptionsGranted:     r.OptionsGranted,
		Discount:           r.Discount,
		FairValue:          r.FairValue,
		AggregateValue:     r.AggregateValue,
		RemunerationStatus: r.RemunerationStatus,
		Comments:           r.Comments,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	s.record(func() { delete(s.remunerations, key) })
	return true, nil
}

func (t *tx) UpsertFinancial(_ context.Context, f *dto.FinancialDto) (bool, error) {
	s := t.s
	if _, ok := s.companies[f.CompanyID]; !ok {
		return false, fmt.Errorf("upsert financial: company %s does not exist", f.CompanyID)
	}

	now := s.now()
	key := financialKey{companyID: f.CompanyID, fyEndDate: f.FYEndDate}
	if existing, ok := s.financials[key]; ok {
		old := *existing
		s.record(func() { *existing = old })

		p := s.policy
		existing.FYLabel = mergeString(p, existing.FYLabel, f.FYLabel)
		existing.TotalIncome = merge(p, existing.TotalIncome, f.TotalIncome)
		existing.PAT = merge(p, existing.PAT, f.PAT)
		existing.ROA = merge(p, existing.ROA, f.ROA)
		existing.EmployeeCost = merge(p, existing.EmployeeCost, f.EmployeeCost)
		existing.MCap = merge(p, existing.MCap, f.MCap)
		existing.Employees = merge(p, existing.Employees, f.Employees)
		existing.UpdatedAt = now
		return false, nil
	}

	s.nextID++
	s.financials[key] = &domain.Financial{
		ID:           s.nextID,
		CompanyID:    f.CompanyID,
		FYEndDate:    f.FYEndDate,
		FYLabel:      f.FYLabel,
		TotalIncome:  f.TotalIncome,
		PAT:          f.PAT,
		ROA:          f.ROA,
		EmployeeCost: f.EmployeeCost,
		MCap:         f.MCap,
		Employees:    f.Employees,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.record(func() { delete(s.financials, key) })
	return true, nil
}

func (t *tx) UpsertPeer(_ context.Context, p *dto.PeerDto) (bool, error) {
	s := t.s
	if p.CompanyID == p.PeerCompanyID {
		return false, fmt.Errorf("peer comparison of %s with itself", p.CompanyID)
	}
	if p.PeerPosition < 1 || p.PeerPosition > 5 {
		return false, fmt.Errorf("peer position %d out of range 1..5", p.PeerPosition)
	}
	if _, ok := s.companies[p.CompanyID]; !ok {
		return false, fmt.Errorf("upsert peer: company %s does not exist", p.CompanyID)
	}
	if _, ok := s.companies[p.PeerCompanyID]; !ok {
		return false, fmt.Errorf("upsert peer: peer company %s does not exist", p.PeerCompanyID)
	}

	now := s.now()
	key := peerKey{companyID: p.CompanyID, peerCompanyID: p.PeerCompanyID, position: p.PeerPosition}
	if existing, ok := s.peers[key]; ok {
		old := *existing
		s.record(func() { *existing = old })

		existing.SalaryToMedianEmpPay = merge(s.policy, existing.SalaryToMedianEmpPay, p.SalaryToMedianEmpPay)
		existing.UpdatedAt = now
		return false, nil
	}

	s.nextID++
	s.peers[key] = &domain.PeerComparison{
		ID:                   s.nextID,
		CompanyID:            p.CompanyID,
		PeerCompanyID:        p.PeerCompanyID,
		PeerPosition:         p.PeerPosition,
		SalaryToMedianEmpPay: p.SalaryToMedianEmpPay,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	s.record(func() { delete(s.peers, key) })
	return true, nil
}

func (t *tx) CompanyExists(_ context.Context, companyID string) (bool, error) {
	_, ok := t.s.companies[companyID]
	return ok, nil
}

func (t *tx) GetDirectorID(_ context.Context, directorID, companyID string) (int64, error) {
	d, ok := t.s.directors[directorKey{directorID: directorID, companyID: companyID}]
	if !ok {
		return 0, constants.ErrDBNotFound
	}
	return d.ID, nil
}

// Методы Gateway вне транзакции: каждый вызов коммитится сразу.

func (s *Store) UpsertCompany(ctx context.Context, c *dto.CompanyDto) (created bool, err error) {
	err = s.autocommit(func(t *tx) error {
		created, err = t.UpsertCompany(ctx, c)
		return err
	})
	return created, err
}

func (s *Store) UpsertDirector(ctx context.Context, d *dto.DirectorDto) (id int64, created bool, err error) {
	err = s.autocommit(func(t *tx) error {
		id, created, err = t.UpsertDirector(ctx, d)
		return err
	})
	return id, created, err
}

func (s *Store) UpsertRemuneration(ctx context.Context, r *dto.RemunerationDto) (created bool, err error) {
	err = s.autocommit(func(t *tx) error {
		created, err = t.UpsertRemuneration(ctx, r)
		return err
	})
	return created, err
}

func (s *Store) UpsertFinancial(ctx context.Context, f *dto.FinancialDto) (created bool, err error) {
	err = s.autocommit(func(t *tx) error {
		created, err = t.UpsertFinancial(ctx, f)
		return err
	})
	return created, err
}

func (s *Store) UpsertPeer(ctx context.Context, p *dto.PeerDto) (created bool, err error) {
	err = s.autocommit(func(t *tx) error {
		created, err = t.UpsertPeer(ctx, p)
		return err
	})
	return created, err
}

func (s *Store) CompanyExists(ctx context.Context, companyID string) (bool, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	return (&tx{s: s}).CompanyExists(ctx, companyID)
}

func (s *Store) GetDirectorID(ctx context.Context, directorID, companyID string) (int64, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	return (&tx{s: s}).GetDirectorID(ctx, directorID, companyID)
}

// Reader

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func eqPtr(value *string, want *string) bool {
	return want == nil || (value != nil && *value == *want)
}

func (s *Store) ListCompanies(_ context.Context, opts store.ListCompaniesOpts) ([]*domain.Company, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	res := make([]*domain.Company, 0, len(s.companies))
	for _, c := range s.companies {
		if !eqPtr(c.Sector, opts.Sector) || !eqPtr(c.Industry, opts.Industry) || !eqPtr(c.Index, opts.Index) {
			continue
		}
		if opts.Search != nil && !containsFold(c.Name, *opts.Search) && !containsFold(c.CompanyID, *opts.Search) {
			continue
		}
		cp := *c
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Name != res[j].Name {
			return res[i].Name < res[j].Name
		}
		return res[i].CompanyID < res[j].CompanyID
	})
	return res, nil
}

func (s *Store) GetCompany(_ context.Context, companyID string) (*domain.Company, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	c, ok := s.companies[companyID]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) distinct(get func(*domain.Company) *string) []string {
	seen := make(map[string]struct{})
	res := make([]string, 0)
	for _, c := range s.companies {
		v := get(c)
		if v == nil || *v == "" {
			continue
		}
		if _, ok := seen[*v]; ok {
			continue
		}
		seen[*v] = struct{}{}
		res = append(res, *v)
	}
	sort.Strings(res)
	return res
}

func (s *Store) ListSectors(_ context.Context) ([]string, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.distinct(func(c *domain.Company) *string { return c.Sector }), nil
}

func (s *Store) ListIndustries(_ context.Context) ([]string, error) {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.distinct(func(c *domain.Company) *string { return c.Industry }), nil
}

func (s *Store) ListDirectors(_ context.Context, opts store.ListDirectorsOpts) ([]*domain.Director, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	res := make([]*domain.Director, 0, len(s.directors))
	for _, d := range s.directors {
		if opts.CompanyID != nil && d.CompanyID != *opts.CompanyID {
			continue
		}
		if !eqPtr(d.Category, opts.Category) {
			continue
		}
		if opts.Search != nil && !containsFold(d.Name, *opts.Search) && !containsFold(d.DirectorID, *opts.Search) {
			continue
		}
		cp := *d
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Name != res[j].Name {
			return res[i].Name < res[j].Name
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (s *Store) GetDirector(_ context.Context, id int64) (*domain.Director, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	d, ok := s.directorsByID[id]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *Store) ListRemunerations(_ context.Context, opts store.ListRemunerationsOpts) ([]*domain.Remuneration, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	res := make([]*domain.Remuneration, 0, len(s.remunerations))
	for _, r := range s.remunerations {
		if opts.CompanyID != nil && r.CompanyID != *opts.CompanyID {
			continue
		}
		if opts.DirectorRef != nil && r.DirectorRef != *opts.DirectorRef {
			continue
		}
		if opts.FYLabel != nil && r.FYLabel != *opts.FYLabel {
			continue
		}
		cp := *r
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].FYEndDate.Equal(res[j].FYEndDate) {
			return res[i].FYEndDate.After(res[j].FYEndDate)
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (s *Store) ListFinancials(_ context.Context, opts store.ListFinancialsOpts) ([]*domain.Financial, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	res := make([]*domain.Financial, 0, len(s.financials))
	for _, f := range s.financials {
		if opts.CompanyID != nil && f.CompanyID != *opts.CompanyID {
			continue
		}
		if opts.FYLabel != nil && f.FYLabel != *opts.FYLabel {
			continue
		}
		cp := *f
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].FYEndDate.Equal(res[j].FYEndDate) {
			return res[i].FYEndDate.After(res[j].FYEndDate)
		}
		return res[i].CompanyID < res[j].CompanyID
	})
	return res, nil
}

func (s *Store) ListPeerComparisons(_ context.Context, opts store.ListPeerComparisonsOpts) ([]*domain.PeerComparison, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	res := make([]*domain.PeerComparison, 0, len(s.peers))
	for _, p := range s.peers {
		if opts.CompanyID != nil && p.CompanyID != *opts.CompanyID {
			continue
		}
		if opts.PeerPosition != nil && p.PeerPosition != *opts.PeerPosition {
			continue
		}
		cp := *p
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CompanyID != res[j].CompanyID {
			return res[i].CompanyID < res[j].CompanyID
		}
		if res[i].PeerPosition != res[j].PeerPosition {
			return res[i].PeerPosition < res[j].PeerPosition
		}
		return res[i].PeerCompanyID < res[j].PeerCompanyID
	})
	return res, nil
}

// Counts возвращает число записей каждого типа.
func (s *Store) Counts() (companies, directors, remunerations, financials, peers int) {
	s.mx.Lock()
	defer s.mx.Unlock()
	return len(s.companies), len(s.directors), len(s.remunerations), len(s.financials), len(s.peers)
}
