package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/compayre/backend/internal/domain/dto"
	"github.com/compayre/backend/internal/pkg/constants"
	"github.com/compayre/backend/internal/pkg/logger"
	"github.com/compayre/backend/internal/pkg/store"
)

type directorKey struct {
	directorID string
	companyID  string
}

// runState живёт один прогон: известные компании и id директоров.
type runState struct {
	companies map[string]struct{}
	directors map[directorKey]int64
}

func newRunState() *runState {
	return &runState{
		companies: make(map[string]struct{}),
		directors: make(map[directorKey]int64),
	}
}

func (st *runState) newRow(row int) *rowScope {
	return &rowScope{
		state:     st,
		row:       row,
		companies: make(map[string]struct{}),
		directors: make(map[directorKey]int64),
	}
}

type deferredPeer struct {
	row   int
	peer  dto.PeerDto
	stats *SheetStats
}

// rowScope копит результат одной строки. В runState и статистику листа он
// попадает только после успешного savepoint, иначе откаченные записи
// остались бы в кэше.
type rowScope struct {
	state     *runState
	row       int
	counts    Counts
	companies map[string]struct{}
	directors map[directorKey]int64
	deferred  []deferredPeer
}

func (r *rowScope) commit(stats *SheetStats) []deferredPeer {
	for id := range r.companies {
		r.state.companies[id] = struct{}{}
	}
	for k, id := range r.directors {
		r.state.directors[k] = id
	}
	stats.Counts.add(r.counts)
	for i := range r.deferred {
		r.deferred[i].stats = stats
	}
	return r.deferred
}

func (r *rowScope) upsertCompany(ctx context.Context, gw store.Gateway, c *dto.CompanyDto) error {
	created, err := gw.UpsertCompany(ctx, c)
	if err != nil {
		return err
	}
	r.counts.Companies.count(created)
	r.companies[c.CompanyID] = struct{}{}
	return nil
}

func (r *rowScope) upsertDirector(ctx context.Context, gw store.Gateway, d *dto.DirectorDto) (int64, error) {
	id, created, err := gw.UpsertDirector(ctx, d)
	if err != nil {
		return 0, err
	}
	r.counts.Directors.count(created)
	r.directors[directorKey{directorID: d.DirectorID, companyID: d.CompanyID}] = id
	return id, nil
}

func (r *rowScope) upsertRemuneration(ctx context.Context, gw store.Gateway, rem *dto.RemunerationDto) error {
	created, err := gw.UpsertRemuneration(ctx, rem)
	if err != nil {
		return err
	}
	r.counts.Remunerations.count(created)
	return nil
}

func (r *rowScope) upsertFinancial(ctx context.Context, gw store.Gateway, f *dto.FinancialDto) error {
	created, err := gw.UpsertFinancial(ctx, f)
	if err != nil {
		return err
	}
	r.counts.Financials.count(created)
	return nil
}

func (r *rowScope) upsertPeer(ctx context.Context, gw store.Gateway, p *dto.PeerDto) error {
	created, err := gw.UpsertPeer(ctx, p)
	if err != nil {
		return err
	}
	r.counts.Peers.count(created)
	return nil
}

func (r *rowScope) companyExists(ctx context.Context, gw store.Gateway, companyID string) (bool, error) {
	if _, ok := r.state.companies[companyID]; ok {
		return true, nil
	}
	if _, ok := r.companies[companyID]; ok {
		return true, nil
	}

	exists, err := gw.CompanyExists(ctx, companyID)
	if err != nil {
		return false, err
	}
	if exists {
		r.companies[companyID] = struct{}{}
	}
	return exists, nil
}

func (r *rowScope) directorRef(ctx context.Context, gw store.Gateway, directorID, companyID string) (int64, error) {
	key := directorKey{directorID: directorID, companyID: companyID}
	if id, ok := r.state.directors[key]; ok {
		return id, nil
	}
	if id, ok := r.directors[key]; ok {
		return id, nil
	}

	id, err := gw.GetDirectorID(ctx, directorID, companyID)
	if errors.Is(err, constants.ErrDBNotFound) {
		return 0, fmt.Errorf("director %s of company %s not found", directorID, companyID)
	}
	if err != nil {
		return 0, err
	}
	r.directors[key] = id
	return id, nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// syntheticDirectorID строит ключ директора без читаемого DIN. Два
// однофамильца с одной датой назначения в одной компании сольются.
func syntheticDirectorID(companyID, name string, appointment *time.Time) string {
	date := ""
	if appointment != nil {
		date = appointment.Format(time.DateOnly)
	}
	return companyID + "__" + name + "__" + date
}

func readDirector(cols *columns, row []string) *dto.DirectorDto {
	return &dto.DirectorDto{
		Designation:     ParseString(cols.value(row, fDesignation)),
		Category:        ParseString(cols.value(row, fCategory)),
		Qualification:   ParseString(cols.value(row, fQualification)),
		DOB:             ParseDate(cols.value(row, fDOB)),
		PromoterStatus:  ParseString(cols.value(row, fPromoterStatus)),
		Gender:          ParseString(cols.value(row, fGender)),
		AppointmentDate: ParseDate(cols.value(row, fAppointmentDate)),
	}
}

func remunerationMoneyTargets(r *dto.RemunerationDto) map[string]**float64 {
	return map[string]**float64{
		"basic_salary":       &r.BasicSalary,
		"pf":                 &r.PF,
		"perqs":              &r.Perqs,
		"bonus":              &r.Bonus,
		"pay_excl_esops":     &r.PayExclESOPs,
		"esops":              &r.ESOPs,
		"total_remuneration": &r.TotalRemuneration,
		"options_granted":    &r.OptionsGranted,
		"discount":           &r.Discount,
		"fair_value":         &r.FairValue,
		"aggregate_value":    &r.AggregateValue,
	}
}

func financialMoneyTargets(f *dto.FinancialDto) map[string]**float64 {
	return map[string]**float64{
		"total_income":  &f.TotalIncome,
		"pat":           &f.PAT,
		"roa":           &f.ROA,
		"employee_cost": &f.EmployeeCost,
		"mcap":          &f.MCap,
	}
}

// fillMoney читает денежные поля; column переводит логическое имя в имя
// поля листа (для сводного листа это "year_N_<name>").
func fillMoney(targets map[string]**float64, fields []moneyField, cols *columns, row []string, column func(string) string) {
	for _, m := range fields {
		*targets[m.name] = ParseMoney(cols.value(row, column(m.name)))
	}
}

func sameColumn(name string) string { return name }

// loadConsolidatedRow разбирает строку сводного листа: компания, директор,
// до пяти лет вознаграждений и финансов, до пяти пиров.
func loadConsolidatedRow(ctx context.Context, gw store.Gateway, r *rowScope, cols *columns, row []string) error {
	companyName := ParseString(cols.value(row, fCompanyName))
	companyID := normalizeCompanyID(cols.value(row, fCompanyCode))
	if companyID == "" {
		companyID = normalizeCompanyID(cols.value(row, fCompanyAltID))
	}
	if companyID == "" {
		companyID = derefOr(companyName, "")
	}
	if companyID == "" {
		return errors.New("no company code, id or name")
	}

	employees := ParseInt(cols.value(row, fEmployees))
	err := r.upsertCompany(ctx, gw, &dto.CompanyDto{
		CompanyID: companyID,
		Name:      derefOr(companyName, companyID),
		Sector:    ParseString(cols.value(row, fSector)),
		Industry:  ParseString(cols.value(row, fIndustry)),
		Index:     ParseString(cols.value(row, fIndex)),
		Employees: employees,
	})
	if err != nil {
		return err
	}

	director := readDirector(cols, row)
	director.CompanyID = companyID
	directorName := ParseString(cols.value(row, fDirectorName))
	director.DirectorID = normalizeDirectorID(cols.value(row, fDirectorID))
	if director.DirectorID == "" {
		if directorName == nil {
			return fmt.Errorf("company %s: director has neither DIN nor name", companyID)
		}
		director.DirectorID = syntheticDirectorID(companyID, *directorName, director.AppointmentDate)
	}
	director.Name = derefOr(directorName, director.DirectorID)

	directorRef, err := r.upsertDirector(ctx, gw, director)
	if err != nil {
		return err
	}

	for slot := 1; slot <= slots; slot++ {
		column := func(name string) string { return slotField(slot, name) }

		if fy := ParseDate(cols.value(row, slotRemunerationDate(slot))); fy != nil {
			rem := &dto.RemunerationDto{
				CompanyID:          companyID,
				DirectorRef:        directorRef,
				FYEndDate:          *fy,
				FYLabel:            FYLabel(fy),
				RemunerationStatus: ParseString(cols.value(row, slotField(slot, fStatus))),
				Comments:           ParseString(cols.value(row, slotField(slot, fComments))),
			}
			fillMoney(remunerationMoneyTargets(rem), remunerationMoney, cols, row, column)
			if err := r.upsertRemuneration(ctx, gw, rem); err != nil {
				return fmt.Errorf("year %d remuneration: %w", slot, err)
			}
		}

		// дата финансового блока не зависит от даты вознаграждений
		if fy := ParseDate(cols.value(row, slotFinancialDate(slot))); fy != nil {
			fin := &dto.FinancialDto{
				CompanyID: companyID,
				FYEndDate: *fy,
				FYLabel:   FYLabel(fy),
				// в листе одна численность на строку, она пишется во все годы
				Employees: employees,
			}
			fillMoney(financialMoneyTargets(fin), financialMoney, cols, row, column)
			if err := r.upsertFinancial(ctx, gw, fin); err != nil {
				return fmt.Errorf("year %d financials: %w", slot, err)
			}
		}
	}

	ratio := ParseMoney(cols.value(row, fSalaryToMedian))
	for slot := 1; slot <= slots; slot++ {
		peerID := normalizeCompanyID(cols.value(row, peerSlot(slot)))
		if peerID == "" {
			continue
		}
		if peerID == companyID {
			logger.Debugf(ctx, "row %d: company %s listed as its own peer %d, ignored", r.row, companyID, slot)
			continue
		}

		peer := dto.PeerDto{
			CompanyID:            companyID,
			PeerCompanyID:        peerID,
			PeerPosition:         slot,
			SalaryToMedianEmpPay: ratio,
		}
		known, err := r.companyExists(ctx, gw, peerID)
		if err != nil {
			return err
		}
		if !known {
			r.deferred = append(r.deferred, deferredPeer{row: r.row, peer: peer})
			continue
		}
		if err := r.upsertPeer(ctx, gw, &peer); err != nil {
			return fmt.Errorf("peer %d: %w", slot, err)
		}
	}

	return nil
}
