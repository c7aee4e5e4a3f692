package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/compayre/backend/internal/domain/dto"
	"github.com/compayre/backend/internal/pkg/store"
)

type rowLoader func(ctx context.Context, gw store.Gateway, r *rowScope, cols *columns, row []string) error

func (k sheetKind) loader() rowLoader {
	switch k {
	case kindConsolidated:
		return loadConsolidatedRow
	case kindCompanies:
		return loadCompanyRow
	case kindDirectors:
		return loadDirectorRow
	case kindRemuneration:
		return loadRemunerationRow
	case kindFinancial:
		return loadFinancialRow
	case kindPeers:
		return loadPeerRow
	default:
		return nil
	}
}

func requireCompany(ctx context.Context, gw store.Gateway, r *rowScope, companyID string) error {
	exists, err := r.companyExists(ctx, gw, companyID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("company %s not found", companyID)
	}
	return nil
}

func loadCompanyRow(ctx context.Context, gw store.Gateway, r *rowScope, cols *columns, row []string) error {
	companyID := normalizeCompanyID(cols.value(row, fCompanyID))
	name := ParseString(cols.value(row, fName))
	if companyID == "" || name == nil {
		return errors.New("missing company_id or name")
	}

	return r.upsertCompany(ctx, gw, &dto.CompanyDto{
		CompanyID: companyID,
		Name:      *name,
		Sector:    ParseString(cols.value(row, fSector)),
		Industry:  ParseString(cols.value(row, fIndustry)),
		Index:     ParseString(cols.value(row, fIndex)),
		Employees: ParseInt(cols.value(row, fEmployees)),
	})
}

func loadDirectorRow(ctx context.Context, gw store.Gateway, r *rowScope, cols *columns, row []string) error {
	directorID := normalizeDirectorID(cols.value(row, fDirectorID))
	name := ParseString(cols.value(row, fName))
	companyID := normalizeCompanyID(cols.value(row, fCompanyID))
	if directorID == "" || name == nil || companyID == "" {
		return errors.New("missing director_id, name or company_id")
	}
	if err := requireCompany(ctx, gw, r, companyID); err != nil {
		return err
	}

	director := readDirector(cols, row)
	director.DirectorID = directorID
	director.CompanyID = companyID
	director.Name = *name

	_, err := r.upsertDirector(ctx, gw, director)
	return err
}

func loadRemunerationRow(ctx context.Context, gw store.Gateway, r *rowScope, cols *columns, row []string) error {
	companyID := normalizeCompanyID(cols.value(row, fCompanyID))
	directorID := normalizeDirectorID(cols.value(row, fDirectorID))
	fy := ParseDate(cols.value(row, fFYEndDate))
	if companyID == "" || directorID == "" || fy == nil {
		return errors.New("missing company_id, director_id or fy_end_date")
	}
	if err := requireCompany(ctx, gw, r, companyID); err != nil {
		return err
	}
	directorRef, err := r.directorRef(ctx, gw, directorID, companyID)
	if err != nil {
		return err
	}

	rem := &dto.RemunerationDto{
		CompanyID:          companyID,
		DirectorRef:        directorRef,
		FYEndDate:          *fy,
		FYLabel:            derefOr(ParseString(cols.value(row, fFYLabel)), FYLabel(fy)),
		RemunerationStatus: ParseString(cols.value(row, fStatus)),
		Comments:           ParseString(cols.value(row, fComments)),
	}
	fillMoney(remunerationMoneyTargets(rem), remunerationMoney, cols, row, sameColumn)

	return r.upsertRemuneration(ctx, gw, rem)
}

func loadFinancialRow(ctx context.Context, gw store.Gateway, r *rowScope, cols *columns, row []string) error {
	companyID := normalizeCompanyID(cols.value(row, fCompanyID))
	fy := ParseDate(cols.value(row, fFYEndDate))
	if companyID == "" || fy == nil {
		return errors.New("missing company_id or fy_end_date")
	}
	if err := requireCompany(ctx, gw, r, companyID); err != nil {
		return err
	}

	fin := &dto.FinancialDto{
		CompanyID: companyID,
		FYEndDate: *fy,
		FYLabel:   derefOr(ParseString(cols.value(row, fFYLabel)), FYLabel(fy)),
		Employees: ParseInt(cols.value(row, fEmployees)),
	}
	fillMoney(financialMoneyTargets(fin), financialMoney, cols, row, sameColumn)

	return r.upsertFinancial(ctx, gw, fin)
}

func loadPeerRow(ctx context.Context, gw store.Gateway, r *rowScope, cols *columns, row []string) error {
	companyID := normalizeCompanyID(cols.value(row, fCompanyID))
	peerID := normalizeCompanyID(cols.value(row, fPeerCompanyID))
	position := ParseInt(cols.value(row, fPeerPosition))
	if companyID == "" || peerID == "" || position == nil {
		return errors.New("missing company_id, peer_company_id or peer_position")
	}
	if *position < 1 || *position > slots {
		return fmt.Errorf("peer position %d out of range 1..%d", *position, slots)
	}
	if companyID == peerID {
		return fmt.Errorf("company %s cannot be its own peer", companyID)
	}
	if err := requireCompany(ctx, gw, r, companyID); err != nil {
		return err
	}
	if err := requireCompany(ctx, gw, r, peerID); err != nil {
		return err
	}

	return r.upsertPeer(ctx, gw, &dto.PeerDto{
		CompanyID:            companyID,
		PeerCompanyID:        peerID,
		PeerPosition:         int(*position),
		SalaryToMedianEmpPay: ParseMoney(cols.value(row, fSalaryToMedian)),
	})
}
