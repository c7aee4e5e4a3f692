package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/compayre/backend/internal/domain/dto"
	"github.com/compayre/backend/internal/pkg/constants"
	"github.com/compayre/backend/internal/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestUpsertCompanyFillPolicy(t *testing.T) {
	ctx := context.Background()
	s := New(store.PolicyFill)

	created, err := s.UpsertCompany(ctx, &dto.CompanyDto{CompanyID: "500001", Name: "Acme", Sector: ptr("Energy")})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.UpsertCompany(ctx, &dto.CompanyDto{CompanyID: "500001", Name: "Acme Ltd", Sector: ptr("Power"), Industry: ptr("Utilities")})
	require.NoError(t, err)
	assert.False(t, created)

	c, err := s.GetCompany(ctx, "500001")
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
	assert.Equal(t, "Energy", *c.Sector)
	assert.Equal(t, "Utilities", *c.Industry)
}

func TestUpsertCompanyOverwritePolicy(t *testing.T) {
	ctx := context.Background()
	s := New(store.PolicyOverwrite)

	_, err := s.UpsertCompany(ctx, &dto.CompanyDto{CompanyID: "500001", Name: "Acme", Sector: ptr("Energy"), Index: ptr("NIFTY")})
	require.NoError(t, err)
	_, err = s.UpsertCompany(ctx, &dto.CompanyDto{CompanyID: "500001", Name: "Acme Ltd", Sector: ptr("Power")})
	require.NoError(t, err)

	c, err := s.GetCompany(ctx, "500001")
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", c.Name)
	assert.Equal(t, "Power", *c.Sector)
	// null не затирает сохранённое значение
	assert.Equal(t, "NIFTY", *c.Index)
}

func TestUpsertDirectorRequiresCompany(t *testing.T) {
	ctx := context.Background()
	s := New(store.PolicyFill)

	_, _, err := s.UpsertDirector(ctx, &dto.DirectorDto{DirectorID: "00012345", CompanyID: "500001", Name: "A. Person"})
	assert.Error(t, err)

	_, err = s.UpsertCompany(ctx, &dto.CompanyDto{CompanyID: "500001", Name: "Acme"})
	require.NoError(t, err)

	id, created, err := s.UpsertDirector(ctx, &dto.DirectorDto{DirectorID: "00012345", CompanyID: "500001", Name: "A. Person"})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := s.UpsertDirector(ctx, &dto.DirectorDto{DirectorID: "00012345", CompanyID: "500001", Name: "A. Person"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, again)

	got, err := s.GetDirectorID(ctx, "00012345", "500001")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = s.GetDirectorID(ctx, "12345", "500001")
	assert.ErrorIs(t, err, constants.ErrDBNotFound)
}

func TestUpsertPeerRejectsSelf(t *testing.T) {
	ctx := context.Background()
	s := New(store.PolicyFill)
	_, err := s.UpsertCompany(ctx, &dto.CompanyDto{CompanyID: "500001", Name: "Acme"})
	require.NoError(t, err)

	_, err = s.UpsertPeer(ctx, &dto.PeerDto{CompanyID: "500001", PeerCompanyID: "500001", PeerPosition: 1})
	assert.Error(t, err)

	_, err = s.UpsertPeer(ctx, &dto.PeerDto{CompanyID: "500001", PeerCompanyID: "500002", PeerPosition: 1})
	assert.Error(t, err)

	_, err = s.UpsertCompany(ctx, &dto.CompanyDto{CompanyID: "500002", Name: "Beta"})
	require.NoError(t, err)
	_, err = s.UpsertPeer(ctx, &dto.PeerDto{CompanyID: "500001", PeerCompanyID: "500002", PeerPosition: 6})
	assert.Error(t, err)

	created, err := s.UpsertPeer(ctx, &dto.PeerDto{CompanyID: "500001", PeerCompanyID: "500002", PeerPosition: 1})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestSavepointRollsBackOnlyItsWrites(t *testing.T) {
	ctx := context.Background()
	s := New(store.PolicyOverwrite)

	err := s.InTx(ctx, func(g store.Gateway) error {
		_, err := g.UpsertCompany(ctx, &dto.CompanyDto{CompanyID: "500001", Name: "Acme"})
		require.NoError(t, err)

		err = g.Savepoint(ctx, func(g store.Gateway) error {
			_, err := g.UpsertCompany(ctx, &dto.CompanyDto{CompanyID: "500002", Name: "Beta"})
			require.NoError(t, err)
			_, err = g.UpsertCompany(ctx, &dto.CompanyDto{CompanyID: "500001", Name: "Renamed"})
			require.NoError(t, err)
			return errors.New("row failed")
		})
		assert.Error(t, err)

		exists, err := g.CompanyExists(ctx, "500002")
		require.NoError(t, err)
		assert.False(t, exists)
		return nil
	})
	require.NoError(t, err)

	c, err := s.GetCompany(ctx, "500001")
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)

	companies, _, _, _, _ := s.Counts()
	assert.Equal(t, 1, companies)
}

func TestInTxRollsBackEverythingOnError(t *testing.T) {
	ctx := context.Background()
	s := New(store.PolicyFill)

	err := s.InTx(ctx, func(g store.Gateway) error {
		_, err := g.UpsertCompany(ctx, &dto.CompanyDto{CompanyID: "500001", Name: "Acme"})
		require.NoError(t, err)
		return errors.New("structural")
	})
	assert.Error(t, err)

	companies, _, _, _, _ := s.Counts()
	assert.Zero(t, companies)
}

func TestListRemunerationsOrderedByFYDesc(t *testing.T) {
	ctx := context.Background()
	s := New(store.PolicyFill)
	_, err := s.UpsertCompany(ctx, &dto.CompanyDto{CompanyID: "500001", Name: "Acme"})
	require.NoError(t, err)
	id, _, err := s.UpsertDirector(ctx, &dto.DirectorDto{DirectorID: "1001", CompanyID: "500001", Name: "A"})
	require.NoError(t, err)

	for _, year := range []int{2011, 2013, 2012} {
		fy := time.Date(year, time.March, 31, 0, 0, 0, 0, time.UTC)
		_, err := s.UpsertRemuneration(ctx, &dto.RemunerationDto{
			CompanyID:   "500001",
			DirectorRef: id,
			FYEndDate:   fy,
			FYLabel:     "FY" + fy.Format("2006"),
			BasicSalary: ptr(100.0),
		})
		require.NoError(t, err)
	}

	// тот же ключ не создаёт вторую запись
	created, err := s.UpsertRemuneration(ctx, &dto.RemunerationDto{
		CompanyID:   "500001",
		DirectorRef: id,
		FYEndDate:   time.Date(2012, time.March, 31, 0, 0, 0, 0, time.UTC),
		FYLabel:     "FY2012",
	})
	require.NoError(t, err)
	assert.False(t, created)

	list, err := s.ListRemunerations(ctx, store.ListRemunerationsOpts{CompanyID: ptr("500001")})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "FY2013", list[0].FYLabel)
	assert.Equal(t, "FY2012", list[1].FYLabel)
	assert.Equal(t, "FY2011", list[2].FYLabel)
	assert.Equal(t, 100.0, *list[1].BasicSalary)
}

func TestListSectorsDistinct(t *testing.T) {
	ctx := context.Background()
	s := New(store.PolicyFill)
	for _, c := range []*dto.CompanyDto{
		{CompanyID: "1", Name: "A", Sector: ptr("Energy")},
		{CompanyID: "2", Name: "B", Sector: ptr("Banking")},
		{CompanyID: "3", Name: "C", Sector: ptr("Energy")},
		{CompanyID: "4", Name: "D"},
	} {
		_, err := s.UpsertCompany(ctx, c)
		require.NoError(t, err)
	}

	sectors, err := s.ListSectors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Banking", "Energy"}, sectors)

	list, err := s.ListCompanies(ctx, store.ListCompaniesOpts{Sector: ptr("Energy")})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
