package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/compayre/backend/internal/pkg/constants"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictSetFillKeepsExisting(t *testing.T) {
	got := conflictSet(PolicyFill, tableCompanies, "sector", `"index"`)
	assert.Equal(t,
		`sector = coalesce(companies.sector, excluded.sector), "index" = coalesce(companies."index", excluded."index"), updated_at = now()`,
		got,
	)
}

func TestConflictSetOverwritePrefersIncoming(t *testing.T) {
	got := conflictSet(PolicyOverwrite, tablePeers, "salary_to_median_emp_pay")
	assert.Equal(t,
		"salary_to_median_emp_pay = coalesce(excluded.salary_to_median_emp_pay, peer_comparisons.salary_to_median_emp_pay), updated_at = now()",
		got,
	)
}

func TestUpsertSuffixReturnsInsertedFlag(t *testing.T) {
	got := upsertSuffix(PolicyFill, tableDirectors, []string{"director_id", "company_id"}, []string{"name"}, "id")
	assert.Equal(t,
		"on conflict (director_id, company_id) do update set name = coalesce(directors.name, excluded.name), updated_at = now() returning id, (xmax = 0) as inserted",
		got,
	)
}

func TestCompanyUpsertSQL(t *testing.T) {
	query := builder().Insert(tableCompanies).
		Columns("company_id", "name").
		Values("500001", "Acme").
		Suffix(upsertSuffix(PolicyFill, tableCompanies, []string{"company_id"}, []string{"name"}))

	sql, args, err := query.ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO companies (company_id,name) VALUES ($1,$2) on conflict (company_id) do update set name = coalesce(companies.name, excluded.name), updated_at = now() returning (xmax = 0) as inserted",
		sql,
	)
	assert.Equal(t, []any{"500001", "Acme"}, args)
}

func TestParseUpsertPolicy(t *testing.T) {
	for in, want := range map[string]UpsertPolicy{
		"":            PolicyFill,
		"fill":        PolicyFill,
		" Overwrite ": PolicyOverwrite,
	} {
		got, err := ParseUpsertPolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseUpsertPolicy("merge")
	assert.Error(t, err)
}

func TestWrapErr(t *testing.T) {
	err := wrapErr(fmt.Errorf("select: %w", pgx.ErrNoRows))
	assert.ErrorIs(t, err, constants.ErrDBNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, wrapErr(other))
}

func TestMigrationsEmbedded(t *testing.T) {
	body, err := migrationsFS.ReadFile("migrations/0001_governance.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "unique (company_id, director_id, fy_end_date)")
	assert.Contains(t, string(body), "check (company_id <> peer_company_id)")
}
