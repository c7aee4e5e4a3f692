package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeaders(t *testing.T) {
	got := NormalizeHeaders([]string{"Year 1", "Year 1 Basic Salary", "Year 1", " Year 1 "})
	assert.Equal(t, []string{"Year 1", "Year 1 Basic Salary", "Year 1__2", "Year 1__3"}, got)
}

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Bonus / Commission":    "bonus_commission",
		"  PF/Retirement ":      "pf_retirement",
		"Promoter/Non-promoter": "promoter_non_promoter",
		"company__id":           "company_id",
		"Ｙｅａｒ　１":                "year_1",
		"Year 1__2":             "year_1_2",
		"Pay (Excl ESOPS)":      "pay_(excl_esops)",
		"Salary to med emp pay": "salary_to_med_emp_pay",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeHeader(in), in)
	}
}

func TestResolveConsolidatedColumns(t *testing.T) {
	headers := NormalizeHeaders([]string{
		"Company Name", "BSE Scrip Code", "Director Name", "DIN",
		"Year 1", "Year 1 Basic Salary", "Year 1 Bonus / Commission", "Year 1", "Year 1 PAT", "Peer 1 Comp",
	})

	cols, err := resolveColumns(headers, consolidatedFields())
	require.NoError(t, err)

	row := []string{"Acme", "500001", "A. Person", "00012345", "40999", "100", "5", "41364", "7", "500002"}
	assert.Equal(t, "40999", cols.value(row, slotRemunerationDate(1)))
	assert.Equal(t, "41364", cols.value(row, slotFinancialDate(1)))
	assert.Equal(t, "5", cols.value(row, slotField(1, "bonus")))
	assert.Equal(t, "7", cols.value(row, slotField(1, "pat")))
	assert.Equal(t, "500002", cols.value(row, peerSlot(1)))

	assert.False(t, cols.has(slotRemunerationDate(2)))
	assert.Nil(t, cols.value(row, slotRemunerationDate(2)))
	// короткая строка: столбец есть, ячейки нет
	assert.Nil(t, cols.value(row[:3], fDirectorID))
}

func TestResolveColumnsMissingRequired(t *testing.T) {
	_, err := resolveColumns([]string{"Company Name", "BSE Scrip Code", "Director Name"}, consolidatedFields())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructural)
	assert.Contains(t, err.Error(), "DIN")
}

func TestResolveEntityColumnsBySpelling(t *testing.T) {
	cols, err := resolveColumns([]string{"BSE Scrip Code", "Company Name", "No. of employees"}, companyFields())
	require.NoError(t, err)

	row := []string{"500001", "Acme", "1,200"}
	assert.Equal(t, "500001", cols.value(row, fCompanyID))
	assert.Equal(t, "Acme", cols.value(row, fName))
	assert.Equal(t, "1,200", cols.value(row, fEmployees))
}

func TestClassifySheet(t *testing.T) {
	cases := map[string]sheetKind{
		"Dir Consol":            kindConsolidated,
		"dir_consol_dataplay":   kindConsolidated,
		"Companies":             kindCompanies,
		"Company Master":        kindCompanies,
		"Directors":             kindDirectors,
		"Director Remuneration": kindRemuneration,
		"Compensation":          kindRemuneration,
		"Financials":            kindFinancial,
		"Peer Comparisons":      kindPeers,
		"Notes":                 kindUnknown,
	}
	for name, want := range cases {
		assert.Equal(t, want, classifySheet(name), name)
	}
}
