package ingest

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

type sheetKind int

const (
	kindUnknown sheetKind = iota
	kindConsolidated
	kindCompanies
	kindDirectors
	kindRemuneration
	kindFinancial
	kindPeers
)

func (k sheetKind) String() string {
	switch k {
	case kindConsolidated:
		return "consolidated"
	case kindCompanies:
		return "companies"
	case kindDirectors:
		return "directors"
	case kindRemuneration:
		return "remuneration"
	case kindFinancial:
		return "financial"
	case kindPeers:
		return "peers"
	default:
		return "unknown"
	}
}

func (k sheetKind) fields() []fieldSpec {
	switch k {
	case kindConsolidated:
		return consolidatedFields()
	case kindCompanies:
		return companyFields()
	case kindDirectors:
		return directorFields()
	case kindRemuneration:
		return remunerationFields()
	case kindFinancial:
		return financialFields()
	case kindPeers:
		return peerFields()
	default:
		return nil
	}
}

// classifySheet определяет тип листа по подстроке имени ("compan" ловит и
// "Company", и "Companies"). Порядок проверок важен: "Director
// Remuneration" это вознаграждения, а не директора.
func classifySheet(name string) sheetKind {
	s := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.Contains(s, "dir consol"), strings.Contains(s, "dir_consol"):
		return kindConsolidated
	case strings.Contains(s, "compan") && !strings.Contains(s, "director"):
		return kindCompanies
	case strings.Contains(s, "director") && !strings.Contains(s, "remuneration"):
		return kindDirectors
	case strings.Contains(s, "remuneration"), strings.Contains(s, "compensation"):
		return kindRemuneration
	case strings.Contains(s, "financial"), strings.Contains(s, "finance"):
		return kindFinancial
	case strings.Contains(s, "peer"):
		return kindPeers
	default:
		return kindUnknown
	}
}

// sheet это прочитанный и проверенный лист, готовый к загрузке.
type sheet struct {
	name    string
	kind    sheetKind
	headers []string
	rows    [][]string
	cols    *columns
}

// workbook читает листы целиком: даты отдаются серийными числами,
// остальное как есть.
type workbook struct {
	f *excelize.File
}

func openWorkbook(path string) (*workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook %s: %v", ErrStructural, path, err)
	}
	return &workbook{f: f}, nil
}

func (w *workbook) Close() error {
	return w.f.Close()
}

func (w *workbook) sheetNames() []string {
	return w.f.GetSheetList()
}

func (w *workbook) hasSheet(name string) bool {
	for _, s := range w.f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

// load читает лист и разрешает столбцы. Пустой лист возвращает nil без ошибки.
func (w *workbook) load(name string, kind sheetKind) (*sheet, error) {
	rows, err := w.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrStructural, name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := NormalizeHeaders(rows[0])
	cols, err := resolveColumns(headers, kind.fields())
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", name, err)
	}

	return &sheet{
		name:    name,
		kind:    kind,
		headers: headers,
		rows:    rows[1:],
		cols:    cols,
	}, nil
}

// rowNumber переводит индекс строки данных в номер строки листа.
func rowNumber(i int) int {
	return i + 2
}
