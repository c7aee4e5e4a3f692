package ingest

import (
	"fmt"
	"strings"
)

// fieldSpec связывает логическое поле с допустимыми написаниями заголовка.
type fieldSpec struct {
	name      string
	spellings []string
	required  bool
}

func field(name string, spellings ...string) fieldSpec {
	return fieldSpec{name: name, spellings: append([]string{name}, spellings...)}
}

func (f fieldSpec) label() string {
	if len(f.spellings) > 1 {
		return f.spellings[1]
	}
	return f.name
}

func requiredField(name string, spellings ...string) fieldSpec {
	f := field(name, spellings...)
	f.required = true
	return f
}

const (
	fCompanyName     = "company_name"
	fCompanyCode     = "company_code"
	fCompanyAltID    = "company_alt_id"
	fCompanyID       = "company_id"
	fName            = "name"
	fSector          = "sector"
	fIndustry        = "industry"
	fIndex           = "index"
	fEmployees       = "employees"
	fDirectorName    = "director_name"
	fDirectorID      = "director_id"
	fDesignation     = "designation"
	fCategory        = "category"
	fQualification   = "qualification"
	fDOB             = "dob"
	fPromoterStatus  = "promoter_status"
	fGender          = "gender"
	fAppointmentDate = "appointment_date"
	fSalaryToMedian  = "salary_to_median_emp_pay"
	fFYEndDate       = "fy_end_date"
	fFYLabel         = "fy_label"
	fPeerCompanyID   = "peer_company_id"
	fPeerPosition    = "peer_position"
	fStatus          = "remuneration_status"
	fComments        = "comments"
)

const slots = 5

// moneyField описывает денежный столбец: логическое имя и подпись в
// сводном листе ("Year N <label>").
type moneyField struct {
	name  string
	label string
}

var remunerationMoney = []moneyField{
	{"basic_salary", "Basic Salary"},
	{"pf", "PF/Retirement"},
	{"perqs", "Perquisites/Allowances"},
	{"bonus", "Bonus / Commission"},
	{"pay_excl_esops", "Pay (Excl ESOPS)"},
	{"esops", "ESOPS"},
	{"total_remuneration", "Total Remuneration"},
	{"options_granted", "Options Granted"},
	{"discount", "Discount"},
	{"fair_value", "Fair Value"},
	{"aggregate_value", "Aggregate Value"},
}

var financialMoney = []moneyField{
	{"total_income", "Total Income"},
	{"pat", "PAT"},
	{"roa", "ROA"},
	{"employee_cost", "Employee Cost"},
	{"mcap", "MCAP"},
}

func slotField(slot int, name string) string {
	return fmt.Sprintf("year_%d_%s", slot, name)
}

func slotRemunerationDate(slot int) string { return fmt.Sprintf("year_%d", slot) }
func slotFinancialDate(slot int) string    { return fmt.Sprintf("year_%d_fin", slot) }
func peerSlot(slot int) string             { return fmt.Sprintf("peer_%d", slot) }

var directorAttributes = []fieldSpec{
	field(fDesignation),
	field(fCategory, "Director Category"),
	field(fQualification),
	field(fDOB, "Date of Birth"),
	field(fPromoterStatus, "Promoter/Non-promoter", "Promoter"),
	field(fGender),
	field(fAppointmentDate, "Appointment Date"),
}

func consolidatedFields() []fieldSpec {
	specs := []fieldSpec{
		requiredField(fCompanyName, "Company Name"),
		requiredField(fCompanyCode, "BSE Scrip Code"),
		field(fCompanyAltID, "Company ID"),
		field(fSector),
		field(fIndustry),
		field(fIndex),
		field(fEmployees, "No of employees", "No. of employees"),
		requiredField(fDirectorName, "Director Name"),
		requiredField(fDirectorID, "DIN"),
		field(fSalaryToMedian, "Salary to med emp pay", "Salary to median emp pay"),
	}
	specs = append(specs, directorAttributes...)

	for slot := 1; slot <= slots; slot++ {
		year := fmt.Sprintf("Year %d", slot)
		specs = append(specs,
			field(slotRemunerationDate(slot), year),
			// второй столбец "Year N" это дата финансового блока
			field(slotFinancialDate(slot), year+"__2"),
			field(slotField(slot, fStatus), year+" Remuneration Status"),
			field(slotField(slot, fComments), year+" Comments"),
		)
		for _, m := range remunerationMoney {
			specs = append(specs, field(slotField(slot, m.name), year+" "+m.label))
		}
		for _, m := range financialMoney {
			specs = append(specs, field(slotField(slot, m.name), year+" "+m.label))
		}
		specs = append(specs, field(peerSlot(slot), fmt.Sprintf("Peer %d Comp", slot)))
	}
	return specs
}

var companyIDSpellings = []string{"Company ID", "BSE Scrip Code", "Company Code"}

func companyFields() []fieldSpec {
	return []fieldSpec{
		requiredField(fCompanyID, companyIDSpellings...),
		requiredField(fName, "Company Name"),
		field(fSector),
		field(fIndustry),
		field(fIndex),
		field(fEmployees, "No of employees", "No. of employees"),
	}
}

func directorFields() []fieldSpec {
	specs := []fieldSpec{
		requiredField(fDirectorID, "DIN", "Director ID"),
		requiredField(fName, "Director Name"),
		requiredField(fCompanyID, companyIDSpellings...),
	}
	return append(specs, directorAttributes...)
}

func remunerationFields() []fieldSpec {
	specs := []fieldSpec{
		requiredField(fCompanyID, companyIDSpellings...),
		requiredField(fDirectorID, "DIN", "Director ID"),
		requiredField(fFYEndDate, "FY End Date", "Year End"),
		field(fFYLabel, "FY Label", "FY"),
		field(fStatus, "Remuneration Status", "Status"),
		field(fComments),
	}
	for _, m := range remunerationMoney {
		specs = append(specs, field(m.name, m.label))
	}
	return specs
}

func financialFields() []fieldSpec {
	specs := []fieldSpec{
		requiredField(fCompanyID, companyIDSpellings...),
		requiredField(fFYEndDate, "FY End Date", "Year End"),
		field(fFYLabel, "FY Label", "FY"),
		field(fEmployees, "No of employees", "No. of employees"),
	}
	for _, m := range financialMoney {
		specs = append(specs, field(m.name, m.label))
	}
	return specs
}

func peerFields() []fieldSpec {
	return []fieldSpec{
		requiredField(fCompanyID, companyIDSpellings...),
		requiredField(fPeerCompanyID, "Peer Company ID", "Peer Company"),
		requiredField(fPeerPosition, "Peer Position", "Position"),
		field(fSalaryToMedian, "Salary to med emp pay", "Salary to median emp pay"),
	}
}

// columns это результат разрешения полей листа в индексы столбцов.
type columns struct {
	index map[string]int
}

// resolveColumns выполняется один раз на лист. Отсутствие обязательных
// столбцов это структурная ошибка.
func resolveColumns(headers []string, specs []fieldSpec) (*columns, error) {
	byHeader := make(map[string]int, len(headers))
	for i, h := range headers {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		if _, ok := byHeader[key]; !ok {
			byHeader[key] = i
		}
	}

	cols := &columns{index: make(map[string]int, len(specs))}
	var missing []string
	for _, spec := range specs {
		found := false
		for _, spelling := range spec.spellings {
			if i, ok := byHeader[normalizeHeader(spelling)]; ok {
				cols.index[spec.name] = i
				found = true
				break
			}
		}
		if !found && spec.required {
			// в сообщении показываем человеческое написание
			missing = append(missing, spec.label())
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", ErrStructural, strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c *columns) has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// value возвращает nil, если столбца нет или строка короче.
func (c *columns) value(row []string, name string) any {
	i, ok := c.index[name]
	if !ok || i >= len(row) {
		return nil
	}
	return row[i]
}
