package domain

import "time"

type Company struct {
	CompanyID string    `db:"company_id" json:"company_id"`
	Name      string    `db:"name" json:"name"`
	Sector    *string   `db:"sector" json:"sector"`
	Industry  *string   `db:"industry" json:"industry"`
	Index     *string   `db:"index" json:"index"`
	Employees *int64    `db:"employees" json:"employees"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Director привязан к одной компании: один человек в двух компаниях это две записи.
type Director struct {
	ID              int64      `db:"id" json:"id"`
	DirectorID      string     `db:"director_id" json:"director_id"`
	CompanyID       string     `db:"company_id" json:"company_id"`
	Name            string     `db:"name" json:"name"`
	Designation     *string    `db:"designation" json:"designation"`
	Category        *string    `db:"category" json:"category"`
	Qualification   *string    `db:"qualification" json:"qualification"`
	DOB             *time.Time `db:"dob" json:"dob"`
	PromoterStatus  *string    `db:"promoter_status" json:"promoter_status"`
	Gender          *string    `db:"gender" json:"gender"`
	AppointmentDate *time.Time `db:"appointment_date" json:"appointment_date"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

type Remuneration struct {
	ID                 int64     `db:"id" json:"id"`
	CompanyID          string    `db:"company_id" json:"company_id"`
	DirectorRef        int64     `db:"director_id" json:"director"`
	FYEndDate          time.Time `db:"fy_end_date" json:"fy_end_date"`
	FYLabel            string    `db:"fy_label" json:"fy_label"`
	BasicSalary        *float64  `db:"basic_salary" json:"basic_salary"`
	PF                 *float64  `db:"pf" json:"pf"`
	Perqs              *float64  `db:"perqs" json:"perqs"`
	Bonus              *float64  `db:"bonus" json:"bonus"`
	PayExclESOPs       *float64  `db:"pay_excl_esops" json:"pay_excl_esops"`
	ESOPs              *float64  `db:"esops" json:"esops"`
	TotalRemuneration  *float64  `db:"total_remuneration" json:"total_remuneration"`
	OptionsGranted     *float64  `db:"options_granted" json:"options_granted"`
	Discount           *float64  `db:"discount" json:"discount"`
	FairValue          *float64  `db:"fair_value" json:"fair_value"`
	AggregateValue     *float64  `db:"aggregate_value" json:"aggregate_value"`
	RemunerationStatus *string   `db:"remuneration_status" json:"remuneration_status"`
	Comments           *string   `db:"comments" json:"comments"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

type Financial struct {
	ID           int64     `db:"id" json:"id"`
	CompanyID    string    `db:"company_id" json:"company_id"`
	FYEndDate    time.Time `db:"fy_end_date" json:"fy_end_date"`
	FYLabel      string    `db:"fy_label" json:"fy_label"`
	TotalIncome  *float64  `db:"total_income" json:"total_income"`
	PAT          *float64  `db:"pat" json:"pat"`
	ROA          *float64  `db:"roa" json:"roa"`
	EmployeeCost *float64  `db:"employee_cost" json:"employee_cost"`
	MCap         *float64  `db:"mcap" json:"mcap"`
	Employees    *int64    `db:"employees" json:"employees"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type PeerComparison struct {
	ID                   int64     `db:"id" json:"id"`
	CompanyID            string    `db:"company_id" json:"company_id"`
	PeerCompanyID        string    `db:"peer_company_id" json:"peer_company_id"`
	PeerPosition         int       `db:"peer_position" json:"peer_position"`
	SalaryToMedianEmpPay *float64  `db:"salary_to_median_emp_pay" json:"salary_to_median_emp_pay"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
