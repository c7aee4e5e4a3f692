package dto

import "time"

// DTO для апсерта: nil означает "в источнике значения нет".

type CompanyDto struct {
	CompanyID string
	Name      string
	Sector    *string
	Industry  *string
	Index     *string
	Employees *int64
}

type DirectorDto struct {
	DirectorID      string
	CompanyID       string
	Name            string
	Designation     *string
	Category        *string
	Qualification   *string
	DOB             *time.Time
	PromoterStatus  *string
	Gender          *string
	AppointmentDate *time.Time
}

type RemunerationDto struct {
	CompanyID          string
	DirectorRef        int64
	FYEndDate          time.Time
	FYLabel            string
	BasicSalary        *float64
	PF                 *float64
	Perqs              *float64
	Bonus              *float64
	PayExclESOPs       *float64
	ESOPs              *float64
	TotalRemuneration  *float64
	OptionsGranted     *float64
	Discount           *float64
	FairValue          *float64
	AggregateValue     *float64
	RemunerationStatus *string
	Comments           *string
}

type FinancialDto struct {
	CompanyID    string
	FYEndDate    time.Time
	FYLabel      string
	TotalIncome  *float64
	PAT          *float64
	ROA          *float64
	EmployeeCost *float64
	MCap         *float64
	Employees    *int64
}

type PeerDto struct {
	CompanyID            string
	PeerCompanyID        string
	PeerPosition         int
	SalaryToMedianEmpPay *float64
}
