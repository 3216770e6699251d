package employee

import "time"

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusInactive EmploymentStatus = "inactive"
	EmploymentStatusResigned EmploymentStatus = "resigned"
)

// Employee is the payroll-relevant projection of an employee record.
// ID is the user id referenced by shifts, contracts and pay rules.
type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	EmploymentStatus EmploymentStatus
	HireDate         time.Time
	ResignationDate  *time.Time
}
