package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context, start, endExclusive time.Time) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT user_id, employee_code, full_name, employment_status, hire_date, resignation_date
		FROM employees
		WHERE user_id IS NOT NULL
			AND hire_date < $2::date
			AND (resignation_date IS NULL OR resignation_date >= $1::date)
			AND deleted_at IS NULL
		ORDER BY user_id
	`

	rows, err := q.Query(ctx, query, start.Format("2006-01-02"), endExclusive.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(
			&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.EmploymentStatus, &emp.HireDate, &emp.ResignationDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}
