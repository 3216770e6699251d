package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/contract"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type contractRepositoryImpl struct {
	db *database.DB
}

func NewContractRepository(db *database.DB) contract.ContractRepository {
	return &contractRepositoryImpl{db: db}
}

// ListContracts implements contract.ContractRepository.
func (r *contractRepositoryImpl) ListContracts(ctx context.Context, userID string) ([]contract.Contract, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, valid_from, valid_until, salary_monthly_cents, hourly_rate_cents,
			weekly_hours, vacation_days_annual, vacation_bonus, christmas_bonus
		FROM contracts
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY valid_from, id
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts for user %s: %w", userID, err)
	}
	defer rows.Close()

	var contracts []contract.Contract
	for rows.Next() {
		var c contract.Contract
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.ValidFrom, &c.ValidUntil, &c.SalaryMonthlyCents, &c.HourlyRateCents,
			&c.WeeklyHours, &c.VacationDaysAnnual, &c.VacationBonus, &c.ChristmasBonus,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contracts: %w", err)
	}

	return contracts, nil
}

// GetManualAdjustment implements contract.ContractRepository.
func (r *contractRepositoryImpl) GetManualAdjustment(ctx context.Context, userID string, year int) (*contract.ManualAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id, year, hours_adjustment
		FROM manual_adjustments
		WHERE user_id = $1 AND year = $2
	`

	var a contract.ManualAdjustment
	err := q.QueryRow(ctx, query, userID, year).Scan(&a.UserID, &a.Year, &a.HoursAdjustment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get manual adjustment for user %s: %w", userID, err)
	}

	return &a, nil
}
