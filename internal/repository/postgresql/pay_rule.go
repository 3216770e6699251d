package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/payrule"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/pkg/database"
)

type payRuleRepositoryImpl struct {
	db *database.DB
}

func NewPayRuleRepository(db *database.DB) payrule.PayRuleRepository {
	return &payRuleRepositoryImpl{db: db}
}

// ListPayRules implements payrule.PayRuleRepository.
func (r *payRuleRepositoryImpl) ListPayRules(ctx context.Context, userID *string) ([]payrule.PayRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, window_start_min, window_end_min, days_of_week,
			holiday_only, exclude_holidays, valid_from, valid_until, percent
		FROM pay_rules
		WHERE ($1::text IS NULL OR user_id IS NULL OR user_id::text = $1)
			AND deleted_at IS NULL
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay rules: %w", err)
	}
	defer rows.Close()

	var rules []payrule.PayRule
	for rows.Next() {
		var (
			rule payrule.PayRule
			days []int32
		)
		if err := rows.Scan(
			&rule.ID, &rule.UserID, &rule.WindowStartMin, &rule.WindowEndMin, &days,
			&rule.HolidayOnly, &rule.ExcludeHolidays, &rule.ValidFrom, &rule.ValidUntil, &rule.Percent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pay rule: %w", err)
		}
		rule.DaysOfWeek = make([]int, len(days))
		for i, d := range days {
			rule.DaysOfWeek[i] = int(d)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pay rules: %w", err)
	}

	return rules, nil
}
