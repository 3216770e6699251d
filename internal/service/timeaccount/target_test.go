package timeaccount

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/contract"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTargetMinutes(t *testing.T) {
	until := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	contracts := []contract.Contract{
		{ID: "full", ValidFrom: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), ValidUntil: &until, WeeklyHours: decimal.NewFromInt(35)},
		{ID: "part", ValidFrom: time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), WeeklyHours: decimal.NewFromInt(14)},
	}

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"single week full time", time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), 35 * 60},
		{"across contract change", time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC), time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC), 300 + 120},
		{"before any contract", time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TargetMinutes(contracts, tt.from, tt.to))
		})
	}
}

func TestVacationEntitlement(t *testing.T) {
	until := time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)
	contracts := []contract.Contract{
		{ID: "old", ValidFrom: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), ValidUntil: &until, VacationDaysAnnual: 24},
		{ID: "new", ValidFrom: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), VacationDaysAnnual: 30},
	}

	assert.Equal(t, 24, VacationEntitlement(contracts, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 24, VacationEntitlement(contracts, time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 30, VacationEntitlement(contracts, time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, VacationEntitlement(nil, time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC)))
}
