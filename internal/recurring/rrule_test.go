package recurring_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmcouto/centavo/internal/recurring"
)

func TestRule_RRule(t *testing.T) {
	type testCase struct {
		name         string
		mutate       func(r *recurring.Rule)
		wantContains []string
		wantErr      bool
	}

	tests := []testCase{
		{
			name: "Daily",
			mutate: func(r *recurring.Rule) {
				r.Frequency = recurring.FrequencyDaily
			},
			wantContains: []string{"FREQ=DAILY"},
		},
		{
			name: "WeeklyOnWednesday",
			mutate: func(r *recurring.Rule) {
				r.Frequency = recurring.FrequencyWeekly
				r.DayOfWeek = int(time.Wednesday)
			},
			wantContains: []string{"FREQ=WEEKLY", "BYDAY=WE"},
		},
		{
			name: "MonthlyOnThe31st",
			mutate: func(r *recurring.Rule) {
				r.Frequency = recurring.FrequencyMonthly
				r.DayOfMonth = 31
			},
			wantContains: []string{"FREQ=MONTHLY", "BYMONTHDAY=31"},
		},
		{
			name: "CustomInterval",
			mutate: func(r *recurring.Rule) {
				r.Frequency = recurring.FrequencyCustom
				r.IntervalDays = 14
			},
			wantContains: []string{"FREQ=DAILY", "INTERVAL=14"},
		},
		{
			name: "EndDateBecomesUntil",
			mutate: func(r *recurring.Rule) {
				r.Frequency = recurring.FrequencyDaily
				end := date(2024, time.December, 31)
				r.EndDate = &end
			},
			wantContains: []string{"FREQ=DAILY", "UNTIL=20241231"},
		},
		{
			name: "UnknownFrequency",
			mutate: func(r *recurring.Rule) {
				r.Frequency = "yearly"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := validRule()
			tt.mutate(&rule)

			got, err := rule.RRule()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			for _, want := range tt.wantContains {
				assert.Contains(t, got, want)
			}
		})
	}
}
