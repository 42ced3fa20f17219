package recurring_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pmcouto/centavo/internal/recurring"
)

func TestRule_OccurrencesDue(t *testing.T) {
	type testCase struct {
		name   string
		mutate func(r *recurring.Rule)
		asOf   time.Time
		want   []time.Time
	}

	tests := []testCase{
		{
			name: "FirstRunStartsAfterStartDate",
			mutate: func(r *recurring.Rule) {
				r.Frequency = recurring.FrequencyDaily
			},
			asOf: date(2024, time.January, 4),
			want: []time.Time{
				date(2024, time.January, 2),
				date(2024, time.January, 3),
				date(2024, time.January, 4),
			},
		},
		{
			name: "WatermarkExcludesGeneratedDates",
			mutate: func(r *recurring.Rule) {
				r.Frequency = recurring.FrequencyDaily
				wm := date(2024, time.January, 4)
				r.LastGeneratedDate = &wm
			},
			asOf: date(2024, time.January, 6),
			want: []time.Time{
				date(2024, time.January, 5),
				date(2024, time.January, 6),
			},
		},
		{
			name: "CatchUpAfterLongGap",
			mutate: func(r *recurring.Rule) {
				r.Frequency = recurring.FrequencyMonthly
				r.DayOfMonth = 31
				wm := date(2024, time.January, 31)
				r.LastGeneratedDate = &wm
			},
			asOf: date(2024, time.May, 10),
			want: []time.Time{
				date(2024, time.February, 29),
				date(2024, time.March, 31),
				date(2024, time.April, 30),
			},
		},
		{
			name: "EndDateCapsTheWindow",
			mutate: func(r *recurring.Rule) {
				r.Frequency = recurring.FrequencyDaily
				end := date(2024, time.January, 3)
				r.EndDate = &end
			},
			asOf: date(2024, time.January, 10),
			want: []time.Time{
				date(2024, time.January, 2),
				date(2024, time.January, 3),
			},
		},
		{
			name: "InactiveRuleProducesNothing",
			mutate: func(r *recurring.Rule) {
				r.Frequency = recurring.FrequencyDaily
				r.IsActive = false
			},
			asOf: date(2024, time.January, 10),
			want: nil,
		},
		{
			name: "NothingDueYet",
			mutate: func(r *recurring.Rule) {
				r.Frequency = recurring.FrequencyMonthly
				r.DayOfMonth = 1
				wm := date(2024, time.February, 1)
				r.LastGeneratedDate = &wm
			},
			asOf: date(2024, time.February, 15),
			want: nil,
		},
		{
			name: "AsOfBeforeStart",
			mutate: func(r *recurring.Rule) {
				r.Frequency = recurring.FrequencyDaily
				r.StartDate = date(2024, time.June, 1)
			},
			asOf: date(2024, time.January, 10),
			want: nil,
		},
		{
			name: "WatermarkAtEndDate",
			mutate: func(r *recurring.Rule) {
				r.Frequency = recurring.FrequencyDaily
				end := date(2024, time.January, 5)
				r.EndDate = &end
				wm := date(2024, time.January, 5)
				r.LastGeneratedDate = &wm
			},
			asOf: date(2024, time.March, 1),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := validRule()
			tt.mutate(&rule)

			got := rule.OccurrencesDue(tt.asOf)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Suspending a rule keeps its watermark, so resuming generates exactly
// the dates missed while it was off, never duplicates.
func TestRule_OccurrencesDue_SuspendAndResume(t *testing.T) {
	rule := validRule()
	rule.Frequency = recurring.FrequencyWeekly
	rule.DayOfWeek = int(time.Wednesday)

	first := rule.OccurrencesDue(date(2024, time.January, 22))
	assert.Equal(t, []time.Time{
		date(2024, time.January, 3),
		date(2024, time.January, 10),
		date(2024, time.January, 17),
	}, first)

	wm := first[len(first)-1]
	rule.LastGeneratedDate = &wm
	rule.IsActive = false

	assert.Nil(t, rule.OccurrencesDue(date(2024, time.February, 22)))

	rule.IsActive = true
	resumed := rule.OccurrencesDue(date(2024, time.February, 8))
	assert.Equal(t, []time.Time{
		date(2024, time.January, 24),
		date(2024, time.January, 31),
		date(2024, time.February, 7),
	}, resumed)
}

// Processing in several small windows must produce the same dates as one
// big catch-up window.
func TestRule_OccurrencesDue_IncrementalMatchesBatch(t *testing.T) {
	batch := validRule()
	batch.Frequency = recurring.FrequencyCustom
	batch.IntervalDays = 5

	wantAll := batch.OccurrencesDue(date(2024, time.March, 1))

	incremental := validRule()
	incremental.Frequency = recurring.FrequencyCustom
	incremental.IntervalDays = 5

	var gotAll []time.Time
	for _, asOf := range []time.Time{
		date(2024, time.January, 20),
		date(2024, time.February, 10),
		date(2024, time.March, 1),
	} {
		dates := incremental.OccurrencesDue(asOf)
		if len(dates) == 0 {
			continue
		}

		gotAll = append(gotAll, dates...)
		wm := dates[len(dates)-1]
		incremental.LastGeneratedDate = &wm
	}

	assert.Equal(t, wantAll, gotAll)
}

func TestRule_Preview(t *testing.T) {
	rule := validRule()
	rule.Frequency = recurring.FrequencyMonthly
	rule.DayOfMonth = 15
	wm := date(2024, time.June, 15)
	rule.LastGeneratedDate = &wm

	// Preview ignores the watermark entirely.
	got := rule.Preview(date(2024, time.January, 1), date(2024, time.March, 31))
	assert.Equal(t, []time.Time{
		date(2024, time.January, 15),
		date(2024, time.February, 15),
		date(2024, time.March, 15),
	}, got)

	// But never reaches before the start date.
	got = rule.Preview(date(2023, time.June, 1), date(2024, time.February, 28))
	assert.Equal(t, []time.Time{
		date(2024, time.January, 15),
		date(2024, time.February, 15),
	}, got)

	rule.IsActive = false
	assert.Nil(t, rule.Preview(date(2024, time.January, 1), date(2024, time.December, 31)))
}
