package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-01-01 is a Wednesday
var wednesday = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func TestScheduleDefaultLength(t *testing.T) {
	terms, err := Schedule(wednesday, 0)
	require.NoError(t, err)

	// 7 days from a Wednesday is the next Wednesday: no weekend adjustment
	assert.Equal(t, wednesday.AddDate(0, 0, 7), terms.ReturnDate)
	assert.Equal(t, terms.ReturnDate.AddDate(0, 0, GraceDays), terms.GraceEndDate)
}

func TestScheduleWeekendAdjustment(t *testing.T) {
	tests := []struct {
		name       string
		issue      time.Time
		days       int
		wantReturn time.Time
	}{
		{
			name:       "weekday return untouched",
			issue:      wednesday,
			days:       7,
			wantReturn: wednesday.AddDate(0, 0, 7), // Wednesday
		},
		{
			name:       "saturday pushed to monday",
			issue:      wednesday,
			days:       3, // lands on Saturday 2025-01-04
			wantReturn: wednesday.AddDate(0, 0, 5),
		},
		{
			name:       "sunday pushed to monday",
			issue:      wednesday,
			days:       4, // lands on Sunday 2025-01-05
			wantReturn: wednesday.AddDate(0, 0, 5),
		},
		{
			name:       "max length accepted",
			issue:      wednesday,
			days:       20, // lands on Tuesday 2025-01-21
			wantReturn: wednesday.AddDate(0, 0, 20),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms, err := Schedule(tt.issue, tt.days)
			require.NoError(t, err)
			assert.Equal(t, tt.wantReturn, terms.ReturnDate)
			assert.NotEqual(t, time.Saturday, terms.ReturnDate.Weekday())
			assert.NotEqual(t, time.Sunday, terms.ReturnDate.Weekday())
			// Grace deadline always trails the adjusted return date by GraceDays,
			// even when it lands on a weekend itself.
			assert.Equal(t, tt.wantReturn.AddDate(0, 0, GraceDays), terms.GraceEndDate)
		})
	}
}

func TestScheduleAdjustmentRunsOnce(t *testing.T) {
	// Friday 2025-01-03 + 1 day = Saturday, adjusted +2 = Monday.
	// The adjusted date is a weekday here; the point is that Schedule never
	// loops: the shift is a single fixed bump, not a re-check.
	friday := time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC)
	terms, err := Schedule(friday, 1)
	require.NoError(t, err)
	assert.Equal(t, friday.AddDate(0, 0, 3), terms.ReturnDate) // Monday 2025-01-06
}

func TestScheduleRejectsTooLong(t *testing.T) {
	_, err := Schedule(wednesday, 21)
	require.ErrorIs(t, err, ErrLoanTooLong)

	_, err = Schedule(wednesday, 100)
	require.ErrorIs(t, err, ErrLoanTooLong)
}

func mustSchedule(t *testing.T, issue time.Time, days int) LoanTerms {
	t.Helper()
	terms, err := Schedule(issue, days)
	require.NoError(t, err)
	return terms
}

func TestEvaluateOpenLoan(t *testing.T) {
	terms := mustSchedule(t, wednesday, 7)

	tests := []struct {
		name string
		now  time.Time
		want Evaluation
	}{
		{
			name: "before return date is on track",
			now:  terms.ReturnDate.Add(-time.Hour),
			want: Evaluation{Status: StatusOnTrack},
		},
		{
			name: "return date itself is on track",
			now:  terms.ReturnDate,
			want: Evaluation{Status: StatusOnTrack},
		},
		{
			name: "past return date is in grace",
			now:  terms.ReturnDate.Add(time.Hour),
			want: Evaluation{Status: StatusInGrace},
		},
		{
			name: "grace deadline is inclusive",
			now:  terms.GraceEndDate,
			want: Evaluation{Status: StatusInGrace},
		},
		{
			name: "one day past grace",
			now:  terms.GraceEndDate.AddDate(0, 0, 1),
			want: Evaluation{Status: StatusOverdue, OverdueDays: 1, Penalty: 50},
		},
		{
			name: "partial day past grace floors to zero",
			now:  terms.GraceEndDate.Add(24*time.Hour - time.Millisecond),
			want: Evaluation{Status: StatusOverdue, OverdueDays: 0, Penalty: 0},
		},
		{
			name: "ten days past grace",
			now:  terms.GraceEndDate.AddDate(0, 0, 10),
			want: Evaluation{Status: StatusOverdue, OverdueDays: 10, Penalty: 500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(terms, false, nil, tt.now))
		})
	}
}

func TestEvaluateReturnedLoan(t *testing.T) {
	terms := mustSchedule(t, wednesday, 7)
	now := terms.GraceEndDate.AddDate(0, 0, 30) // evaluation time is irrelevant once returned

	tests := []struct {
		name   string
		actual time.Time
		want   Evaluation
	}{
		{
			name:   "before return date",
			actual: terms.ReturnDate.Add(-time.Hour),
			want:   Evaluation{Status: StatusReturnedOnTime},
		},
		{
			name:   "exactly on return date",
			actual: terms.ReturnDate,
			want:   Evaluation{Status: StatusReturnedOnTime},
		},
		{
			name:   "within grace carries no penalty",
			actual: terms.GraceEndDate.Add(-time.Hour),
			want:   Evaluation{Status: StatusReturnedInGrace},
		},
		{
			name:   "exactly at grace deadline",
			actual: terms.GraceEndDate,
			want:   Evaluation{Status: StatusReturnedInGrace},
		},
		{
			name:   "three days late",
			actual: terms.GraceEndDate.AddDate(0, 0, 3),
			want:   Evaluation{Status: StatusReturnedLate, OverdueDays: 3, Penalty: 150},
		},
		{
			name:   "1ms under a day boundary floors down",
			actual: terms.GraceEndDate.Add(48*time.Hour - time.Millisecond),
			want:   Evaluation{Status: StatusReturnedLate, OverdueDays: 1, Penalty: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := tt.actual
			assert.Equal(t, tt.want, Evaluate(terms, true, &actual, now))
		})
	}
}

func TestEvaluationHelpers(t *testing.T) {
	assert.True(t, Evaluation{Status: StatusOverdue}.IsOverdue())
	assert.True(t, Evaluation{Status: StatusReturnedLate}.IsOverdue())
	assert.False(t, Evaluation{Status: StatusInGrace}.IsOverdue())
	assert.False(t, Evaluation{Status: StatusReturnedInGrace}.IsOverdue())

	assert.True(t, Evaluation{Status: StatusOnTrack}.Open())
	assert.True(t, Evaluation{Status: StatusOverdue}.Open())
	assert.False(t, Evaluation{Status: StatusReturnedOnTime}.Open())
}

func TestPenaltyMonotonic(t *testing.T) {
	terms := mustSchedule(t, wednesday, 7)

	prev := 0
	for d := 0; d <= 30; d++ {
		eval := Evaluate(terms, false, nil, terms.GraceEndDate.AddDate(0, 0, d))
		require.GreaterOrEqual(t, eval.Penalty, prev, "penalty must not decrease over time")
		prev = eval.Penalty
	}
}
