package domain

import (
	"errors"
	"time"
)

// ErrLoanTooLong rejects a requested loan length above MaxLoanDays
var ErrLoanTooLong = errors.New("maximum loan length exceeded")

// Loan policy constants
const (
	// DefaultLoanDays is used when the caller doesn't request a length
	DefaultLoanDays = 7
	// MaxLoanDays is the longest loan a student may request
	MaxLoanDays = 20
	// GraceDays is the penalty-free window after the return date
	GraceDays = 4
	// PenaltyPerDay is charged (in rupees) for each full day past the grace deadline
	PenaltyPerDay = 50
)

// millisPerDay is the divisor for overdue-day arithmetic.
// Day counts floor partial days: 1ms short of a boundary stays in the lower day.
const millisPerDay = 24 * 60 * 60 * 1000

// LoanTerms holds the dates fixed at issuance
type LoanTerms struct {
	IssueDate    time.Time
	ReturnDate   time.Time
	GraceEndDate time.Time
}

// Schedule computes return and grace deadlines for a new loan.
// requestedDays <= 0 falls back to DefaultLoanDays; > MaxLoanDays is rejected
// before any record exists.
//
// The weekend adjustment runs exactly once: a Saturday return date moves +2
// days, a Sunday one +1 day, and the new date is NOT re-checked. The grace
// deadline is always the adjusted return date + GraceDays, with no weekend
// handling of its own.
func Schedule(issueDate time.Time, requestedDays int) (LoanTerms, error) {
	if requestedDays <= 0 {
		requestedDays = DefaultLoanDays
	}
	if requestedDays > MaxLoanDays {
		return LoanTerms{}, ErrLoanTooLong
	}

	returnDate := issueDate.AddDate(0, 0, requestedDays)
	switch returnDate.Weekday() {
	case time.Saturday:
		returnDate = returnDate.AddDate(0, 0, 2)
	case time.Sunday:
		returnDate = returnDate.AddDate(0, 0, 1)
	}

	return LoanTerms{
		IssueDate:    issueDate,
		ReturnDate:   returnDate,
		GraceEndDate: returnDate.AddDate(0, 0, GraceDays),
	}, nil
}

// LoanStatus classifies a loan against "now"
type LoanStatus string

const (
	StatusOnTrack         LoanStatus = "ON_TRACK"
	StatusInGrace         LoanStatus = "IN_GRACE"
	StatusOverdue         LoanStatus = "OVERDUE"
	StatusReturnedOnTime  LoanStatus = "RETURNED_ON_TIME"
	StatusReturnedInGrace LoanStatus = "RETURNED_IN_GRACE"
	StatusReturnedLate    LoanStatus = "RETURNED_LATE"
)

// Evaluation is the derived (display-only) state of one loan.
// The backend record stays the source of truth; this is a pure projection.
type Evaluation struct {
	Status      LoanStatus `json:"status"`
	OverdueDays int        `json:"overdue_days"`
	Penalty     int        `json:"penalty"`
}

// IsOverdue reports whether the loan carries a penalty right now
func (e Evaluation) IsOverdue() bool {
	return e.Status == StatusOverdue || e.Status == StatusReturnedLate
}

// Open reports whether the book is still out
func (e Evaluation) Open() bool {
	switch e.Status {
	case StatusOnTrack, StatusInGrace, StatusOverdue:
		return true
	}
	return false
}

// Evaluate classifies a loan and computes its penalty, as a pure function of
// the issuance terms, the return flags and "now".
//
// A loan returned after the return date but on or before the grace deadline
// carries zero penalty (RETURNED_IN_GRACE). The grace boundary itself is
// inclusive: now == GraceEndDate is still IN_GRACE with zero penalty.
func Evaluate(terms LoanTerms, returned bool, actualReturnDate *time.Time, now time.Time) Evaluation {
	if returned && actualReturnDate != nil {
		actual := *actualReturnDate
		switch {
		case !actual.After(terms.ReturnDate):
			return Evaluation{Status: StatusReturnedOnTime}
		case actual.After(terms.GraceEndDate):
			days := daysBetween(terms.GraceEndDate, actual)
			return Evaluation{
				Status:      StatusReturnedLate,
				OverdueDays: days,
				Penalty:     days * PenaltyPerDay,
			}
		default:
			return Evaluation{Status: StatusReturnedInGrace}
		}
	}

	switch {
	case now.After(terms.GraceEndDate):
		days := daysBetween(terms.GraceEndDate, now)
		return Evaluation{
			Status:      StatusOverdue,
			OverdueDays: days,
			Penalty:     days * PenaltyPerDay,
		}
	case now.After(terms.ReturnDate):
		return Evaluation{Status: StatusInGrace}
	default:
		return Evaluation{Status: StatusOnTrack}
	}
}

// daysBetween returns the number of whole days from `from` to `to`,
// flooring partial days. Never negative.
func daysBetween(from, to time.Time) int {
	elapsed := to.Sub(from).Milliseconds()
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed / millisPerDay)
}
