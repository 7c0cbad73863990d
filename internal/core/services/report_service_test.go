package services

import (
	"context"
	"testing"
	"time"

	"smart-elib/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedLoan inserts a prebuilt transaction straight into the fake repo.
func seedLoan(t *testing.T, repo *fakeLoanRepo, loan *models.LoanTransaction) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), loan))
}

// mkLoan builds a transaction with a simple unadjusted schedule:
// due 7 days after issue, grace 4 days after that.
func mkLoan(txID, bookCode, title string, bookID uint, issue time.Time, returned bool, actualReturn *time.Time) *models.LoanTransaction {
	return &models.LoanTransaction{
		TransactionID:    txID,
		UserID:           1,
		StudentID:        "STU-001",
		BookID:           bookID,
		BookCode:         bookCode,
		BookTitle:        title,
		IssueDate:        issue,
		ReturnDate:       issue.AddDate(0, 0, 7),
		GraceEndDate:     issue.AddDate(0, 0, 11),
		Returned:         returned,
		ActualReturnDate: actualReturn,
	}
}

func newReportFixture(t *testing.T, now time.Time) (*ReportService, *fakeLoanRepo, *fakeBookRepo) {
	t.Helper()
	loanRepo := newFakeLoanRepo()
	bookRepo := newFakeBookRepo()
	svc := NewReportService(loanRepo, bookRepo)
	svc.now = func() time.Time { return now }
	return svc, loanRepo, bookRepo
}

func TestOverdueReport(t *testing.T) {
	// Use mid-week anchors so no schedule touches a weekend
	jan := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC) // Wednesday
	feb := time.Date(2025, 2, 5, 10, 0, 0, 0, time.UTC) // Wednesday
	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

	svc, loanRepo, _ := newReportFixture(t, now)

	// January: one open overdue, one returned within grace
	seedLoan(t, loanRepo, mkLoan("tx-1", "CS-001", "SICP", 1, jan, false, nil))
	graceReturn := jan.AddDate(0, 0, 9)
	seedLoan(t, loanRepo, mkLoan("tx-2", "CS-002", "TAPL", 2, jan, true, &graceReturn))

	// February: one returned late
	lateReturn := feb.AddDate(0, 0, 13) // 2 days past grace end
	seedLoan(t, loanRepo, mkLoan("tx-3", "CS-003", "HtDP", 3, feb, true, &lateReturn))

	report, err := svc.GetOverdueReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalOverdue)
	assert.Len(t, report.OverdueDetails, 2)

	// tx-1 open overdue: grace ended Jan 19, now Mar 4 => 44 days late
	// tx-3 returned 2 days past grace => 100
	assert.Equal(t, 44*50+100, report.TotalPenalty)

	require.Len(t, report.MonthlyStats, 2)
	assert.Equal(t, "2025-01", report.MonthlyStats[0].Month)
	assert.Equal(t, 1, report.MonthlyStats[0].TotalOverdues)
	assert.Equal(t, 1, report.MonthlyStats[0].ReturnedWithinGrace)
	assert.Equal(t, "2025-02", report.MonthlyStats[1].Month)
	assert.Equal(t, 1, report.MonthlyStats[1].TotalOverdues)
	assert.Equal(t, 0, report.MonthlyStats[1].ReturnedWithinGrace)
}

func TestIssuedStats(t *testing.T) {
	jan := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 5, 10, 0, 0, 0, time.UTC)
	now := time.Date(2025, 2, 12, 10, 0, 0, 0, time.UTC)

	svc, loanRepo, _ := newReportFixture(t, now)

	onTime := jan.AddDate(0, 0, 5)
	seedLoan(t, loanRepo, mkLoan("tx-1", "CS-001", "SICP", 1, jan, true, &onTime))
	seedLoan(t, loanRepo, mkLoan("tx-2", "CS-002", "TAPL", 2, jan, false, nil))
	seedLoan(t, loanRepo, mkLoan("tx-3", "CS-001", "SICP", 1, feb, false, nil))

	stats, err := svc.GetIssuedStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalIssued)
	assert.Equal(t, 2, stats.CurrentlyIssued)
	assert.Equal(t, 1, stats.Returned)

	require.Len(t, stats.MonthlyData, 2)
	assert.Equal(t, MonthlyIssueStat{Month: "2025-01", Issued: 2, CurrentlyIssued: 1, Returned: 1}, stats.MonthlyData[0])
	assert.Equal(t, MonthlyIssueStat{Month: "2025-02", Issued: 1, CurrentlyIssued: 1}, stats.MonthlyData[1])
}

func TestMostIssuedMonthly(t *testing.T) {
	jan := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	now := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

	svc, loanRepo, _ := newReportFixture(t, now)

	seedLoan(t, loanRepo, mkLoan("tx-1", "CS-001", "SICP", 1, jan, true, &jan))
	seedLoan(t, loanRepo, mkLoan("tx-2", "CS-001", "SICP", 1, jan.AddDate(0, 0, 1), true, &jan))
	seedLoan(t, loanRepo, mkLoan("tx-3", "CS-002", "TAPL", 2, jan.AddDate(0, 0, 2), false, nil))

	result, err := svc.GetMostIssuedMonthly(context.Background(), 5)
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, "2025-01", result[0].Month)
	require.Len(t, result[0].Books, 2)
	assert.Equal(t, BookIssueCount{BookCode: "CS-001", BookTitle: "SICP", Count: 2}, result[0].Books[0])
	assert.Equal(t, BookIssueCount{BookCode: "CS-002", BookTitle: "TAPL", Count: 1}, result[0].Books[1])
}

func TestMostIssuedMonthlyTopNTruncates(t *testing.T) {
	jan := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	svc, loanRepo, _ := newReportFixture(t, jan)

	seedLoan(t, loanRepo, mkLoan("tx-1", "CS-001", "SICP", 1, jan, false, nil))
	seedLoan(t, loanRepo, mkLoan("tx-2", "CS-002", "TAPL", 2, jan, false, nil))
	seedLoan(t, loanRepo, mkLoan("tx-3", "CS-003", "HtDP", 3, jan, false, nil))

	result, err := svc.GetMostIssuedMonthly(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Len(t, result[0].Books, 2)
}

func TestCalculateOverdues(t *testing.T) {
	jan := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	now := time.Date(2025, 1, 22, 10, 0, 0, 0, time.UTC) // 3 days past grace end

	svc, loanRepo, _ := newReportFixture(t, now)

	seedLoan(t, loanRepo, mkLoan("tx-1", "CS-001", "SICP", 1, jan, false, nil))
	// Returned loans keep their frozen snapshot
	onTime := jan.AddDate(0, 0, 5)
	seedLoan(t, loanRepo, mkLoan("tx-2", "CS-002", "TAPL", 2, jan, true, &onTime))

	msg, err := svc.CalculateOverdues(context.Background())
	require.NoError(t, err)
	assert.Contains(t, msg, "1 loan(s) checked")
	assert.Contains(t, msg, "1 updated")

	stored, err := loanRepo.GetByTransactionID(context.Background(), "tx-1")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.OverdueDays)
	assert.Equal(t, 150, stored.Penalty)

	// Second run is a no-op
	msg, err = svc.CalculateOverdues(context.Background())
	require.NoError(t, err)
	assert.Contains(t, msg, "0 updated")
}

func TestSyncBookAvailability(t *testing.T) {
	jan := time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC)
	svc, loanRepo, bookRepo := newReportFixture(t, jan)

	// Book 1 has an open loan but is wrongly flagged available
	require.NoError(t, bookRepo.Create(context.Background(), &models.Book{
		BookCode: "CS-001", Title: "SICP", IsAvailable: true,
	}))
	// Book 2 has no open loan but is wrongly flagged unavailable
	require.NoError(t, bookRepo.Create(context.Background(), &models.Book{
		BookCode: "CS-002", Title: "TAPL", IsAvailable: false,
	}))
	// Book 3 is consistent
	require.NoError(t, bookRepo.Create(context.Background(), &models.Book{
		BookCode: "CS-003", Title: "HtDP", IsAvailable: true,
	}))

	seedLoan(t, loanRepo, mkLoan("tx-1", "CS-001", "SICP", 1, jan, false, nil))

	msg, err := svc.SyncBookAvailability(context.Background())
	require.NoError(t, err)
	assert.Contains(t, msg, "3 book(s) checked")
	assert.Contains(t, msg, "2 flag(s) corrected")

	b1, _ := bookRepo.GetByID(context.Background(), 1)
	b2, _ := bookRepo.GetByID(context.Background(), 2)
	b3, _ := bookRepo.GetByID(context.Background(), 3)
	assert.False(t, b1.IsAvailable)
	assert.True(t, b2.IsAvailable)
	assert.True(t, b3.IsAvailable)
}
