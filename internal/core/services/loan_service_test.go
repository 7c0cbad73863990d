package services

import (
	"context"
	"testing"
	"time"

	"smart-elib/internal/adapters/persistence/models"
	"smart-elib/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday, well clear of any weekend adjustment.
var issueWednesday = time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

func newLoanFixture(t *testing.T, now time.Time) (*LoanService, *fakeUserRepo, *fakeBookRepo, *fakeLoanRepo) {
	t.Helper()

	userRepo := newFakeUserRepo()
	bookRepo := newFakeBookRepo()
	loanRepo := newFakeLoanRepo()

	svc := NewLoanService(loanRepo, bookRepo, userRepo)
	svc.now = func() time.Time { return now }

	require.NoError(t, userRepo.Create(context.Background(), &models.User{
		StudentID: "STU-001",
		Name:      "Test Student",
		Email:     "student@test.local",
		Role:      "STUDENT",
		IsActive:  true,
	}))
	require.NoError(t, bookRepo.Create(context.Background(), &models.Book{
		BookCode:    "CS-001",
		Title:       "Test Driven Development",
		Author:      "Kent Beck",
		Category:    "Computer Science",
		IsAvailable: true,
	}))

	return svc, userRepo, bookRepo, loanRepo
}

func TestIssueBook(t *testing.T) {
	svc, _, bookRepo, _ := newLoanFixture(t, issueWednesday)

	resp, err := svc.IssueBook(context.Background(), 1, &IssueInput{BookID: 1, RequestedDays: 7})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.TransactionID)
	assert.Equal(t, "STU-001", resp.StudentID)
	assert.Equal(t, "CS-001", resp.BookCode)
	assert.Equal(t, issueWednesday.AddDate(0, 0, 7), resp.ReturnDate)
	assert.Equal(t, issueWednesday.AddDate(0, 0, 11), resp.GraceEndDate)
	assert.Equal(t, string(domain.StatusOnTrack), resp.Status)
	assert.False(t, resp.Returned)

	// The book must be flagged unavailable after issuance
	book, err := bookRepo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, book.IsAvailable)
}

func TestIssueBookDefaultDays(t *testing.T) {
	svc, _, _, _ := newLoanFixture(t, issueWednesday)

	resp, err := svc.IssueBook(context.Background(), 1, &IssueInput{BookID: 1})
	require.NoError(t, err)
	assert.Equal(t, issueWednesday.AddDate(0, 0, 7), resp.ReturnDate)
}

func TestIssueBookRejectsTooLong(t *testing.T) {
	svc, _, bookRepo, loanRepo := newLoanFixture(t, issueWednesday)

	_, err := svc.IssueBook(context.Background(), 1, &IssueInput{BookID: 1, RequestedDays: 21})
	assert.ErrorIs(t, err, domain.ErrLoanTooLong)

	// Nothing was written
	loans, _ := loanRepo.ListAll(context.Background())
	assert.Empty(t, loans)
	book, _ := bookRepo.GetByID(context.Background(), 1)
	assert.True(t, book.IsAvailable)
}

func TestIssueBookUnavailable(t *testing.T) {
	svc, _, bookRepo, _ := newLoanFixture(t, issueWednesday)
	require.NoError(t, bookRepo.SetAvailability(context.Background(), 1, false))

	_, err := svc.IssueBook(context.Background(), 1, &IssueInput{BookID: 1})
	assert.ErrorIs(t, err, ErrBookUnavailable)
}

func TestIssueBookUnknownBook(t *testing.T) {
	svc, _, _, _ := newLoanFixture(t, issueWednesday)

	_, err := svc.IssueBook(context.Background(), 1, &IssueInput{BookID: 99})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestReturnBookOnTime(t *testing.T) {
	svc, _, bookRepo, _ := newLoanFixture(t, issueWednesday)

	issued, err := svc.IssueBook(context.Background(), 1, &IssueInput{BookID: 1})
	require.NoError(t, err)

	// Return two days later
	svc.now = func() time.Time { return issueWednesday.AddDate(0, 0, 2) }

	resp, err := svc.ReturnBook(context.Background(), issued.TransactionID)
	require.NoError(t, err)

	assert.True(t, resp.Returned)
	assert.Equal(t, string(domain.StatusReturnedOnTime), resp.Status)
	assert.Equal(t, 0, resp.Penalty)

	book, _ := bookRepo.GetByID(context.Background(), 1)
	assert.True(t, book.IsAvailable)
}

func TestReturnBookLatePersistsPenalty(t *testing.T) {
	svc, _, _, loanRepo := newLoanFixture(t, issueWednesday)

	issued, err := svc.IssueBook(context.Background(), 1, &IssueInput{BookID: 1})
	require.NoError(t, err)

	// Grace ends at day 11; return 3 days past that
	svc.now = func() time.Time { return issueWednesday.AddDate(0, 0, 14) }

	resp, err := svc.ReturnBook(context.Background(), issued.TransactionID)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusReturnedLate), resp.Status)
	assert.Equal(t, 3, resp.OverdueDays)
	assert.Equal(t, 150, resp.Penalty)

	// The snapshot is persisted on the record
	stored, err := loanRepo.GetByTransactionID(context.Background(), issued.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.OverdueDays)
	assert.Equal(t, 150, stored.Penalty)
}

func TestReturnBookWithinGraceNoPenalty(t *testing.T) {
	svc, _, _, _ := newLoanFixture(t, issueWednesday)

	issued, err := svc.IssueBook(context.Background(), 1, &IssueInput{BookID: 1})
	require.NoError(t, err)

	// Past the return date but inside the grace window
	svc.now = func() time.Time { return issueWednesday.AddDate(0, 0, 9) }

	resp, err := svc.ReturnBook(context.Background(), issued.TransactionID)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusReturnedInGrace), resp.Status)
	assert.Equal(t, 0, resp.Penalty)
}

func TestReturnBookTwiceConflicts(t *testing.T) {
	svc, _, _, _ := newLoanFixture(t, issueWednesday)

	issued, err := svc.IssueBook(context.Background(), 1, &IssueInput{BookID: 1})
	require.NoError(t, err)

	_, err = svc.ReturnBook(context.Background(), issued.TransactionID)
	require.NoError(t, err)

	_, err = svc.ReturnBook(context.Background(), issued.TransactionID)
	assert.ErrorIs(t, err, ErrAlreadyReturned)
}

func TestReturnUnknownLoan(t *testing.T) {
	svc, _, _, _ := newLoanFixture(t, issueWednesday)

	_, err := svc.ReturnBook(context.Background(), "no-such-transaction")
	assert.ErrorIs(t, err, ErrLoanNotFound)
}

func TestStudentSummaryNotifications(t *testing.T) {
	svc, _, bookRepo, _ := newLoanFixture(t, issueWednesday)

	require.NoError(t, bookRepo.Create(context.Background(), &models.Book{
		BookCode: "CS-002", Title: "Refactoring", Author: "Martin Fowler", IsAvailable: true,
	}))
	require.NoError(t, bookRepo.Create(context.Background(), &models.Book{
		BookCode: "CS-003", Title: "Clean Code", Author: "Robert Martin", IsAvailable: true,
	}))

	// Loan 1: will become overdue
	_, err := svc.IssueBook(context.Background(), 1, &IssueInput{BookID: 1})
	require.NoError(t, err)

	// Loan 2: issued Friday (day 2), will be in grace
	svc.now = func() time.Time { return issueWednesday.AddDate(0, 0, 2) }
	_, err = svc.IssueBook(context.Background(), 1, &IssueInput{BookID: 2})
	require.NoError(t, err)

	// Loan 3: issued Monday (day 12), on track and not due soon
	svc.now = func() time.Time { return issueWednesday.AddDate(0, 0, 12) }
	_, err = svc.IssueBook(context.Background(), 1, &IssueInput{BookID: 3})
	require.NoError(t, err)

	// Evaluate at day 12: loan 1 overdue (grace ended day 11),
	// loan 2 in grace (due day 9, grace ends day 13),
	// loan 3 due day 19
	svc.now = func() time.Time { return issueWednesday.AddDate(0, 0, 12) }

	summary, err := svc.GetStudentSummary(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.TotalBorrowed)
	assert.Equal(t, int64(3), summary.CurrentlyBorrowed)
	assert.Equal(t, 50, summary.TotalPenalty)
	require.Len(t, summary.Notifications, 2)

	types := []string{summary.Notifications[0].Type, summary.Notifications[1].Type}
	assert.Contains(t, types, "OVERDUE")
	assert.Contains(t, types, "IN_GRACE")
}

func TestStudentSummaryDueSoon(t *testing.T) {
	svc, _, _, _ := newLoanFixture(t, issueWednesday)

	_, err := svc.IssueBook(context.Background(), 1, &IssueInput{BookID: 1})
	require.NoError(t, err)

	// One day before the return date
	svc.now = func() time.Time { return issueWednesday.AddDate(0, 0, 6) }

	summary, err := svc.GetStudentSummary(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, summary.Notifications, 1)
	assert.Equal(t, "DUE_SOON", summary.Notifications[0].Type)
}
