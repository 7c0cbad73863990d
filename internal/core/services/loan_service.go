package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"smart-elib/internal/adapters/persistence/models"
	"smart-elib/internal/adapters/persistence/repositories"
	"smart-elib/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Loan errors
var (
	ErrLoanNotFound    = errors.New("loan not found")
	ErrAlreadyReturned = errors.New("loan already returned")
	ErrBookUnavailable = errors.New("book is not available")
)

// LoanService handles the loan lifecycle business logic
type LoanService struct {
	loanRepo repositories.LoanRepository
	bookRepo repositories.BookRepository
	userRepo repositories.UserRepository

	now func() time.Time
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repositories.LoanRepository,
	bookRepo repositories.BookRepository,
	userRepo repositories.UserRepository,
) *LoanService {
	return &LoanService{
		loanRepo: loanRepo,
		bookRepo: bookRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// IssueInput represents book issuance input
type IssueInput struct {
	BookID        uint `json:"book_id" validate:"required"`
	RequestedDays int  `json:"requested_days"`
}

// IssueBook issues a book to a student. The return schedule is fixed at
// issuance and never recomputed afterwards.
func (s *LoanService) IssueBook(ctx context.Context, userID uint, input *IssueInput) (*models.LoanResponse, error) {
	now := s.now()

	// 1. Compute the loan schedule up front so an invalid request
	// fails before any writes
	terms, err := domain.Schedule(now, input.RequestedDays)
	if err != nil {
		return nil, err
	}

	// 2. Load the borrower
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 3. Load the book and check availability
	book, err := s.bookRepo.GetByID(ctx, input.BookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	if !book.IsAvailable {
		return nil, ErrBookUnavailable
	}

	// 4. Create the transaction record
	loan := &models.LoanTransaction{
		TransactionID: uuid.New().String(),
		UserID:        user.ID,
		StudentID:     user.StudentID,
		BookID:        book.ID,
		BookCode:      book.BookCode,
		BookTitle:     book.Title,
		Author:        book.Author,
		Category:      book.Category,
		IssueDate:     terms.IssueDate,
		ReturnDate:    terms.ReturnDate,
		GraceEndDate:  terms.GraceEndDate,
		Returned:      false,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	// 5. Mark the book unavailable. The loan record already exists at
	// this point; if the flag update fails the catalog is reconciled
	// by the book-sync job, so surface the error as-is.
	if err := s.bookRepo.SetAvailability(ctx, book.ID, false); err != nil {
		return nil, fmt.Errorf("loan %s created but book flag update failed: %w", loan.TransactionID, err)
	}

	loan.Book = book

	log.Printf("✅ Book issued: %s -> %s (due %s)",
		book.BookCode, user.StudentID, terms.ReturnDate.Format("2006-01-02"))

	return loan.ToResponse(now), nil
}

// ReturnBook closes a loan. Returning an already-returned loan is a
// conflict, not an idempotent no-op.
func (s *LoanService) ReturnBook(ctx context.Context, transactionID string) (*models.LoanResponse, error) {
	now := s.now()

	loan, err := s.loanRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}

	if loan.Returned {
		return nil, ErrAlreadyReturned
	}

	// Stamp the return and persist the final penalty snapshot
	loan.Returned = true
	loan.ActualReturnDate = &now

	eval := loan.Evaluate(now)
	loan.OverdueDays = eval.OverdueDays
	loan.Penalty = eval.Penalty

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	if err := s.bookRepo.SetAvailability(ctx, loan.BookID, true); err != nil {
		return nil, fmt.Errorf("loan %s returned but book flag update failed: %w", loan.TransactionID, err)
	}

	log.Printf("✅ Book returned: %s by %s (status: %s, penalty: %d)",
		loan.BookCode, loan.StudentID, eval.Status, eval.Penalty)

	return loan.ToResponse(now), nil
}

// GetLoan returns one loan by its transaction ID
func (s *LoanService) GetLoan(ctx context.Context, transactionID string) (*models.LoanResponse, error) {
	loan, err := s.loanRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return loan.ToResponse(s.now()), nil
}

// ListUserLoans lists every loan of one user, newest first
func (s *LoanService) ListUserLoans(ctx context.Context, userID uint) ([]*models.LoanResponse, error) {
	loans, err := s.loanRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]*models.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		responses = append(responses, loan.ToResponse(now))
	}
	return responses, nil
}

// Notification is a student-facing alert about one loan
type Notification struct {
	Type          string `json:"type"` // DUE_SOON | IN_GRACE | OVERDUE
	TransactionID string `json:"transaction_id"`
	BookTitle     string `json:"book_title"`
	Message       string `json:"message"`
}

// StudentSummary is the student dashboard payload
type StudentSummary struct {
	TotalBorrowed     int64                  `json:"total_borrowed"`
	CurrentlyBorrowed int64                  `json:"currently_borrowed"`
	TotalPenalty      int                    `json:"total_penalty"`
	Loans             []*models.LoanResponse `json:"loans"`
	Notifications     []Notification         `json:"notifications"`
}

// GetStudentSummary builds the dashboard view for one student: loan
// history, running penalty total and alerts for open loans.
func (s *LoanService) GetStudentSummary(ctx context.Context, userID uint) (*StudentSummary, error) {
	loans, err := s.loanRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	total, open, err := s.loanRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := &StudentSummary{
		TotalBorrowed:     total,
		CurrentlyBorrowed: open,
		Loans:             make([]*models.LoanResponse, 0, len(loans)),
		Notifications:     []Notification{},
	}

	for _, loan := range loans {
		resp := loan.ToResponse(now)
		summary.Loans = append(summary.Loans, resp)
		summary.TotalPenalty += resp.Penalty

		if loan.Returned {
			continue
		}

		if n, ok := buildNotification(loan, resp, now); ok {
			summary.Notifications = append(summary.Notifications, n)
		}
	}

	return summary, nil
}

// buildNotification derives the alert for one open loan, if any
func buildNotification(loan *models.LoanTransaction, resp *models.LoanResponse, now time.Time) (Notification, bool) {
	switch domain.LoanStatus(resp.Status) {
	case domain.StatusOverdue:
		return Notification{
			Type:          "OVERDUE",
			TransactionID: loan.TransactionID,
			BookTitle:     loan.BookTitle,
			Message: fmt.Sprintf("'%s' is overdue by %d day(s). Penalty so far: %d",
				loan.BookTitle, resp.OverdueDays, resp.Penalty),
		}, true
	case domain.StatusInGrace:
		return Notification{
			Type:          "IN_GRACE",
			TransactionID: loan.TransactionID,
			BookTitle:     loan.BookTitle,
			Message: fmt.Sprintf("'%s' is past its return date. Return by %s to avoid penalties",
				loan.BookTitle, loan.GraceEndDate.Format("2006-01-02")),
		}, true
	default:
		// Due within the next 2 days
		dueIn := loan.ReturnDate.Sub(now)
		if dueIn > 0 && dueIn <= 48*time.Hour {
			return Notification{
				Type:          "DUE_SOON",
				TransactionID: loan.TransactionID,
				BookTitle:     loan.BookTitle,
				Message: fmt.Sprintf("'%s' is due on %s",
					loan.BookTitle, loan.ReturnDate.Format("2006-01-02")),
			}, true
		}
	}
	return Notification{}, false
}
