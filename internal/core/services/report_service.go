package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"smart-elib/internal/adapters/persistence/models"
	"smart-elib/internal/adapters/persistence/repositories"
)

const monthKeyLayout = "2006-01"

// ReportService builds the admin reports by folding over the loan
// transaction history
type ReportService struct {
	loanRepo repositories.LoanRepository
	bookRepo repositories.BookRepository

	now func() time.Time
}

// NewReportService creates a new report service
func NewReportService(loanRepo repositories.LoanRepository, bookRepo repositories.BookRepository) *ReportService {
	return &ReportService{
		loanRepo: loanRepo,
		bookRepo: bookRepo,
		now:      time.Now,
	}
}

// ============================================================
// Overdue Report
// ============================================================

// MonthlyOverdueStat is one month's bucket in the overdue report
type MonthlyOverdueStat struct {
	Month               string `json:"month"` // YYYY-MM
	TotalOverdues       int    `json:"total_overdues"`
	ReturnedWithinGrace int    `json:"returned_within_grace"`
}

// OverdueReport is the admin overdue report payload
type OverdueReport struct {
	TotalOverdue   int                    `json:"total_overdue"`
	TotalPenalty   int                    `json:"total_penalty"`
	OverdueDetails []*models.LoanResponse `json:"overdue_details"`
	MonthlyStats   []MonthlyOverdueStat   `json:"monthly_stats"`
}

// GetOverdueReport builds the overdue report: every loan that is
// currently overdue or was returned late, plus per-month counts of
// overdues and grace-window saves, oldest month first.
func (s *ReportService) GetOverdueReport(ctx context.Context) (*OverdueReport, error) {
	loans, err := s.loanRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	report := &OverdueReport{
		OverdueDetails: []*models.LoanResponse{},
		MonthlyStats:   []MonthlyOverdueStat{},
	}
	buckets := map[string]*MonthlyOverdueStat{}

	for _, loan := range loans {
		resp := loan.ToResponse(now)
		month := loan.IssueDate.Format(monthKeyLayout)

		bucket, ok := buckets[month]
		if !ok {
			bucket = &MonthlyOverdueStat{Month: month}
			buckets[month] = bucket
		}

		if resp.IsOverdue {
			report.TotalOverdue++
			report.TotalPenalty += resp.Penalty
			report.OverdueDetails = append(report.OverdueDetails, resp)
			bucket.TotalOverdues++
		}
		if resp.Status == "RETURNED_IN_GRACE" {
			bucket.ReturnedWithinGrace++
		}
	}

	report.MonthlyStats = sortMonthlyOverdue(buckets)
	return report, nil
}

// sortMonthlyOverdue flattens the buckets into chronological order.
// YYYY-MM keys sort lexicographically, which is chronological.
func sortMonthlyOverdue(buckets map[string]*MonthlyOverdueStat) []MonthlyOverdueStat {
	stats := make([]MonthlyOverdueStat, 0, len(buckets))
	for _, b := range buckets {
		stats = append(stats, *b)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Month < stats[j].Month
	})
	return stats
}

// ============================================================
// Issued Stats
// ============================================================

// MonthlyIssueStat is one month's issuance bucket
type MonthlyIssueStat struct {
	Month           string `json:"month"` // YYYY-MM
	Issued          int    `json:"issued"`
	CurrentlyIssued int    `json:"currently_issued"`
	Returned        int    `json:"returned"`
}

// IssuedStats is the issued-books overview payload
type IssuedStats struct {
	TotalIssued     int                `json:"total_issued"`
	CurrentlyIssued int                `json:"currently_issued"`
	Returned        int                `json:"returned"`
	MonthlyData     []MonthlyIssueStat `json:"monthly_data"`
}

// GetIssuedStats folds the transaction history into issuance totals
// and per-month counts, oldest month first.
func (s *ReportService) GetIssuedStats(ctx context.Context) (*IssuedStats, error) {
	loans, err := s.loanRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &IssuedStats{MonthlyData: []MonthlyIssueStat{}}
	buckets := map[string]*MonthlyIssueStat{}

	for _, loan := range loans {
		month := loan.IssueDate.Format(monthKeyLayout)
		bucket, ok := buckets[month]
		if !ok {
			bucket = &MonthlyIssueStat{Month: month}
			buckets[month] = bucket
		}

		stats.TotalIssued++
		bucket.Issued++
		if loan.Returned {
			stats.Returned++
			bucket.Returned++
		} else {
			stats.CurrentlyIssued++
			bucket.CurrentlyIssued++
		}
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)

	for _, m := range months {
		stats.MonthlyData = append(stats.MonthlyData, *buckets[m])
	}

	return stats, nil
}

// ============================================================
// Most Issued Books
// ============================================================

// BookIssueCount is one book's issue count within a month
type BookIssueCount struct {
	BookCode  string `json:"book_code"`
	BookTitle string `json:"book_title"`
	Count     int    `json:"count"`
}

// MonthlyTopBooks lists the most issued books of one month
type MonthlyTopBooks struct {
	Month string           `json:"month"` // YYYY-MM
	Books []BookIssueCount `json:"books"`
}

// GetMostIssuedMonthly groups issuances by month and ranks books
// within each month by issue count, ties broken by book code.
func (s *ReportService) GetMostIssuedMonthly(ctx context.Context, topN int) ([]MonthlyTopBooks, error) {
	if topN <= 0 {
		topN = 5
	}

	loans, err := s.loanRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	type bookKey struct {
		code  string
		title string
	}
	buckets := map[string]map[bookKey]int{}

	for _, loan := range loans {
		month := loan.IssueDate.Format(monthKeyLayout)
		if buckets[month] == nil {
			buckets[month] = map[bookKey]int{}
		}
		buckets[month][bookKey{code: loan.BookCode, title: loan.BookTitle}]++
	}

	months := make([]string, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Strings(months)

	result := make([]MonthlyTopBooks, 0, len(months))
	for _, m := range months {
		counts := make([]BookIssueCount, 0, len(buckets[m]))
		for k, c := range buckets[m] {
			counts = append(counts, BookIssueCount{BookCode: k.code, BookTitle: k.title, Count: c})
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].Count != counts[j].Count {
				return counts[i].Count > counts[j].Count
			}
			return counts[i].BookCode < counts[j].BookCode
		})
		if len(counts) > topN {
			counts = counts[:topN]
		}
		result = append(result, MonthlyTopBooks{Month: m, Books: counts})
	}

	return result, nil
}

// ============================================================
// Issue History
// ============================================================

// GetIssueHistory lists the full transaction history with pagination
func (s *ReportService) GetIssueHistory(ctx context.Context, offset, limit int) ([]*models.LoanResponse, int64, error) {
	loans, total, err := s.loanRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	responses := make([]*models.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		responses = append(responses, loan.ToResponse(now))
	}
	return responses, total, nil
}

// ============================================================
// Maintenance Jobs
// ============================================================

// CalculateOverdues re-evaluates every open loan against "now" and
// persists the penalty snapshots. Also runs nightly via cron.
func (s *ReportService) CalculateOverdues(ctx context.Context) (string, error) {
	loans, err := s.loanRepo.ListOpen(ctx)
	if err != nil {
		return "", err
	}

	now := s.now()
	updated := 0

	for _, loan := range loans {
		eval := loan.Evaluate(now)
		if loan.OverdueDays == eval.OverdueDays && loan.Penalty == eval.Penalty {
			continue
		}

		loan.OverdueDays = eval.OverdueDays
		loan.Penalty = eval.Penalty
		if err := s.loanRepo.Update(ctx, loan); err != nil {
			return "", err
		}
		updated++
	}

	msg := fmt.Sprintf("Overdue recalculation complete: %d loan(s) checked, %d updated", len(loans), updated)
	log.Printf("✅ %s", msg)
	return msg, nil
}

// SyncBookAvailability reconciles the catalog availability flags with
// the open loans: a book with an open loan must be unavailable, and an
// available flag with no open loan must be restored.
func (s *ReportService) SyncBookAvailability(ctx context.Context) (string, error) {
	books, err := s.bookRepo.List(ctx)
	if err != nil {
		return "", err
	}

	openLoans, err := s.loanRepo.ListOpen(ctx)
	if err != nil {
		return "", err
	}

	onLoan := map[uint]bool{}
	for _, loan := range openLoans {
		onLoan[loan.BookID] = true
	}

	fixed := 0
	for _, book := range books {
		want := !onLoan[book.ID]
		if book.IsAvailable == want {
			continue
		}
		if err := s.bookRepo.SetAvailability(ctx, book.ID, want); err != nil {
			return "", err
		}
		fixed++
	}

	msg := fmt.Sprintf("Book sync complete: %d book(s) checked, %d flag(s) corrected", len(books), fixed)
	log.Printf("✅ %s", msg)
	return msg, nil
}
