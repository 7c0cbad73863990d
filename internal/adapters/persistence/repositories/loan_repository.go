package repositories

import (
	"context"

	"smart-elib/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// loanRepository is the GORM implementation of LoanRepository
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan transaction
func (r *loanRepository) Create(ctx context.Context, loan *models.LoanTransaction) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByTransactionID gets a loan by its public transaction ID
func (r *loanRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.LoanTransaction, error) {
	var loan models.LoanTransaction
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("transaction_id = ?", transactionID).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// Update updates a loan transaction
func (r *loanRepository) Update(ctx context.Context, loan *models.LoanTransaction) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

// ListByUser lists all loans of one user, newest issue first
func (r *loanRepository) ListByUser(ctx context.Context, userID uint) ([]*models.LoanTransaction, error) {
	var loans []*models.LoanTransaction
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("issue_date DESC").
		Find(&loans).Error
	return loans, err
}

// ListOpen lists every loan not yet returned
func (r *loanRepository) ListOpen(ctx context.Context) ([]*models.LoanTransaction, error) {
	var loans []*models.LoanTransaction
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("returned = ?", false).
		Order("issue_date ASC").
		Find(&loans).Error
	return loans, err
}

// ListOpenByBook lists open loans for one book
func (r *loanRepository) ListOpenByBook(ctx context.Context, bookID uint) ([]*models.LoanTransaction, error) {
	var loans []*models.LoanTransaction
	err := r.db.WithContext(ctx).
		Where("book_id = ? AND returned = ?", bookID, false).
		Find(&loans).Error
	return loans, err
}

// ListAll lists every loan transaction, newest issue first
func (r *loanRepository) ListAll(ctx context.Context) ([]*models.LoanTransaction, error) {
	var loans []*models.LoanTransaction
	err := r.db.WithContext(ctx).
		Preload("Book").
		Order("issue_date DESC").
		Find(&loans).Error
	return loans, err
}

// List lists loans with pagination
func (r *loanRepository) List(ctx context.Context, offset, limit int) ([]*models.LoanTransaction, int64, error) {
	var loans []*models.LoanTransaction
	var total int64

	r.db.WithContext(ctx).Model(&models.LoanTransaction{}).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Book").
		Order("issue_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&loans).Error

	return loans, total, err
}

// CountByUser counts total and open loans of one user
func (r *loanRepository) CountByUser(ctx context.Context, userID uint) (total int64, open int64, err error) {
	err = r.db.WithContext(ctx).
		Model(&models.LoanTransaction{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return 0, 0, err
	}

	err = r.db.WithContext(ctx).
		Model(&models.LoanTransaction{}).
		Where("user_id = ? AND returned = ?", userID, false).
		Count(&open).Error
	if err != nil {
		return 0, 0, err
	}

	return total, open, nil
}
