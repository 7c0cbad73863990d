package repositories

import (
	"context"

	"smart-elib/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByStudentID(ctx context.Context, studentID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByStudentID(ctx context.Context, studentID string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// BookRepository defines book catalog repository interface
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	GetByCode(ctx context.Context, code string) (*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	SetAvailability(ctx context.Context, id uint, available bool) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*models.Book, error)
	ListByCategory(ctx context.Context, category string) ([]*models.Book, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// LoanRepository defines loan transaction repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *models.LoanTransaction) error
	GetByTransactionID(ctx context.Context, transactionID string) (*models.LoanTransaction, error)
	Update(ctx context.Context, loan *models.LoanTransaction) error
	ListByUser(ctx context.Context, userID uint) ([]*models.LoanTransaction, error)
	ListOpen(ctx context.Context) ([]*models.LoanTransaction, error)
	ListOpenByBook(ctx context.Context, bookID uint) ([]*models.LoanTransaction, error)
	ListAll(ctx context.Context) ([]*models.LoanTransaction, error)
	List(ctx context.Context, offset, limit int) ([]*models.LoanTransaction, int64, error)
	CountByUser(ctx context.Context, userID uint) (total int64, open int64, err error)
}
