package models

import (
	"time"

	"gorm.io/gorm"

	"smart-elib/internal/core/domain"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	StudentID string         `gorm:"uniqueIndex;size:20;not null" json:"student_id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'STUDENT'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	StudentID string    `json:"student_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		StudentID: u.StudentID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == string(domain.RoleAdmin)
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog Tables
// ============================================================

// Book represents books table
type Book struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	BookCode    string         `gorm:"uniqueIndex;size:30;not null" json:"book_code"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Author      string         `gorm:"size:100;not null" json:"author"`
	Category    string         `gorm:"size:50;index" json:"category"`
	CoverImage  string         `gorm:"size:500" json:"cover_image"`
	PdfURL      string         `gorm:"size:500" json:"pdf_url,omitempty"`
	IsAvailable bool           `gorm:"default:true;index" json:"is_available"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Book) TableName() string {
	return "books"
}

// ============================================================
// Loan Tables
// ============================================================

// LoanTransaction represents loan_transactions table — one book-loan
// transaction. Dates are fixed at issuance; only the return fields and the
// persisted penalty snapshot change afterwards.
type LoanTransaction struct {
	ID               uint           `gorm:"primaryKey" json:"-"`
	TransactionID    string         `gorm:"uniqueIndex;size:36;not null" json:"transaction_id"`
	UserID           uint           `gorm:"index;not null" json:"-"`
	StudentID        string         `gorm:"size:20;not null;index" json:"student_id"`
	BookID           uint           `gorm:"index;not null" json:"book_id"`
	BookCode         string         `gorm:"size:30;not null" json:"book_code"`
	BookTitle        string         `gorm:"size:200;not null" json:"book_title"`
	Author           string         `gorm:"size:100" json:"author"`
	Category         string         `gorm:"size:50" json:"category"`
	IssueDate        time.Time      `gorm:"not null;index" json:"issue_date"`
	ReturnDate       time.Time      `gorm:"not null" json:"return_date"`
	GraceEndDate     time.Time      `gorm:"not null" json:"grace_end_date"`
	ActualReturnDate *time.Time     `json:"actual_return_date"`
	Returned         bool           `gorm:"default:false;index" json:"returned"`
	OverdueDays      int            `gorm:"default:0" json:"overdue_days"`
	Penalty          int            `gorm:"default:0" json:"penalty"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"-"`
	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (LoanTransaction) TableName() string {
	return "loan_transactions"
}

// Terms rebuilds the issuance dates for the policy evaluator
func (t *LoanTransaction) Terms() domain.LoanTerms {
	return domain.LoanTerms{
		IssueDate:    t.IssueDate,
		ReturnDate:   t.ReturnDate,
		GraceEndDate: t.GraceEndDate,
	}
}

// Evaluate projects the loan's display state against "now"
func (t *LoanTransaction) Evaluate(now time.Time) domain.Evaluation {
	return domain.Evaluate(t.Terms(), t.Returned, t.ActualReturnDate, now)
}

// LoanResponse DTO — the wire shape of one loan record, with the derived
// state attached
type LoanResponse struct {
	TransactionID    string     `json:"transaction_id"`
	StudentID        string     `json:"student_id"`
	BookCode         string     `json:"book_code"`
	BookTitle        string     `json:"book_title"`
	Author           string     `json:"author,omitempty"`
	Category         string     `json:"category,omitempty"`
	CoverImage       string     `json:"cover_image,omitempty"`
	PdfURL           string     `json:"pdf_url,omitempty"`
	IssueDate        time.Time  `json:"issue_date"`
	ReturnDate       time.Time  `json:"return_date"`
	GraceEndDate     time.Time  `json:"grace_end_date"`
	ActualReturnDate *time.Time `json:"actual_return_date"`
	Returned         bool       `json:"returned"`
	Status           string     `json:"status"`
	IsOverdue        bool       `json:"is_overdue"`
	OverdueDays      int        `json:"overdue_days"`
	Penalty          int        `json:"penalty"`
}

// ToResponse builds the wire record, deriving status from "now"
func (t *LoanTransaction) ToResponse(now time.Time) *LoanResponse {
	eval := t.Evaluate(now)

	resp := &LoanResponse{
		TransactionID:    t.TransactionID,
		StudentID:        t.StudentID,
		BookCode:         t.BookCode,
		BookTitle:        t.BookTitle,
		Author:           t.Author,
		Category:         t.Category,
		IssueDate:        t.IssueDate,
		ReturnDate:       t.ReturnDate,
		GraceEndDate:     t.GraceEndDate,
		ActualReturnDate: t.ActualReturnDate,
		Returned:         t.Returned,
		Status:           string(eval.Status),
		IsOverdue:        eval.IsOverdue(),
		OverdueDays:      eval.OverdueDays,
		Penalty:          eval.Penalty,
	}

	if t.Book != nil {
		resp.CoverImage = t.Book.CoverImage
		resp.PdfURL = t.Book.PdfURL
	}

	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Book{},
		&LoanTransaction{},
	)
}
