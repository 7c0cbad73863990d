package services

import (
	"context"
	"errors"
	"log"

	"smart-elib/internal/adapters/persistence/models"
	"smart-elib/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Book catalog errors
var (
	ErrBookNotFound  = errors.New("book not found")
	ErrBookCodeTaken = errors.New("book code already exists")
	ErrBookOnLoan    = errors.New("book is currently issued")
)

// BookService handles book catalog business logic
type BookService struct {
	bookRepo repositories.BookRepository
	loanRepo repositories.LoanRepository
}

// NewBookService creates a new book service
func NewBookService(bookRepo repositories.BookRepository, loanRepo repositories.LoanRepository) *BookService {
	return &BookService{
		bookRepo: bookRepo,
		loanRepo: loanRepo,
	}
}

// CreateBookInput represents catalog creation input
type CreateBookInput struct {
	BookCode   string `json:"book_code" validate:"required"`
	Title      string `json:"title" validate:"required"`
	Author     string `json:"author" validate:"required"`
	Category   string `json:"category"`
	CoverImage string `json:"cover_image"`
	PdfURL     string `json:"pdf_url"`
}

// UpdateBookInput represents catalog update input
// Only non-nil fields are applied.
type UpdateBookInput struct {
	Title      *string `json:"title"`
	Author     *string `json:"author"`
	Category   *string `json:"category"`
	CoverImage *string `json:"cover_image"`
	PdfURL     *string `json:"pdf_url"`
}

// CreateBook adds a new book to the catalog (admin)
func (s *BookService) CreateBook(ctx context.Context, input *CreateBookInput) (*models.Book, error) {
	exists, err := s.bookRepo.ExistsByCode(ctx, input.BookCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrBookCodeTaken
	}

	book := &models.Book{
		BookCode:    input.BookCode,
		Title:       input.Title,
		Author:      input.Author,
		Category:    input.Category,
		CoverImage:  input.CoverImage,
		PdfURL:      input.PdfURL,
		IsAvailable: true,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	log.Printf("✅ Book created: %s (%s)", book.Title, book.BookCode)
	return book, nil
}

// GetBook returns one book by ID
func (s *BookService) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// ListBooks lists the catalog, optionally filtered by category
func (s *BookService) ListBooks(ctx context.Context, category string) ([]*models.Book, error) {
	if category != "" {
		return s.bookRepo.ListByCategory(ctx, category)
	}
	return s.bookRepo.List(ctx)
}

// UpdateBook updates catalog fields of a book (admin)
func (s *BookService) UpdateBook(ctx context.Context, id uint, input *UpdateBookInput) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.Category != nil {
		book.Category = *input.Category
	}
	if input.CoverImage != nil {
		book.CoverImage = *input.CoverImage
	}
	if input.PdfURL != nil {
		book.PdfURL = *input.PdfURL
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}

	log.Printf("✅ Book updated: %s (%s)", book.Title, book.BookCode)
	return book, nil
}

// DeleteBook removes a book from the catalog (admin)
// A book with an open loan cannot be deleted.
func (s *BookService) DeleteBook(ctx context.Context, id uint) error {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	openLoans, err := s.loanRepo.ListOpenByBook(ctx, id)
	if err != nil {
		return err
	}
	if len(openLoans) > 0 {
		return ErrBookOnLoan
	}

	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("✅ Book deleted: %s (%s)", book.Title, book.BookCode)
	return nil
}
