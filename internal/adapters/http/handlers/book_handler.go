package handlers

import (
	"errors"
	"strconv"
	"strings"

	"smart-elib/internal/core/services"
	"smart-elib/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles book catalog endpoints
type BookHandler struct {
	bookService *services.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *services.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// CreateBookRequest represents book creation request body
type CreateBookRequest struct {
	BookCode   string `json:"book_code"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Category   string `json:"category"`
	CoverImage string `json:"cover_image"`
	PdfURL     string `json:"pdf_url"`
}

// UpdateBookRequest represents book update request body
type UpdateBookRequest struct {
	Title      *string `json:"title"`
	Author     *string `json:"author"`
	Category   *string `json:"category"`
	CoverImage *string `json:"cover_image"`
	PdfURL     *string `json:"pdf_url"`
}

// ListBooks returns the book catalog
// @Summary List books
// @Description List the book catalog, optionally filtered by category
// @Tags Books
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} response.Response
// @Router /books [get]
func (h *BookHandler) ListBooks(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))

	books, err := h.bookService.ListBooks(c.Context(), category)
	if err != nil {
		return response.InternalServerError(c, "Failed to list books")
	}

	return response.Success(c, "Books retrieved successfully", fiber.Map{
		"books": books,
		"total": len(books),
	})
}

// GetBook returns one book
// @Summary Get book
// @Description Get one book by ID
// @Tags Books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [get]
func (h *BookHandler) GetBook(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	book, err := h.bookService.GetBook(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrBookNotFound) {
			return response.NotFound(c, "Book not found")
		}
		return response.InternalServerError(c, "Failed to get book")
	}

	return response.Success(c, "Book retrieved successfully", fiber.Map{
		"book": book,
	})
}

// CreateBook adds a book to the catalog
// @Summary Create book
// @Description Add a new book to the catalog (admin only)
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateBookRequest true "Book data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /books [post]
func (h *BookHandler) CreateBook(c *fiber.Ctx) error {
	var req CreateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.BookCode == "" {
		return response.BadRequest(c, "Book code is required")
	}
	if req.Title == "" {
		return response.BadRequest(c, "Title is required")
	}
	if req.Author == "" {
		return response.BadRequest(c, "Author is required")
	}

	input := &services.CreateBookInput{
		BookCode:   strings.TrimSpace(req.BookCode),
		Title:      strings.TrimSpace(req.Title),
		Author:     strings.TrimSpace(req.Author),
		Category:   strings.TrimSpace(req.Category),
		CoverImage: strings.TrimSpace(req.CoverImage),
		PdfURL:     strings.TrimSpace(req.PdfURL),
	}

	book, err := h.bookService.CreateBook(c.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrBookCodeTaken) {
			return response.Conflict(c, "Book code already exists")
		}
		return response.InternalServerError(c, "Failed to create book")
	}

	return response.Created(c, "Book created successfully", fiber.Map{
		"book": book,
	})
}

// UpdateBook updates catalog fields of a book
// @Summary Update book
// @Description Update catalog fields of a book (admin only)
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param body body UpdateBookRequest true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [put]
func (h *BookHandler) UpdateBook(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	var req UpdateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateBookInput{
		Title:      req.Title,
		Author:     req.Author,
		Category:   req.Category,
		CoverImage: req.CoverImage,
		PdfURL:     req.PdfURL,
	}

	book, err := h.bookService.UpdateBook(c.Context(), uint(id), input)
	if err != nil {
		if errors.Is(err, services.ErrBookNotFound) {
			return response.NotFound(c, "Book not found")
		}
		return response.InternalServerError(c, "Failed to update book")
	}

	return response.Success(c, "Book updated successfully", fiber.Map{
		"book": book,
	})
}

// DeleteBook removes a book from the catalog
// @Summary Delete book
// @Description Remove a book from the catalog (admin only)
// @Tags Books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	if err := h.bookService.DeleteBook(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, services.ErrBookOnLoan):
			return response.Conflict(c, "Book is currently issued and cannot be deleted")
		default:
			return response.InternalServerError(c, "Failed to delete book")
		}
	}

	return response.Success(c, "Book deleted successfully", nil)
}
