package handlers

import (
	"errors"

	"smart-elib/internal/core/domain"
	"smart-elib/internal/core/services"
	"smart-elib/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan lifecycle endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// IssueRequest represents book issuance request body
type IssueRequest struct {
	BookID        uint `json:"book_id"`
	RequestedDays int  `json:"requested_days"`
}

// IssueBook issues a book to the current student
// @Summary Issue book
// @Description Issue a book to the authenticated student. The return
// @Description schedule is fixed at issuance: default 7 days, max 20,
// @Description weekend due dates shifted to Monday, plus a 4-day grace window.
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body IssueRequest true "Issue data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) IssueBook(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req IssueRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.BookID == 0 {
		return response.BadRequest(c, "Book ID is required")
	}

	input := &services.IssueInput{
		BookID:        req.BookID,
		RequestedDays: req.RequestedDays,
	}

	loan, err := h.loanService.IssueBook(c.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanTooLong):
			return response.BadRequest(c, "Maximum loan length is 20 days")
		case errors.Is(err, services.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		case errors.Is(err, services.ErrBookUnavailable):
			return response.Conflict(c, "Book is not available")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to issue book")
		}
	}

	return response.Created(c, "Book issued successfully", fiber.Map{
		"loan": loan,
	})
}

// ReturnBook closes a loan
// @Summary Return book
// @Description Return an issued book. Returning twice is a conflict.
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/return [put]
func (h *LoanHandler) ReturnBook(c *fiber.Ctx) error {
	transactionID := c.Params("id")
	if transactionID == "" {
		return response.BadRequest(c, "Transaction ID is required")
	}

	loan, err := h.loanService.ReturnBook(c.Context(), transactionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		case errors.Is(err, services.ErrAlreadyReturned):
			return response.Conflict(c, "Loan already returned")
		default:
			return response.InternalServerError(c, "Failed to return book")
		}
	}

	return response.Success(c, "Book returned successfully", fiber.Map{
		"loan": loan,
	})
}

// GetLoan returns one loan
// @Summary Get loan
// @Description Get one loan by its transaction ID
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) GetLoan(c *fiber.Ctx) error {
	transactionID := c.Params("id")
	if transactionID == "" {
		return response.BadRequest(c, "Transaction ID is required")
	}

	loan, err := h.loanService.GetLoan(c.Context(), transactionID)
	if err != nil {
		if errors.Is(err, services.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to get loan")
	}

	return response.Success(c, "Loan retrieved successfully", fiber.Map{
		"loan": loan,
	})
}

// MyLoans lists the current student's loans
// @Summary List my loans
// @Description List every loan of the authenticated student
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/my [get]
func (h *LoanHandler) MyLoans(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	loans, err := h.loanService.ListUserLoans(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", fiber.Map{
		"loans": loans,
		"total": len(loans),
	})
}

// MySummary returns the current student's dashboard summary
// @Summary Student summary
// @Description Loan history, running penalty total and alerts for the
// @Description authenticated student
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/summary [get]
func (h *LoanHandler) MySummary(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	summary, err := h.loanService.GetStudentSummary(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to build summary")
	}

	return response.Success(c, "Summary retrieved successfully", summary)
}
