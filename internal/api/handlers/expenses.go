package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kennelbook.io/kennelbook/internal/domain"
)

type expenseRequest struct {
	Date        string `json:"date"`
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category"`
	DogID       string `json:"dog_id"`
	Vendor      string `json:"vendor"`
	Notes       string `json:"notes"`
}

func (r expenseRequest) toDomain() (*domain.Expense, error) {
	day, err := parseDate("date", r.Date)
	if err != nil {
		return nil, err
	}
	return &domain.Expense{
		Date:        day,
		AmountCents: r.AmountCents,
		Category:    r.Category,
		DogID:       r.DogID,
		Vendor:      r.Vendor,
		Notes:       r.Notes,
	}, nil
}

// CreateExpense handles POST /api/v1/expenses.
func (s *Server) CreateExpense(c *gin.Context) {
	var req expenseRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	expense, err := req.toDomain()
	if err != nil {
		abortWithError(c, err)
		return
	}
	created, err := s.records.CreateExpense(c.Request.Context(), expense)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetExpense handles GET /api/v1/expenses/:id.
func (s *Server) GetExpense(c *gin.Context) {
	expense, err := s.records.GetExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// ListExpenses handles GET /api/v1/expenses with optional from, to and
// dog_id filters.
func (s *Server) ListExpenses(c *gin.Context) {
	var filter domain.ExpenseFilter
	if from := c.Query("from"); from != "" {
		t, err := parseDate("from", from)
		if err != nil {
			abortWithError(c, err)
			return
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := parseDate("to", to)
		if err != nil {
			abortWithError(c, err)
			return
		}
		filter.To = &t
	}
	filter.DogID = c.Query("dog_id")

	expenses, err := s.records.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses, "count": len(expenses)})
}

// UpdateExpense handles PUT /api/v1/expenses/:id.
func (s *Server) UpdateExpense(c *gin.Context) {
	var req expenseRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	expense, err := req.toDomain()
	if err != nil {
		abortWithError(c, err)
		return
	}
	expense.ID = c.Param("id")
	updated, err := s.records.UpdateExpense(c.Request.Context(), expense)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteExpense handles DELETE /api/v1/expenses/:id.
func (s *Server) DeleteExpense(c *gin.Context) {
	if err := s.records.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
