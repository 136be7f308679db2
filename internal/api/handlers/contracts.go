package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kennelbook.io/kennelbook/internal/domain"
)

type contractRequest struct {
	ClientID   string `json:"client_id"`
	DogID      string `json:"dog_id"`
	Kind       string `json:"kind"`
	Date       string `json:"date"`
	PriceCents int64  `json:"price_cents"`
	Notes      string `json:"notes"`
}

func (r contractRequest) toDomain() (*domain.Contract, error) {
	ct := &domain.Contract{
		ClientID:   r.ClientID,
		DogID:      r.DogID,
		Kind:       domain.ContractKind(r.Kind),
		PriceCents: r.PriceCents,
		Notes:      r.Notes,
	}
	if r.Date != "" {
		day, err := parseDate("date", r.Date)
		if err != nil {
			return nil, err
		}
		ct.Date = &day
	}
	return ct, nil
}

// CreateContract handles POST /api/v1/contracts.
func (s *Server) CreateContract(c *gin.Context) {
	var req contractRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	contract, err := req.toDomain()
	if err != nil {
		abortWithError(c, err)
		return
	}
	created, err := s.records.CreateContract(c.Request.Context(), contract)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetContract handles GET /api/v1/contracts/:id.
func (s *Server) GetContract(c *gin.Context) {
	contract, err := s.records.GetContract(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// ListContracts handles GET /api/v1/contracts with an optional client_id
// filter.
func (s *Server) ListContracts(c *gin.Context) {
	contracts, err := s.records.ListContracts(c.Request.Context(), c.Query("client_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": contracts, "count": len(contracts)})
}

// UpdateContract handles PUT /api/v1/contracts/:id.
func (s *Server) UpdateContract(c *gin.Context) {
	var req contractRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	contract, err := req.toDomain()
	if err != nil {
		abortWithError(c, err)
		return
	}
	contract.ID = c.Param("id")
	updated, err := s.records.UpdateContract(c.Request.Context(), contract)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteContract handles DELETE /api/v1/contracts/:id.
func (s *Server) DeleteContract(c *gin.Context) {
	if err := s.records.DeleteContract(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
