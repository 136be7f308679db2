package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kennelbook.io/kennelbook/internal/domain"
)

type litterRequest struct {
	DamID         string `json:"dam_id"`
	SireID        string `json:"sire_id"`
	CycleID       string `json:"cycle_id"`
	WhelpDate     string `json:"whelp_date"`
	PuppiesMale   int    `json:"puppies_male"`
	PuppiesFemale int    `json:"puppies_female"`
	Notes         string `json:"notes"`
}

func (r litterRequest) toDomain() (*domain.Litter, error) {
	l := &domain.Litter{
		DamID:         r.DamID,
		SireID:        r.SireID,
		CycleID:       r.CycleID,
		PuppiesMale:   r.PuppiesMale,
		PuppiesFemale: r.PuppiesFemale,
		Notes:         r.Notes,
	}
	if r.WhelpDate != "" {
		whelped, err := parseDate("whelp_date", r.WhelpDate)
		if err != nil {
			return nil, err
		}
		l.WhelpDate = &whelped
	}
	return l, nil
}

// CreateLitter handles POST /api/v1/litters.
func (s *Server) CreateLitter(c *gin.Context) {
	var req litterRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	litter, err := req.toDomain()
	if err != nil {
		abortWithError(c, err)
		return
	}
	created, err := s.records.CreateLitter(c.Request.Context(), litter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetLitter handles GET /api/v1/litters/:id.
func (s *Server) GetLitter(c *gin.Context) {
	litter, err := s.records.GetLitter(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, litter)
}

// ListLitters handles GET /api/v1/litters with an optional dam_id filter.
func (s *Server) ListLitters(c *gin.Context) {
	litters, err := s.records.ListLitters(c.Request.Context(), c.Query("dam_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"litters": litters, "count": len(litters)})
}

// UpdateLitter handles PUT /api/v1/litters/:id.
func (s *Server) UpdateLitter(c *gin.Context) {
	var req litterRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	litter, err := req.toDomain()
	if err != nil {
		abortWithError(c, err)
		return
	}
	litter.ID = c.Param("id")
	updated, err := s.records.UpdateLitter(c.Request.Context(), litter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteLitter handles DELETE /api/v1/litters/:id.
func (s *Server) DeleteLitter(c *gin.Context) {
	if err := s.records.DeleteLitter(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
