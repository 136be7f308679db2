package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kennelbook.io/kennelbook/internal/domain"
)

type dogRequest struct {
	Name               string `json:"name"`
	CallName           string `json:"call_name"`
	Sex                string `json:"sex"`
	Breed              string `json:"breed"`
	Color              string `json:"color"`
	BirthDate          string `json:"birth_date"`
	RegistrationNumber string `json:"registration_number"`
	Microchip          string `json:"microchip"`
	SireID             string `json:"sire_id"`
	DamID              string `json:"dam_id"`
	OwnerClientID      string `json:"owner_client_id"`
	Active             *bool  `json:"active"`
	Notes              string `json:"notes"`
}

func (r dogRequest) toDomain() (*domain.Dog, error) {
	d := &domain.Dog{
		Name:               r.Name,
		CallName:           r.CallName,
		Sex:                domain.Sex(r.Sex),
		Breed:              r.Breed,
		Color:              r.Color,
		RegistrationNumber: r.RegistrationNumber,
		Microchip:          r.Microchip,
		SireID:             r.SireID,
		DamID:              r.DamID,
		OwnerClientID:      r.OwnerClientID,
		Active:             true,
		Notes:              r.Notes,
	}
	if r.Active != nil {
		d.Active = *r.Active
	}
	if r.BirthDate != "" {
		born, err := parseDate("birth_date", r.BirthDate)
		if err != nil {
			return nil, err
		}
		d.BirthDate = &born
	}
	return d, nil
}

// CreateDog handles POST /api/v1/dogs.
func (s *Server) CreateDog(c *gin.Context) {
	var req dogRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	dog, err := req.toDomain()
	if err != nil {
		abortWithError(c, err)
		return
	}
	created, err := s.records.CreateDog(c.Request.Context(), dog)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetDog handles GET /api/v1/dogs/:id.
func (s *Server) GetDog(c *gin.Context) {
	dog, err := s.records.GetDog(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dog)
}

// ListDogs handles GET /api/v1/dogs with optional sex, active and q filters.
func (s *Server) ListDogs(c *gin.Context) {
	filter := domain.DogFilter{
		Sex:        domain.Sex(c.Query("sex")),
		ActiveOnly: c.Query("active") == "true",
		NameQuery:  c.Query("q"),
	}
	dogs, err := s.records.ListDogs(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dogs": dogs, "count": len(dogs)})
}

// UpdateDog handles PUT /api/v1/dogs/:id.
func (s *Server) UpdateDog(c *gin.Context) {
	var req dogRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	dog, err := req.toDomain()
	if err != nil {
		abortWithError(c, err)
		return
	}
	dog.ID = c.Param("id")
	updated, err := s.records.UpdateDog(c.Request.Context(), dog)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteDog handles DELETE /api/v1/dogs/:id.
func (s *Server) DeleteDog(c *gin.Context) {
	if err := s.records.DeleteDog(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
