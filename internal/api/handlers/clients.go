package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kennelbook.io/kennelbook/internal/domain"
)

// CreateClient handles POST /api/v1/clients.
func (s *Server) CreateClient(c *gin.Context) {
	var client domain.Client
	if err := bindJSON(c, &client); err != nil {
		abortWithError(c, err)
		return
	}
	created, err := s.records.CreateClient(c.Request.Context(), &client)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetClient handles GET /api/v1/clients/:id.
func (s *Server) GetClient(c *gin.Context) {
	client, err := s.records.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// ListClients handles GET /api/v1/clients.
func (s *Server) ListClients(c *gin.Context) {
	clients, err := s.records.ListClients(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients, "count": len(clients)})
}

// UpdateClient handles PUT /api/v1/clients/:id.
func (s *Server) UpdateClient(c *gin.Context) {
	var client domain.Client
	if err := bindJSON(c, &client); err != nil {
		abortWithError(c, err)
		return
	}
	client.ID = c.Param("id")
	updated, err := s.records.UpdateClient(c.Request.Context(), &client)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteClient handles DELETE /api/v1/clients/:id.
func (s *Server) DeleteClient(c *gin.Context) {
	if err := s.records.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
