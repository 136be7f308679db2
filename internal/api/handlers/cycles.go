package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"kennelbook.io/kennelbook/internal/cycle"
	"kennelbook.io/kennelbook/internal/service"
)

type startCycleRequest struct {
	StartDate string `json:"start_date"`
	Notes     string `json:"notes"`
}

// StartCycle handles POST /api/v1/dogs/:id/cycles.
func (s *Server) StartCycle(c *gin.Context) {
	var req startCycleRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		abortWithError(c, err)
		return
	}
	rec, err := s.cycles.StartCycle(c.Request.Context(), c.Param("id"), start, req.Notes)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// ListDogCycles handles GET /api/v1/dogs/:id/cycles, newest first.
func (s *Server) ListDogCycles(c *gin.Context) {
	recs, err := s.cycles.ListByDog(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cycles": recs, "count": len(recs)})
}

// GetCycle handles GET /api/v1/cycles/:id, returning the record and its
// chronological timeline.
func (s *Server) GetCycle(c *gin.Context) {
	detail, err := s.cycles.GetCycle(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetCycleTimeline handles GET /api/v1/cycles/:id/timeline, returning just
// the chronological event rows.
func (s *Server) GetCycleTimeline(c *gin.Context) {
	detail, err := s.cycles.GetCycle(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeline": detail.Timeline, "count": len(detail.Timeline)})
}

type updateCycleRequest struct {
	Notes string `json:"notes"`
}

// UpdateCycleNotes handles PATCH /api/v1/cycles/:id. Notes are the only
// field editable after the fact; everything else is derived.
func (s *Server) UpdateCycleNotes(c *gin.Context) {
	var req updateCycleRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	rec, err := s.cycles.UpdateNotes(c.Request.Context(), c.Param("id"), req.Notes)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DeleteCycle handles DELETE /api/v1/cycles/:id.
func (s *Server) DeleteCycle(c *gin.Context) {
	if err := s.cycles.DeleteCycle(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type endCycleRequest struct {
	EndDate string `json:"end_date"`
}

// EndCycle handles POST /api/v1/cycles/:id/end.
func (s *Server) EndCycle(c *gin.Context) {
	var req endCycleRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		abortWithError(c, err)
		return
	}
	rec, err := s.cycles.EndCycle(c.Request.Context(), c.Param("id"), end)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

type cycleEventRequest struct {
	Date              string   `json:"date"`
	TimeOfDay         string   `json:"time_of_day"`
	Kind              string   `json:"kind"`
	ProgesteroneValue *float64 `json:"progesterone_value"`
	ProgesteroneUnit  string   `json:"progesterone_unit"`
	VetClinic         string   `json:"vet_clinic"`
	SireID            string   `json:"sire_id"`
	SireName          string   `json:"sire_name"`
	Notes             string   `json:"notes"`
}

// AddCycleEvent handles POST /api/v1/cycles/:id/events. The response carries
// the stored event and the recomputed cycle record.
func (s *Server) AddCycleEvent(c *gin.Context) {
	var req cycleEventRequest
	if err := bindJSON(c, &req); err != nil {
		abortWithError(c, err)
		return
	}
	day, err := parseDate("date", req.Date)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ev, rec, err := s.cycles.AddEvent(c.Request.Context(), c.Param("id"), service.EventInput{
		Date:              day,
		TimeOfDay:         req.TimeOfDay,
		Kind:              cycle.EventKind(req.Kind),
		ProgesteroneValue: req.ProgesteroneValue,
		ProgesteroneUnit:  req.ProgesteroneUnit,
		VetClinic:         req.VetClinic,
		SireID:            req.SireID,
		SireName:          req.SireName,
		Notes:             req.Notes,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": ev, "cycle": rec})
}

// RemoveCycleEvent handles DELETE /api/v1/cycles/:id/events/:eventID and
// returns the recomputed cycle record.
func (s *Server) RemoveCycleEvent(c *gin.Context) {
	rec, err := s.cycles.RemoveEvent(c.Request.Context(), c.Param("id"), c.Param("eventID"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cycle": rec})
}

// ExportCycle handles GET /api/v1/cycles/:id/export, streaming a one-row
// CSV download.
func (s *Server) ExportCycle(c *gin.Context) {
	export, err := s.exports.ExportCycle(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	serveCSV(c, export)
}

// ExportDogHistory handles GET /api/v1/dogs/:id/cycles/export, streaming
// the dog's full cycle history as CSV.
func (s *Server) ExportDogHistory(c *gin.Context) {
	export, err := s.exports.ExportDogHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	serveCSV(c, export)
}

func serveCSV(c *gin.Context, export *service.Export) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(export.CSV))
}
