// Package handlers implements the HTTP API for Kennelbook.
//
// Handlers stay thin: bind, call the service, render. Failures go through
// c.Error() and the ErrorHandler middleware shapes every error response.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"kennelbook.io/kennelbook/internal/pkg/worker"
	"kennelbook.io/kennelbook/internal/service"
)

// Pinger reports database reachability for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the services the handlers delegate to.
type Server struct {
	records *service.RecordService
	cycles  *service.CycleService
	exports *service.ExportService
	store   service.Storage
	pools   *worker.Pools
	db      Pinger
}

// ServerDeps holds all dependencies for creating a Server.
// Manual DI, no Wire/Dig.
type ServerDeps struct {
	Records *service.RecordService
	Cycles  *service.CycleService
	Exports *service.ExportService
	Store   service.Storage
	Pools   *worker.Pools
	DB      Pinger
}

// NewServer creates a new Server with all dependencies.
func NewServer(deps ServerDeps) *Server {
	return &Server{
		records: deps.Records,
		cycles:  deps.Cycles,
		exports: deps.Exports,
		store:   deps.Store,
		pools:   deps.Pools,
		db:      deps.DB,
	}
}

// RegisterRoutes attaches all API routes under the given group.
func (s *Server) RegisterRoutes(api *gin.RouterGroup) {
	dogs := api.Group("/dogs")
	{
		dogs.POST("", s.CreateDog)
		dogs.GET("", s.ListDogs)
		dogs.GET("/:id", s.GetDog)
		dogs.PUT("/:id", s.UpdateDog)
		dogs.DELETE("/:id", s.DeleteDog)
		dogs.POST("/:id/cycles", s.StartCycle)
		dogs.GET("/:id/cycles", s.ListDogCycles)
		dogs.GET("/:id/cycles/export", s.ExportDogHistory)
	}

	cycles := api.Group("/cycles")
	{
		cycles.GET("/:id", s.GetCycle)
		cycles.GET("/:id/timeline", s.GetCycleTimeline)
		cycles.PATCH("/:id", s.UpdateCycleNotes)
		cycles.DELETE("/:id", s.DeleteCycle)
		cycles.POST("/:id/end", s.EndCycle)
		cycles.POST("/:id/events", s.AddCycleEvent)
		cycles.DELETE("/:id/events/:eventID", s.RemoveCycleEvent)
		cycles.GET("/:id/export", s.ExportCycle)
	}

	clients := api.Group("/clients")
	{
		clients.POST("", s.CreateClient)
		clients.GET("", s.ListClients)
		clients.GET("/:id", s.GetClient)
		clients.PUT("/:id", s.UpdateClient)
		clients.DELETE("/:id", s.DeleteClient)
	}

	litters := api.Group("/litters")
	{
		litters.POST("", s.CreateLitter)
		litters.GET("", s.ListLitters)
		litters.GET("/:id", s.GetLitter)
		litters.PUT("/:id", s.UpdateLitter)
		litters.DELETE("/:id", s.DeleteLitter)
	}

	expenses := api.Group("/expenses")
	{
		expenses.POST("", s.CreateExpense)
		expenses.GET("", s.ListExpenses)
		expenses.GET("/:id", s.GetExpense)
		expenses.PUT("/:id", s.UpdateExpense)
		expenses.DELETE("/:id", s.DeleteExpense)
	}

	contracts := api.Group("/contracts")
	{
		contracts.POST("", s.CreateContract)
		contracts.GET("", s.ListContracts)
		contracts.GET("/:id", s.GetContract)
		contracts.PUT("/:id", s.UpdateContract)
		contracts.DELETE("/:id", s.DeleteContract)
	}

	api.GET("/notifications", s.ListNotifications)
	api.POST("/notifications/:id/read", s.MarkNotificationRead)

	api.GET("/system/workers", s.WorkerMetrics)
}

// RegisterHealthRoutes attaches liveness and readiness probes at the root.
func (s *Server) RegisterHealthRoutes(r gin.IRoutes) {
	r.GET("/health/live", s.HealthLive)
	r.GET("/health/ready", s.HealthReady)
}
