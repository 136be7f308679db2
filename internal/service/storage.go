// Package service provides the business logic layer of Kennelbook.
//
// Services own validation and invariant enforcement; they never manage SQL
// directly. Multi-statement mutations run through Storage.WithTx, and the
// derived cycle snapshot is recomputed and persisted inside that same
// transaction.
package service

import (
	"context"
	"time"

	"kennelbook.io/kennelbook/internal/cycle"
	"kennelbook.io/kennelbook/internal/domain"
	"kennelbook.io/kennelbook/internal/repository"
)

// Storage is the persistence surface the services depend on. It is
// implemented by the PostgreSQL store and by in-memory fakes in tests.
type Storage interface {
	CreateDog(ctx context.Context, d *domain.Dog) error
	GetDog(ctx context.Context, id string) (*domain.Dog, error)
	ListDogs(ctx context.Context, f domain.DogFilter) ([]*domain.Dog, error)
	UpdateDog(ctx context.Context, d *domain.Dog) error
	DeleteDog(ctx context.Context, id string) error

	CreateClient(ctx context.Context, c *domain.Client) error
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	ListClients(ctx context.Context) ([]*domain.Client, error)
	UpdateClient(ctx context.Context, c *domain.Client) error
	DeleteClient(ctx context.Context, id string) error

	CreateLitter(ctx context.Context, l *domain.Litter) error
	GetLitter(ctx context.Context, id string) (*domain.Litter, error)
	ListLitters(ctx context.Context, damID string) ([]*domain.Litter, error)
	UpdateLitter(ctx context.Context, l *domain.Litter) error
	DeleteLitter(ctx context.Context, id string) error

	CreateExpense(ctx context.Context, e *domain.Expense) error
	GetExpense(ctx context.Context, id string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, f domain.ExpenseFilter) ([]*domain.Expense, error)
	UpdateExpense(ctx context.Context, e *domain.Expense) error
	DeleteExpense(ctx context.Context, id string) error

	CreateContract(ctx context.Context, c *domain.Contract) error
	GetContract(ctx context.Context, id string) (*domain.Contract, error)
	ListContracts(ctx context.Context, clientID string) ([]*domain.Contract, error)
	UpdateContract(ctx context.Context, c *domain.Contract) error
	DeleteContract(ctx context.Context, id string) error

	CreateCycle(ctx context.Context, r *cycle.Record) error
	GetCycle(ctx context.Context, id string) (*cycle.Record, error)
	GetCycleForUpdate(ctx context.Context, id string) (*cycle.Record, error)
	ListCyclesByDog(ctx context.Context, dogID string) ([]*cycle.Record, error)
	FindActiveCycle(ctx context.Context, dogID string) (*cycle.Record, error)
	ListActiveCycles(ctx context.Context) ([]repository.ActiveCycle, error)
	UpdateCycleDerived(ctx context.Context, r *cycle.Record) error
	DeleteCycle(ctx context.Context, id string) error

	InsertCycleEvent(ctx context.Context, ev *cycle.Event) error
	GetCycleEvent(ctx context.Context, cycleID, eventID string) (*cycle.Event, error)
	ListCycleEvents(ctx context.Context, cycleID string) ([]cycle.Event, error)
	DeleteCycleEvent(ctx context.Context, cycleID, eventID string) error

	InsertNotification(ctx context.Context, n *domain.Notification) error
	ListNotifications(ctx context.Context, unreadOnly bool) ([]*domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	HasNotificationSince(ctx context.Context, typ, resourceID string, since time.Time) (bool, error)

	// WithTx runs fn inside one transaction; every Storage call made on the
	// argument executes on that transaction.
	WithTx(ctx context.Context, fn func(tx Storage) error) error
}

// sqlStorage adapts *repository.Store to Storage; the only translation
// needed is the WithTx callback type.
type sqlStorage struct {
	*repository.Store
}

// NewStorage wraps the PostgreSQL store as the service Storage.
func NewStorage(s *repository.Store) Storage {
	return sqlStorage{Store: s}
}

func (s sqlStorage) WithTx(ctx context.Context, fn func(tx Storage) error) error {
	return s.Store.WithTx(ctx, func(tx *repository.Store) error {
		return fn(sqlStorage{Store: tx})
	})
}
