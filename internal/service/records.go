package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"kennelbook.io/kennelbook/internal/domain"
	apperrors "kennelbook.io/kennelbook/internal/pkg/errors"
	"kennelbook.io/kennelbook/internal/repository"
)

// RecordService handles the plain record modules: dogs, clients, litters,
// expenses, and contracts. Single-row operations; no transactions needed.
type RecordService struct {
	store Storage
}

// NewRecordService creates a RecordService.
func NewRecordService(store Storage) *RecordService {
	return &RecordService{store: store}
}

// mapNotFound swaps the repository sentinel for a domain 404, passing other
// errors through. A nil appErr swallows the sentinel; the explicit nil
// return keeps a typed nil from boxing into a non-nil error.
func mapNotFound(err error, appErr *apperrors.AppError) error {
	if errors.Is(err, repository.ErrNotFound) {
		if appErr == nil {
			return nil
		}
		return appErr
	}
	return err
}

func dogNotFound(id string) *apperrors.AppError {
	return apperrors.NotFound(apperrors.CodeDogNotFound, "dog not found").
		WithParams(map[string]interface{}{"dog_id": id})
}

func clientNotFound(id string) *apperrors.AppError {
	return apperrors.NotFound(apperrors.CodeClientNotFound, "client not found").
		WithParams(map[string]interface{}{"client_id": id})
}

func validateDog(d *domain.Dog) error {
	var fields []apperrors.FieldError
	if strings.TrimSpace(d.Name) == "" {
		fields = append(fields, apperrors.FieldError{Field: "name", Code: "required"})
	}
	if !d.Sex.Valid() {
		fields = append(fields, apperrors.FieldError{Field: "sex", Code: "invalid",
			Message: "must be FEMALE or MALE"})
	}
	if len(fields) > 0 {
		return apperrors.BadRequest(apperrors.CodeValidationFailed, "invalid dog").
			WithFieldErrors(fields)
	}
	return nil
}

// CreateDog validates and persists a new dog.
func (s *RecordService) CreateDog(ctx context.Context, d *domain.Dog) (*domain.Dog, error) {
	if err := validateDog(d); err != nil {
		return nil, err
	}
	d.ID = uuid.NewString()
	if err := s.store.CreateDog(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// GetDog fetches one dog.
func (s *RecordService) GetDog(ctx context.Context, id string) (*domain.Dog, error) {
	d, err := s.store.GetDog(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, dogNotFound(id))
	}
	return d, nil
}

// ListDogs lists dogs matching the filter.
func (s *RecordService) ListDogs(ctx context.Context, f domain.DogFilter) ([]*domain.Dog, error) {
	return s.store.ListDogs(ctx, f)
}

// UpdateDog validates and overwrites a dog record.
func (s *RecordService) UpdateDog(ctx context.Context, d *domain.Dog) (*domain.Dog, error) {
	if err := validateDog(d); err != nil {
		return nil, err
	}
	if err := s.store.UpdateDog(ctx, d); err != nil {
		return nil, mapNotFound(err, dogNotFound(d.ID))
	}
	return d, nil
}

// DeleteDog removes a dog and, via cascade, its cycles and events.
func (s *RecordService) DeleteDog(ctx context.Context, id string) error {
	return mapNotFound(s.store.DeleteDog(ctx, id), dogNotFound(id))
}

// CreateClient persists a new client contact.
func (s *RecordService) CreateClient(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, apperrors.BadRequest(apperrors.CodeValidationFailed, "invalid client").
			WithFieldErrors([]apperrors.FieldError{{Field: "name", Code: "required"}})
	}
	c.ID = uuid.NewString()
	if err := s.store.CreateClient(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetClient fetches one client.
func (s *RecordService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	c, err := s.store.GetClient(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, clientNotFound(id))
	}
	return c, nil
}

// ListClients lists all clients.
func (s *RecordService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return s.store.ListClients(ctx)
}

// UpdateClient overwrites a client record.
func (s *RecordService) UpdateClient(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	if err := s.store.UpdateClient(ctx, c); err != nil {
		return nil, mapNotFound(err, clientNotFound(c.ID))
	}
	return c, nil
}

// DeleteClient removes a client.
func (s *RecordService) DeleteClient(ctx context.Context, id string) error {
	return mapNotFound(s.store.DeleteClient(ctx, id), clientNotFound(id))
}

// CreateLitter persists a whelping record after checking the dam exists.
func (s *RecordService) CreateLitter(ctx context.Context, l *domain.Litter) (*domain.Litter, error) {
	if _, err := s.store.GetDog(ctx, l.DamID); err != nil {
		return nil, mapNotFound(err, dogNotFound(l.DamID))
	}
	l.ID = uuid.NewString()
	if err := s.store.CreateLitter(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// GetLitter fetches one litter.
func (s *RecordService) GetLitter(ctx context.Context, id string) (*domain.Litter, error) {
	l, err := s.store.GetLitter(ctx, id)
	if err != nil {
		return nil, mapNotFound(err,
			apperrors.NotFound(apperrors.CodeLitterNotFound, "litter not found"))
	}
	return l, nil
}

// ListLitters lists litters, optionally restricted to one dam.
func (s *RecordService) ListLitters(ctx context.Context, damID string) ([]*domain.Litter, error) {
	return s.store.ListLitters(ctx, damID)
}

// UpdateLitter overwrites a litter record.
func (s *RecordService) UpdateLitter(ctx context.Context, l *domain.Litter) (*domain.Litter, error) {
	if err := s.store.UpdateLitter(ctx, l); err != nil {
		return nil, mapNotFound(err,
			apperrors.NotFound(apperrors.CodeLitterNotFound, "litter not found"))
	}
	return l, nil
}

// DeleteLitter removes a litter.
func (s *RecordService) DeleteLitter(ctx context.Context, id string) error {
	return mapNotFound(s.store.DeleteLitter(ctx, id),
		apperrors.NotFound(apperrors.CodeLitterNotFound, "litter not found"))
}

// CreateExpense persists a cost entry.
func (s *RecordService) CreateExpense(ctx context.Context, e *domain.Expense) (*domain.Expense, error) {
	if e.Date.IsZero() {
		return nil, apperrors.BadRequest(apperrors.CodeValidationFailed, "invalid expense").
			WithFieldErrors([]apperrors.FieldError{{Field: "date", Code: "required"}})
	}
	e.ID = uuid.NewString()
	if err := s.store.CreateExpense(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// GetExpense fetches one expense.
func (s *RecordService) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	e, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, mapNotFound(err,
			apperrors.NotFound(apperrors.CodeExpenseNotFound, "expense not found"))
	}
	return e, nil
}

// ListExpenses lists expenses for a date range and/or dog.
func (s *RecordService) ListExpenses(ctx context.Context, f domain.ExpenseFilter) ([]*domain.Expense, error) {
	return s.store.ListExpenses(ctx, f)
}

// UpdateExpense overwrites an expense record.
func (s *RecordService) UpdateExpense(ctx context.Context, e *domain.Expense) (*domain.Expense, error) {
	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return nil, mapNotFound(err,
			apperrors.NotFound(apperrors.CodeExpenseNotFound, "expense not found"))
	}
	return e, nil
}

// DeleteExpense removes an expense.
func (s *RecordService) DeleteExpense(ctx context.Context, id string) error {
	return mapNotFound(s.store.DeleteExpense(ctx, id),
		apperrors.NotFound(apperrors.CodeExpenseNotFound, "expense not found"))
}

// CreateContract persists an agreement record after checking the client
// exists and the kind is known.
func (s *RecordService) CreateContract(ctx context.Context, c *domain.Contract) (*domain.Contract, error) {
	if !c.Kind.Valid() {
		return nil, apperrors.BadRequest(apperrors.CodeValidationFailed, "invalid contract").
			WithFieldErrors([]apperrors.FieldError{{Field: "kind", Code: "invalid",
				Message: "must be SALE, STUD, or CO_OWN"}})
	}
	if _, err := s.store.GetClient(ctx, c.ClientID); err != nil {
		return nil, mapNotFound(err, clientNotFound(c.ClientID))
	}
	c.ID = uuid.NewString()
	if err := s.store.CreateContract(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetContract fetches one contract.
func (s *RecordService) GetContract(ctx context.Context, id string) (*domain.Contract, error) {
	c, err := s.store.GetContract(ctx, id)
	if err != nil {
		return nil, mapNotFound(err,
			apperrors.NotFound(apperrors.CodeContractNotFound, "contract not found"))
	}
	return c, nil
}

// ListContracts lists contracts, optionally for one client.
func (s *RecordService) ListContracts(ctx context.Context, clientID string) ([]*domain.Contract, error) {
	return s.store.ListContracts(ctx, clientID)
}

// UpdateContract overwrites a contract record.
func (s *RecordService) UpdateContract(ctx context.Context, c *domain.Contract) (*domain.Contract, error) {
	if !c.Kind.Valid() {
		return nil, apperrors.BadRequest(apperrors.CodeValidationFailed, "invalid contract").
			WithFieldErrors([]apperrors.FieldError{{Field: "kind", Code: "invalid"}})
	}
	if err := s.store.UpdateContract(ctx, c); err != nil {
		return nil, mapNotFound(err,
			apperrors.NotFound(apperrors.CodeContractNotFound, "contract not found"))
	}
	return c, nil
}

// DeleteContract removes a contract.
func (s *RecordService) DeleteContract(ctx context.Context, id string) error {
	return mapNotFound(s.store.DeleteContract(ctx, id),
		apperrors.NotFound(apperrors.CodeContractNotFound, "contract not found"))
}
