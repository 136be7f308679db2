package repository

import (
	"context"
	"fmt"
	"time"

	"kennelbook.io/kennelbook/internal/domain"
)

const expenseColumns = `id, expense_date, amount_cents, category, dog_id,
	vendor, notes, created_at, updated_at`

func scanExpense(row interface{ Scan(dest ...any) error }) (*domain.Expense, error) {
	var e domain.Expense
	var dogID *string
	err := row.Scan(&e.ID, &e.Date, &e.AmountCents, &e.Category, &dogID,
		&e.Vendor, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	e.DogID = strOrEmpty(dogID)
	return &e, nil
}

func (s *Store) CreateExpense(ctx context.Context, e *domain.Expense) error {
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	_, err := s.db.Exec(ctx, `
		INSERT INTO expenses (id, expense_date, amount_cents, category, dog_id,
			vendor, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		e.ID, e.Date, e.AmountCents, e.Category, nullStr(e.DogID),
		e.Vendor, e.Notes, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (s *Store) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	row := s.db.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)
	return scanExpense(row)
}

// ListExpenses returns expenses newest first, filtered by date range and dog.
func (s *Store) ListExpenses(ctx context.Context, f domain.ExpenseFilter) ([]*domain.Expense, error) {
	q := `SELECT ` + expenseColumns + ` FROM expenses WHERE 1=1`
	var args []any
	if f.From != nil {
		args = append(args, *f.From)
		q += fmt.Sprintf(" AND expense_date >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		q += fmt.Sprintf(" AND expense_date <= $%d", len(args))
	}
	if f.DogID != "" {
		args = append(args, f.DogID)
		q += fmt.Sprintf(" AND dog_id = $%d", len(args))
	}
	q += " ORDER BY expense_date DESC, created_at DESC"

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *Store) UpdateExpense(ctx context.Context, e *domain.Expense) error {
	e.UpdatedAt = time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		UPDATE expenses SET expense_date=$2, amount_cents=$3, category=$4,
			dog_id=$5, vendor=$6, notes=$7, updated_at=$8
		WHERE id = $1`,
		e.ID, e.Date, e.AmountCents, e.Category, nullStr(e.DogID),
		e.Vendor, e.Notes, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
