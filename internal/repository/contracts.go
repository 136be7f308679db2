package repository

import (
	"context"
	"fmt"
	"time"

	"kennelbook.io/kennelbook/internal/domain"
)

const contractColumns = `id, client_id, dog_id, kind, contract_date,
	price_cents, notes, created_at, updated_at`

func scanContract(row interface{ Scan(dest ...any) error }) (*domain.Contract, error) {
	var c domain.Contract
	var dogID *string
	err := row.Scan(&c.ID, &c.ClientID, &dogID, &c.Kind, &c.Date,
		&c.PriceCents, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	c.DogID = strOrEmpty(dogID)
	return &c, nil
}

func (s *Store) CreateContract(ctx context.Context, c *domain.Contract) error {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := s.db.Exec(ctx, `
		INSERT INTO contracts (id, client_id, dog_id, kind, contract_date,
			price_cents, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		c.ID, c.ClientID, nullStr(c.DogID), c.Kind, c.Date,
		c.PriceCents, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

func (s *Store) GetContract(ctx context.Context, id string) (*domain.Contract, error) {
	row := s.db.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id)
	return scanContract(row)
}

// ListContracts returns contracts newest first, optionally for one client.
func (s *Store) ListContracts(ctx context.Context, clientID string) ([]*domain.Contract, error) {
	q := `SELECT ` + contractColumns + ` FROM contracts`
	var args []any
	if clientID != "" {
		q += ` WHERE client_id = $1`
		args = append(args, clientID)
	}
	q += ` ORDER BY contract_date DESC NULLS LAST, created_at DESC`

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []*domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

func (s *Store) UpdateContract(ctx context.Context, c *domain.Contract) error {
	c.UpdatedAt = time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		UPDATE contracts SET client_id=$2, dog_id=$3, kind=$4, contract_date=$5,
			price_cents=$6, notes=$7, updated_at=$8
		WHERE id = $1`,
		c.ID, c.ClientID, nullStr(c.DogID), c.Kind, c.Date,
		c.PriceCents, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteContract(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
