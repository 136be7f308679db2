package repository

import (
	"context"
	"fmt"
	"time"

	"kennelbook.io/kennelbook/internal/domain"
)

const litterColumns = `id, dam_id, sire_id, cycle_id, whelp_date,
	puppies_male, puppies_female, notes, created_at, updated_at`

func scanLitter(row interface{ Scan(dest ...any) error }) (*domain.Litter, error) {
	var l domain.Litter
	var sire, cycleID *string
	err := row.Scan(&l.ID, &l.DamID, &sire, &cycleID, &l.WhelpDate,
		&l.PuppiesMale, &l.PuppiesFemale, &l.Notes, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	l.SireID = strOrEmpty(sire)
	l.CycleID = strOrEmpty(cycleID)
	return &l, nil
}

func (s *Store) CreateLitter(ctx context.Context, l *domain.Litter) error {
	now := time.Now().UTC()
	l.CreatedAt, l.UpdatedAt = now, now
	_, err := s.db.Exec(ctx, `
		INSERT INTO litters (id, dam_id, sire_id, cycle_id, whelp_date,
			puppies_male, puppies_female, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		l.ID, l.DamID, nullStr(l.SireID), nullStr(l.CycleID), l.WhelpDate,
		l.PuppiesMale, l.PuppiesFemale, l.Notes, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert litter: %w", err)
	}
	return nil
}

func (s *Store) GetLitter(ctx context.Context, id string) (*domain.Litter, error) {
	row := s.db.QueryRow(ctx, `SELECT `+litterColumns+` FROM litters WHERE id = $1`, id)
	return scanLitter(row)
}

// ListLitters returns litters newest first, optionally restricted to one dam.
func (s *Store) ListLitters(ctx context.Context, damID string) ([]*domain.Litter, error) {
	q := `SELECT ` + litterColumns + ` FROM litters`
	var args []any
	if damID != "" {
		q += ` WHERE dam_id = $1`
		args = append(args, damID)
	}
	q += ` ORDER BY whelp_date DESC NULLS LAST, created_at DESC`

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list litters: %w", err)
	}
	defer rows.Close()

	var litters []*domain.Litter
	for rows.Next() {
		l, err := scanLitter(rows)
		if err != nil {
			return nil, err
		}
		litters = append(litters, l)
	}
	return litters, rows.Err()
}

func (s *Store) UpdateLitter(ctx context.Context, l *domain.Litter) error {
	l.UpdatedAt = time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		UPDATE litters SET dam_id=$2, sire_id=$3, cycle_id=$4, whelp_date=$5,
			puppies_male=$6, puppies_female=$7, notes=$8, updated_at=$9
		WHERE id = $1`,
		l.ID, l.DamID, nullStr(l.SireID), nullStr(l.CycleID), l.WhelpDate,
		l.PuppiesMale, l.PuppiesFemale, l.Notes, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update litter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteLitter(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM litters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete litter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
