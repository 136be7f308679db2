package repository

import (
	"context"
	"fmt"
	"time"

	"kennelbook.io/kennelbook/internal/domain"
)

// nullStr maps empty strings to SQL NULL so optional references do not trip
// foreign keys.
func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

const dogColumns = `id, name, call_name, sex, breed, color, birth_date,
	registration_number, microchip, sire_id, dam_id, owner_client_id,
	active, notes, created_at, updated_at`

func scanDog(row interface{ Scan(dest ...any) error }) (*domain.Dog, error) {
	var d domain.Dog
	var sire, dam, owner *string
	err := row.Scan(
		&d.ID, &d.Name, &d.CallName, &d.Sex, &d.Breed, &d.Color, &d.BirthDate,
		&d.RegistrationNumber, &d.Microchip, &sire, &dam, &owner,
		&d.Active, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	d.SireID = strOrEmpty(sire)
	d.DamID = strOrEmpty(dam)
	d.OwnerClientID = strOrEmpty(owner)
	return &d, nil
}

// CreateDog inserts a new dog record.
func (s *Store) CreateDog(ctx context.Context, d *domain.Dog) error {
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now
	_, err := s.db.Exec(ctx, `
		INSERT INTO dogs (id, name, call_name, sex, breed, color, birth_date,
			registration_number, microchip, sire_id, dam_id, owner_client_id,
			active, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		d.ID, d.Name, d.CallName, d.Sex, d.Breed, d.Color, d.BirthDate,
		d.RegistrationNumber, d.Microchip, nullStr(d.SireID), nullStr(d.DamID),
		nullStr(d.OwnerClientID), d.Active, d.Notes, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert dog: %w", err)
	}
	return nil
}

// GetDog fetches one dog by id.
func (s *Store) GetDog(ctx context.Context, id string) (*domain.Dog, error) {
	row := s.db.QueryRow(ctx, `SELECT `+dogColumns+` FROM dogs WHERE id = $1`, id)
	return scanDog(row)
}

// ListDogs returns dogs matching the filter, name-sorted.
func (s *Store) ListDogs(ctx context.Context, f domain.DogFilter) ([]*domain.Dog, error) {
	q := `SELECT ` + dogColumns + ` FROM dogs WHERE 1=1`
	var args []any
	if f.Sex != "" {
		args = append(args, f.Sex)
		q += fmt.Sprintf(" AND sex = $%d", len(args))
	}
	if f.ActiveOnly {
		q += " AND active"
	}
	if f.NameQuery != "" {
		args = append(args, "%"+f.NameQuery+"%")
		q += fmt.Sprintf(" AND (name ILIKE $%d OR call_name ILIKE $%d)", len(args), len(args))
	}
	q += " ORDER BY name"

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list dogs: %w", err)
	}
	defer rows.Close()

	var dogs []*domain.Dog
	for rows.Next() {
		d, err := scanDog(rows)
		if err != nil {
			return nil, err
		}
		dogs = append(dogs, d)
	}
	return dogs, rows.Err()
}

// UpdateDog overwrites the mutable fields of a dog record.
func (s *Store) UpdateDog(ctx context.Context, d *domain.Dog) error {
	d.UpdatedAt = time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		UPDATE dogs SET name=$2, call_name=$3, sex=$4, breed=$5, color=$6,
			birth_date=$7, registration_number=$8, microchip=$9, sire_id=$10,
			dam_id=$11, owner_client_id=$12, active=$13, notes=$14, updated_at=$15
		WHERE id = $1`,
		d.ID, d.Name, d.CallName, d.Sex, d.Breed, d.Color, d.BirthDate,
		d.RegistrationNumber, d.Microchip, nullStr(d.SireID), nullStr(d.DamID),
		nullStr(d.OwnerClientID), d.Active, d.Notes, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update dog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDog removes a dog; cycles and their events cascade in the schema.
func (s *Store) DeleteDog(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM dogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
