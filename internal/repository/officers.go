package repository

import (
	"context"
	"time"

	"github.com/station95-rescue/duty-roster/backend/internal/domain"
)

func (r *Repository) GetActiveDutyOfficers() ([]*domain.DutyOfficer, error) {
	query := `
		SELECT id, full_name, email, is_active, created_at
		FROM duty_officers
		WHERE is_active = TRUE
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	officers := []*domain.DutyOfficer{}
	for rows.Next() {
		var officer domain.DutyOfficer
		dst := []any{
			&officer.ID,
			&officer.FullName,
			&officer.Email,
			&officer.IsActive,
			&officer.CreatedAt,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		officers = append(officers, &officer)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return officers, nil
}

func (r *Repository) CreateDutyOfficer(officer *domain.DutyOfficer) error {
	query := `
		INSERT INTO duty_officers (full_name, email, is_active)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name, is_active = EXCLUDED.is_active
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{officer.FullName, officer.Email, officer.IsActive}
	dst := []any{&officer.ID, &officer.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
		return err
	}

	return nil
}
