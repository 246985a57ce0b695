package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/station95-rescue/duty-roster/backend/internal/domain"
)

// LookupCoverage returns the zone split for a unit combination key
// (sorted ids, comma-joined). Returns sql.ErrNoRows when the table has
// no entry for the combination.
func (r *Repository) LookupCoverage(key string) ([]domain.ZoneAssignment, error) {
	query := `
		SELECT unit_id, zones
		FROM coverage_assignments
		WHERE combination = $1
		ORDER BY position
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []domain.ZoneAssignment{}
	for rows.Next() {
		var assignment domain.ZoneAssignment
		var zones string
		if err := rows.Scan(&assignment.UnitID, &zones); err != nil {
			return nil, err
		}
		assignment.Zones, err = parseZoneList(zones)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(assignments) == 0 {
		return nil, sql.ErrNoRows
	}

	return assignments, nil
}

// ReplaceCoverage rewrites every assignment row for a combination key.
func (r *Repository) ReplaceCoverage(key string, assignments []domain.ZoneAssignment) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM coverage_assignments WHERE combination = $1`, key); err != nil {
		return err
	}

	insert := `
		INSERT INTO coverage_assignments (combination, unit_id, zones, position)
		VALUES ($1, $2, $3, $4)
	`
	for i, assignment := range assignments {
		if _, err := tx.ExecContext(ctx, insert, key, assignment.UnitID, formatZoneList(assignment.Zones), i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Zones are stored as the same comma-joined text the coverage sheet
// used, e.g. "34,42,54".
func parseZoneList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var zones []int
	for _, part := range strings.Split(s, ",") {
		z, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}

func formatZoneList(zones []int) string {
	parts := make([]string, len(zones))
	for i, z := range zones {
		parts[i] = strconv.Itoa(z)
	}
	return strings.Join(parts, ",")
}
