// Package backup keeps versioned snapshots of day grids in Redis so a
// roster mutation can be rolled back. Snapshots expire after the
// configured TTL; expiry is Redis's, not ours.
package backup

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/station95-rescue/duty-roster/backend/internal/config"
	"github.com/station95-rescue/duty-roster/backend/internal/domain"
)

// ErrSnapshotNotFound is returned when a snapshot id is unknown or the
// snapshot has expired.
var ErrSnapshotNotFound = errors.New("snapshot not found")

type Store struct {
	cfg         *config.Config
	redisClient *redis.Client
}

func NewStore(cfg *config.Config, redisClient *redis.Client) *Store {
	return &Store{
		cfg:         cfg,
		redisClient: redisClient,
	}
}

func (s *Store) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(s.cfg.Redis.OperationTimeout)*time.Second)
}

func snapshotKey(id string) string {
	return "roster_snapshot:" + id
}

func dayIndexKey(day string) string {
	return "roster_snapshots_day:" + day
}

// Save stores a point-in-time copy of a day grid and returns the new
// snapshot id. Callers take the snapshot strictly before writing the
// mutated grid to the sheet.
func (s *Store) Save(day string, g domain.Grid, description, command string) (string, error) {
	id := uuid.NewString()
	ttl := time.Duration(s.cfg.Backup.TTLDays) * 24 * time.Hour
	now := time.Now().UTC()

	ctx, cancel := s.opContext()
	defer cancel()

	fields := map[string]any{
		"day":         day,
		"description": description,
		"command":     command,
		"csv":         gridToCSV(g),
		"created_at":  now.Format(time.RFC3339),
		"expires_at":  now.Add(ttl).Format(time.RFC3339),
	}

	if err := s.redisClient.HSet(ctx, snapshotKey(id), fields).Err(); err != nil {
		return "", err
	}
	if err := s.redisClient.Expire(ctx, snapshotKey(id), ttl).Err(); err != nil {
		return "", err
	}

	// The day index outlives individual snapshots; fetch prunes expired
	// members lazily.
	if err := s.redisClient.SAdd(ctx, dayIndexKey(day), id).Err(); err != nil {
		return "", err
	}
	if err := s.redisClient.Expire(ctx, dayIndexKey(day), ttl).Err(); err != nil {
		return "", err
	}

	return id, nil
}

// Fetch returns a snapshot's grid.
func (s *Store) Fetch(id string) (domain.Grid, error) {
	ctx, cancel := s.opContext()
	defer cancel()

	data, err := s.redisClient.HGet(ctx, snapshotKey(id), "csv").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Grid{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
		}
		return domain.Grid{}, err
	}

	return csvToGrid(data)
}

// List returns the metadata of every live snapshot for a day, oldest
// first. Expired snapshots are dropped from the index as they are
// discovered.
func (s *Store) List(day string) ([]*domain.Snapshot, error) {
	ctx, cancel := s.opContext()
	defer cancel()

	ids, err := s.redisClient.SMembers(ctx, dayIndexKey(day)).Result()
	if err != nil {
		return nil, err
	}

	snapshots := []*domain.Snapshot{}
	for _, id := range ids {
		fields, err := s.redisClient.HGetAll(ctx, snapshotKey(id)).Result()
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			// expired; prune the index entry
			_ = s.redisClient.SRem(ctx, dayIndexKey(day), id).Err()
			continue
		}

		snapshot := &domain.Snapshot{
			ID:          id,
			Day:         fields["day"],
			Description: fields["description"],
			Command:     fields["command"],
		}
		if t, err := time.Parse(time.RFC3339, fields["created_at"]); err == nil {
			snapshot.CreatedAt = t
		}
		if t, err := time.Parse(time.RFC3339, fields["expires_at"]); err == nil {
			snapshot.ExpiresAt = t
		}
		snapshots = append(snapshots, snapshot)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.Before(snapshots[j].CreatedAt)
	})

	return snapshots, nil
}

// Delete removes a snapshot and its day-index entry. Deleting an
// already-expired snapshot is not an error.
func (s *Store) Delete(id string) error {
	ctx, cancel := s.opContext()
	defer cancel()

	day, err := s.redisClient.HGet(ctx, snapshotKey(id), "day").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	if err := s.redisClient.Del(ctx, snapshotKey(id)).Err(); err != nil {
		return err
	}
	if day != "" {
		if err := s.redisClient.SRem(ctx, dayIndexKey(day), id).Err(); err != nil {
			return err
		}
	}

	return nil
}

// The snapshot payload is the day grid as plain CSV, one row per line.
func gridToCSV(g domain.Grid) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	for _, row := range g {
		_ = w.Write(row[:])
	}
	w.Flush()
	return b.String()
}

func csvToGrid(data string) (domain.Grid, error) {
	r := csv.NewReader(strings.NewReader(data))
	r.FieldsPerRecord = domain.GridCols

	records, err := r.ReadAll()
	if err != nil {
		return domain.Grid{}, fmt.Errorf("corrupt snapshot payload: %w", err)
	}
	if len(records) != domain.GridRows {
		return domain.Grid{}, fmt.Errorf("corrupt snapshot payload: %d rows", len(records))
	}

	var g domain.Grid
	for i, record := range records {
		copy(g[i][:], record)
	}
	return g, nil
}
