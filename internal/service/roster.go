// Package service orchestrates roster commands: it wires the sheet
// store, the grid codec, the mutation engine, the backup store and the
// notification queue around the pure transformation core.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/station95-rescue/duty-roster/backend/internal/backup"
	"github.com/station95-rescue/duty-roster/backend/internal/config"
	"github.com/station95-rescue/duty-roster/backend/internal/domain"
	"github.com/station95-rescue/duty-roster/backend/internal/grid"
	"github.com/station95-rescue/duty-roster/backend/internal/repository"
	"github.com/station95-rescue/duty-roster/backend/internal/roster"
	"github.com/station95-rescue/duty-roster/backend/internal/sheet"
)

// NotificationQueue is the queue roster change messages are published
// to; the notify worker consumes it.
const NotificationQueue = "roster_changes"

// CoverageLookup adapts the repository to the engine's coverage table
// contract, translating sql.ErrNoRows into a plain miss.
type CoverageLookup struct {
	Repo *repository.Repository
}

func (l CoverageLookup) Lookup(key string) ([]domain.ZoneAssignment, bool, error) {
	assignments, err := l.Repo.LookupCoverage(key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return assignments, true, nil
}

type RosterService struct {
	cfg     *config.Config
	sheets  *sheet.Store
	codec   *grid.Codec
	engine  *roster.Engine
	backups *backup.Store
	repo    *repository.Repository
	channel *amqp.Channel
}

func NewRosterService(cfg *config.Config, sheets *sheet.Store, codec *grid.Codec, engine *roster.Engine, backups *backup.Store, repo *repository.Repository, channel *amqp.Channel) *RosterService {
	return &RosterService{
		cfg:     cfg,
		sheets:  sheets,
		codec:   codec,
		engine:  engine,
		backups: backups,
		repo:    repo,
		channel: channel,
	}
}

// GetDay reads a day's grid and its decoded schedule.
func (s *RosterService) GetDay(date time.Time) (domain.Grid, *domain.DaySchedule, error) {
	g, err := s.sheets.ReadGrid(date)
	if err != nil {
		return domain.Grid{}, nil, err
	}
	return g, s.codec.DecodeDay(g, sheet.DayLabel(date)), nil
}

// MutationResult is the outcome of ExecuteMutation. ChangeID is empty
// for previews.
type MutationResult struct {
	Preview  bool        `json:"preview"`
	Grid     domain.Grid `json:"grid"`
	ChangeID string      `json:"changeId,omitempty"`
}

// ExecuteMutation runs the read -> mutate -> encode pipeline and, for
// non-preview requests, saves a backup of the pre-mutation grid, writes
// the new grid to the sheet and publishes a change notification. The
// backup is taken strictly before the write: a crash between the two
// leaves the sheet in its pre-mutation state.
func (s *RosterService) ExecuteMutation(date time.Time, req domain.MutationRequest) (*MutationResult, error) {
	originalGrid, err := s.sheets.ReadGrid(date)
	if err != nil {
		return nil, err
	}
	day := s.codec.DecodeDay(originalGrid, sheet.DayLabel(date))

	mutated, err := s.engine.Apply(day, req.Kind, req.WindowStart, req.WindowEnd, req.UnitID)
	if err != nil {
		return nil, err
	}

	mutatedGrid, err := s.codec.EncodeDay(mutated)
	if err != nil {
		return nil, err
	}

	if req.Preview {
		return &MutationResult{Preview: true, Grid: mutatedGrid}, nil
	}

	changeID, err := s.backups.Save(req.Date, originalGrid, describeMutation(req), auditCommand(req))
	if err != nil {
		return nil, err
	}

	if err := s.sheets.WriteGrid(date, mutatedGrid); err != nil {
		return nil, err
	}

	// The mutation is already persisted; a notification failure is
	// logged, not surfaced.
	if err := s.publishChange(req, changeID); err != nil {
		slog.Warn("failed to publish change notification", "error", err, "changeId", changeID)
	}

	return &MutationResult{Grid: mutatedGrid, ChangeID: changeID}, nil
}

// ListBackups returns the snapshot metadata for a day key (YYYYMMDD).
func (s *RosterService) ListBackups(day string) ([]*domain.Snapshot, error) {
	return s.backups.List(day)
}

// Rollback restores a snapshot's grid to the sheet and removes the
// snapshot once the restore succeeded.
func (s *RosterService) Rollback(date time.Time, changeID string) error {
	g, err := s.backups.Fetch(changeID)
	if err != nil {
		return err
	}

	if err := s.sheets.WriteGrid(date, g); err != nil {
		return err
	}

	if err := s.backups.Delete(changeID); err != nil {
		slog.Warn("restored snapshot could not be removed", "error", err, "changeId", changeID)
	}

	return nil
}

func describeMutation(req domain.MutationRequest) string {
	return fmt.Sprintf("%s - Unit %d (%s-%s)", req.Kind, req.UnitID, req.WindowStart.Clock(), req.WindowEnd.Clock())
}

func auditCommand(req domain.MutationRequest) string {
	return fmt.Sprintf("action=%s&date=%s&shift_start=%s&shift_end=%s&unit=%d",
		req.Kind, req.Date, req.WindowStart.Clock(), req.WindowEnd.Clock(), req.UnitID)
}

func (s *RosterService) publishChange(req domain.MutationRequest, changeID string) error {
	officers, err := s.repo.GetActiveDutyOfficers()
	if err != nil {
		return err
	}
	if len(officers) == 0 {
		return nil
	}

	recipients := make([]string, len(officers))
	for i, officer := range officers {
		recipients[i] = officer.Email
	}

	notification := domain.ChangeNotification{
		To:        recipients,
		Action:    req.Kind,
		Date:      req.Date,
		UnitID:    req.UnitID,
		Window:    fmt.Sprintf("%s-%s", req.WindowStart.Clock(), req.WindowEnd.Clock()),
		ChangeID:  changeID,
		AppliedAt: time.Now().UTC(),
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return s.channel.PublishWithContext(
		ctx,
		"",
		NotificationQueue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
