package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/station95-rescue/duty-roster/backend/internal/backup"
	"github.com/station95-rescue/duty-roster/backend/internal/domain"
	"github.com/station95-rescue/duty-roster/backend/internal/grid"
	"github.com/station95-rescue/duty-roster/backend/internal/sheet"
)

func (h *Handler) GetRosterDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	g, day, err := h.roster.GetDay(date)
	if err != nil {
		switch {
		case errors.Is(err, sheet.ErrMonthMissing):
			h.errorResponse(w, r, "no roster exists for that month")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "", struct {
		Grid     domain.Grid         `json:"grid"`
		Schedule *domain.DaySchedule `json:"schedule"`
	}{Grid: g, Schedule: day})
}

func (h *Handler) ExecuteCommand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action     string `json:"action" validate:"required"`
		ShiftStart string `json:"shiftStart" validate:"required"`
		ShiftEnd   string `json:"shiftEnd" validate:"required"`
		Unit       int    `json:"unit" validate:"required,gt=0"`
		Preview    bool   `json:"preview"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	kind := domain.MutationKind(req.Action)
	if !kind.Valid() {
		h.errorResponse(w, r, "unknown action, expected noCrew, addShift or obliterateShift")
		return
	}

	windowStart, err := domain.ParseClock(req.ShiftStart)
	if err != nil {
		h.errorResponse(w, r, "invalid shiftStart, expected HHMM")
		return
	}
	windowEnd, err := domain.ParseClock(req.ShiftEnd)
	if err != nil {
		h.errorResponse(w, r, "invalid shiftEnd, expected HHMM")
		return
	}
	if windowStart.Minute != 0 || windowEnd.Minute != 0 {
		h.errorResponse(w, r, "shift times must be whole hours")
		return
	}

	date := r.Context().Value(DateCtxKey).(time.Time)
	day := r.Context().Value(DayCtxKey).(string)

	mutation := domain.MutationRequest{
		Kind:        kind,
		Date:        day,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		UnitID:      req.Unit,
		Preview:     req.Preview,
	}

	result, err := h.roster.ExecuteMutation(date, mutation)
	if err != nil {
		switch {
		case errors.Is(err, sheet.ErrMonthMissing):
			h.errorResponse(w, r, "no roster exists for that month")
		case errors.Is(err, grid.ErrGridCapacity):
			h.errorResponse(w, r, "the change does not fit the roster grid")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "", result)
}

func (h *Handler) ListBackups(w http.ResponseWriter, r *http.Request) {
	day := r.Context().Value(DayCtxKey).(string)

	snapshots, err := h.roster.ListBackups(day)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", snapshots)
}

func (h *Handler) Rollback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChangeID string `json:"changeId" validate:"required,uuid"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date := r.Context().Value(DateCtxKey).(time.Time)

	if err := h.roster.Rollback(date, req.ChangeID); err != nil {
		switch {
		case errors.Is(err, backup.ErrSnapshotNotFound):
			h.errorResponse(w, r, "snapshot not found or expired")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "rolled back to snapshot "+req.ChangeID, nil)
}
