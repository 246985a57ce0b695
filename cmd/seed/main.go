package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/station95-rescue/duty-roster/backend/internal/config"
	"github.com/station95-rescue/duty-roster/backend/internal/domain"
	"github.com/station95-rescue/duty-roster/backend/internal/grid"
	"github.com/station95-rescue/duty-roster/backend/internal/repository"
	"github.com/station95-rescue/duty-roster/backend/internal/roster"
	"github.com/station95-rescue/duty-roster/backend/internal/service"
	"github.com/station95-rescue/duty-roster/backend/internal/sheet"
	"github.com/station95-rescue/duty-roster/backend/internal/template"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var month int
	var year int

	flag.IntVar(&op, "op", 0, "operation to run (1: create schema, 2: load coverage table, 3: seed duty officer, 4: build month roster)")
	flag.IntVar(&month, "month", int(time.Now().Month()), "target month for -op 4")
	flag.IntVar(&year, "year", time.Now().Year(), "target year for -op 4")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// create database connection pool
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database connection pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open only creates the pool object, so ping explicitly to
	// verify the database is reachable
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	// create repository
	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("no operation specified")
	case 1:
		if err := createSchema(cfg, dbpool); err != nil {
			slog.Error("failed to create schema", slog.String("error", err.Error()))
			return
		}
		slog.Info("schema created")
	case 2:
		count, err := loadCoverage(repo, cfg.Seed.CoveragePath)
		if err != nil {
			slog.Error("failed to load coverage table", slog.String("error", err.Error()))
			return
		}
		slog.Info("coverage table loaded", slog.Int("combinations", count))
	case 3:
		officer := &domain.DutyOfficer{
			FullName: cfg.InitialAdmin.Username,
			Email:    cfg.InitialAdmin.Email,
			IsActive: true,
		}
		if err := repo.CreateDutyOfficer(officer); err != nil {
			slog.Error("failed to seed duty officer", slog.String("error", err.Error()))
			return
		}
		slog.Info("duty officer seeded", slog.Int64("id", officer.ID), slog.String("email", officer.Email))
	case 4:
		if month < 1 || month > 12 {
			slog.Error("invalid month", slog.Int("month", month))
			return
		}
		count, err := buildMonth(cfg, repo, time.Month(month), year)
		if err != nil {
			slog.Error("failed to build month roster", slog.String("error", err.Error()))
			return
		}
		slog.Info("month roster written", slog.Int("days", count), slog.Int("month", month), slog.Int("year", year))
	default:
		slog.Error("unknown operation", slog.Int("op", op))
	}
}

func createSchema(cfg *config.Config, dbpool *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS coverage_assignments (
			id BIGSERIAL PRIMARY KEY,
			combination TEXT NOT NULL,
			unit_id INTEGER NOT NULL,
			zones TEXT NOT NULL,
			position INTEGER NOT NULL,
			UNIQUE (combination, unit_id)
		)`,
		`CREATE INDEX IF NOT EXISTS coverage_assignments_combination_idx
			ON coverage_assignments (combination)`,
		`CREATE TABLE IF NOT EXISTS duty_officers (
			id BIGSERIAL PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	for _, statement := range statements {
		if _, err := dbpool.ExecContext(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}

// loadCoverage reads the coverage CSV (combination, unit_id, zones per
// row, e.g. "34,54", "34", "34,35,42") and replaces each combination's
// rows in the database.
func loadCoverage(repo *repository.Repository, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3
	rows, err := r.ReadAll()
	if err != nil {
		return 0, err
	}

	byCombination := map[string][]domain.ZoneAssignment{}
	order := []string{}
	for i, row := range rows {
		if i == 0 && row[0] == "combination" {
			continue // header
		}
		key := row[0]
		unitID, err := parseInt(row[1])
		if err != nil {
			return 0, err
		}
		zones, err := parseZones(row[2])
		if err != nil {
			return 0, err
		}
		if _, exists := byCombination[key]; !exists {
			order = append(order, key)
		}
		byCombination[key] = append(byCombination[key], domain.ZoneAssignment{UnitID: unitID, Zones: zones})
	}

	for _, key := range order {
		if err := repo.ReplaceCoverage(key, byCombination[key]); err != nil {
			return 0, err
		}
	}
	return len(order), nil
}

// buildMonth generates the month's schedule from the week template,
// fills in zone coverage, balances tango hours and writes every day's
// grid into the workbook.
func buildMonth(cfg *config.Config, repo *repository.Repository, month time.Month, year int) (int, error) {
	weeks, err := template.Load(cfg.Seed.TemplatePath)
	if err != nil {
		return 0, err
	}

	schedule, err := template.GenerateMonth(weeks, month, year)
	if err != nil {
		return 0, err
	}

	table := service.CoverageLookup{Repo: repo}
	if err := template.AssignZones(schedule, table, cfg.Roster.Zones); err != nil {
		return 0, err
	}

	roster.BalanceTango(schedule)

	stats := roster.CollectStatistics(schedule)
	for id, hours := range stats.TangoHoursByUnit {
		slog.Info("tango rotation", slog.Int("unit", id), slog.Float64("dutyHours", stats.HoursByUnit[id]), slog.Float64("tangoHours", hours))
	}
	if stats.SingleUnitShifts > 0 {
		slog.Info("shifts staffed by a single unit", slog.Int("count", stats.SingleUnitShifts))
	}

	codec := grid.NewCodec(cfg.Roster.Zones)
	sheets := sheet.NewStore(cfg.Sheet.WorkbookPath)

	for _, day := range schedule {
		date, err := time.Parse("Monday 2006-01-02", day.Day)
		if err != nil {
			return 0, err
		}

		g, err := codec.EncodeDay(day)
		if err != nil {
			return 0, err
		}
		if err := sheets.WriteGrid(date, g); err != nil {
			return 0, err
		}
	}

	return len(schedule), nil
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func parseZones(s string) ([]int, error) {
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
