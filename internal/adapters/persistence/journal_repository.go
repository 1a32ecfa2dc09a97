package persistence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/chaincommand-go/internal/domain/division"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/pkg/utils"
)

// Run statuses
const (
	RunStatusRunning  = "RUNNING"
	RunStatusFinished = "FINISHED"
	RunStatusFailed   = "FAILED"
)

// RunSummary is a stored run
type RunSummary struct {
	ID         string
	Scenario   string
	Status     string
	Ticks      int64
	StartedAt  time.Time
	FinishedAt *time.Time
}

// JournalEvent is a stored simulation event
type JournalEvent struct {
	Tick  int64
	Event division.Event
}

// EventFilter narrows an event listing
type EventFilter struct {
	Type     *string
	FromTick *int64
	ToTick   *int64
	Limit    int
	Offset   int
}

// GormJournalRepository records the events of simulation runs. It is an
// audit trail, not a save format: worlds cannot be restored from it.
type GormJournalRepository struct {
	db    *gorm.DB
	clock shared.Clock

	mu    sync.Mutex
	runID string
}

// NewGormJournalRepository creates a new journal repository
// If clock is nil, uses RealClock (production behavior)
func NewGormJournalRepository(db *gorm.DB, clock shared.Clock) *GormJournalRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormJournalRepository{db: db, clock: clock}
}

// StartRun opens a new run; subsequent appends are filed under it
func (r *GormJournalRepository) StartRun(ctx context.Context, scenario string) (string, error) {
	run := &RunModel{
		ID:        utils.GenerateRunID(scenario),
		Scenario:  scenario,
		Status:    RunStatusRunning,
		StartedAt: r.clock.Now(),
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return "", fmt.Errorf("failed to start run: %w", err)
	}

	r.mu.Lock()
	r.runID = run.ID
	r.mu.Unlock()
	return run.ID, nil
}

// RunID returns the active run, or "" before StartRun
func (r *GormJournalRepository) RunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runID
}

// Append implements simulation.EventJournal
func (r *GormJournalRepository) Append(ctx context.Context, tick int64, events []division.Event) error {
	runID := r.RunID()
	if runID == "" {
		return fmt.Errorf("no active run")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(events) > 0 {
			rows := make([]EventModel, 0, len(events))
			for _, e := range events {
				rows = append(rows, EventModel{
					RunID:      runID,
					Tick:       tick,
					GameTime:   float64(e.At),
					Type:       string(e.Type),
					DivisionID: int64(e.Division),
					OtherID:    int64(e.Other),
					Detail:     e.Detail,
				})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return tx.Model(&RunModel{}).Where("id = ?", runID).Update("ticks", tick).Error
	})
}

// FinishRun closes the active run with the given status
func (r *GormJournalRepository) FinishRun(ctx context.Context, status string) error {
	runID := r.RunID()
	if runID == "" {
		return fmt.Errorf("no active run")
	}
	now := r.clock.Now()
	return r.db.WithContext(ctx).Model(&RunModel{}).Where("id = ?", runID).
		Updates(map[string]interface{}{"status": status, "finished_at": now}).Error
}

// ListRuns returns the most recent runs first
func (r *GormJournalRepository) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	var models []RunModel
	query := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	runs := make([]RunSummary, len(models))
	for i, m := range models {
		runs[i] = RunSummary{
			ID:         m.ID,
			Scenario:   m.Scenario,
			Status:     m.Status,
			Ticks:      m.Ticks,
			StartedAt:  m.StartedAt,
			FinishedAt: m.FinishedAt,
		}
	}
	return runs, nil
}

// Events retrieves the events of a run in the order they were recorded
func (r *GormJournalRepository) Events(ctx context.Context, runID string, filter EventFilter) ([]JournalEvent, error) {
	var models []EventModel

	query := r.db.WithContext(ctx).Where("run_id = ?", runID)

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.FromTick != nil {
		query = query.Where("tick >= ?", *filter.FromTick)
	}
	if filter.ToTick != nil {
		query = query.Where("tick <= ?", *filter.ToTick)
	}

	query = query.Order("id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	events := make([]JournalEvent, len(models))
	for i, m := range models {
		events[i] = JournalEvent{
			Tick: m.Tick,
			Event: division.Event{
				Type:     division.EventType(m.Type),
				At:       shared.SimTime(m.GameTime),
				Division: shared.DivisionID(m.DivisionID),
				Other:    shared.DivisionID(m.OtherID),
				Detail:   m.Detail,
			},
		}
	}
	return events, nil
}
