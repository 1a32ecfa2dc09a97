package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/chaincommand-go/internal/adapters/persistence"
	"github.com/andrescamacho/chaincommand-go/internal/domain/division"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/test/helpers"
)

type journalContext struct {
	clock   *shared.MockClock
	journal *persistence.GormJournalRepository
	logger  *persistence.JournalLogger
	runID   string
	err     error
}

func (j *journalContext) reset() {
	if err := helpers.TruncateAllTables(); err != nil {
		panic(fmt.Errorf("failed to truncate tables: %w", err))
	}

	j.clock = shared.NewMockClock(time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC))
	j.journal = persistence.NewGormJournalRepository(helpers.SharedTestDB, j.clock)
	j.logger = persistence.NewJournalLogger(helpers.SharedTestDB, j.journal, j.clock)
	j.runID = ""
	j.err = nil
}

// Given steps

func (j *journalContext) aJournalRunOfScenario(name string) error {
	id, err := j.journal.StartRun(context.Background(), name)
	if err != nil {
		return err
	}
	j.runID = id
	return nil
}

// When steps

func (j *journalContext) theFollowingEventsAreJournaledAtTick(tick int64, table *godog.Table) error {
	events := make([]division.Event, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		id, err := getIntFromTable(table, row, "division")
		if err != nil {
			return err
		}
		other, err := getIntFromTable(table, row, "other")
		if err != nil {
			return err
		}
		events = append(events, division.Event{
			Type:     division.EventType(getCellValueFromTable(table, row, "type")),
			At:       shared.SimTime(tick),
			Division: shared.DivisionID(id),
			Other:    shared.DivisionID(other),
			Detail:   getCellValueFromTable(table, row, "detail"),
		})
	}
	j.err = j.journal.Append(context.Background(), tick, events)
	return nil
}

func (j *journalContext) theRunFinishesAs(status string) error {
	j.clock.Advance(time.Minute)
	return j.journal.FinishRun(context.Background(), status)
}

func (j *journalContext) anEntryIsLoggedTimes(level, message string, times int) error {
	for i := 0; i < times; i++ {
		j.logger.Log(level, message, map[string]interface{}{"attempt": i})
	}
	return nil
}

func (j *journalContext) theClockAdvancesSeconds(seconds int) error {
	j.clock.Advance(time.Duration(seconds) * time.Second)
	return nil
}

// Then steps

func (j *journalContext) theRunShouldBeListedAsAfterTicks(status string, ticks int64) error {
	runs, err := j.journal.ListRuns(context.Background(), 10)
	if err != nil {
		return err
	}
	for _, run := range runs {
		if run.ID != j.runID {
			continue
		}
		if run.Status != status {
			return fmt.Errorf("expected status %s but got %s", status, run.Status)
		}
		if run.Ticks != ticks {
			return fmt.Errorf("expected %d ticks but got %d", ticks, run.Ticks)
		}
		if status != persistence.RunStatusRunning && run.FinishedAt == nil {
			return fmt.Errorf("finished run has no finish time")
		}
		return nil
	}
	return fmt.Errorf("run %s not listed among %d runs", j.runID, len(runs))
}

func (j *journalContext) filteringEventsByTypeShouldReturn(eventType string, n int) error {
	events, err := j.journal.Events(context.Background(), j.runID, persistence.EventFilter{Type: &eventType})
	if err != nil {
		return err
	}
	if len(events) != n {
		return fmt.Errorf("expected %d %s events but got %d", n, eventType, len(events))
	}
	for _, e := range events {
		if string(e.Event.Type) != eventType {
			return fmt.Errorf("filter leaked a %s event", e.Event.Type)
		}
	}
	return nil
}

func (j *journalContext) eventsFromTickToTickShouldNumber(from, to int64, n int) error {
	events, err := j.journal.Events(context.Background(), j.runID, persistence.EventFilter{FromTick: &from, ToTick: &to})
	if err != nil {
		return err
	}
	if len(events) != n {
		return fmt.Errorf("expected %d events between ticks %d and %d but got %d", n, from, to, len(events))
	}
	return nil
}

func (j *journalContext) journalingShouldFailWith(message string) error {
	if j.err == nil {
		return fmt.Errorf("expected journaling to fail")
	}
	if !strings.Contains(j.err.Error(), message) {
		return fmt.Errorf("expected error containing %q but got %q", message, j.err.Error())
	}
	return nil
}

func (j *journalContext) theRunLogShouldHoldEntries(n int) error {
	entries, err := j.logger.Entries(context.Background(), j.runID, 0, nil)
	if err != nil {
		return err
	}
	if len(entries) != n {
		return fmt.Errorf("expected %d log entries but got %d", n, len(entries))
	}
	return nil
}

func InitializeJournalScenario(ctx *godog.ScenarioContext) {
	j := &journalContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		j.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a journal run of scenario "([^"]*)"$`, j.aJournalRunOfScenario)

	// When steps
	ctx.Step(`^the following events are journaled at tick (\d+):$`, j.theFollowingEventsAreJournaledAtTick)
	ctx.Step(`^the run finishes as "([^"]*)"$`, j.theRunFinishesAs)
	ctx.Step(`^an? "([^"]*)" entry "([^"]*)" is logged (\d+) times?$`, j.anEntryIsLoggedTimes)
	ctx.Step(`^the wall clock advances (\d+) seconds$`, j.theClockAdvancesSeconds)

	// Then steps
	ctx.Step(`^the run should be listed as "([^"]*)" after (\d+) ticks?$`, j.theRunShouldBeListedAsAfterTicks)
	ctx.Step(`^filtering events by type "([^"]*)" should return (\d+) events?$`, j.filteringEventsByTypeShouldReturn)
	ctx.Step(`^events from tick (\d+) to tick (\d+) should number (\d+)$`, j.eventsFromTickToTickShouldNumber)
	ctx.Step(`^journaling should fail with "([^"]*)"$`, j.journalingShouldFailWith)
	ctx.Step(`^the run log should hold (\d+) entr(?:y|ies)$`, j.theRunLogShouldHoldEntries)
}
