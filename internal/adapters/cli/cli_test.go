package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/chaincommand-go/internal/adapters/persistence"
	applog "github.com/andrescamacho/chaincommand-go/internal/application/logging"
)

const skirmishYAML = `
name: skirmish
ticks: 6
delta: 1
divisions:
  - name: hq
    team: 1
    soldiers: 4
  - name: first
    team: 1
    soldiers: 3
    commander: hq
    position: {x: 10, y: 0}
  - name: second
    team: 1
    soldiers: 3
    commander: first
    position: {x: 20, y: 0}
script:
  - tick: 0
    action: orders
    from: hq
    to: second
    orders:
      - kind: move
        destination: {x: 25, y: 0}
`

func executeCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CC_LOGGING_LEVEL", "error")
	t.Setenv("CC_DATABASE_PATH", filepath.Join(t.TempDir(), "journal.db"))

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeScenario(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skirmish.yaml")
	require.NoError(t, os.WriteFile(path, []byte(skirmishYAML), 0644))
	return path
}

func TestRunCommand_PlaysScenario(t *testing.T) {
	out, err := executeCLI(t, "run", writeScenario(t), "--tree")

	require.NoError(t, err)
	assert.Contains(t, out, "DIVISION_SPAWNED")
	assert.Contains(t, out, "skirmish: 6 ticks")
	assert.Contains(t, out, "[d] hq")
}

func TestValidateCommand(t *testing.T) {
	out, err := executeCLI(t, "validate", writeScenario(t))

	require.NoError(t, err)
	assert.Contains(t, out, "skirmish: 3 divisions, 1 scripted events, 6 ticks")
}

func TestTreeCommand_AtTickZero(t *testing.T) {
	out, err := executeCLI(t, "tree", writeScenario(t), "--at", "0")

	require.NoError(t, err)
	assert.Contains(t, out, "skirmish after 0 ticks")
	assert.Contains(t, out, "└── [d] second")
}

func TestRunCommand_JournalThenEvents(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	scenarioPath := writeScenario(t)

	run := func(args ...string) (string, error) {
		root := NewRootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(args)
		err := root.Execute()
		return out.String(), err
	}
	t.Setenv("CC_LOGGING_LEVEL", "error")
	t.Setenv("CC_DATABASE_PATH", dbPath)

	_, err := run("run", scenarioPath, "--journal", "--quiet")
	require.NoError(t, err)

	runs, err := run("runs")
	require.NoError(t, err)
	assert.Contains(t, runs, "skirmish")
	assert.Contains(t, runs, "FINISHED")

	events, err := run("events", "--type", "COURIER_DISPATCHED")
	require.NoError(t, err)
	assert.Contains(t, events, "1 events")
}

type capturedEntry struct {
	level   string
	message string
}

type capturingLogger struct {
	entries []capturedEntry
}

func (c *capturingLogger) Log(level, message string, _ map[string]interface{}) {
	c.entries = append(c.entries, capturedEntry{level: level, message: message})
}

func TestFinishRun_LogsJournalFailure(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	logger := &capturingLogger{}
	ctx := applog.WithLogger(context.Background(), logger)
	// never started, so there is no run to close
	s := &session{journal: persistence.NewGormJournalRepository(nil, nil)}

	finishRun(ctx, s, nil)

	require.NotEmpty(t, logger.entries)
	assert.Equal(t, applog.LevelError, logger.entries[0].level)
	assert.Equal(t, "failed to close journal run", logger.entries[0].message)
}
