package bdd

import (
	"os"
	"testing"

	"github.com/andrescamacho/chaincommand-go/test/bdd/steps"
	"github.com/andrescamacho/chaincommand-go/test/helpers"
	"github.com/cucumber/godog"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/domain", "features/application", "features/adapters"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// Domain layer
	steps.InitializeMemoryScenario(sc)

	// Application layer: one world per scenario
	steps.InitializeWorldScenario(sc)

	// Adapter layer
	steps.InitializeJournalScenario(sc)
}

func TestMain(m *testing.M) {
	// Journal scenarios share one in-memory database and truncate it per scenario
	if err := helpers.InitializeSharedTestDB(); err != nil {
		panic("Failed to initialize shared test database: " + err.Error())
	}

	code := m.Run()
	_ = helpers.CloseSharedTestDB()
	os.Exit(code)
}
