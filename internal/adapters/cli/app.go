package cli

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/chaincommand-go/internal/adapters/combat"
	"github.com/andrescamacho/chaincommand-go/internal/adapters/metrics"
	"github.com/andrescamacho/chaincommand-go/internal/adapters/persistence"
	"github.com/andrescamacho/chaincommand-go/internal/adapters/scenariofile"
	"github.com/andrescamacho/chaincommand-go/internal/adapters/terrain"
	"github.com/andrescamacho/chaincommand-go/internal/adapters/visibility"
	applog "github.com/andrescamacho/chaincommand-go/internal/application/logging"
	"github.com/andrescamacho/chaincommand-go/internal/application/mediator"
	"github.com/andrescamacho/chaincommand-go/internal/application/scenario"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation/commands"
	"github.com/andrescamacho/chaincommand-go/internal/domain/intel"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/internal/infrastructure/config"
	"github.com/andrescamacho/chaincommand-go/internal/infrastructure/database"
	"github.com/andrescamacho/chaincommand-go/internal/infrastructure/logging"
)

// session is everything one command needs to play a scenario
type session struct {
	cfg      *config.Config
	scenario *scenario.Scenario
	world    *simulation.World
	mediator mediator.Mediator
	roster   scenario.Roster
	logger   *logging.ZapLogger
	db       *gorm.DB
	journal  *persistence.GormJournalRepository
}

type sessionOptions struct {
	journal bool
	metrics bool
}

// loadConfig loads the configuration named by --config
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// openSession loads a scenario and wires a world for it
func openSession(ctx context.Context, scenarioPath string, opts sessionOptions) (context.Context, *session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return ctx, nil, err
	}
	scn, err := scenariofile.Load(scenarioPath)
	if err != nil {
		return ctx, nil, err
	}

	s := &session{cfg: cfg, scenario: scn}
	if s.logger, err = logging.New("chaincommand", cfg.Logging); err != nil {
		return ctx, nil, err
	}
	var logger applog.Logger = s.logger

	var journal simulation.EventJournal
	if opts.journal {
		if s.db, err = database.Open(&cfg.Database); err != nil {
			return ctx, nil, err
		}
		s.journal = persistence.NewGormJournalRepository(s.db, nil)
		if _, err := s.journal.StartRun(ctx, scn.Name); err != nil {
			s.close()
			return ctx, nil, err
		}
		journal = s.journal
		if cfg.Logging.Journal {
			logger = applog.Tee(s.logger, persistence.NewJournalLogger(s.db, s.journal, nil))
		}
	}
	ctx = applog.WithLogger(ctx, logger)

	var recorder simulation.MetricsRecorder
	if opts.metrics {
		recorder = metrics.GlobalRecorder{}
	}

	settings, err := settingsFor(cfg.Simulation, scn)
	if err != nil {
		s.close()
		return ctx, nil, err
	}
	s.world, err = simulation.NewWorld(settings, simulation.Dependencies{
		Visibility: visibility.NewSightRadius(cfg.Simulation.SightFloor),
		Terrain:    terrainFor(scn),
		Damage:     combat.NewLinearDamage(cfg.Simulation.DamageMultiplier, cfg.Simulation.Attrition),
		Metrics:    recorder,
		Journal:    journal,
		WallClock:  shared.NewRealClock(),
	})
	if err != nil {
		s.close()
		return ctx, nil, err
	}

	if s.mediator, err = commands.NewSimulationMediator(s.world); err != nil {
		s.close()
		return ctx, nil, err
	}
	if opts.metrics {
		s.mediator.Use(metrics.PrometheusMiddleware(metrics.GetRequestCollector()))
	}
	if s.roster, err = scenario.Build(ctx, s.mediator, scn); err != nil {
		s.close()
		return ctx, nil, fmt.Errorf("failed to build scenario %q: %w", scn.Name, err)
	}
	return ctx, s, nil
}

func (s *session) close() {
	if s.logger != nil {
		_ = s.logger.Sync()
	}
	if s.db != nil {
		_ = database.Close(s.db)
	}
}

// settingsFor layers scenario overrides on top of the configured settings
func settingsFor(cfg config.SimulationConfig, scn *scenario.Scenario) (simulation.Settings, error) {
	tieBreak, err := intel.ParseTieBreakPolicy(cfg.TieBreak)
	if err != nil {
		return simulation.Settings{}, err
	}
	base := simulation.Settings{
		Epsilon:           cfg.Epsilon,
		TieBreak:          tieBreak,
		TombstoneScope:    simulation.TombstoneScope(cfg.TombstoneScope),
		DeliveryRange:     cfg.DeliveryRange,
		HeartbeatInterval: cfg.HeartbeatInterval,
	}
	return scn.ApplySettings(base)
}

func terrainFor(scn *scenario.Scenario) *terrain.Map {
	zones := make([]terrain.Zone, 0, len(scn.Terrain))
	for _, z := range scn.Terrain {
		zones = append(zones, terrain.Zone{Center: z.Center, Radius: z.Radius, Factor: z.Cost})
	}
	return terrain.NewMap(zones...)
}

// openJournal connects to the configured journal database
func openJournal() (*gorm.DB, *persistence.GormJournalRepository, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return db, persistence.NewGormJournalRepository(db, nil), nil
}
