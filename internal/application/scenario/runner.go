package scenario

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/chaincommand-go/internal/application/logging"
	"github.com/andrescamacho/chaincommand-go/internal/application/mediator"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation"
	"github.com/andrescamacho/chaincommand-go/internal/application/simulation/types"
	"github.com/andrescamacho/chaincommand-go/internal/domain/order"
)

// DefaultDelta is the game time per tick when a scenario does not set one
const DefaultDelta = 1.0

// TickObserver is called after every processed tick
type TickObserver func(report *simulation.TickReport)

// Summary describes a finished run
type Summary struct {
	Ticks        int
	Events       int
	ScriptErrors int
	Reports      []*simulation.TickReport
}

// Runner plays a scenario script through the mediator, optionally paced
// to a wall-clock tick rate
type Runner struct {
	mediator mediator.Mediator
	scenario *Scenario
	roster   Roster
	limiter  *rate.Limiter
	observer TickObserver
	keep     bool
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithTicksPerSecond paces ticks to real time; zero or less runs flat out
func WithTicksPerSecond(tps float64) RunnerOption {
	return func(r *Runner) {
		if tps > 0 {
			r.limiter = rate.NewLimiter(rate.Limit(tps), 1)
		}
	}
}

// WithTickObserver registers a callback for every tick report
func WithTickObserver(observer TickObserver) RunnerOption {
	return func(r *Runner) { r.observer = observer }
}

// WithReports keeps every tick report in the summary
func WithReports() RunnerOption {
	return func(r *Runner) { r.keep = true }
}

// NewRunner creates a runner for a built scenario
func NewRunner(m mediator.Mediator, s *Scenario, roster Roster, opts ...RunnerOption) *Runner {
	r := &Runner{mediator: m, scenario: s, roster: roster}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run plays every tick of the scenario. Scripted events that fail are
// logged and skipped; the battle goes on.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	logger := logging.LoggerFromContext(ctx)
	delta := r.scenario.Delta
	if delta <= 0 {
		delta = DefaultDelta
	}

	summary := &Summary{}
	for tick := 0; tick < r.scenario.Ticks; tick++ {
		for _, e := range r.scenario.Script {
			if e.Tick != tick {
				continue
			}
			if err := r.fire(ctx, e); err != nil {
				summary.ScriptErrors++
				logger.Log(logging.LevelWarn, "scripted event failed", map[string]interface{}{
					"tick":   tick,
					"action": e.Action,
					"error":  err.Error(),
				})
			}
		}

		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return summary, err
			}
		}

		resp, err := r.mediator.Send(ctx, &types.AdvanceTicksCommand{Ticks: 1, Delta: delta})
		if err != nil {
			return summary, err
		}
		for _, report := range resp.(*types.AdvanceTicksResponse).Reports {
			summary.Ticks++
			summary.Events += len(report.Events)
			if r.keep {
				summary.Reports = append(summary.Reports, report)
			}
			if r.observer != nil {
				r.observer(report)
			}
		}
	}
	return summary, nil
}

func (r *Runner) fire(ctx context.Context, e ScriptedEvent) error {
	switch e.Action {
	case ActionDestroy:
		target, err := r.roster.Resolve(e.To)
		if err != nil {
			return err
		}
		by := target
		if e.From != "" {
			if by, err = r.roster.Resolve(e.From); err != nil {
				return err
			}
		}
		_, err = r.mediator.Send(ctx, &types.DestroyDivisionCommand{DivisionID: target, By: by})
		return err

	case ActionHandoff:
		target, err := r.roster.Resolve(e.To)
		if err != nil {
			return err
		}
		_, err = r.mediator.Send(ctx, &types.HandoffDivisionCommand{DivisionID: target})
		return err

	case ActionOrders:
		from, err := r.roster.Resolve(e.From)
		if err != nil {
			return err
		}
		to, err := r.roster.Resolve(e.To)
		if err != nil {
			return err
		}
		orders := make([]order.Order, 0, len(e.Orders))
		for _, spec := range e.Orders {
			o, err := BuildOrder(r.scenario, r.roster, from, spec)
			if err != nil {
				return err
			}
			orders = append(orders, o)
		}
		_, err = r.mediator.Send(ctx, &types.IssueOrdersCommand{From: from, To: to, Orders: orders})
		return err

	default:
		return fmt.Errorf("unknown scripted action %q", e.Action)
	}
}
