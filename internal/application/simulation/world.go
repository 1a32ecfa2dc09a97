package simulation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/andrescamacho/chaincommand-go/internal/application/logging"
	"github.com/andrescamacho/chaincommand-go/internal/domain/division"
	"github.com/andrescamacho/chaincommand-go/internal/domain/intel"
	"github.com/andrescamacho/chaincommand-go/internal/domain/order"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/internal/domain/soldier"
)

// Dependencies are the collaborators a World is wired with. Nil members
// fall back to permissive defaults.
type Dependencies struct {
	Visibility VisibilityProvider
	Terrain    division.TerrainCostProvider
	Damage     division.DamageModel
	Metrics    MetricsRecorder
	Journal    EventJournal
	WallClock  shared.Clock
}

// World owns every live division and performs all cross-division mutation
// in central passes, one after another, within each tick.
type World struct {
	settings Settings
	clock    *shared.LogicalClock
	wall     shared.Clock

	divisions map[shared.DivisionID]*division.Division
	fallen    map[shared.DivisionID]*division.Division
	names     map[string]shared.DivisionID

	visibility VisibilityProvider
	terrain    division.TerrainCostProvider
	damage     division.DamageModel
	metrics    MetricsRecorder
	journal    EventJournal

	ticks  int64
	primed bool
	events []division.Event
}

// TickReport summarizes one processed tick
type TickReport struct {
	Tick   int64
	Now    shared.SimTime
	Live   int
	Events []division.Event
}

// SpawnSpec describes a division to create
type SpawnSpec struct {
	Name      string
	Team      shared.TeamID
	Position  shared.Position
	Soldiers  int
	Template  soldier.Template
	Commander shared.DivisionID
}

// NewWorld creates an empty world
func NewWorld(settings Settings, deps Dependencies) (*World, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation settings: %w", err)
	}
	if settings.TombstoneScope == "" {
		settings.TombstoneScope = ScopeAllies
	}
	w := &World{
		settings:   settings,
		clock:      shared.NewLogicalClock(0, settings.Epsilon),
		wall:       deps.WallClock,
		divisions:  make(map[shared.DivisionID]*division.Division),
		fallen:     make(map[shared.DivisionID]*division.Division),
		names:      make(map[string]shared.DivisionID),
		visibility: deps.Visibility,
		terrain:    deps.Terrain,
		damage:     deps.Damage,
		metrics:    deps.Metrics,
		journal:    deps.Journal,
	}
	if w.wall == nil {
		w.wall = shared.NewRealClock()
	}
	if w.visibility == nil {
		w.visibility = everyoneVisible{}
	}
	if w.metrics == nil {
		w.metrics = noopMetrics{}
	}
	if w.journal == nil {
		w.journal = noopJournal{}
	}
	return w, nil
}

// Accessors

func (w *World) Clock() *shared.LogicalClock { return w.clock }
func (w *World) Now() shared.SimTime         { return w.clock.Now() }
func (w *World) Ticks() int64                { return w.ticks }
func (w *World) Settings() Settings          { return w.settings }

// Division returns a live division
func (w *World) Division(id shared.DivisionID) (*division.Division, bool) {
	d, ok := w.divisions[id]
	return d, ok
}

// Fallen returns a destroyed or absorbed division
func (w *World) Fallen(id shared.DivisionID) (*division.Division, bool) {
	d, ok := w.fallen[id]
	return d, ok
}

// Lookup resolves a division name to its id, live or fallen
func (w *World) Lookup(name string) (shared.DivisionID, bool) {
	id, ok := w.names[name]
	return id, ok
}

// Divisions returns the live divisions in ascending id order
func (w *World) Divisions() []*division.Division {
	ids := make([]shared.DivisionID, 0, len(w.divisions))
	for id := range w.divisions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*division.Division, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.divisions[id])
	}
	return out
}

// Spawn creates and registers a division. A commander given in the spec
// must be alive. The new division and every division above it in the live
// chain of command start out knowing each other, so a declared hierarchy
// is routable before the first tick.
func (w *World) Spawn(spec SpawnSpec) (*division.Division, error) {
	if spec.Soldiers < 1 {
		return nil, shared.NewValidationError("soldiers", "a division needs at least one soldier")
	}
	if spec.Name != "" {
		if _, taken := w.names[spec.Name]; taken {
			return nil, shared.NewValidationError("name", fmt.Sprintf("division %q already exists", spec.Name))
		}
	}
	var commander *division.Division
	if !spec.Commander.IsZero() {
		c, ok := w.divisions[spec.Commander]
		if !ok {
			return nil, shared.NewTargetNotFoundError(0, spec.Commander)
		}
		commander = c
	}

	tmpl := spec.Template
	if tmpl.Health <= 0 {
		tmpl = soldier.DefaultTemplate
	}
	troops, err := tmpl.NewMany(spec.Soldiers)
	if err != nil {
		return nil, fmt.Errorf("failed to mint soldiers: %w", err)
	}

	d := division.New(division.Params{
		Name:          spec.Name,
		Team:          spec.Team,
		Commander:     spec.Commander,
		Position:      spec.Position,
		Soldiers:      troops,
		Terrain:       w.terrain,
		Damage:        w.damage,
		TieBreak:      w.settings.TieBreak,
		DeliveryRange: w.settings.DeliveryRange,
	})
	if commander != nil {
		commander.AddSubordinate(d.ID())
		w.introduce(d, w.chainAbove(commander))
	}
	if w.settings.HeartbeatInterval > 0 {
		d.ReceiveOrders([]order.Order{order.NewReport(d.ID(), w.settings.HeartbeatInterval)})
	}
	w.register(d)
	w.record(division.EventDivisionSpawned, d.ID(), spec.Commander, d.Name())
	return d, nil
}

// chainAbove lists from and its live commanders, nearest first
func (w *World) chainAbove(from *division.Division) []*division.Division {
	chain := []*division.Division{from}
	seen := map[shared.DivisionID]bool{from.ID(): true}
	for node := from; !node.IsRoot(); {
		next, ok := w.divisions[node.Commander()]
		if !ok || seen[next.ID()] {
			break
		}
		seen[next.ID()] = true
		chain = append(chain, next)
		node = next
	}
	return chain
}

// introduce tells every division in chain about d, and d about the chain
// from the top down so each commander is known before its subordinate
func (w *World) introduce(d *division.Division, chain []*division.Division) {
	for _, above := range chain {
		above.UpdateRememberedDivision(d.Describe(w.clock.Stamp()), w.clock)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		d.UpdateRememberedDivision(chain[i].Describe(w.clock.Stamp()), w.clock)
	}
}

func (w *World) register(d *division.Division) {
	w.divisions[d.ID()] = d
	w.names[d.Name()] = d.ID()
}

// IssueOrders routes orders from one division to another through the
// chain of command, as the issuing layer would
func (w *World) IssueOrders(from, to shared.DivisionID, orders []order.Order) (order.Dispatch, error) {
	sender, ok := w.divisions[from]
	if !ok {
		return order.Dispatch{}, shared.NewTargetNotFoundError(from, from)
	}
	w.Prime()
	dispatch, err := sender.SendOrdersTo(to, orders, shared.NewTick(w.clock, 0, false))
	w.applyEffects()
	return dispatch, err
}

// Destroy eliminates a live division on behalf of by
func (w *World) Destroy(id, by shared.DivisionID) error {
	d, ok := w.divisions[id]
	if !ok {
		return shared.NewTargetNotFoundError(by, id)
	}
	w.destroy(d, by, "destroyed")
	return nil
}

// Handoff replaces a division's controller object, keeping its id, as
// when a player hands a division over to the AI or takes it back
func (w *World) Handoff(id shared.DivisionID) (*division.Division, error) {
	d, ok := w.divisions[id]
	if !ok {
		return nil, shared.NewTargetNotFoundError(0, id)
	}
	w.events = append(w.events, d.DrainEvents()...)
	clone := division.CloneForHandoff(d)
	w.divisions[id] = clone
	w.record(division.EventControlHandedOff, id, 0, fmt.Sprintf("%d orders, %d background", clone.Queue().Len(), clone.Background().Len()))
	return clone, nil
}

// Tick advances the simulation by dt game seconds.
//
// Passes, in order: clock advance; order processing for every division in
// ascending id; effects; visibility refresh and gossip merge over frozen
// memories; effects raised by tree repair; command-tree merges between
// mutually visible roots; event publication.
func (w *World) Tick(ctx context.Context, dt float64, paused bool) (*TickReport, error) {
	started := w.wall.Now()

	w.Prime()

	if !paused {
		w.clock.Advance(dt)
	}
	t := shared.NewTick(w.clock, dt, paused)

	for _, d := range w.Divisions() {
		d.ProcessOrders(t)
		d.ProcessBackgroundOrders(t)
	}
	w.applyEffects()
	w.retireStrandedCouriers()

	w.refreshVisibility()
	w.applyEffects()
	w.mergeCommandTrees()

	w.ticks++
	report := &TickReport{
		Tick:   w.ticks,
		Now:    w.clock.Now(),
		Live:   len(w.divisions),
		Events: w.drainEvents(),
	}
	return report, w.publish(ctx, report, w.wall.Now().Sub(started))
}

// Prime runs the first visibility refresh if no tick has done so yet.
// Orders issued before the first tick then see what their sender sees.
func (w *World) Prime() {
	if w.primed {
		return
	}
	w.refreshVisibility()
	w.applyEffects()
	w.primed = true
}

// refreshVisibility computes every sighting against state frozen at the
// start of the pass, then lets each division ingest its own
func (w *World) refreshVisibility() {
	all := w.Divisions()
	frozen := make(map[shared.DivisionID][]*intel.RememberedDivision, len(all))
	for _, d := range all {
		frozen[d.ID()] = d.MemorySnapshots()
	}

	sightings := make(map[shared.DivisionID][]division.Sighting, len(all))
	for _, observer := range all {
		for _, peer := range w.visibility.VisiblePeers(observer, all) {
			s := division.Sighting{Snapshot: peer.Describe(w.clock.Stamp())}
			if peer.Team() == observer.Team() {
				s.Relay = frozen[peer.ID()]
			}
			sightings[observer.ID()] = append(sightings[observer.ID()], s)
		}
	}

	for _, d := range all {
		d.Observe(sightings[d.ID()], w.clock)
	}
}

func (w *World) mergeCommandTrees() {
	for _, a := range w.Divisions() {
		if !a.IsRoot() {
			continue
		}
		for _, seen := range a.Visible() {
			b, ok := w.divisions[seen.ID]
			if !ok || !b.IsRoot() {
				continue
			}
			division.FixCommanders(a, b, w.clock)
			if !a.IsRoot() {
				break
			}
		}
	}
}

// applyEffects drains and applies effects until none are left
func (w *World) applyEffects() {
	for {
		var effects []division.Effect
		for _, d := range w.Divisions() {
			effects = append(effects, d.DrainEffects()...)
		}
		if len(effects) == 0 {
			return
		}
		for _, e := range effects {
			w.apply(e)
		}
	}
}

func (w *World) apply(e division.Effect) {
	switch e := e.(type) {
	case division.SpawnEffect:
		w.register(e.Child)

	case division.DamageEffect:
		target, ok := w.divisions[e.Target]
		if !ok {
			return
		}
		if target.ApplyDamage(e.Amount) {
			w.destroy(target, e.From, "killed")
		}

	case division.DeliveryEffect:
		target, ok := w.divisions[e.Target]
		if !ok {
			w.record(division.EventCourierLost, e.From, e.Target, "recipient gone")
			return
		}
		target.ReceiveOrders(e.Orders)
		w.record(division.EventOrdersDelivered, e.From, e.Target, orderKinds(e.Orders))

	case division.JoinEffect:
		if err := w.Absorb(e.From, e.Target); err != nil {
			if from, ok := w.divisions[e.From]; ok {
				w.destroy(from, e.From, "stranded")
			}
		}

	case division.ReassignEffect:
		subject, ok := w.divisions[e.Subject]
		if !ok || w.commandsLive(e.Subject, e.Observer) {
			return
		}
		if !subject.Reassign(e.Observer, e.Previous) {
			return
		}
		if observer, ok := w.divisions[e.Observer]; ok {
			subject.UpdateRememberedDivision(observer.Describe(w.clock.Stamp()), w.clock)
		}
	}
}

// Absorb merges a division's soldiers into target and retires it. Used
// for couriers once they are back with their sender.
func (w *World) Absorb(id, target shared.DivisionID) error {
	from, ok := w.divisions[id]
	if !ok {
		return shared.NewTargetNotFoundError(target, id)
	}
	into, ok := w.divisions[target]
	if !ok {
		return shared.NewTargetNotFoundError(id, target)
	}
	troops := from.TakeSoldiers()
	into.TransferSoldiers(&troops)
	w.destroy(from, into.ID(), "absorbed")
	return nil
}

// retireStrandedCouriers disbands couriers left with nothing to do, which
// happens when both ends of their trip are gone
func (w *World) retireStrandedCouriers() {
	for _, d := range w.Divisions() {
		if d.IsCourier() && d.Queue().IsIdle() {
			w.destroy(d, d.ID(), "stranded")
		}
	}
}

// commandsLive reports whether ancestor sits above id in the live tree
func (w *World) commandsLive(ancestor, id shared.DivisionID) bool {
	node := id
	for steps := 0; steps <= len(w.divisions); steps++ {
		d, ok := w.divisions[node]
		if !ok {
			return false
		}
		if node == ancestor {
			return true
		}
		if d.IsRoot() {
			return false
		}
		node = d.Commander()
	}
	return true
}

// destroy retires a live division and writes tombstones into the
// memories selected by the tombstone scope. The destroyer always records it.
func (w *World) destroy(d *division.Division, by shared.DivisionID, reason string) {
	id := d.ID()
	payloadLost := d.IsCourier() && d.CarriesPayload()
	w.events = append(w.events, d.DrainEvents()...)
	d.DrainEffects()
	d.MarkDestroyed()
	delete(w.divisions, id)
	w.fallen[id] = d

	for _, other := range w.Divisions() {
		witness := other.ID() == by
		if !witness && other.Team() != d.Team() {
			continue
		}
		if !witness && w.settings.TombstoneScope == ScopeWitnesses {
			if _, sees := other.LookupVisible(id); !sees {
				continue
			}
		}
		other.RecordDestruction(id, w.clock)
	}

	w.record(division.EventDivisionDestroyed, id, by, reason)
	if payloadLost {
		w.record(division.EventCourierLost, id, by, "payload dropped")
	}
}

func (w *World) record(t division.EventType, id, other shared.DivisionID, detail string) {
	w.events = append(w.events, division.Event{Type: t, At: w.clock.Now(), Division: id, Other: other, Detail: detail})
}

func (w *World) drainEvents() []division.Event {
	events := w.events
	w.events = nil
	for _, d := range w.Divisions() {
		events = append(events, d.DrainEvents()...)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })
	return events
}

func (w *World) publish(ctx context.Context, report *TickReport, elapsed time.Duration) error {
	logger := logging.LoggerFromContext(ctx)
	w.metrics.RecordTick(elapsed, report.Live)
	for _, e := range report.Events {
		w.metrics.RecordEvent(e)
		logger.Log(eventLevel(e.Type), e.String(), map[string]interface{}{
			"tick":     report.Tick,
			"event":    string(e.Type),
			"division": int64(e.Division),
			"other":    int64(e.Other),
			"at":       float64(e.At),
		})
	}

	if err := w.journal.Append(ctx, report.Tick, report.Events); err != nil {
		logger.Log(logging.LevelError, "failed to journal tick", map[string]interface{}{
			"tick":  report.Tick,
			"error": err.Error(),
		})
		return fmt.Errorf("failed to journal tick %d: %w", report.Tick, err)
	}
	return nil
}

func eventLevel(t division.EventType) string {
	switch t {
	case division.EventCourierLost, division.EventDivisionDestroyed:
		return logging.LevelWarn
	case division.EventOrderEnded:
		return logging.LevelDebug
	default:
		return logging.LevelInfo
	}
}

func orderKinds(orders []order.Order) string {
	kinds := make([]string, 0, len(orders))
	for _, o := range orders {
		kinds = append(kinds, string(o.Kind()))
	}
	return strings.Join(kinds, ",")
}
