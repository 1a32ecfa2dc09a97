package order

import (
	"github.com/andrescamacho/chaincommand-go/internal/domain/intel"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/internal/domain/soldier"
)

// DefaultHeartbeatInterval is the game-second period of Report
const DefaultHeartbeatInterval = 10.0

// Report is a background heartbeat: every interval it sends the host's
// memory plus a fresh snapshot of itself up the chain to its commander.
// It has no terminal condition.
type Report struct {
	Base
	Ticker
	sent int
}

// NewReport creates a heartbeat order
func NewReport(sender shared.DivisionID, interval float64) *Report {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	r := &Report{Base: NewBase(KindReport, sender), Ticker: Ticker{Interval: interval}}
	r.meta.Background = true
	return r
}

func (r *Report) Proceed(h Host, t shared.Tick) {
	if !r.Accumulate(t.Delta) {
		return
	}
	commander := h.Commander()
	if commander == h.ID() {
		return
	}
	snaps := append(h.MemorySnapshots(), h.Describe(t.Stamp()))
	payload := []Order{NewIntelReport(h.ID(), snaps)}
	// a failed send is a lost heartbeat; the next interval tries again
	if _, err := h.SendOrdersTo(commander, payload, t); err == nil {
		r.sent++
	}
}

func (r *Report) Finished(Host, shared.Tick) bool {
	return false
}

// Sent counts heartbeats dispatched so far
func (r *Report) Sent() int {
	return r.sent
}

// IntelReport carries snapshots to a division and merges them on arrival
type IntelReport struct {
	Base
	Snapshots []*intel.RememberedDivision
}

// NewIntelReport creates a report payload
func NewIntelReport(sender shared.DivisionID, snaps []*intel.RememberedDivision) *IntelReport {
	r := &IntelReport{Base: NewBase(KindIntelReport, sender), Snapshots: snaps}
	r.meta.Background = true
	return r
}

func (r *IntelReport) Start(h Host, t shared.Tick) {
	h.Ingest(r.Snapshots, t)
}

func (r *IntelReport) Proceed(Host, shared.Tick) {}

func (r *IntelReport) Finished(Host, shared.Tick) bool {
	return true
}

// DefaultRecruitInterval is the game-second period between recruits
const DefaultRecruitInterval = 5.0

// Recruit adds one soldier from Template every interval until the host
// holds Cap soldiers
type Recruit struct {
	Base
	Ticker
	Template soldier.Template
	Cap      int
	failed   bool
}

// NewRecruit creates a background recruitment order
func NewRecruit(sender shared.DivisionID, tmpl soldier.Template, capacity int, interval float64) *Recruit {
	if interval <= 0 {
		interval = DefaultRecruitInterval
	}
	r := &Recruit{
		Base:     NewBase(KindRecruit, sender),
		Ticker:   Ticker{Interval: interval},
		Template: tmpl,
		Cap:      capacity,
	}
	r.meta.Background = true
	return r
}

func (r *Recruit) Proceed(h Host, t shared.Tick) {
	if !r.Accumulate(t.Delta) {
		return
	}
	if h.Stats().Count >= r.Cap {
		return
	}
	if err := h.Recruit(r.Template); err != nil {
		r.failed = true
	}
}

func (r *Recruit) Finished(h Host, _ shared.Tick) bool {
	return r.failed || h.Stats().Count >= r.Cap
}
