package inbound

import (
	"context"
	"sync"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-crm-sync/core"
)

// Reconciler is the slice of the engine the dispatcher drives.
type Reconciler interface {
	ReconcileContact(ctx context.Context, ev core.ContactEvent, kind core.EventKind) (core.Contact, error)
	ReconcileDeal(ctx context.Context, ev core.DealEvent, kind core.EventKind) (core.Deal, error)
}

// EntityOutcome records what happened to a single entity in a batch. Err is
// nil when the entity reconciled cleanly.
type EntityOutcome struct {
	Entity     core.EntityKind
	Event      core.EventKind
	ExternalID int64
	Err        error
}

// BatchResult is the dispatcher's answer for one webhook batch. Accepted is
// true once every entity has been attempted, regardless of individual
// failures; callers that need detail walk Outcomes.
type BatchResult struct {
	Accepted bool
	Outcomes []EntityOutcome
}

// Failed returns the outcomes that carry an error.
func (r BatchResult) Failed() []EntityOutcome {
	var failed []EntityOutcome
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			failed = append(failed, outcome)
		}
	}
	return failed
}

type Dispatcher struct {
	reconciler Reconciler
	logger     core.Logger
}

type DispatcherOption func(*Dispatcher)

func WithLogger(logger core.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func NewDispatcher(reconciler Reconciler, opts ...DispatcherOption) (*Dispatcher, error) {
	if reconciler == nil {
		return nil, inboundBadInput("inbound: reconciler is required", nil)
	}
	dispatcher := &Dispatcher{
		reconciler: reconciler,
		logger:     glog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(dispatcher)
		}
	}
	return dispatcher, nil
}

// Dispatch fans the batch out to the engine. The four event groups run
// concurrently and every entity inside a group gets its own goroutine.
// Entities without an external id are skipped with a warning. A non-nil
// error means the batch itself was rejected; reconciliation failures live in
// the outcome list.
func (d *Dispatcher) Dispatch(ctx context.Context, batch core.WebhookBatch) (BatchResult, error) {
	if d == nil || d.reconciler == nil {
		return BatchResult{}, inboundInternal("inbound: dispatcher is not configured", nil)
	}
	if batch.Empty() {
		return BatchResult{}, inboundBadInput("inbound: webhook batch carries no events", nil)
	}

	collector := newOutcomeCollector()
	var wg sync.WaitGroup

	if batch.Contacts != nil {
		d.dispatchContacts(ctx, &wg, collector, batch.Contacts.Add, core.EventKindAdd)
		d.dispatchContacts(ctx, &wg, collector, batch.Contacts.Update, core.EventKindUpdate)
	}
	if batch.Leads != nil {
		d.dispatchDeals(ctx, &wg, collector, batch.Leads.Add, core.EventKindAdd)
		d.dispatchDeals(ctx, &wg, collector, batch.Leads.Update, core.EventKindUpdate)
	}
	wg.Wait()

	result := BatchResult{
		Accepted: true,
		Outcomes: collector.outcomes(),
	}
	if failed := result.Failed(); len(failed) > 0 {
		d.logWarn("webhook batch completed with failures",
			"failed", len(failed),
			"total", len(result.Outcomes),
		)
	}
	return result, nil
}

func (d *Dispatcher) dispatchContacts(
	ctx context.Context,
	wg *sync.WaitGroup,
	collector *outcomeCollector,
	events []core.ContactEvent,
	kind core.EventKind,
) {
	for _, ev := range events {
		if ev.ExternalID == 0 {
			d.logWarn("skipping contact event without external id", "event_kind", string(kind))
			continue
		}
		wg.Add(1)
		go func(ev core.ContactEvent) {
			defer wg.Done()
			_, err := d.reconciler.ReconcileContact(ctx, ev, kind)
			collector.record(EntityOutcome{
				Entity:     core.EntityKindContact,
				Event:      kind,
				ExternalID: ev.ExternalID,
				Err:        err,
			})
		}(ev)
	}
}

func (d *Dispatcher) dispatchDeals(
	ctx context.Context,
	wg *sync.WaitGroup,
	collector *outcomeCollector,
	events []core.DealEvent,
	kind core.EventKind,
) {
	for _, ev := range events {
		if ev.ExternalID == 0 {
			d.logWarn("skipping deal event without external id", "event_kind", string(kind))
			continue
		}
		wg.Add(1)
		go func(ev core.DealEvent) {
			defer wg.Done()
			_, err := d.reconciler.ReconcileDeal(ctx, ev, kind)
			collector.record(EntityOutcome{
				Entity:     core.EntityKindDeal,
				Event:      kind,
				ExternalID: ev.ExternalID,
				Err:        err,
			})
		}(ev)
	}
}

func (d *Dispatcher) logWarn(message string, args ...any) {
	if d == nil || d.logger == nil {
		return
	}
	d.logger.Warn(message, args...)
}

type outcomeCollector struct {
	mu   sync.Mutex
	list []EntityOutcome
}

func newOutcomeCollector() *outcomeCollector {
	return &outcomeCollector{}
}

func (c *outcomeCollector) record(outcome EntityOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = append(c.list, outcome)
}

func (c *outcomeCollector) outcomes() []EntityOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]EntityOutcome, len(c.list))
	copy(out, c.list)
	return out
}
