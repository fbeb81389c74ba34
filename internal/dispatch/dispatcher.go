package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/at-ishikawa/recall/internal/learning"
	"github.com/at-ishikawa/recall/internal/schedule"
)

// Decision is the outcome of one dispatch round for one user.
type Decision struct {
	UserID int64
	// Event is set when a reminder was sent.
	Event   *Event
	Reasons []schedule.Reason
}

// Sent reports whether a reminder was delivered.
func (d Decision) Sent() bool {
	return d.Event != nil
}

// Dispatcher picks one item per available user and sends it to a Sink.
type Dispatcher struct {
	preferences schedule.PreferencesRepository
	items       learning.ItemRepository
	dispatches  schedule.DispatchLog
	sink        Sink
	concurrency int
	rng         schedule.Rand
}

// NewDispatcher creates a Dispatcher evaluating up to concurrency users at once.
func NewDispatcher(
	preferences schedule.PreferencesRepository,
	items learning.ItemRepository,
	dispatches schedule.DispatchLog,
	sink Sink,
	concurrency int,
) *Dispatcher {
	return &Dispatcher{
		preferences: preferences,
		items:       items,
		dispatches:  dispatches,
		sink:        sink,
		concurrency: max(concurrency, 1),
		rng:         &lockedRand{rand: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))},
	}
}

// WithRand replaces the random source used to pick items.
func (d *Dispatcher) WithRand(rng schedule.Rand) *Dispatcher {
	d.rng = &lockedRand{rand: rng}
	return d
}

// Run calls RunOnce immediately and then every interval until ctx is done.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) error {
	logger := slog.Default()
	logger.Info("dispatcher started", "interval", interval, "concurrency", d.concurrency)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.tick(ctx, time.Now())
	for {
		select {
		case <-ctx.Done():
			logger.Info("dispatcher stopped")
			return nil
		case now := <-ticker.C:
			d.tick(ctx, now)
		}
	}
}

func (d *Dispatcher) tick(ctx context.Context, now time.Time) {
	decisions, err := d.RunOnce(ctx, now)
	if err != nil {
		slog.Default().Error("dispatch round failed", "error", err)
	}
	sent := 0
	for _, decision := range decisions {
		if decision.Sent() {
			sent++
		}
	}
	slog.Default().Debug("dispatch round finished", "users", len(decisions), "sent", sent)
}

// RunOnce evaluates every user with reminders enabled at now. A failure for
// one user does not stop the others; all failures are returned joined.
func (d *Dispatcher) RunOnce(ctx context.Context, now time.Time) ([]Decision, error) {
	users, err := d.preferences.FindEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("preferences.FindEnabled > %w", err)
	}

	decisions := make([]Decision, len(users))
	errs := make([]error, len(users))

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, prefs := range users {
		g.Go(func() error {
			decision, err := d.decide(ctx, prefs, now)
			decisions[i] = decision
			if err != nil {
				errs[i] = fmt.Errorf("user %d: %w", prefs.UserID, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return decisions, errors.Join(errs...)
}

func (d *Dispatcher) decide(ctx context.Context, prefs schedule.Preferences, now time.Time) (Decision, error) {
	decision := Decision{UserID: prefs.UserID}
	logger := slog.Default().With("user_id", prefs.UserID)

	if available, reasons := schedule.IsAvailable(prefs, now); !available {
		decision.Reasons = reasons
		logger.Debug("user unavailable", "reasons", reasons)
		return decision, nil
	}
	if schedule.IsRateLimited(prefs, now) {
		decision.Reasons = []schedule.Reason{schedule.ReasonRateLimited}
		return decision, nil
	}
	if prefs.MaxDailyRecalls > 0 {
		sentToday, err := d.dispatches.CountSince(ctx, prefs.UserID, schedule.StartOfDay(prefs, now))
		if err != nil {
			return decision, fmt.Errorf("dispatches.CountSince > %w", err)
		}
		if schedule.IsDailyCapReached(prefs, sentToday) {
			decision.Reasons = []schedule.Reason{schedule.ReasonDailyLimitReached}
			return decision, nil
		}
	}

	items, err := d.items.FindByUser(ctx, prefs.UserID)
	if err != nil {
		return decision, fmt.Errorf("items.FindByUser > %w", err)
	}
	item, ok := schedule.EligiblePool(items, prefs, now).Pick(d.rng)
	if !ok {
		decision.Reasons = []schedule.Reason{schedule.ReasonNothingDue}
		return decision, nil
	}

	event := NewEvent(item, now)
	if err := d.sink.Send(ctx, event); err != nil {
		return decision, fmt.Errorf("sink.Send(item %d) > %w", item.ID, err)
	}
	decision.Event = &event
	logger.Info("recall sent", "item_id", item.ID, "event_id", event.ID)

	if err := d.dispatches.Record(ctx, &schedule.Dispatch{
		EventID:      event.ID,
		UserID:       prefs.UserID,
		ItemID:       item.ID,
		DispatchedAt: now,
	}); err != nil {
		return decision, fmt.Errorf("dispatches.Record > %w", err)
	}
	if err := d.preferences.UpdateLastNotificationAt(ctx, prefs.UserID, now); err != nil {
		return decision, fmt.Errorf("preferences.UpdateLastNotificationAt > %w", err)
	}
	return decision, nil
}

// lockedRand serializes access to a random source shared by the workers.
type lockedRand struct {
	mu   sync.Mutex
	rand schedule.Rand
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

func (r *lockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}
