package rating

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scrimnight/scrimnight/internal/member"
)

// TierSource returns the current solo-queue tier for an account id.
type TierSource interface {
	SoloTier(ctx context.Context, puuid string) (*member.Tier, error)
}

// Observer is told the result of every member lookup.
type Observer interface {
	TierRefreshed(result string)
}

// Refresh results reported to the Observer.
const (
	ResultChanged   = "changed"
	ResultUnchanged = "unchanged"
	ResultError     = "error"
)

// Summary counts the outcome of one refresh pass.
type Summary struct {
	Checked int
	Changed int
	Failed  int
	Skipped int
}

// Refresher periodically re-reads every member's tier and stores changes.
type Refresher struct {
	members     member.Repository
	source      TierSource
	interval    time.Duration
	concurrency int
	observer    Observer
}

// NewRefresher creates a Refresher. observer may be nil.
func NewRefresher(members member.Repository, source TierSource, interval time.Duration, concurrency int, observer Observer) *Refresher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Refresher{
		members:     members,
		source:      source,
		interval:    interval,
		concurrency: concurrency,
		observer:    observer,
	}
}

// Start runs a refresh pass every interval. It blocks until ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	slog.Info("rating refresher started", "interval", r.interval.String(), "concurrency", r.concurrency)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("rating refresher stopped")
			return
		case <-ticker.C:
			summary, err := r.RefreshAll(ctx)
			if err != nil {
				slog.Error("rating refresher: pass failed", "error", err)
				continue
			}
			slog.Info("rating refresher: pass complete",
				"checked", summary.Checked,
				"changed", summary.Changed,
				"failed", summary.Failed,
				"skipped", summary.Skipped,
			)
		}
	}
}

// RefreshAll looks up every member with an external id and updates tiers
// that changed. Lookup failures are logged and counted, not returned.
func (r *Refresher) RefreshAll(ctx context.Context) (Summary, error) {
	members, err := r.members.List(ctx)
	if err != nil {
		return Summary{}, err
	}

	var checked, changed, failed, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, m := range members {
		if m.ExternalID == nil || *m.ExternalID == "" {
			skipped.Add(1)
			continue
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			checked.Add(1)
			switch r.refreshOne(gctx, m) {
			case ResultChanged:
				changed.Add(1)
			case ResultError:
				failed.Add(1)
			}
			return nil
		})
	}

	err = g.Wait()
	return Summary{
		Checked: int(checked.Load()),
		Changed: int(changed.Load()),
		Failed:  int(failed.Load()),
		Skipped: int(skipped.Load()),
	}, err
}

func (r *Refresher) refreshOne(ctx context.Context, m member.Member) string {
	result := ResultUnchanged
	defer func() {
		if r.observer != nil {
			r.observer.TierRefreshed(result)
		}
	}()

	tier, err := r.source.SoloTier(ctx, *m.ExternalID)
	if err != nil {
		slog.Warn("rating refresher: lookup failed", "member", m.Handle, "error", err)
		result = ResultError
		return result
	}

	if sameTier(tier, m.Tier) {
		return result
	}

	if err := r.members.UpdateTier(ctx, m.ID, tier); err != nil {
		slog.Error("rating refresher: failed to update tier", "member", m.Handle, "error", err)
		result = ResultError
		return result
	}

	slog.Info("rating refresher: tier changed", "member", m.Handle, "from", m.TierName(), "to", tierName(tier))
	result = ResultChanged
	return result
}

func sameTier(a, b *member.Tier) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func tierName(t *member.Tier) string {
	if t == nil {
		return "UNRANKED"
	}
	return string(*t)
}
