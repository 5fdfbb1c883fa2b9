package rating_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/scrimnight/scrimnight/internal/member"
	"github.com/scrimnight/scrimnight/internal/rating"
)

type fakeSource struct {
	mu    sync.Mutex
	tiers map[string]*member.Tier
	fail  map[string]bool
	calls int
}

func (f *fakeSource) SoloTier(_ context.Context, puuid string) (*member.Tier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail[puuid] {
		return nil, errors.New("rate limited")
	}
	return f.tiers[puuid], nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type countingObserver struct {
	mu      sync.Mutex
	results map[string]int
}

func (o *countingObserver) TierRefreshed(result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.results == nil {
		o.results = map[string]int{}
	}
	o.results[result]++
}

func tier(t member.Tier) *member.Tier { return &t }

func strPtr(s string) *string { return &s }

func seedMembers(t *testing.T) (*member.MemoryRepository, map[string]*member.Member) {
	t.Helper()
	repo := member.NewMemoryRepository()
	ctx := context.Background()

	byHandle := map[string]*member.Member{
		"same#1":     {Name: "same", Handle: "same#1", ExternalID: strPtr("p-same"), Tier: tier(member.TierGold)},
		"promoted#1": {Name: "promoted", Handle: "promoted#1", ExternalID: strPtr("p-promoted"), Tier: tier(member.TierGold)},
		"decayed#1":  {Name: "decayed", Handle: "decayed#1", ExternalID: strPtr("p-decayed"), Tier: tier(member.TierDiamond)},
		"broken#1":   {Name: "broken", Handle: "broken#1", ExternalID: strPtr("p-broken"), Tier: tier(member.TierIron)},
		"manual#1":   {Name: "manual", Handle: "manual#1"},
	}
	for _, m := range byHandle {
		require.NoError(t, repo.Create(ctx, m))
	}
	return repo, byHandle
}

func TestRefreshAll(t *testing.T) {
	repo, members := seedMembers(t)
	source := &fakeSource{
		tiers: map[string]*member.Tier{
			"p-same":     tier(member.TierGold),
			"p-promoted": tier(member.TierPlatinum),
			"p-decayed":  nil,
		},
		fail: map[string]bool{"p-broken": true},
	}
	obs := &countingObserver{}
	r := rating.NewRefresher(repo, source, time.Hour, 2, obs)

	summary, err := r.RefreshAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, rating.Summary{Checked: 4, Changed: 2, Failed: 1, Skipped: 1}, summary)
	assert.Equal(t, map[string]int{rating.ResultChanged: 2, rating.ResultUnchanged: 1, rating.ResultError: 1}, obs.results)

	ctx := context.Background()
	got, err := repo.GetByID(ctx, members["promoted#1"].ID)
	require.NoError(t, err)
	assert.Equal(t, member.TierPlatinum, *got.Tier)

	got, err = repo.GetByID(ctx, members["decayed#1"].ID)
	require.NoError(t, err)
	assert.Nil(t, got.Tier)

	got, err = repo.GetByID(ctx, members["broken#1"].ID)
	require.NoError(t, err)
	assert.Equal(t, member.TierIron, *got.Tier)
}

func TestRefresher_StartStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo, _ := seedMembers(t)
	source := &fakeSource{tiers: map[string]*member.Tier{}}
	r := rating.NewRefresher(repo, source, 10*time.Millisecond, 4, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return source.callCount() >= 4 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresher did not stop after cancel")
	}
}

func TestRefreshAll_CancelledContext(t *testing.T) {
	repo, _ := seedMembers(t)
	source := &fakeSource{tiers: map[string]*member.Tier{}}
	r := rating.NewRefresher(repo, source, time.Hour, 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.RefreshAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, source.callCount())
}
