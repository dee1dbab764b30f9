package mla

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alphaf42/keralamla/backend/pkg/wiki"
)

// raceClient serves a distinct representative per constituency and can
// hold individual lookups open to force completion-order inversions.
type raceClient struct {
	fakeClient

	mu    sync.Mutex
	gates map[string]chan struct{}
	names map[string]string
}

func (rc *raceClient) gate(id string) chan struct{} {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.gates == nil {
		rc.gates = make(map[string]chan struct{})
	}
	if _, ok := rc.gates[id]; !ok {
		rc.gates[id] = make(chan struct{})
	}
	return rc.gates[id]
}

func (rc *raceClient) Representative(ctx context.Context, constituencyID string) (*wiki.ResultSet, error) {
	gate := rc.gate(constituencyID)
	select {
	case <-gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	rc.mu.Lock()
	name, known := rc.names[constituencyID]
	rc.mu.Unlock()

	if !known {
		return &wiki.ResultSet{}, nil
	}

	return &wiki.ResultSet{Bindings: []wiki.Binding{{
		"mla":      uri("http://www.wikidata.org/entity/" + constituencyID),
		"mlaLabel": literal(name),
	}}}, nil
}

func TestProfileView_LateCycleIsDiscarded(t *testing.T) {
	client := &raceClient{
		names: map[string]string{
			"Q100": "Member A",
			"Q200": "Member B",
		},
	}
	view := NewProfileView(NewResolver(NewResolverParams{Client: client, MaxRetries: 1}))

	ctx := context.Background()

	cycleA := view.Select(ctx, ConstituencyRef{ID: "Q100", Label: "Alpha"})
	cycleB := view.Select(ctx, ConstituencyRef{ID: "Q200", Label: "Beta"})

	// B completes first, then A's stale result arrives.
	close(client.gate("Q200"))
	profileB, err := cycleB.Wait(ctx)
	if err != nil {
		t.Fatalf("unexpected error for B: %v", err)
	}
	if profileB.Representative.Name != "Member B" {
		t.Fatalf("unexpected representative for B: %q", profileB.Representative.Name)
	}

	close(client.gate("Q100"))
	if _, err := cycleA.Wait(ctx); err != nil {
		t.Fatalf("unexpected error for A: %v", err)
	}
	if !cycleA.Stale() {
		t.Fatal("superseded cycle A must be stale")
	}
	if cycleB.Stale() {
		t.Fatal("latest cycle B must not be stale")
	}

	current := view.Current()
	if current == nil || current.Representative.Name != "Member B" {
		t.Fatalf("displayed profile must be B's, got %+v", current)
	}
}

func TestProfileView_StaleAfterCanceledWait(t *testing.T) {
	client := &raceClient{
		names: map[string]string{
			"Q100": "Member A",
			"Q200": "Member B",
		},
	}
	view := NewProfileView(NewResolver(NewResolverParams{Client: client, MaxRetries: 1}))

	first := view.Select(context.Background(), ConstituencyRef{ID: "Q100", Label: "Alpha"})
	second := view.Select(context.Background(), ConstituencyRef{ID: "Q200", Label: "Beta"})

	// The viewer gives up on the first cycle while it is still in flight.
	waitCtx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := first.Wait(waitCtx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if first.Stale() {
		t.Fatal("an unfinished cycle must not report stale")
	}

	close(client.gate("Q100"))
	close(client.gate("Q200"))

	if _, err := second.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error for B: %v", err)
	}
	if _, err := first.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error for A: %v", err)
	}
	if !first.Stale() {
		t.Fatal("superseded cycle must report stale once finished")
	}
}

func TestProfileView_AppliesLatestCompletedCycle(t *testing.T) {
	client := &raceClient{
		names: map[string]string{"Q100": "Member A"},
	}
	view := NewProfileView(NewResolver(NewResolverParams{Client: client, MaxRetries: 1}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cycle := view.Select(ctx, ConstituencyRef{ID: "Q100", Label: "Alpha"})
	close(client.gate("Q100"))

	profile, err := cycle.Wait(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cycle.Stale() {
		t.Fatal("sole cycle must not be stale")
	}
	if view.Current() != profile {
		t.Fatal("current profile must be the applied cycle result")
	}
}

func TestProfileView_FailedCycleKeepsPriorProfile(t *testing.T) {
	client := &raceClient{
		names: map[string]string{"Q100": "Member A"},
	}
	view := NewProfileView(NewResolver(NewResolverParams{Client: client, MaxRetries: 1}))

	ctx := context.Background()

	first := view.Select(ctx, ConstituencyRef{ID: "Q100", Label: "Alpha"})
	close(client.gate("Q100"))
	if _, err := first.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Q300 resolves to an empty representative set.
	second := view.Select(ctx, ConstituencyRef{ID: "Q300", Label: "Gamma"})
	close(client.gate("Q300"))
	if _, err := second.Wait(ctx); err == nil {
		t.Fatal("expected resolve failure for empty representative")
	}

	current := view.Current()
	if current == nil || current.Representative.Name != "Member A" {
		t.Fatal("failed cycle must not clobber the prior profile")
	}
}
