package memory

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMarkerStore_MarkFiredFirstWins(t *testing.T) {
	s := NewMarkerStore()
	ctx := context.Background()

	first, err := s.MarkFired(ctx, "owner-1", "active:walk:2026-03-14:pet-1")
	if err != nil {
		t.Fatalf("MarkFired: %v", err)
	}
	if !first {
		t.Fatal("first caller must win the marker")
	}

	second, err := s.MarkFired(ctx, "owner-1", "active:walk:2026-03-14:pet-1")
	if err != nil {
		t.Fatalf("MarkFired: %v", err)
	}
	if second {
		t.Fatal("second caller must not win the marker")
	}

	fired, err := s.Fired(ctx, "owner-1", "active:walk:2026-03-14:pet-1")
	if err != nil {
		t.Fatalf("Fired: %v", err)
	}
	if !fired {
		t.Fatal("marker must be visible after MarkFired")
	}
}

func TestMarkerStore_OwnerNamespacing(t *testing.T) {
	s := NewMarkerStore()
	ctx := context.Background()

	if _, err := s.MarkFired(ctx, "owner-1", "active:walk:2026-03-14:pet-1"); err != nil {
		t.Fatalf("MarkFired: %v", err)
	}

	first, err := s.MarkFired(ctx, "owner-2", "active:walk:2026-03-14:pet-1")
	if err != nil {
		t.Fatalf("MarkFired: %v", err)
	}
	if !first {
		t.Fatal("identical key under another owner must be independent")
	}
}

func TestMarkerStore_ConcurrentCallersExactlyOneWinner(t *testing.T) {
	s := NewMarkerStore()
	ctx := context.Background()

	const callers = 32
	var wg sync.WaitGroup
	wins := make(chan bool, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			first, err := s.MarkFired(ctx, "owner-1", "vaccine:vac-1:2026-03-14:pet-1")
			if err != nil {
				t.Errorf("MarkFired: %v", err)
				return
			}
			wins <- first
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for w := range wins {
		if w {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
}

func TestMarkerStore_DeleteOlderThan(t *testing.T) {
	s := NewMarkerStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	if _, err := s.MarkFired(ctx, "owner-1", "stale-key"); err != nil {
		t.Fatalf("MarkFired: %v", err)
	}

	s.now = func() time.Time { return base.AddDate(0, 0, 20) }
	if _, err := s.MarkFired(ctx, "owner-1", "fresh-key"); err != nil {
		t.Fatalf("MarkFired: %v", err)
	}

	removed, err := s.DeleteOlderThan(ctx, base.AddDate(0, 0, 14))
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 stale marker removed, got %d", removed)
	}

	fired, _ := s.Fired(ctx, "owner-1", "fresh-key")
	if !fired {
		t.Fatal("fresh marker must survive the sweep")
	}
	fired, _ = s.Fired(ctx, "owner-1", "stale-key")
	if fired {
		t.Fatal("stale marker must be removed")
	}
}
