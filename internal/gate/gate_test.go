package gate

import (
	"sync"
	"testing"
)

func TestTryAcquire_SecondAttemptFailsWhileHeld(t *testing.T) {
	var g Gate

	if !g.TryAcquire() {
		t.Fatalf("expected first acquire to succeed")
	}
	if g.TryAcquire() {
		t.Fatalf("expected second acquire to fail while held")
	}

	g.Release()
	if !g.TryAcquire() {
		t.Fatalf("expected acquire to succeed after release")
	}
}

func TestTryAcquire_OnlyOneWinnerUnderContention(t *testing.T) {
	var g Gate
	const attempts = 50

	var wg sync.WaitGroup
	var wins int
	var mu sync.Mutex

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire() {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", wins)
	}
}
