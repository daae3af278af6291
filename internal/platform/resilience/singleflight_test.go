package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var calls atomic.Int32

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	shared := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err, wasShared := g.Do("key", func() (any, error) {
				calls.Add(1)
				time.Sleep(20 * time.Millisecond)
				return "value", nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if got, _ := v.(string); got != "value" {
				t.Errorf("unexpected value: %v", v)
			}
			shared <- wasShared
		}()
	}

	close(start)
	wg.Wait()
	close(shared)

	if got := calls.Load(); got != 1 {
		t.Fatalf("fn called %d times, want 1", got)
	}

	owners := 0
	for wasShared := range shared {
		if !wasShared {
			owners++
		}
	}
	if owners != 1 {
		t.Fatalf("%d callers executed the fn, want 1", owners)
	}
}

func TestSingleFlight_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var calls atomic.Int32

	fn := func() (any, error) {
		calls.Add(1)
		return nil, nil
	}

	if _, _, shared := g.Do("a", fn); shared {
		t.Fatalf("first call on key a should not be shared")
	}
	if _, _, shared := g.Do("b", fn); shared {
		t.Fatalf("first call on key b should not be shared")
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("fn called %d times, want 2", got)
	}
}
