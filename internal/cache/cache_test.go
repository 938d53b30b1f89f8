package cache

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func appendTransform(item string) Transform {
	return ListTransform(func(list []string) []string { return Append(list, item) })
}

func TestKey(t *testing.T) {
	if got := InvestmentsKey(""); got != "investments" {
		t.Errorf("global key = %q", got)
	}
	if got := InvestmentsKey("42"); got != "investments/42" {
		t.Errorf("scoped key = %q", got)
	}
	if !InvestmentsKey("42").HasPrefix(InvestmentsKey("")) {
		t.Error("scoped key should sit under the global prefix")
	}
	filtered := FilteredInvestmentsKey("42", "createdAt", "2024-01-01", "-")
	if filtered != "investments/42/filter/createdAt/2024-01-01/-" {
		t.Errorf("filtered key = %q", filtered)
	}
	if filtered == InvestmentsKey("42") || !filtered.HasPrefix(InvestmentsKey("42")) {
		t.Error("filtered key should be distinct from and nested under the scoped key")
	}
	if NewKey("investors").HasPrefix(NewKey("investor")) {
		t.Error("prefix must match whole segments")
	}
	if segs := InvestorKey("7").Segments(); !reflect.DeepEqual(segs, []string{"investor", "7"}) {
		t.Errorf("unexpected segments %v", segs)
	}
}

func TestFetch_UsesFreshValue(t *testing.T) {
	c := NewQueryCache()
	key := InvestorsKey()
	c.Set(key, []string{"a"})

	v, err := c.Fetch(context.Background(), key, func(context.Context) (any, error) {
		t.Fatal("fetcher must not run for a fresh key")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(v, []string{"a"}) {
		t.Errorf("unexpected value %v", v)
	}
}

func TestFetch_SharesConcurrentLoads(t *testing.T) {
	c := NewQueryCache()
	key := DashboardKey()

	var calls int32
	release := make(chan struct{})
	fetcher := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "loaded", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Fetch(context.Background(), key, fetcher)
			if err != nil || v != "loaded" {
				t.Errorf("unexpected result %v, %v", v, err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected a single load, got %d", n)
	}
	if c.IsStale(key) {
		t.Error("key should be fresh after a load")
	}
}

func TestInvalidate_MatchesPrefix(t *testing.T) {
	c := NewQueryCache()
	c.Set(InvestmentsKey(""), []string{})
	c.Set(InvestmentsKey("1"), []string{})
	c.Set(InvestorsKey(), []string{})

	if n := c.Invalidate(InvestmentsKey("")); n != 2 {
		t.Errorf("expected 2 invalidated keys, got %d", n)
	}
	if !c.IsStale(InvestmentsKey("1")) || !c.IsStale(InvestmentsKey("")) {
		t.Error("investment keys should be stale")
	}
	if c.IsStale(InvestorsKey()) {
		t.Error("investors key should stay fresh")
	}
	if _, ok := c.Get(InvestmentsKey("1")); !ok {
		t.Error("stale values remain readable")
	}
}

func TestMutate_SuccessKeepsOptimisticValueAndInvalidates(t *testing.T) {
	c := NewQueryCache()
	key := InvestorsKey()
	c.Set(key, []string{"a"})
	s := NewSynchronizer(c)

	err := s.Mutate(context.Background(), key, appendTransform("b"), func(context.Context) error {
		v, _ := GetAs[[]string](c, key)
		if !reflect.DeepEqual(v, []string{"a", "b"}) {
			t.Errorf("optimistic value not visible during request: %v", v)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsStale(key) {
		t.Error("key must be invalidated after the mutation")
	}
}

func TestMutate_FailureRestoresSnapshot(t *testing.T) {
	c := NewQueryCache()
	key := InvestmentsKey("9")
	before := []string{"a", "b", "c"}
	c.Set(key, before)
	s := NewSynchronizer(c)

	boom := errors.New("boom")
	remove := ListTransform(func(list []string) []string {
		return RemoveWhere(list, func(v string) bool { return v == "b" })
	})
	err := s.Mutate(context.Background(), key, remove, func(context.Context) error {
		v, _ := GetAs[[]string](c, key)
		if len(v) != 2 {
			t.Errorf("expected optimistic removal, got %v", v)
		}
		return boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("expected request error, got %v", err)
	}
	after, _ := GetAs[[]string](c, key)
	if !reflect.DeepEqual(after, []string{"a", "b", "c"}) {
		t.Errorf("rollback produced %v", after)
	}
	if !c.IsStale(key) {
		t.Error("key must be invalidated after a failed mutation")
	}
}

func TestMutate_PanickingRequestRestoresSnapshot(t *testing.T) {
	c := NewQueryCache()
	key := InvestmentsKey("9")
	c.Set(key, []string{"a"})
	s := NewSynchronizer(c)

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected the request panic to propagate")
			}
		}()
		_ = s.Mutate(context.Background(), key, appendTransform("b"), func(context.Context) error {
			panic("request exploded")
		})
	}()

	after, _ := GetAs[[]string](c, key)
	if !reflect.DeepEqual(after, []string{"a"}) {
		t.Errorf("rollback produced %v", after)
	}
	if !c.IsStale(key) {
		t.Error("key must be invalidated after a panicking request")
	}
}

func TestSettle_IgnoresSettledTransaction(t *testing.T) {
	c := NewQueryCache()
	key := InvestorsKey()
	c.Set(key, []string{"a"})

	tx := c.Begin(key)
	if err := tx.Apply(appendTransform("b")); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	Settle(tx, false)

	if tx.State() != SettledSuccess {
		t.Errorf("settled transaction changed state to %s", tx.State())
	}
	if v, _ := GetAs[[]string](c, key); !reflect.DeepEqual(v, []string{"a", "b"}) {
		t.Errorf("committed value was rolled back: %v", v)
	}
}

func TestMutate_UncachedKeyIsNotWritten(t *testing.T) {
	c := NewQueryCache()
	key := AgentsKey("3")
	s := NewSynchronizer(c)

	err := s.Mutate(context.Background(), key, appendTransform("x"), func(context.Context) error {
		if _, ok := c.Get(key); ok {
			t.Error("nothing should be cached for an unknown key")
		}
		return errors.New("fail")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := c.Get(key); ok {
		t.Error("rollback should leave the key absent")
	}
}

func TestMutate_CancelsInFlightFetch(t *testing.T) {
	c := NewQueryCache()
	key := InvestorsKey()
	c.Set(key, []string{"a"})
	c.Invalidate(key)

	started := make(chan struct{})
	fetchErr := make(chan error, 1)
	go func() {
		_, err := c.Fetch(context.Background(), key, func(ctx context.Context) (any, error) {
			close(started)
			<-ctx.Done()
			return []string{"server"}, ctx.Err()
		})
		fetchErr <- err
	}()
	<-started

	s := NewSynchronizer(c)
	err := s.Mutate(context.Background(), key, appendTransform("b"), func(context.Context) error {
		select {
		case err := <-fetchErr:
			if !errors.Is(err, ErrFetchCanceled) || !errors.Is(err, context.Canceled) {
				t.Errorf("expected canceled fetch, got %v", err)
			}
		case <-time.After(time.Second):
			t.Error("in-flight fetch was not canceled")
		}
		v, _ := GetAs[[]string](c, key)
		if !reflect.DeepEqual(v, []string{"a", "b"}) {
			t.Errorf("canceled fetch overwrote optimistic value: %v", v)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetch_SupersededResultIsDiscarded(t *testing.T) {
	c := NewQueryCache()
	key := DashboardKey()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan any, 1)
	go func() {
		v, _ := c.Fetch(context.Background(), key, func(context.Context) (any, error) {
			close(started)
			<-release
			return "old", nil
		})
		done <- v
	}()
	<-started
	c.Set(key, "new")
	close(release)

	if v := <-done; v != "new" {
		t.Errorf("fetch should return the newer cached value, got %v", v)
	}
	if v, _ := c.Get(key); v != "new" {
		t.Errorf("superseded fetch overwrote the cache: %v", v)
	}
}

func TestTransaction_States(t *testing.T) {
	c := NewQueryCache()
	tx := c.Begin(InvestorsKey())
	if tx.State() != Idle {
		t.Fatalf("new transaction should be idle, got %s", tx.State())
	}
	if err := tx.Apply(nil); err != nil || tx.State() != Pending {
		t.Fatalf("apply: %v, state %s", err, tx.State())
	}
	if err := tx.Commit(); err != nil || tx.State() != SettledSuccess {
		t.Fatalf("commit: %v, state %s", err, tx.State())
	}
	if err := tx.Rollback(); !errors.Is(err, ErrTransactionSettled) {
		t.Errorf("rollback after commit should fail, got %v", err)
	}
	if err := tx.Apply(nil); !errors.Is(err, ErrTransactionSettled) {
		t.Errorf("apply after commit should fail, got %v", err)
	}
}

func TestListHelpers_DoNotMutateInput(t *testing.T) {
	in := []int{1, 2, 3}

	out := ReplaceWhere(in, func(v int) bool { return v == 2 }, func(int) int { return 20 })
	if !reflect.DeepEqual(out, []int{1, 20, 3}) || in[1] != 2 {
		t.Errorf("ReplaceWhere: in=%v out=%v", in, out)
	}

	out = RemoveWhere(in, func(v int) bool { return v == 1 })
	if !reflect.DeepEqual(out, []int{2, 3}) || len(in) != 3 {
		t.Errorf("RemoveWhere: in=%v out=%v", in, out)
	}

	out = Append(in[:2], 9)
	if in[2] != 3 || !reflect.DeepEqual(out, []int{1, 2, 9}) {
		t.Errorf("Append wrote into the input backing array: %v", in)
	}
}
