package registry

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shuldan/nativebridge/pkg/contracts"
)

func newTestRegistry(t *testing.T, d contracts.ModuleDelegate, opts ...Option) *Registry {
	t.Helper()
	r, err := New(d, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func TestNew_NilDelegate(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); !errors.Is(err, ErrNilDelegate) {
		t.Fatalf("expected ErrNilDelegate, got %v", err)
	}
}

// TestRegistryGet_ConcurrentSingleCreation verifies racing callers share one construction.
func TestRegistryGet_ConcurrentSingleCreation(t *testing.T) {
	t.Parallel()

	var creates atomic.Int32
	d := newFakeDelegate().withFallback("Clock", countingFactory(&creates))
	r := newTestRegistry(t, d)

	const callers = 64
	handles := make([]contracts.ServiceHandle, callers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			h, err := r.Get("Clock")
			if err != nil {
				t.Errorf("Get failed: %v", err)
			}
			handles[i] = h
		}(i)
	}
	close(start)
	wg.Wait()

	if got := creates.Load(); got != 1 {
		t.Fatalf("expected factory to run once, ran %d times", got)
	}
	for i, h := range handles {
		if h == nil || h != handles[0] {
			t.Fatalf("caller %d got %v, want %v", i, h, handles[0])
		}
	}
	if got := handles[0].(*fakeHandle).initCalls.Load(); got != 1 {
		t.Errorf("expected one Initialize, got %d", got)
	}
}

func TestRegistryGet_TwoCallersSameInstant(t *testing.T) {
	t.Parallel()

	var creates atomic.Int32
	d := newFakeDelegate().withFallback("Clock", countingFactory(&creates))
	r := newTestRegistry(t, d)

	var first, second contracts.ServiceHandle
	var wg sync.WaitGroup
	start := make(chan struct{})
	wg.Add(2)
	go func() { defer wg.Done(); <-start; first, _ = r.Get("Clock") }()
	go func() { defer wg.Done(); <-start; second, _ = r.Get("Clock") }()
	close(start)
	wg.Wait()

	if creates.Load() != 1 {
		t.Errorf("expected counter 1, got %d", creates.Load())
	}
	if first == nil || first != second {
		t.Errorf("expected the same handle, got %v and %v", first, second)
	}
}

func TestRegistryGet_IdempotentLookup(t *testing.T) {
	t.Parallel()

	h := &fakeHandle{name: "Networking"}
	d := newFakeDelegate().withPrimary("Networking", handleFactory(h))
	r := newTestRegistry(t, d)

	first, err := r.Get("Networking")
	if err != nil {
		t.Fatalf("first Get failed: %v", err)
	}
	second, err := r.Get("Networking")
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}

	if first != h || second != h {
		t.Fatalf("expected the registered handle both times")
	}
	if d.primaryCreates.Load() != 1 || d.primaryQueries.Load() != 1 {
		t.Errorf("providers consulted again: creates=%d queries=%d",
			d.primaryCreates.Load(), d.primaryQueries.Load())
	}
}

func TestRegistryGet_UnknownNameIsCached(t *testing.T) {
	t.Parallel()

	d := newFakeDelegate()
	r := newTestRegistry(t, d)

	for i := 0; i < 2; i++ {
		h, err := r.Get("Unknown")
		if h != nil || err != nil {
			t.Fatalf("call %d: expected (nil, nil), got (%v, %v)", i, h, err)
		}
	}

	if d.primaryQueries.Load() != 1 || d.fallbackQueries.Load() != 1 {
		t.Errorf("expected providers queried once, got primary=%d fallback=%d",
			d.primaryQueries.Load(), d.fallbackQueries.Load())
	}
	if d.primaryCreates.Load() != 0 || d.fallbackCreates.Load() != 0 {
		t.Error("no factory should run for an unrecognized name")
	}
	if r.Has("Unknown") {
		t.Error("unknown name must not be reported as created")
	}
}

func TestRegistryGet_EmptyName(t *testing.T) {
	t.Parallel()

	d := newFakeDelegate()
	r := newTestRegistry(t, d)

	if h, err := r.Get(""); h != nil || err != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", h, err)
	}
	if d.primaryQueries.Load() != 0 {
		t.Error("empty name must not reach the providers")
	}
	if len(r.snapshot()) != 0 {
		t.Error("empty name must not create a holder")
	}
}

func TestRegistryGet_PrimaryTakesPrecedence(t *testing.T) {
	t.Parallel()

	primary := &fakeHandle{name: "primary"}
	fallback := &fakeHandle{name: "fallback"}
	d := newFakeDelegate().
		withPrimary("Dialogs", handleFactory(primary)).
		withFallback("Dialogs", handleFactory(fallback))
	r := newTestRegistry(t, d)

	h, err := r.Get("Dialogs")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if h != primary {
		t.Fatalf("expected primary handle, got %v", h)
	}
	if d.fallbackCreates.Load() != 0 {
		t.Error("fallback factory must not run for a primary name")
	}
}

func TestRegistryGet_PrimaryProducingNothingDoesNotFallThrough(t *testing.T) {
	t.Parallel()

	fallback := &fakeHandle{name: "fallback"}
	d := newFakeDelegate().
		withPrimary("Dialogs", func() (contracts.ServiceHandle, error) { return nil, nil }).
		withFallback("Dialogs", handleFactory(fallback))
	r := newTestRegistry(t, d)

	h, err := r.Get("Dialogs")
	if h != nil {
		t.Fatalf("expected no handle, got %v", h)
	}
	if !errors.Is(err, ErrModuleNotBuilt) {
		t.Fatalf("expected ErrModuleNotBuilt, got %v", err)
	}
	if d.fallbackCreates.Load() != 0 {
		t.Error("fallback factory must not run for a primary name")
	}
}

func TestRegistryGet_CreationFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		factory factory
		wantErr error
	}{
		{
			name:    "factory error",
			factory: func() (contracts.ServiceHandle, error) { return nil, errFactory },
			wantErr: ErrModuleCreate,
		},
		{
			name:    "factory panic",
			factory: func() (contracts.ServiceHandle, error) { panic("boom") },
			wantErr: ErrModuleCreate,
		},
		{
			name:    "initialize error",
			factory: handleFactory(&fakeHandle{initErr: errFactory}),
			wantErr: ErrModuleInitialize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			d := newFakeDelegate().withFallback("Sensors", func() (contracts.ServiceHandle, error) {
				calls.Add(1)
				return tt.factory()
			})
			r := newTestRegistry(t, d)

			h, err := r.Get("Sensors")
			if h != nil {
				t.Fatalf("expected nil handle, got %v", h)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			h, err = r.Get("Sensors")
			if h != nil || err != nil {
				t.Fatalf("failed module must stay absent without error, got (%v, %v)", h, err)
			}
			if calls.Load() != 1 {
				t.Errorf("failed module must not be retried, factory ran %d times", calls.Load())
			}
			if r.Has("Sensors") {
				t.Error("failed module must not be reported as created")
			}
		})
	}
}

func TestRegistryGet_WaitersObserveEmptyHandleOnFailure(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	d := newFakeDelegate().withFallback("Sensors", func() (contracts.ServiceHandle, error) {
		close(entered)
		<-release
		return nil, errFactory
	})
	r := newTestRegistry(t, d)

	creatorErr := make(chan error, 1)
	go func() {
		_, err := r.Get("Sensors")
		creatorErr <- err
	}()
	<-entered

	const waiters = 8
	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := r.Get("Sensors")
			if h != nil || err != nil {
				failures.Add(1)
			}
		}()
	}
	close(release)
	wg.Wait()

	if err := <-creatorErr; !errors.Is(err, ErrModuleCreate) {
		t.Fatalf("creator expected ErrModuleCreate, got %v", err)
	}
	if failures.Load() != 0 {
		t.Errorf("%d waiters observed something other than (nil, nil)", failures.Load())
	}
}

func TestRegistryGet_UnrelatedModulesDoNotBlock(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	slow := &fakeHandle{name: "slow"}
	fast := &fakeHandle{name: "fast"}
	d := newFakeDelegate().
		withPrimary("Slow", gatedFactory(slow, entered, release)).
		withPrimary("Fast", handleFactory(fast))
	r := newTestRegistry(t, d)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = r.Get("Slow")
	}()
	<-entered

	h, err := r.Get("Fast")
	if err != nil || h != fast {
		t.Fatalf("expected fast module while slow is creating, got (%v, %v)", h, err)
	}
	if r.Has("Slow") {
		t.Error("slow module must not be reported before creation finishes")
	}

	close(release)
	<-done
	if !r.Has("Slow") {
		t.Error("slow module should be created after release")
	}
}

func TestRegistryHas(t *testing.T) {
	t.Parallel()

	d := newFakeDelegate().withPrimary("Clock", handleFactory(&fakeHandle{}))
	r := newTestRegistry(t, d)

	if r.Has("Clock") {
		t.Fatal("Has must not report before Get")
	}
	if d.primaryCreates.Load() != 0 {
		t.Fatal("Has must not trigger creation")
	}
	if _, err := r.Get("Clock"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !r.Has("Clock") {
		t.Fatal("Has should report after Get")
	}
}

func TestRegistryListCreated(t *testing.T) {
	t.Parallel()

	clock := &fakeHandle{name: "Clock"}
	device := &fakeHandle{name: "DeviceInfo"}
	d := newFakeDelegate().
		withPrimary("DeviceInfo", handleFactory(device)).
		withFallback("Clock", handleFactory(clock)).
		withFallback("Broken", func() (contracts.ServiceHandle, error) { return nil, errFactory })
	r := newTestRegistry(t, d)

	_, _ = r.Get("Clock")
	_, _ = r.Get("Unknown")
	_, _ = r.Get("Broken")
	_, _ = r.Get("DeviceInfo")

	created := r.ListCreated()
	if len(created) != 2 || created[0] != clock || created[1] != device {
		t.Fatalf("expected [Clock DeviceInfo] in request order, got %v", created)
	}

	created[0] = nil
	if again := r.ListCreated(); again[0] != clock {
		t.Error("ListCreated must return a snapshot")
	}
}

func TestRegistryListCreated_SkipsInFlight(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	d := newFakeDelegate().withPrimary("Slow", gatedFactory(&fakeHandle{}, entered, release))
	r := newTestRegistry(t, d)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = r.Get("Slow")
	}()
	<-entered

	if created := r.ListCreated(); len(created) != 0 {
		t.Errorf("in-flight module must not be listed, got %v", created)
	}

	close(release)
	<-done
	if created := r.ListCreated(); len(created) != 1 {
		t.Errorf("expected one created module, got %v", created)
	}
}

func TestRegistryEagerInitNames(t *testing.T) {
	t.Parallel()

	d := newFakeDelegate()
	d.eager = []string{"DeviceInfo", "Clock"}
	r := newTestRegistry(t, d)

	names := r.EagerInitNames()
	if len(names) != 2 || names[0] != "DeviceInfo" || names[1] != "Clock" {
		t.Fatalf("unexpected eager names %v", names)
	}
	names[0] = "mutated"
	if d.eager[0] != "DeviceInfo" {
		t.Error("EagerInitNames must return a copy")
	}
	if d.primaryCreates.Load() != 0 {
		t.Error("registry must not realize eager modules by itself")
	}
}

func TestRegistryInvalidate(t *testing.T) {
	t.Parallel()

	clock := &fakeHandle{name: "Clock"}
	d := newFakeDelegate().withFallback("Clock", handleFactory(clock))
	r := newTestRegistry(t, d)

	if _, err := r.Get("Clock"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if err := r.Invalidate(); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}

	for _, name := range []string{"Clock", "NeverSeen"} {
		if h, err := r.Get(name); h != nil || err != nil {
			t.Errorf("Get(%s) after Invalidate = (%v, %v), want (nil, nil)", name, h, err)
		}
	}
	if clock.invalidates.Load() != 1 {
		t.Errorf("expected one Invalidate on the handle, got %d", clock.invalidates.Load())
	}
	if r.Has("Clock") || len(r.ListCreated()) != 0 {
		t.Error("registry must be empty after Invalidate")
	}
	if d.fallbackCreates.Load() != 1 {
		t.Errorf("no creation may start after Invalidate, factory ran %d times", d.fallbackCreates.Load())
	}

	if err := r.Invalidate(); err != nil {
		t.Fatalf("second Invalidate failed: %v", err)
	}
	if clock.invalidates.Load() != 1 {
		t.Errorf("second Invalidate must not reach handles, got %d", clock.invalidates.Load())
	}
}

func TestRegistryInvalidate_WaitsForInFlightCreation(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	slow := &fakeHandle{name: "Slow"}
	d := newFakeDelegate().withPrimary("Slow", gatedFactory(slow, entered, release))
	r := newTestRegistry(t, d)

	got := make(chan contracts.ServiceHandle, 1)
	go func() {
		h, _ := r.Get("Slow")
		got <- h
	}()
	<-entered

	invalidated := make(chan error, 1)
	go func() { invalidated <- r.Invalidate() }()

	select {
	case err := <-invalidated:
		t.Fatalf("Invalidate returned before creation finished: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	if err := <-invalidated; err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if h := <-got; h != slow {
		t.Errorf("creator expected its handle, got %v", h)
	}
	if !slow.initializedAtInvalidate.Load() {
		t.Error("handle was invalidated before Initialize completed")
	}
	if slow.invalidates.Load() != 1 {
		t.Errorf("expected one Invalidate, got %d", slow.invalidates.Load())
	}
}

func TestRegistryInvalidate_ConcurrentCalls(t *testing.T) {
	t.Parallel()

	handles := []*fakeHandle{{name: "A"}, {name: "B"}, {name: "C"}}
	d := newFakeDelegate()
	for _, h := range handles {
		d.withPrimary(h.name, handleFactory(h))
	}
	r := newTestRegistry(t, d)
	for _, h := range handles {
		_, _ = r.Get(h.name)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Invalidate()
			if h, _ := r.Get("A"); h != nil {
				t.Error("Get must return nil once any Invalidate has returned")
			}
		}()
	}
	wg.Wait()

	for _, h := range handles {
		if h.invalidates.Load() != 1 {
			t.Errorf("module %s invalidated %d times", h.name, h.invalidates.Load())
		}
	}
}

func TestRegistryInvalidate_JoinsHandleErrors(t *testing.T) {
	t.Parallel()

	bad := &fakeHandle{name: "Bad", invalidErr: errFactory}
	good := &fakeHandle{name: "Good"}
	d := newFakeDelegate().
		withPrimary("Bad", handleFactory(bad)).
		withPrimary("Good", handleFactory(good))
	r := newTestRegistry(t, d)
	_, _ = r.Get("Bad")
	_, _ = r.Get("Good")

	err := r.Invalidate()
	if !errors.Is(err, ErrModuleInvalidate) || !errors.Is(err, errFactory) {
		t.Fatalf("expected wrapped invalidate error, got %v", err)
	}
	if good.invalidates.Load() != 1 {
		t.Error("a failing handle must not stop the others from being invalidated")
	}
}

func TestRegistryEvents(t *testing.T) {
	t.Parallel()

	bus := &recordingBus{}
	d := newFakeDelegate().
		withPrimary("Clock", handleFactory(&fakeHandle{})).
		withFallback("Broken", func() (contracts.ServiceHandle, error) { return nil, errFactory })
	r := newTestRegistry(t, d, WithEventBus(bus), WithSessionID("session-1"))

	_, _ = r.Get("Clock")
	_, _ = r.Get("Clock")
	_, _ = r.Get("Broken")
	_ = r.Invalidate()

	events := bus.recorded()
	if len(events) != 5 {
		t.Fatalf("expected 5 events, got %d: %v", len(events), events)
	}

	started, ok := events[0].(ModuleCreateStarted)
	if !ok || started.Name != "Clock" || started.Session != "session-1" || started.HolderID != 1 {
		t.Errorf("unexpected first event %#v", events[0])
	}
	ended, ok := events[1].(ModuleCreateEnded)
	if !ok || !ended.Created || ended.Kind != KindPrimary || ended.Err != nil {
		t.Errorf("unexpected create end %#v", events[1])
	}
	failed, ok := events[3].(ModuleCreateEnded)
	if !ok || failed.Created || failed.Kind != KindFallback || !errors.Is(failed.Err, ErrModuleCreate) {
		t.Errorf("unexpected failure event %#v", events[3])
	}
	invalidated, ok := events[4].(ModuleInvalidated)
	if !ok || invalidated.Name != "Clock" || invalidated.Err != nil {
		t.Errorf("unexpected invalidate event %#v", events[4])
	}
}

func TestRegistryEvents_PublishFailureDoesNotAffectLookup(t *testing.T) {
	t.Parallel()

	bus := &recordingBus{err: errFactory}
	h := &fakeHandle{}
	d := newFakeDelegate().withPrimary("Clock", handleFactory(h))
	r := newTestRegistry(t, d, WithEventBus(bus))

	got, err := r.Get("Clock")
	if err != nil || got != h {
		t.Fatalf("expected handle despite bus failure, got (%v, %v)", got, err)
	}
}

func TestRegistrySession(t *testing.T) {
	t.Parallel()

	a := newTestRegistry(t, newFakeDelegate())
	b := newTestRegistry(t, newFakeDelegate())
	if a.Session() == "" || a.Session() == b.Session() {
		t.Errorf("expected distinct generated sessions, got %q and %q", a.Session(), b.Session())
	}
	if s := newTestRegistry(t, newFakeDelegate(), WithSessionID("fixed")).Session(); s != "fixed" {
		t.Errorf("expected fixed session, got %q", s)
	}
}
