package packagekit

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestRunTransactionCollectsSignalsInOrder(t *testing.T) {
	bus := newFakeBus()
	bus.handle = func(path ObjectPath, method string, args []any) ([]any, error) {
		if method != txMethod("SearchNames") {
			t.Fatalf("unexpected method %s", method)
		}
		bus.emitPackage(path, InfoAvailable, "nginx;1.22.1-9;amd64;debian-stable", "web server")
		bus.emitPackage(path, InfoAvailable, "nginx-doc;1.22.1-9;all;debian-stable", "docs")
		bus.emitFinished(path, ExitSuccess)
		return nil, nil
	}

	c := newTestClient(bus)
	var names []string
	exit, err := c.RunTransaction(context.Background(), TransactionCall{
		Method: "SearchNames",
		Args:   []any{uint64(searchFilter), []string{"nginx"}},
		Handlers: SignalHandlers{
			Package: func(ev PackageEvent) { names = append(names, ev.ID.Name) },
		},
	})
	if err != nil {
		t.Fatalf("RunTransaction failed: %v", err)
	}
	if exit != ExitSuccess {
		t.Errorf("exit = %d, want success", exit)
	}
	if diff := cmp.Diff([]string{"nginx", "nginx-doc"}, names); diff != "" {
		t.Errorf("signal order mismatch (-want +got):\n%s", diff)
	}
}

func TestRunTransactionEmptyMethodRejected(t *testing.T) {
	c := newTestClient(newFakeBus())
	if _, err := c.RunTransaction(context.Background(), TransactionCall{}); err == nil {
		t.Fatal("empty method should be rejected before any remote call")
	}
}

func TestRunTransactionErrorCode(t *testing.T) {
	bus := newFakeBus()
	bus.handle = func(path ObjectPath, method string, args []any) ([]any, error) {
		bus.emitError(path, WireErrorPackageDownloadFailed, "mirror timed out")
		bus.emitFinished(path, ExitFailed)
		return nil, nil
	}

	c := newTestClient(bus)
	_, err := c.RunTransaction(context.Background(), TransactionCall{Method: "InstallPackages"})
	if !IsCode(err, ErrDownloadFailed) {
		t.Fatalf("err = %v, want download-failed", err)
	}
	txErr, _ := AsTransactionError(err)
	if txErr.Detail != "mirror timed out" {
		t.Errorf("Detail = %q, want the service detail", txErr.Detail)
	}
}

func TestBusClosureSettlesExactlyOnce(t *testing.T) {
	bus := newFakeBus()
	bus.handle = func(path ObjectPath, method string, args []any) ([]any, error) {
		// The service dies mid-operation: no error, no finished, just a
		// dropped connection.
		bus.Close()
		return nil, nil
	}

	c := newTestClient(bus)
	done := make(chan error, 1)
	go func() {
		_, err := c.RunTransaction(context.Background(), TransactionCall{Method: "RefreshCache", Args: []any{true}})
		done <- err
	}()

	select {
	case err := <-done:
		if !IsCode(err, ErrServiceUnavailable) {
			t.Fatalf("err = %v, want service-unavailable", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("transaction never settled after bus closure")
	}
}

func TestConcurrentTransactionsDoNotShareAccumulators(t *testing.T) {
	bus := newFakeBus()
	bus.handle = func(path ObjectPath, method string, args []any) ([]any, error) {
		if method != txMethod("SearchNames") {
			return nil, nil
		}
		query := args[1].([]string)[0]
		// Interleave with the other transaction by yielding between emits.
		for i := 0; i < 5; i++ {
			bus.emitPackage(path, InfoAvailable, query+";1.0;amd64;repo", "pkg")
			time.Sleep(time.Millisecond)
		}
		bus.emitFinished(path, ExitSuccess)
		return nil, nil
	}

	c := newTestClient(bus)
	results := make([][]Package, 2)
	queries := []string{"alpha", "beta"}

	var wg sync.WaitGroup
	for i := range queries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pkgs, err := c.SearchNames(context.Background(), queries[i], nil)
			if err != nil {
				t.Errorf("search %s failed: %v", queries[i], err)
				return
			}
			results[i] = pkgs
		}(i)
	}
	wg.Wait()

	for i, query := range queries {
		if len(results[i]) != 5 {
			t.Fatalf("search %s returned %d packages, want 5", query, len(results[i]))
		}
		for _, pkg := range results[i] {
			if pkg.ID.Name != query {
				t.Errorf("search %s accumulated foreign package %s", query, pkg.ID.Name)
			}
		}
	}
}

func TestCancelNormalizesServerError(t *testing.T) {
	bus := newFakeBus()
	cancelled := make(chan struct{})
	var txPath ObjectPath

	bus.handle = func(path ObjectPath, method string, args []any) ([]any, error) {
		switch method {
		case txMethod("InstallPackages"):
			txPath = path
			bus.emitProps(path, map[string]any{"AllowCancel": true, "Percentage": uint32(10)})
			return nil, nil
		case methodCancel:
			// The service reports the interruption as a generic internal
			// error, not as cancelled.
			bus.emitError(path, WireErrorInternal, "transaction was interrupted")
			bus.emitFinished(path, ExitFailed)
			close(cancelled)
			return nil, nil
		}
		return nil, nil
	}

	c := newTestClient(bus)
	exit, err := c.RunTransaction(context.Background(), TransactionCall{
		Method: "InstallPackages",
		Args:   []any{uint64(TransactionFlagNone), []string{"nginx;1.0;amd64;repo"}},
		OnProgress: func(snap ProgressSnapshot) {
			if snap.Cancel != nil {
				snap.Cancel()
			}
		},
	})

	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Fatal("cancel request never reached the service")
	}
	if exit != ExitCancelled {
		t.Errorf("exit = %d, want cancelled", exit)
	}
	if !IsCode(err, ErrCancelled) {
		t.Fatalf("err = %v, want cancelled regardless of what the server reported", err)
	}
	if txPath == "" {
		t.Fatal("install never ran")
	}
}

func TestContextCancellationRequestsRemoteCancel(t *testing.T) {
	bus := newFakeBus()
	invoked := make(chan ObjectPath, 1)
	bus.handle = func(path ObjectPath, method string, args []any) ([]any, error) {
		switch method {
		case txMethod("RefreshCache"):
			invoked <- path
			return nil, nil
		case methodCancel:
			bus.emitFinished(path, ExitCancelled)
			return nil, nil
		}
		return nil, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := newTestClient(bus)

	done := make(chan error, 1)
	go func() {
		_, err := c.RunTransaction(ctx, TransactionCall{Method: "RefreshCache", Args: []any{false}})
		done <- err
	}()

	select {
	case <-invoked:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh never started")
	}
	cancel()

	select {
	case err := <-done:
		if !IsCode(err, ErrCancelled) {
			t.Fatalf("err = %v, want cancelled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("transaction did not settle after context cancellation")
	}
}

func TestProgressPercentageNeverRegresses(t *testing.T) {
	bus := newFakeBus()
	bus.handle = func(path ObjectPath, method string, args []any) ([]any, error) {
		for _, pct := range []uint32{10, 50, 101, 75, 100} {
			bus.emitProps(path, map[string]any{"Percentage": pct})
		}
		bus.emitFinished(path, ExitSuccess)
		return nil, nil
	}

	c := newTestClient(bus)
	var seen []uint32
	_, err := c.RunTransaction(context.Background(), TransactionCall{
		Method:     "InstallPackages",
		OnProgress: func(snap ProgressSnapshot) { seen = append(seen, snap.Percentage) },
	})
	if err != nil {
		t.Fatal(err)
	}

	// The 101 sample is dropped; the snapshot at that point repeats 50.
	if diff := cmp.Diff([]uint32{10, 50, 50, 75, 100}, seen); diff != "" {
		t.Errorf("progress sequence mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] < seen[i-1] {
			t.Errorf("percentage regressed from %d to %d", seen[i-1], seen[i])
		}
	}
}

func TestListenersRemovedAfterTerminalSignal(t *testing.T) {
	bus := newFakeBus()
	var txPath ObjectPath
	bus.handle = func(path ObjectPath, method string, args []any) ([]any, error) {
		txPath = path
		bus.emitFinished(path, ExitSuccess)
		return nil, nil
	}

	c := newTestClient(bus)
	if _, err := c.RunTransaction(context.Background(), TransactionCall{Method: "RefreshCache", Args: []any{false}}); err != nil {
		t.Fatal(err)
	}
	if n := bus.subscriberCount(txPath); n != 0 {
		t.Errorf("%d listeners still attached to %s after completion", n, txPath)
	}
}

func TestCreateTransactionReturnsPathOnly(t *testing.T) {
	bus := newFakeBus()
	c := newTestClient(bus)

	path, err := c.CreateTransaction(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(path), "/tx/") {
		t.Errorf("path = %q, want a transaction path", path)
	}
	if n := bus.subscriberCount(path); n != 0 {
		t.Errorf("path-only creation attached %d listeners", n)
	}
}

func TestParseDetailsEventPositionalForm(t *testing.T) {
	ev, err := parseDetailsEvent([]any{
		"nginx;1.22.1-9;amd64;debian-stable",
		"BSD-2-Clause",
		uint32(GroupNetwork),
		"small, powerful, scalable web/proxy server",
		"https://nginx.org",
		uint64(3843072),
	})
	if err != nil {
		t.Fatal(err)
	}
	want := DetailsEvent{
		ID:          PackageID{Name: "nginx", Version: "1.22.1-9", Architecture: "amd64", SourceTag: "debian-stable"},
		Description: "small, powerful, scalable web/proxy server",
		License:     "BSD-2-Clause",
		Group:       GroupNetwork,
		URL:         "https://nginx.org",
		Size:        3843072,
	}
	if diff := cmp.Diff(want, ev); diff != "" {
		t.Errorf("positional details mismatch (-want +got):\n%s", diff)
	}
}

func TestConnectionManagerReusesAndInvalidates(t *testing.T) {
	dials := 0
	var current *fakeBus
	m := NewConnectionManager(func(context.Context) (Bus, error) {
		dials++
		current = newFakeBus()
		return current, nil
	})

	first, err := m.Connection(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	again, err := m.Connection(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first != again {
		t.Error("second use should reuse the cached connection")
	}
	if dials != 1 {
		t.Fatalf("dials = %d, want 1", dials)
	}

	current.Close()
	fresh, err := m.Connection(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if fresh == first {
		t.Error("closed connection should not be handed out again")
	}
	if dials != 2 {
		t.Errorf("dials = %d, want 2 after invalidation", dials)
	}
}
