package packagekit

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// signalBuffer sizes the per-transaction signal channel. Subscription
// happens before the operation method runs, so the buffer only has to absorb
// signals emitted while a method call round-trip is still in flight.
const signalBuffer = 64

// PackageEvent is one package-discovered signal: an identity plus the
// one-line summary the service attaches to it.
type PackageEvent struct {
	Info    Info
	ID      PackageID
	Summary string
}

// DetailsEvent is one details-discovered signal. Fields the service did not
// report stay at their zero value.
type DetailsEvent struct {
	ID          PackageID
	Summary     string
	Description string
	License     string
	Group       Group
	URL         string
	Size        uint64
}

// FilesEvent lists the files belonging to one package.
type FilesEvent struct {
	ID    PackageID
	Files []string
}

// SignalHandlers receives the domain signals one transaction cares about.
// Nil handlers drop the corresponding signal. Handlers run on the
// transaction's drain goroutine, strictly in signal arrival order.
//
// The ErrorCode and Finished signals are owned by the lifecycle client
// itself so that every transaction settles exactly once; this type
// deliberately has no way to intercept them.
type SignalHandlers struct {
	Package func(PackageEvent)
	Details func(DetailsEvent)
	Files   func(FilesEvent)
}

// TransactionCall describes one remote operation.
type TransactionCall struct {
	// Method is the transaction verb to invoke, e.g. "SearchNames".
	Method string
	// Args are passed to the verb unmodified.
	Args []any

	OnProgress ProgressFunc
	Handlers   SignalHandlers
}

// errEmptyMethod flags a caller bug, not a runtime condition.
var errEmptyMethod = errors.New("transaction call has no method; use CreateTransaction for path-only access")

// CreateTransaction creates a transaction on the service without running any
// verb and returns its path. Callers that only need the handle, such as
// probes, skip the signal machinery entirely.
func (c *Client) CreateTransaction(ctx context.Context) (ObjectPath, error) {
	bus, err := c.conns.Connection(ctx)
	if err != nil {
		return "", err
	}
	return createTransaction(ctx, bus)
}

func createTransaction(ctx context.Context, bus Bus) (ObjectPath, error) {
	reply, err := bus.Object(servicePath).Call(ctx, methodCreateTransaction)
	if err != nil {
		return "", fmt.Errorf("creating transaction: %w", err)
	}
	if len(reply) == 0 {
		return "", fmt.Errorf("creating transaction: empty reply")
	}
	path, ok := reply[0].(ObjectPath)
	if !ok {
		return "", fmt.Errorf("creating transaction: unexpected reply type %T", reply[0])
	}
	return path, nil
}

// RunTransaction creates a transaction, subscribes to its signals, invokes
// the verb and drains signals until the transaction reaches a terminal
// state. The returned exit code is the one carried by the Finished signal;
// the error is non-nil for failed and client-cancelled transactions.
//
// The call blocks until the service reports a terminal signal or the bus
// connection is lost. Cancelling ctx requests cooperative cancellation on
// the service; it does not abandon the transaction.
func (c *Client) RunTransaction(ctx context.Context, call TransactionCall) (ExitCode, error) {
	if call.Method == "" {
		return ExitUnknown, errEmptyMethod
	}

	bus, err := c.conns.Connection(ctx)
	if err != nil {
		return ExitUnknown, err
	}

	path, err := createTransaction(ctx, bus)
	if err != nil {
		return ExitUnknown, err
	}

	t := &transaction{
		bus:       bus,
		path:      path,
		obj:       bus.Object(path),
		call:      call,
		signals:   make(chan Signal, signalBuffer),
		started:   c.now(),
		now:       c.now,
		waitGrace: c.waitGrace,
	}

	// Listeners attach before the verb runs so a server that finishes
	// immediately cannot slip its signals past us.
	if err := bus.Subscribe(path, t.signals); err != nil {
		return ExitUnknown, fmt.Errorf("subscribing to transaction %s: %w", path, err)
	}
	defer bus.Unsubscribe(path, t.signals)

	if _, err := t.obj.Call(ctx, transactionInterface+"."+call.Method, call.Args...); err != nil {
		return ExitUnknown, fmt.Errorf("%s: %w", call.Method, err)
	}

	return t.drain(ctx)
}

// transaction tracks one in-flight remote operation from creation to its
// terminal signal. Each RunTransaction call owns its transaction outright;
// nothing here is shared between concurrent operations except the bus.
type transaction struct {
	bus  Bus
	path ObjectPath
	obj  Object
	call TransactionCall

	signals   chan Signal
	started   time.Time
	now       func() time.Time
	waitGrace time.Duration

	progress  progressState
	cancelled atomic.Bool
	wireErr   *TransactionError
}

// drain handles signals in arrival order until a terminal state is reached.
// A lost bus connection is folded into the same terminal path as a service
// error so the caller always observes a settled result.
func (t *transaction) drain(ctx context.Context) (ExitCode, error) {
	ctxDone := ctx.Done()
	for {
		select {
		case sig := <-t.signals:
			if exit, terminal := t.handleSignal(sig); terminal {
				return t.settle(exit)
			}
		case <-t.bus.Closed():
			// The service died mid-flight. Synthesize the error/finished
			// pair it can no longer send.
			if t.wireErr == nil {
				t.wireErr = &TransactionError{
					Code:   ErrServiceUnavailable,
					Detail: "lost connection to the package service",
				}
			}
			return t.settle(ExitFailed)
		case <-ctxDone:
			// Cooperative: ask the service to cancel, then keep draining
			// until its terminal signal arrives.
			ctxDone = nil
			t.requestCancel()
		}
	}
}

// handleSignal dispatches one signal. It returns terminal=true only for the
// Finished signal.
func (t *transaction) handleSignal(sig Signal) (exit ExitCode, terminal bool) {
	switch sig.Name {
	case signalPackage:
		ev, err := parsePackageEvent(sig.Body)
		if err != nil {
			logrus.Warnf("transaction %s: dropping Package signal: %v", t.path, err)
			return 0, false
		}
		if h := t.call.Handlers.Package; h != nil {
			h(ev)
		}
	case signalDetails:
		ev, err := parseDetailsEvent(sig.Body)
		if err != nil {
			logrus.Warnf("transaction %s: dropping Details signal: %v", t.path, err)
			return 0, false
		}
		if h := t.call.Handlers.Details; h != nil {
			h(ev)
		}
	case signalFiles:
		ev, err := parseFilesEvent(sig.Body)
		if err != nil {
			logrus.Warnf("transaction %s: dropping Files signal: %v", t.path, err)
			return 0, false
		}
		if h := t.call.Handlers.Files; h != nil {
			h(ev)
		}
	case signalErrorCode:
		code, detail := parseErrorCode(sig.Body)
		t.wireErr = &TransactionError{Code: codeFromWire(code), Detail: detail}
	case signalFinished:
		return parseFinished(sig.Body), true
	case signalPropertiesChanged:
		t.applyProperties(sig.Body)
	default:
		// Other transaction chatter (repo details, item progress) is not
		// tracked by this client.
	}
	return 0, false
}

// settle converts the terminal state into the caller-visible result. A
// client-requested cancel wins over whatever the service reported, so
// callers that cancelled always observe the cancelled code.
func (t *transaction) settle(exit ExitCode) (ExitCode, error) {
	if t.cancelled.Load() {
		detail := ""
		if t.wireErr != nil {
			detail = t.wireErr.Detail
		}
		return ExitCancelled, &TransactionError{Code: ErrCancelled, Detail: detail}
	}
	if t.wireErr != nil {
		return exit, t.wireErr
	}
	return exit, nil
}

// applyProperties folds a property-change notification into the progress
// state and reports the fresh snapshot.
func (t *transaction) applyProperties(body []any) {
	props, ok := changedProperties(body)
	if !ok {
		return
	}
	t.progress = applyProgressPatch(t.progress, parseProgressPatch(props))
	if t.call.OnProgress == nil {
		return
	}
	t.call.OnProgress(t.progress.snapshot(t.started, t.now(), t.waitGrace, t.requestCancel))
}

// requestCancel issues the remote cancel exactly once and marks the
// transaction as client-cancelled. Safe to call from any goroutine; the
// snapshot hands it to UI code.
func (t *transaction) requestCancel() {
	if t.cancelled.Swap(true) {
		return
	}
	obj := t.obj
	path := t.path
	go func() {
		// The caller's context may already be cancelled at this point; the
		// cancel call gets its own.
		if _, err := obj.Call(context.Background(), methodCancel); err != nil {
			logrus.Warnf("transaction %s: cancel request failed: %v", path, err)
		}
	}()
}

// changedProperties extracts the changed-property map from a
// PropertiesChanged body of [interface, changed, invalidated].
func changedProperties(body []any) (map[string]any, bool) {
	if len(body) < 2 {
		return nil, false
	}
	props, ok := body[1].(map[string]any)
	return props, ok
}

func parsePackageEvent(body []any) (PackageEvent, error) {
	if len(body) < 3 {
		return PackageEvent{}, fmt.Errorf("expected 3 fields, got %d", len(body))
	}
	info, _ := asUint32(body[0])
	idStr, ok := body[1].(string)
	if !ok {
		return PackageEvent{}, fmt.Errorf("package ID is %T, not string", body[1])
	}
	id, err := ParsePackageID(idStr)
	if err != nil {
		return PackageEvent{}, err
	}
	summary, _ := body[2].(string)
	return PackageEvent{Info: Info(info), ID: id, Summary: summary}, nil
}

// parseDetailsEvent handles both wire forms of the Details signal: the
// modern single-dict form and the older positional form of
// (id, license, group, description, url, size).
func parseDetailsEvent(body []any) (DetailsEvent, error) {
	if len(body) == 1 {
		dict, ok := body[0].(map[string]any)
		if !ok {
			return DetailsEvent{}, fmt.Errorf("details body is %T, not a dict", body[0])
		}
		return detailsFromDict(dict)
	}
	if len(body) < 6 {
		return DetailsEvent{}, fmt.Errorf("expected 6 fields, got %d", len(body))
	}
	idStr, ok := body[0].(string)
	if !ok {
		return DetailsEvent{}, fmt.Errorf("package ID is %T, not string", body[0])
	}
	id, err := ParsePackageID(idStr)
	if err != nil {
		return DetailsEvent{}, err
	}
	ev := DetailsEvent{ID: id}
	ev.License, _ = body[1].(string)
	if g, ok := asUint32(body[2]); ok {
		ev.Group = Group(g)
	}
	ev.Description, _ = body[3].(string)
	ev.URL, _ = body[4].(string)
	ev.Size, _ = asUint64(body[5])
	return ev, nil
}

func detailsFromDict(dict map[string]any) (DetailsEvent, error) {
	idStr, ok := dict["package-id"].(string)
	if !ok {
		return DetailsEvent{}, fmt.Errorf("details dict has no package-id")
	}
	id, err := ParsePackageID(idStr)
	if err != nil {
		return DetailsEvent{}, err
	}
	ev := DetailsEvent{ID: id}
	ev.Summary, _ = dict["summary"].(string)
	ev.Description, _ = dict["description"].(string)
	ev.License, _ = dict["license"].(string)
	ev.URL, _ = dict["url"].(string)
	if g, ok := asUint32(dict["group"]); ok {
		ev.Group = Group(g)
	}
	ev.Size, _ = asUint64(dict["size"])
	return ev, nil
}

func parseFilesEvent(body []any) (FilesEvent, error) {
	if len(body) < 2 {
		return FilesEvent{}, fmt.Errorf("expected 2 fields, got %d", len(body))
	}
	idStr, ok := body[0].(string)
	if !ok {
		return FilesEvent{}, fmt.Errorf("package ID is %T, not string", body[0])
	}
	id, err := ParsePackageID(idStr)
	if err != nil {
		return FilesEvent{}, err
	}
	files, ok := body[1].([]string)
	if !ok {
		return FilesEvent{}, fmt.Errorf("file list is %T, not []string", body[1])
	}
	return FilesEvent{ID: id, Files: files}, nil
}

func parseErrorCode(body []any) (WireError, string) {
	var code WireError
	var detail string
	if len(body) > 0 {
		if v, ok := asUint32(body[0]); ok {
			code = WireError(v)
		}
	}
	if len(body) > 1 {
		detail, _ = body[1].(string)
	}
	return code, detail
}

func parseFinished(body []any) ExitCode {
	if len(body) > 0 {
		if v, ok := asUint32(body[0]); ok {
			return ExitCode(v)
		}
	}
	return ExitUnknown
}

// asUint32 accepts the integer types the bus library may hand back for a
// 32-bit unsigned wire value.
func asUint32(v any) (uint32, bool) {
	switch val := v.(type) {
	case uint32:
		return val, true
	case int32:
		if val < 0 {
			return 0, false
		}
		return uint32(val), true
	case uint64:
		return uint32(val), true
	case int:
		if val < 0 {
			return 0, false
		}
		return uint32(val), true
	default:
		return 0, false
	}
}

func asUint64(v any) (uint64, bool) {
	switch val := v.(type) {
	case uint64:
		return val, true
	case uint32:
		return uint64(val), true
	case int64:
		if val < 0 {
			return 0, false
		}
		return uint64(val), true
	case int:
		if val < 0 {
			return 0, false
		}
		return uint64(val), true
	default:
		return 0, false
	}
}
