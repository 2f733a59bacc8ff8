package packagekit

import (
	"context"
	"fmt"
	"sync"
)

// fakeBus is an in-process Bus with a scriptable service side. Tests install
// a handle function that plays the service: it receives every method call
// and emits whatever signals the scenario calls for.
type fakeBus struct {
	mu      sync.Mutex
	subs    map[ObjectPath][]chan<- Signal
	txCount int

	// handle plays the remote service for everything except
	// CreateTransaction, which the fake answers itself.
	handle func(path ObjectPath, method string, args []any) ([]any, error)

	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		subs:   make(map[ObjectPath][]chan<- Signal),
		closed: make(chan struct{}),
	}
}

func (b *fakeBus) Object(path ObjectPath) Object {
	return &fakeObject{bus: b, path: path}
}

func (b *fakeBus) Subscribe(path ObjectPath, ch chan<- Signal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[path] = append(b.subs[path], ch)
	return nil
}

func (b *fakeBus) Unsubscribe(path ObjectPath, ch chan<- Signal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	chans := b.subs[path]
	for i, c := range chans {
		if c == ch {
			b.subs[path] = append(chans[:i], chans[i+1:]...)
			break
		}
	}
	if len(b.subs[path]) == 0 {
		delete(b.subs, path)
	}
}

func (b *fakeBus) Closed() <-chan struct{} { return b.closed }

func (b *fakeBus) Close() error {
	b.closeOnce.Do(func() { close(b.closed) })
	return nil
}

func (b *fakeBus) subscriberCount(path ObjectPath) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[path])
}

func (b *fakeBus) emit(path ObjectPath, name string, body ...any) {
	b.mu.Lock()
	chans := append([]chan<- Signal(nil), b.subs[path]...)
	b.mu.Unlock()
	for _, ch := range chans {
		ch <- Signal{Path: path, Name: name, Body: body}
	}
}

func (b *fakeBus) emitPackage(path ObjectPath, info Info, id, summary string) {
	b.emit(path, signalPackage, uint32(info), id, summary)
}

func (b *fakeBus) emitDetails(path ObjectPath, dict map[string]any) {
	b.emit(path, signalDetails, dict)
}

func (b *fakeBus) emitFiles(path ObjectPath, id string, files []string) {
	b.emit(path, signalFiles, id, files)
}

func (b *fakeBus) emitError(path ObjectPath, code WireError, detail string) {
	b.emit(path, signalErrorCode, uint32(code), detail)
}

func (b *fakeBus) emitFinished(path ObjectPath, exit ExitCode) {
	b.emit(path, signalFinished, uint32(exit), uint32(0))
}

func (b *fakeBus) emitProps(path ObjectPath, props map[string]any) {
	b.emit(path, signalPropertiesChanged, transactionInterface, props, []string{})
}

type fakeObject struct {
	bus  *fakeBus
	path ObjectPath
}

func (o *fakeObject) Call(_ context.Context, method string, args ...any) ([]any, error) {
	if o.path == servicePath && method == methodCreateTransaction {
		o.bus.mu.Lock()
		o.bus.txCount++
		path := ObjectPath(fmt.Sprintf("/tx/%d", o.bus.txCount))
		o.bus.mu.Unlock()
		return []any{path}, nil
	}
	if o.bus.handle == nil {
		return nil, nil
	}
	return o.bus.handle(o.path, method, args)
}

// txMethod qualifies a transaction verb the way the client invokes it.
func txMethod(name string) string {
	return transactionInterface + "." + name
}

// newTestClient wires a client to the fake bus with the wait grace disabled
// so progress assertions are deterministic.
func newTestClient(bus *fakeBus) *Client {
	c := NewClient(NewConnectionManager(func(context.Context) (Bus, error) {
		select {
		case <-bus.Closed():
			return nil, fmt.Errorf("package service is not reachable")
		default:
			return bus, nil
		}
	}))
	c.SetWaitGrace(0)
	return c
}
