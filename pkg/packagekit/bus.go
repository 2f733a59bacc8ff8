package packagekit

import (
	"context"
	"sync"
)

// ObjectPath is the opaque handle to a remote object. Transaction paths are
// only valid between the transaction's creation and its terminal signal.
type ObjectPath string

// Signal is one asynchronous event emitted by the remote service. Signals
// scoped to one transaction path arrive in emission order; no ordering holds
// between signals of independent transactions.
type Signal struct {
	Path ObjectPath
	Name string
	Body []any
}

// Object is a callable remote object on the bus.
type Object interface {
	// Call invokes the fully-qualified method ("interface.Member") with the
	// given arguments and returns the reply body.
	Call(ctx context.Context, method string, args ...any) ([]any, error)
}

// Bus is one connection to the message bus, multiplexed by every in-flight
// transaction.
type Bus interface {
	Object(path ObjectPath) Object

	// Subscribe routes all service signals scoped to path into ch. The
	// channel must be serviced or buffered; delivery order per path matches
	// emission order.
	Subscribe(path ObjectPath, ch chan<- Signal) error

	// Unsubscribe removes a Subscribe registration. Signals already routed
	// may still be pending in ch.
	Unsubscribe(path ObjectPath, ch chan<- Signal)

	// Closed is closed when the connection to the service is lost.
	Closed() <-chan struct{}

	Close() error
}

// Dialer establishes a new bus connection.
type Dialer func(ctx context.Context) (Bus, error)

// ConnectionManager owns the single shared bus connection. The connection is
// dialed on first use and forgotten when it closes, so the next use dials
// fresh. The manager only detects loss; it never retries on behalf of a
// caller. Retry policy, if any, belongs to the caller.
type ConnectionManager struct {
	dial Dialer

	mu  sync.Mutex
	bus Bus
}

// NewConnectionManager returns a manager dialing with dial on first use.
func NewConnectionManager(dial Dialer) *ConnectionManager {
	return &ConnectionManager{dial: dial}
}

// Connection returns the shared bus handle, dialing it if none is cached or
// the cached one has closed. Dial failures propagate to the caller whose
// operation triggered them.
func (m *ConnectionManager) Connection(ctx context.Context) (Bus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bus != nil {
		select {
		case <-m.bus.Closed():
			m.bus = nil
		default:
			return m.bus, nil
		}
	}

	bus, err := m.dial(ctx)
	if err != nil {
		return nil, err
	}
	m.bus = bus
	go m.forgetOnClose(bus)
	return bus, nil
}

// forgetOnClose drops the cached handle when the connection is lost, forcing
// the next Connection call to dial again.
func (m *ConnectionManager) forgetOnClose(bus Bus) {
	<-bus.Closed()
	m.mu.Lock()
	if m.bus == bus {
		m.bus = nil
	}
	m.mu.Unlock()
}

// Close tears down the cached connection, if any.
func (m *ConnectionManager) Close() error {
	m.mu.Lock()
	bus := m.bus
	m.bus = nil
	m.mu.Unlock()

	if bus == nil {
		return nil
	}
	return bus.Close()
}
