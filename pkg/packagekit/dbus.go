package packagekit

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
)

// Remote service contract: one well-known service object hands out
// transaction objects; both live on the system bus.
const (
	serviceName          = "org.freedesktop.PackageKit"
	serviceInterface     = "org.freedesktop.PackageKit"
	transactionInterface = serviceInterface + ".Transaction"
	propertiesInterface  = "org.freedesktop.DBus.Properties"

	servicePath = ObjectPath("/org/freedesktop/PackageKit")

	methodCreateTransaction = serviceInterface + ".CreateTransaction"
	methodCancel            = transactionInterface + ".Cancel"
	methodPropertiesGet     = propertiesInterface + ".Get"

	signalPackage           = "Package"
	signalDetails           = "Details"
	signalFiles             = "Files"
	signalErrorCode         = "ErrorCode"
	signalFinished          = "Finished"
	signalPropertiesChanged = "PropertiesChanged"
)

// rawSignalBuffer sizes the channel the bus library delivers into. The pump
// goroutine drains it continuously, so it only needs to absorb short bursts.
const rawSignalBuffer = 128

// SystemBus dials the system message bus as a private connection. Privilege
// for mutating operations is negotiated by the service through polkit at
// call time, so the connection itself needs no elevation.
func SystemBus(ctx context.Context) (Bus, error) {
	conn, err := dbus.SystemBusPrivate(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("connecting to system bus: %w", err)
	}
	if err := conn.Auth(nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("authenticating to system bus: %w", err)
	}
	if err := conn.Hello(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("registering on system bus: %w", err)
	}

	b := &systemBus{
		conn:   conn,
		subs:   make(map[ObjectPath][]chan<- Signal),
		raw:    make(chan *dbus.Signal, rawSignalBuffer),
		closed: make(chan struct{}),
	}
	conn.Signal(b.raw)
	go b.pump()
	return b, nil
}

type systemBus struct {
	conn *dbus.Conn

	mu   sync.Mutex
	subs map[ObjectPath][]chan<- Signal

	raw       chan *dbus.Signal
	closed    chan struct{}
	closeOnce sync.Once
}

func (b *systemBus) Object(path ObjectPath) Object {
	return &busObject{obj: b.conn.Object(serviceName, dbus.ObjectPath(path))}
}

func (b *systemBus) Subscribe(path ObjectPath, ch chan<- Signal) error {
	err := b.conn.AddMatchSignal(
		dbus.WithMatchObjectPath(dbus.ObjectPath(path)),
	)
	if err != nil {
		return fmt.Errorf("adding signal match for %s: %w", path, err)
	}

	b.mu.Lock()
	b.subs[path] = append(b.subs[path], ch)
	b.mu.Unlock()
	return nil
}

func (b *systemBus) Unsubscribe(path ObjectPath, ch chan<- Signal) {
	b.mu.Lock()
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
	b.mu.Unlock()

	if err := b.conn.RemoveMatchSignal(
		dbus.WithMatchObjectPath(dbus.ObjectPath(path)),
	); err != nil {
		logrus.Debugf("removing signal match for %s: %v", path, err)
	}
}

func (b *systemBus) Closed() <-chan struct{} {
	return b.closed
}

func (b *systemBus) Close() error {
	err := b.conn.Close()
	b.markClosed()
	return err
}

// pump fans bus signals out to per-path subscribers until the connection is
// torn down. The bus library closes the raw channel on disconnect.
func (b *systemBus) pump() {
	ctxDone := b.conn.Context().Done()
	for {
		select {
		case sig, ok := <-b.raw:
			if !ok {
				b.markClosed()
				return
			}
			b.deliver(sig)
		case <-ctxDone:
			b.markClosed()
			return
		}
	}
}

func (b *systemBus) markClosed() {
	b.closeOnce.Do(func() { close(b.closed) })
}

func (b *systemBus) deliver(raw *dbus.Signal) {
	path := ObjectPath(raw.Path)

	b.mu.Lock()
	chans := append([]chan<- Signal(nil), b.subs[path]...)
	b.mu.Unlock()
	if len(chans) == 0 {
		return
	}

	sig := Signal{
		Path: path,
		Name: memberName(raw.Name),
		Body: normalizeValues(raw.Body),
	}
	for _, ch := range chans {
		// A subscriber that stopped draining (settled and about to
		// unsubscribe) must not stall the pump for every other transaction.
		select {
		case ch <- sig:
		default:
			logrus.Warnf("dropping %s signal for %s: subscriber not draining", sig.Name, path)
		}
	}
}

// memberName strips the interface qualifier off a signal name.
func memberName(full string) string {
	if i := strings.LastIndex(full, "."); i >= 0 {
		return full[i+1:]
	}
	return full
}

type busObject struct {
	obj dbus.BusObject
}

func (o *busObject) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	call := o.obj.CallWithContext(ctx, method, 0, args...)
	if call.Err != nil {
		return nil, call.Err
	}
	return normalizeValues(call.Body), nil
}

// normalizeValues strips bus library types out of reply and signal bodies so
// the rest of the client never depends on them: variants are unwrapped,
// object paths become ObjectPath, variant maps become plain maps.
func normalizeValues(body []any) []any {
	out := make([]any, len(body))
	for i, v := range body {
		out[i] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case dbus.Variant:
		return normalizeValue(val.Value())
	case dbus.ObjectPath:
		return ObjectPath(val)
	case map[string]dbus.Variant:
		m := make(map[string]any, len(val))
		for k, vv := range val {
			m[k] = normalizeValue(vv.Value())
		}
		return m
	default:
		return v
	}
}
