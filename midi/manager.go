package midi

import (
	"context"
	"sort"
	"sync"
	"time"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-mnml/debug"
)

// PortEvent is emitted when output ports appear or disappear
type PortEvent struct {
	Type PortEventType
	Name string
}

type PortEventType int

const (
	PortAdded PortEventType = iota
	PortRemoved
)

// DeviceManager polls output ports and keeps Output connected to the
// preferred port whenever it is present.
type DeviceManager struct {
	output    *Output
	mu        sync.RWMutex
	ports     map[string]bool
	preferred string
	events    chan PortEvent
	done      chan struct{}
	pollRate  time.Duration

	// swapped in tests
	listPorts func() ([]string, bool)
	connect   func(name string) error
}

// NewDeviceManager creates a device manager driving output
func NewDeviceManager(output *Output) *DeviceManager {
	return &DeviceManager{
		output:    output,
		ports:     make(map[string]bool),
		events:    make(chan PortEvent, 16),
		done:      make(chan struct{}),
		pollRate:  time.Second,
		listPorts: listPortsWithTimeout,
		connect:   output.Open,
	}
}

// Events returns a channel of port add/remove events
func (dm *DeviceManager) Events() <-chan PortEvent {
	return dm.events
}

// Ports returns the currently visible output port names, sorted
func (dm *DeviceManager) Ports() []string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	names := make([]string, 0, len(dm.ports))
	for name := range dm.ports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetPreferred selects the port to connect to, immediately if visible
func (dm *DeviceManager) SetPreferred(name string) {
	dm.mu.Lock()
	dm.preferred = name
	visible := dm.ports[name]
	dm.mu.Unlock()
	if visible {
		dm.tryConnect(name)
	}
}

// Preferred returns the preferred port name
func (dm *DeviceManager) Preferred() string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.preferred
}

// State reports the output state against the visible ports
func (dm *DeviceManager) State() OutputState {
	return dm.output.State(dm.Ports())
}

// Done is closed once Run has returned. Wait on it before closing the
// MIDI driver.
func (dm *DeviceManager) Done() <-chan struct{} {
	return dm.done
}

// Run starts the polling loop (blocking - run in goroutine). Call it once.
func (dm *DeviceManager) Run(ctx context.Context) {
	defer close(dm.done)
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()

	for {
		select {
		case <-ctx.Done():
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	names, ok := dm.listPorts()
	if !ok {
		// driver hung - keep last known ports
		debug.Log("ports", "port scan timed out")
		return
	}

	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}

	var added, removed []string
	dm.mu.Lock()
	for n := range seen {
		if !dm.ports[n] {
			added = append(added, n)
		}
	}
	for n := range dm.ports {
		if !seen[n] {
			removed = append(removed, n)
		}
	}
	dm.ports = seen
	preferred := dm.preferred
	dm.mu.Unlock()

	sort.Strings(added)
	sort.Strings(removed)
	for _, n := range added {
		debug.Log("ports", "added: %s", n)
		dm.emit(PortEvent{Type: PortAdded, Name: n})
	}
	for _, n := range removed {
		debug.Log("ports", "removed: %s", n)
		if n == dm.output.PortName() {
			dm.output.Close()
		}
		dm.emit(PortEvent{Type: PortRemoved, Name: n})
	}

	if preferred != "" && seen[preferred] && dm.output.PortName() != preferred {
		dm.tryConnect(preferred)
	}
}

func (dm *DeviceManager) tryConnect(name string) {
	if err := dm.connect(name); err != nil {
		debug.Log("ports", "connect %s: %v", name, err)
	}
}

func (dm *DeviceManager) emit(e PortEvent) {
	select {
	case dm.events <- e:
	default:
		// nobody listening, drop
	}
}

func listPortsWithTimeout() ([]string, bool) {
	// port enumeration can hang on some platforms
	ch := make(chan []string, 1)
	go func() {
		ch <- ListOutPorts()
	}()
	select {
	case names := <-ch:
		return names, true
	case <-time.After(3 * time.Second):
		return nil, false
	}
}
