package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-mnml/debug"
)

// OutputState describes whether notes can currently reach a destination.
type OutputState int

const (
	OutputUnavailable OutputState = iota // no MIDI driver
	NoOutputAvailable                    // driver, but no ports
	NoOutputSelected                     // ports exist, none open
	OutputReady
)

func (s OutputState) String() string {
	switch s {
	case OutputUnavailable:
		return "midi unavailable"
	case NoOutputAvailable:
		return "no output available"
	case NoOutputSelected:
		return "no output selected"
	case OutputReady:
		return "ready"
	}
	return "unknown"
}

// Output is a live MIDI output port. Sends are no-ops while no port is open,
// so sequencing keeps its phase and resumes audibly once a port appears.
type Output struct {
	mu       sync.RWMutex
	portName string
	port     drivers.Out
	send     func(gomidi.Message) error

	channels [16]*channel
}

// NewOutput creates an output with no port open.
func NewOutput() *Output {
	o := &Output{}
	for i := range o.channels {
		o.channels[i] = newChannel(i+1, o.emit)
	}
	return o
}

// Channel returns the channel with 1-based number.
func (o *Output) Channel(number int) Channel {
	if number < 1 || number > 16 {
		panic(fmt.Sprintf("midi: channel %d out of range 1-16", number))
	}
	return o.channels[number-1]
}

// Open switches to the named output port. Notes still sounding on the old
// port are silenced first.
func (o *Output) Open(portName string) error {
	if o.PortName() == portName {
		return nil
	}

	var port drivers.Out
	for _, p := range gomidi.GetOutPorts() {
		if p.String() == portName {
			port = p
			break
		}
	}
	if port == nil {
		return fmt.Errorf("output port %q not found", portName)
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		return fmt.Errorf("open output %q: %w", portName, err)
	}

	o.Close()
	o.mu.Lock()
	o.portName = portName
	o.port = port
	o.send = send
	o.mu.Unlock()
	debug.Log("midi", "output open: %s", portName)
	return nil
}

// Close silences and releases the current port, if any.
func (o *Output) Close() {
	o.SendAllNotesOff()

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.port != nil {
		if err := o.port.Close(); err != nil {
			debug.Log("midi", "close %s: %v", o.portName, err)
		}
	}
	o.port = nil
	o.send = nil
	o.portName = ""
}

// SendAllNotesOff silences every channel of the current port.
func (o *Output) SendAllNotesOff() {
	for _, c := range o.channels {
		c.SendAllNotesOff()
	}
}

// PortName returns the name of the open port, or "" if none.
func (o *Output) PortName() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.portName
}

// State derives the output state from the currently visible port names.
func (o *Output) State(ports []string) OutputState {
	if drivers.Get() == nil {
		return OutputUnavailable
	}
	if len(ports) == 0 {
		return NoOutputAvailable
	}
	if o.PortName() == "" {
		return NoOutputSelected
	}
	return OutputReady
}

// useSender installs a send func without a driver port.
func (o *Output) useSender(name string, send func(gomidi.Message) error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.portName = name
	o.send = send
}

func (o *Output) emit(msg gomidi.Message) {
	o.mu.RLock()
	send := o.send
	o.mu.RUnlock()
	if send == nil {
		return
	}
	if err := send(msg); err != nil {
		debug.LogEvery(100, "midi", "send %s: %v", msg, err)
	}
}

// ListOutPorts returns the names of all output ports.
func ListOutPorts() []string {
	outs := gomidi.GetOutPorts()
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return names
}

// CloseDriver releases the MIDI driver. Call once on shutdown.
func CloseDriver() {
	gomidi.CloseDriver()
}
