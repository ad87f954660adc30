package midi

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func newTestManager(ports *[]string) (*DeviceManager, *[]string) {
	o := NewOutput()
	dm := NewDeviceManager(o)
	dm.listPorts = func() ([]string, bool) { return *ports, true }
	var connected []string
	dm.connect = func(name string) error {
		connected = append(connected, name)
		o.useSender(name, (&sink{}).send)
		return nil
	}
	return dm, &connected
}

func TestScanEmitsAddAndRemove(t *testing.T) {
	ports := []string{"B", "A"}
	dm, _ := newTestManager(&ports)

	dm.scan()
	if got := dm.Ports(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("ports = %v", got)
	}
	for _, want := range []string{"A", "B"} {
		e := <-dm.Events()
		if e.Type != PortAdded || e.Name != want {
			t.Fatalf("expected add %s, got %+v", want, e)
		}
	}

	ports = []string{"B"}
	dm.scan()
	e := <-dm.Events()
	if e.Type != PortRemoved || e.Name != "A" {
		t.Fatalf("expected remove A, got %+v", e)
	}
}

func TestPreferredPortConnectsWhenItAppears(t *testing.T) {
	ports := []string{}
	dm, connected := newTestManager(&ports)
	dm.SetPreferred("Synth")
	if len(*connected) != 0 {
		t.Fatal("connected to an invisible port")
	}

	ports = []string{"Synth"}
	dm.scan()
	if !reflect.DeepEqual(*connected, []string{"Synth"}) {
		t.Fatalf("connected = %v", *connected)
	}

	// already connected, no reconnect
	dm.scan()
	if len(*connected) != 1 {
		t.Fatalf("reconnected: %v", *connected)
	}

	// unplugged: output is released
	ports = nil
	dm.scan()
	if dm.output.PortName() != "" {
		t.Fatalf("output still on %q", dm.output.PortName())
	}
}

func TestScanTimeoutKeepsPorts(t *testing.T) {
	ports := []string{"A"}
	dm, _ := newTestManager(&ports)
	dm.scan()
	dm.listPorts = func() ([]string, bool) { return nil, false }
	dm.scan()
	if got := dm.Ports(); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("ports = %v", got)
	}
}

func TestRunFinishesScanBeforeDone(t *testing.T) {
	ports := []string{"A"}
	dm, _ := newTestManager(&ports)
	scanning := make(chan struct{})
	release := make(chan struct{})
	dm.listPorts = func() ([]string, bool) {
		close(scanning)
		<-release
		return ports, true
	}

	ctx, cancel := context.WithCancel(context.Background())
	go dm.Run(ctx)
	<-scanning
	cancel()

	select {
	case <-dm.Done():
		t.Fatal("done while a scan was still enumerating ports")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-dm.Done():
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	// the add event is buffered, then the channel is closed
	if e, ok := <-dm.Events(); !ok || e.Name != "A" {
		t.Fatalf("event %+v ok=%v", e, ok)
	}
	if _, ok := <-dm.Events(); ok {
		t.Fatal("events not closed after Run")
	}
}
