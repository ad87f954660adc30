package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go-mnml/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "note":
		if len(os.Args) < 3 {
			usage()
			return
		}
		pitch := 60
		if len(os.Args) > 3 {
			p, err := strconv.Atoi(os.Args[3])
			if err != nil {
				fmt.Printf("bad pitch %q\n", os.Args[3])
				return
			}
			pitch = p
		}
		testNote(os.Args[2], pitch)
	case "poll":
		pollPorts()
	default:
		usage()
	}
	midi.CloseDriver()
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                - List MIDI output ports")
	fmt.Println("  note <port> [pitch] - Play one note on channel 1 of <port>")
	fmt.Println("  poll                - Watch output ports come and go")
}

func listPorts() {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ch := make(chan []string, 1)
	go func() {
		ch <- midi.ListOutPorts()
	}()

	select {
	case names := <-ch:
		for i, n := range names {
			fmt.Printf("  %d: %s\n", i, n)
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

func testNote(port string, pitch int) {
	out := midi.NewOutput()
	if err := out.Open(port); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer out.Close()

	fmt.Printf("Playing %d on %s, channel 1\n", pitch, port)
	ch := out.Channel(1)
	ch.SendProgramChange(1)
	ch.PlayNote(pitch)
	time.Sleep(500 * time.Millisecond)
	ch.SendAllNotesOff()
	fmt.Println("Done!")
}

func pollPorts() {
	fmt.Println("Polling for port changes...")
	fmt.Println("Connect/disconnect devices to test. Ctrl+C to exit.")

	dm := midi.NewDeviceManager(midi.NewOutput())
	go dm.Run(context.Background())

	for e := range dm.Events() {
		switch e.Type {
		case midi.PortAdded:
			fmt.Printf("[%s] + %s\n", time.Now().Format("15:04:05"), e.Name)
		case midi.PortRemoved:
			fmt.Printf("[%s] - %s\n", time.Now().Format("15:04:05"), e.Name)
		}
	}
}
