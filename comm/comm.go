// Package comm owns the serial link to the servo controller board. A worker
// goroutine drains a frame channel onto the port in FIFO order and reports
// link state and inbound board data as events.
package comm

import (
	"log"
	"time"

	"github.com/tarm/serial"
)

const reopenDelay = 5 * time.Second

type Config struct {
	Port   string `yaml:"port"`
	Baud   int    `yaml:"baud"`
	Buffer int    `yaml:"buffer"`
}

// OpenPort starts the serial worker. Frames written to the returned channel
// are transmitted in order while the link is open. Link loss is recoverable:
// the worker keeps trying to reopen the port and announces each transition.
func OpenPort(cfg Config) (<-chan Event, chan<- []byte) {
	events := make(chan Event, 8)
	frames := make(chan []byte, 64)
	go worker(cfg, events, frames)
	return events, frames
}

func worker(cfg Config, events chan<- Event, frames <-chan []byte) {
	for {
		log.Printf("opening serial port %s at %d baud", cfg.Port, cfg.Baud)
		conn, err := serial.OpenPort(&serial.Config{Name: cfg.Port, Baud: cfg.Baud})
		if err != nil {
			log.Printf("could not open serial port %s: %v", cfg.Port, err)
			time.Sleep(reopenDelay)
			continue
		}

		// Frames queued while the link was down are stale, and the
		// neutralization sequence must be first on a fresh link.
		discardPending(frames)
		events <- Event{Kind: LinkOpened}

		readErr := make(chan error, 1)
		go readLoop(conn, cfg.Buffer, events, readErr)

	writing:
		for {
			select {
			case frame := <-frames:
				log.Printf("transmitting bytes: % x", frame)
				if _, err := conn.Write(frame); err != nil {
					log.Printf("serial write failed: %v", err)
					break writing
				}
			case err := <-readErr:
				log.Printf("serial read failed: %v", err)
				break writing
			}
		}

		conn.Close()
		events <- Event{Kind: LinkClosed}
		time.Sleep(reopenDelay)
	}
}

func readLoop(conn *serial.Port, buffer int, events chan<- Event, readErr chan<- error) {
	if buffer <= 0 {
		buffer = 4096
	}
	buf := make([]byte, buffer)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			readErr <- err
			return
		}
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			events <- Event{Kind: DataReceived, Data: data}
		}
	}
}

func discardPending(frames <-chan []byte) {
	for {
		select {
		case <-frames:
		default:
			return
		}
	}
}
