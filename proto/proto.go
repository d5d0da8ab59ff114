// Package proto assembles wire frames for the two supported servo
// controller protocols.
//
// Compact is the binary protocol of Maestro-style boards: every frame is
// exactly three bytes, 0xFF opcode, channel, value, no terminator. The
// hardware has no digital pin opcode in this mode; pins are driven as servo
// channels holding 0 or 255.
//
// Delimited is the ASCII protocol of the older boards: opcode, channel and
// value joined by commas and terminated with a single CR.
package proto

import "fmt"

type Mode int

const (
	Compact Mode = iota
	Delimited
)

func (m Mode) String() string {
	switch m {
	case Compact:
		return "compact"
	case Delimited:
		return "delimited"
	default:
		return "unknown"
	}
}

// ParseMode maps the config spelling of a protocol to its Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "compact", "":
		return Compact, nil
	case "delimited":
		return Delimited, nil
	default:
		return 0, fmt.Errorf("unknown protocol %q", s)
	}
}

const (
	opServo   = 's'
	opPin     = 'p'
	opVersion = 'v'
	opMessage = 'm'
	opVerbose = 'l'

	sep        = ','
	terminator = '\r'

	compactOpcode = 0xff
	compactLen    = 3
)

// Encoder turns (channel, value) pairs into ready-to-transmit frames. The
// protocol mode is fixed at construction; nothing else branches on it.
type Encoder struct {
	mode Mode
}

func NewEncoder(mode Mode) *Encoder {
	return &Encoder{mode: mode}
}

func (e *Encoder) Mode() Mode {
	return e.mode
}

// Servo encodes a servo setpoint for a channel. Values outside [0,255]
// saturate. Compact frames are length-checked before they leave the encoder;
// a frame that is not exactly 3 bytes must never reach the wire.
func (e *Encoder) Servo(channel, value int) ([]byte, error) {
	if channel < 0 || channel > 255 {
		return nil, fmt.Errorf("servo channel %d out of range", channel)
	}
	value = saturate(value)

	if e.mode == Compact {
		frame := []byte{compactOpcode, byte(channel), byte(value)}
		if len(frame) != compactLen {
			return nil, fmt.Errorf("malformed compact frame: % x", frame)
		}
		return frame, nil
	}
	return e.delimited(opServo, byte(channel), byte(value)), nil
}

// DigitalPin encodes an on/off output. Any value of 127 or more switches the
// pin on (255), anything below switches it off (0). In compact mode there is
// no pin opcode, so the write goes out as a servo frame on the pin's channel.
func (e *Encoder) DigitalPin(pin, value int) ([]byte, error) {
	mode := 0
	if saturate(value) >= 127 {
		mode = 255
	}

	if e.mode == Compact {
		return e.Servo(pin, mode)
	}
	if pin < 0 || pin > 255 {
		return nil, fmt.Errorf("digital pin %d out of range", pin)
	}
	return e.delimited(opPin, byte(pin), byte(mode)), nil
}

// Version encodes a firmware version query. Delimited boards only.
func (e *Encoder) Version() []byte {
	return append([]byte{opVersion}, terminator)
}

// Message encodes a human-readable string for the board's display channel.
func (e *Encoder) Message(text string) []byte {
	frame := append([]byte{opMessage, sep}, text...)
	return append(frame, terminator)
}

// Verbose toggles the board's verbose reporting mode.
func (e *Encoder) Verbose(on bool) []byte {
	flag := byte('0')
	if on {
		flag = '1'
	}
	return []byte{opVerbose, sep, flag, terminator}
}

func (e *Encoder) delimited(opcode, channel, value byte) []byte {
	return []byte{opcode, sep, channel, sep, value, terminator}
}

func saturate(value int) int {
	if value < 0 {
		return 0
	}
	if value > 255 {
		return 255
	}
	return value
}
