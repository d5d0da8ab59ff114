package proto

// NeutralCenter is the servo midpoint used to center steering actuators on
// link-open.
const NeutralCenter = 127

// Neutralization is the safety setpoint applied to one channel before any
// client input is accepted.
type Neutralization struct {
	Channel int
	Value   int
	Digital bool
}

// Startup returns the frames that must reach the board, in order, immediately
// after the link opens: engine off, rudder centered, pump off. Delimited
// boards additionally get a version query and an ident message, bracketed by
// verbose mode toggles.
func (e *Encoder) Startup(ident string, neutral []Neutralization) ([][]byte, error) {
	var frames [][]byte

	if e.mode == Delimited {
		frames = append(frames, e.Verbose(true), e.Version())
	}

	for _, n := range neutral {
		var frame []byte
		var err error
		if n.Digital {
			frame, err = e.DigitalPin(n.Channel, n.Value)
		} else {
			frame, err = e.Servo(n.Channel, n.Value)
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}

	if e.mode == Delimited {
		frames = append(frames, e.Verbose(false), e.Message(ident))
	}
	return frames, nil
}
