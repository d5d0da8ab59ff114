package helm

import (
	"fmt"
	"log"

	"github.com/hullworks/machineroom/proto"
)

// Router drives authorized control input through normalization, encoding and
// the serial frame channel. It owns the last-sent value per channel and only
// transmits when a value changes. All methods must be called from a single
// goroutine; the frame channel preserves transmit order.
type Router struct {
	cmap     *ChannelMap
	enc      *proto.Encoder
	frames   chan<- []byte
	ident    string
	values   map[int]int
	linkOpen bool
}

func NewRouter(cmap *ChannelMap, enc *proto.Encoder, frames chan<- []byte, ident string) *Router {
	r := &Router{
		cmap:   cmap,
		enc:    enc,
		frames: frames,
		ident:  ident,
		values: make(map[int]int),
	}
	for _, channel := range cmap.Channels() {
		r.values[channel] = 0
	}
	return r
}

// LinkOpened runs the neutralization sequence: engine off, rudder centered,
// pump off, plus the ident handshake on delimited boards. It must complete
// before any client command is forwarded; the caller guarantees that by
// invoking it from the same goroutine that routes control data.
func (r *Router) LinkOpened() {
	r.linkOpen = true

	neutral := r.cmap.Neutral()
	frames, err := r.enc.Startup(r.ident, neutral)
	if err != nil {
		log.Printf("could not encode startup sequence: %v", err)
		return
	}
	log.Println("turning off engine and pump, neutralizing rudder")
	for _, frame := range frames {
		r.frames <- frame
	}
	for _, n := range neutral {
		r.values[n.Channel] = n.Value
	}
}

// LinkClosed marks the serial link unavailable. Subsequent sends become
// warn-level no-ops and leave control state untouched, so routing resumes
// consistently once the link reopens. Actual hardware state may have drifted
// in the meantime; that is not auto-corrected.
func (r *Router) LinkClosed() {
	r.linkOpen = false
}

// HandleUpdate routes one authorized control update. A rejected update (any
// axis out of range) produces no transmission at all. Per-channel values that
// match the last sent value are suppressed.
func (r *Router) HandleUpdate(u ControlUpdate) error {
	setpoints, err := r.cmap.Normalize(u)
	if err != nil {
		return err
	}
	for _, sp := range setpoints {
		r.route(sp)
	}
	return nil
}

// HandleSetpoint routes a direct single-target command, e.g. a new machine
// power or rudder angle.
func (r *Router) HandleSetpoint(target string, value int) error {
	t, ok := r.cmap.Lookup(target)
	if !ok {
		return fmt.Errorf("unknown target %s", target)
	}
	r.route(Setpoint{
		Target:  t.Name,
		Channel: t.Channel,
		Value:   clamp(value),
		Digital: t.Digital,
	})
	return nil
}

func (r *Router) route(sp Setpoint) {
	if r.values[sp.Channel] == sp.Value {
		return
	}

	var frame []byte
	var err error
	if sp.Digital {
		frame, err = r.enc.DigitalPin(sp.Channel, sp.Value)
	} else {
		frame, err = r.enc.Servo(sp.Channel, sp.Value)
	}
	if err != nil {
		log.Printf("dropping malformed command for %s: %v", sp.Target, err)
		return
	}

	if !r.linkOpen {
		log.Println("cannot transmit, serial link not available")
		return
	}
	log.Printf("setting %s (%d) to %d", sp.Target, sp.Channel, sp.Value)
	r.frames <- frame
	r.values[sp.Channel] = sp.Value
}
