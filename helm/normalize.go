package helm

import (
	"encoding/json"
	"fmt"
	"math"
)

// ButtonValue is a raw button reading. Clients may send either a number in
// [0,255] or a boolean; booleans decode to 0/255 so that true lands above the
// digital pin threshold.
type ButtonValue int

func (b *ButtonValue) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true":
		*b = 255
		return nil
	case "false":
		*b = 0
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("button value %s: %v", data, err)
	}
	*b = ButtonValue(v)
	return nil
}

// ControlUpdate is one snapshot of raw controller input from the session
// holder. Axis values are in [-1,1]; a binding whose index is absent from the
// snapshot is skipped.
type ControlUpdate struct {
	Axes    map[int]float64     `json:"axes"`
	Buttons map[int]ButtonValue `json:"buttons"`
}

// Setpoint is one normalized per-target command value.
type Setpoint struct {
	Target  string
	Channel int
	Value   int
	Digital bool
}

// Normalize converts a raw control update into per-target setpoints, axes
// before buttons, each group in binding index order. Any axis value outside
// [-1,1] rejects the whole update; nothing from a rejected update may reach
// the hardware.
func (m *ChannelMap) Normalize(u ControlUpdate) ([]Setpoint, error) {
	var setpoints []Setpoint

	for _, index := range m.axisIndices() {
		raw, ok := u.Axes[index]
		if !ok {
			continue
		}
		if raw < -1 || raw > 1 {
			return nil, fmt.Errorf("axis %d value %v out of range", index, raw)
		}
		binding := m.axes[index]
		target := m.targets[binding.Target]
		setpoints = append(setpoints, Setpoint{
			Target:  target.Name,
			Channel: target.Channel,
			Value:   axisValue(raw, binding.Inverted),
			Digital: target.Digital,
		})
	}

	for _, index := range m.buttonIndices() {
		raw, ok := u.Buttons[index]
		if !ok {
			continue
		}
		target := m.targets[m.buttons[index]]
		setpoints = append(setpoints, Setpoint{
			Target:  target.Name,
			Channel: target.Channel,
			Value:   clamp(int(raw)),
			Digital: target.Digital,
		})
	}

	return setpoints, nil
}

func axisValue(raw float64, inverted bool) int {
	offset := int(math.Round(raw * 128))
	if inverted {
		return clamp(128 - offset)
	}
	return clamp(128 + offset)
}

func clamp(value int) int {
	if value < 0 {
		return 0
	}
	if value > 255 {
		return 255
	}
	return value
}
