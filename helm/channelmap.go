// Package helm translates remote-control input into servo controller frames.
// It owns the static channel map, the input normalization rules and the
// routing pipeline with its per-channel send-on-change state.
package helm

import (
	"fmt"
	"sort"

	"github.com/hullworks/machineroom/proto"
)

// Target is a named actuator bound to one hardware channel. Targets bound to
// a button are driven as digital pins; everything else is a servo. Neutral is
// the setpoint applied when the link opens.
type Target struct {
	Name    string
	Channel int
	Neutral int
	Digital bool
}

// AxisBinding maps a controller axis to a target, optionally inverting the
// axis direction.
type AxisBinding struct {
	Target   string
	Inverted bool
}

// ChannelMap is the static binding of targets to channels and of controller
// axis/button indices to targets. Built once at startup, never mutated.
type ChannelMap struct {
	targets map[string]Target
	axes    map[int]AxisBinding
	buttons map[int]string
}

// NewChannelMap validates and builds the channel map. Duplicate channel
// assignments and bindings referencing undefined targets are configuration
// errors and abort startup.
func NewChannelMap(targets map[string]Target, axes map[int]AxisBinding, buttons map[int]string) (*ChannelMap, error) {
	m := &ChannelMap{
		targets: make(map[string]Target, len(targets)),
		axes:    axes,
		buttons: buttons,
	}

	used := make(map[int]string)
	for name, t := range targets {
		if t.Channel < 0 || t.Channel > 255 {
			return nil, fmt.Errorf("target %s: channel %d out of range", name, t.Channel)
		}
		if other, ok := used[t.Channel]; ok {
			return nil, fmt.Errorf("targets %s and %s share channel %d", other, name, t.Channel)
		}
		used[t.Channel] = name
		t.Name = name
		m.targets[name] = t
	}

	for index, binding := range axes {
		if _, ok := m.targets[binding.Target]; !ok {
			return nil, fmt.Errorf("axis %d bound to undefined target %s", index, binding.Target)
		}
	}
	for index, name := range buttons {
		t, ok := m.targets[name]
		if !ok {
			return nil, fmt.Errorf("button %d bound to undefined target %s", index, name)
		}
		t.Digital = true
		m.targets[name] = t
	}

	return m, nil
}

// Lookup returns the target with the given name.
func (m *ChannelMap) Lookup(name string) (Target, bool) {
	t, ok := m.targets[name]
	return t, ok
}

// Channels returns every configured hardware channel.
func (m *ChannelMap) Channels() []int {
	channels := make([]int, 0, len(m.targets))
	for _, t := range m.targets {
		channels = append(channels, t.Channel)
	}
	sort.Ints(channels)
	return channels
}

// Neutral returns the link-open neutralization sequence: servo targets first,
// then digital targets, each group in name order.
func (m *ChannelMap) Neutral() []proto.Neutralization {
	names := make([]string, 0, len(m.targets))
	for name := range m.targets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := m.targets[names[i]], m.targets[names[j]]
		if a.Digital != b.Digital {
			return !a.Digital
		}
		return a.Name < b.Name
	})

	neutral := make([]proto.Neutralization, 0, len(names))
	for _, name := range names {
		t := m.targets[name]
		neutral = append(neutral, proto.Neutralization{
			Channel: t.Channel,
			Value:   t.Neutral,
			Digital: t.Digital,
		})
	}
	return neutral
}

func (m *ChannelMap) axisIndices() []int {
	indices := make([]int, 0, len(m.axes))
	for index := range m.axes {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices
}

func (m *ChannelMap) buttonIndices() []int {
	indices := make([]int, 0, len(m.buttons))
	for index := range m.buttons {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices
}
