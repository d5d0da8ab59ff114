package main

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/hullworks/machineroom/comm"
	"github.com/hullworks/machineroom/helm"
)

type targetConfig struct {
	Channel int `yaml:"channel"`
	Neutral int `yaml:"neutral"`
}

type axisConfig struct {
	Target   string `yaml:"target"`
	Inverted bool   `yaml:"inverted"`
}

type appConfig struct {
	Listen   string                  `yaml:"listen"`
	Protocol string                  `yaml:"protocol"`
	Ident    string                  `yaml:"ident"`
	Serial   comm.Config             `yaml:"serial"`
	Targets  map[string]targetConfig `yaml:"targets"`
	Axes     map[int]axisConfig      `yaml:"axes"`
	Buttons  map[int]string          `yaml:"buttons"`
}

// defaultConfig matches the reference MS 0x00 board setup: engine on channel
// 1 driven by an inverted axis, rudder on channel 0 centered at 127, pump on
// channel 2 behind a button.
func defaultConfig() *appConfig {
	return &appConfig{
		Listen:   "127.0.0.1:8520",
		Protocol: "compact",
		Ident:    "Machineroom Control",
		Serial: comm.Config{
			Port:   "/dev/ttyACM0",
			Baud:   9600,
			Buffer: 4096,
		},
		Targets: map[string]targetConfig{
			"machine": {Channel: 1},
			"rudder":  {Channel: 0, Neutral: 127},
			"pump":    {Channel: 2},
		},
		Axes: map[int]axisConfig{
			1: {Target: "machine", Inverted: true},
			2: {Target: "rudder"},
		},
		Buttons: map[int]string{
			3: "pump",
		},
	}
}

func (c *appConfig) load(path string) error {
	log.Printf("loading config file: %s", path)
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not open config file: %v", err)
	}
	if err = yaml.UnmarshalStrict(yamlFile, c); err != nil {
		return fmt.Errorf("could not parse config file: %v", err)
	}
	return nil
}

func (c *appConfig) channelMap() (*helm.ChannelMap, error) {
	targets := make(map[string]helm.Target, len(c.Targets))
	for name, t := range c.Targets {
		targets[name] = helm.Target{Channel: t.Channel, Neutral: t.Neutral}
	}
	axes := make(map[int]helm.AxisBinding, len(c.Axes))
	for index, a := range c.Axes {
		axes[index] = helm.AxisBinding{Target: a.Target, Inverted: a.Inverted}
	}
	return helm.NewChannelMap(targets, axes, c.Buttons)
}
