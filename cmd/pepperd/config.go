package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/peppercomp/pepper/output"
	"github.com/peppercomp/pepper/seat"
)

// fileConfig is the optional on-disk description of the outputs and
// seats pepperd should stand up, loaded instead of the single
// -width/-height/-frame-interval-ms flag output when -config is given.
// Real deployments are expected to describe a whole multi-output,
// multi-seat rig this way rather than via flags.
type fileConfig struct {
	Outputs []outputConfig `yaml:"outputs"`
	Seats   []seatConfig   `yaml:"seats"`
}

type outputConfig struct {
	Name           string `yaml:"name"`
	Width          int32  `yaml:"width"`
	Height         int32  `yaml:"height"`
	RefreshMilliHz int32  `yaml:"refresh_millihz"`
	FrameInterval  uint32 `yaml:"frame_interval_ms"`
}

type seatConfig struct {
	Name    string   `yaml:"name"`
	Devices []string `yaml:"devices"` // each one of "pointer", "keyboard", "touch"
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.Outputs) == 0 {
		return nil, fmt.Errorf("config must declare at least one output")
	}
	return &cfg, nil
}

func (oc outputConfig) frameIntervalOrDefault() uint32 {
	if oc.FrameInterval == 0 {
		return 16
	}
	return oc.FrameInterval
}

func (oc outputConfig) mode() output.Mode {
	refresh := oc.RefreshMilliHz
	if refresh == 0 {
		refresh = 60000
	}
	return output.Mode{
		Width:          oc.Width,
		Height:         oc.Height,
		RefreshMilliHz: refresh,
		Flags:          output.ModeCurrent | output.ModePreferred,
	}
}

func (sc seatConfig) capabilities() seat.Capability {
	var caps seat.Capability
	for _, d := range sc.Devices {
		switch d {
		case "pointer":
			caps |= seat.CapPointer
		case "keyboard":
			caps |= seat.CapKeyboard
		case "touch":
			caps |= seat.CapTouch
		}
	}
	return caps
}
