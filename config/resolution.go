package config

import (
	"errors"
	"fmt"
)

var ErrNoResolution = errors.New("config: no usable resolution for monitor")

type Resolution struct {
	W, H int
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.W, r.H)
}

// Aspect ratio names understood by BestFit.
const (
	Aspect16x9 = "16:9"
	Aspect4x3  = "4:3"
)

// Resolutions lists the supported window sizes per aspect ratio, smallest first.
var Resolutions = map[string][]Resolution{
	Aspect16x9: {
		{640, 360}, {854, 480}, {960, 540}, {1024, 576}, {1280, 720},
		{1366, 768}, {1600, 900}, {1920, 1080}, {2560, 1440}, {3200, 1800}, {3840, 2160},
	},
	Aspect4x3: {
		{640, 480}, {800, 600}, {1024, 768}, {1152, 864}, {1280, 960},
		{1400, 1050}, {1600, 1200}, {2048, 1536},
	},
}

// MonitorAspect classifies a monitor size. Sizes listed in the table win,
// otherwise the exact integer ratio is used.
func MonitorAspect(w, h int) (string, bool) {
	for _, aspect := range []string{Aspect16x9, Aspect4x3} {
		for _, r := range Resolutions[aspect] {
			if r.W == w && r.H == h {
				return aspect, true
			}
		}
	}
	switch {
	case w <= 0 || h <= 0:
		return "", false
	case w*9 == h*16:
		return Aspect16x9, true
	case w*3 == h*4:
		return Aspect4x3, true
	}
	return "", false
}

// BestFit returns the largest supported resolution of the monitor's aspect
// ratio that fits inside the monitor.
func BestFit(monitorW, monitorH int) (Resolution, error) {
	aspect, ok := MonitorAspect(monitorW, monitorH)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %dx%d has an unsupported aspect ratio", ErrNoResolution, monitorW, monitorH)
	}
	var best Resolution
	found := false
	for _, r := range Resolutions[aspect] {
		if r.W <= monitorW && r.H <= monitorH {
			best = r
			found = true
		}
	}
	if !found {
		return Resolution{}, fmt.Errorf("%w: %dx%d is smaller than every %s mode", ErrNoResolution, monitorW, monitorH, aspect)
	}
	return best, nil
}

// WindowSize resolves the window size from the forced size or the monitor.
func (c *Config) WindowSize(monitorW, monitorH int) (Resolution, error) {
	if c.Engine.Forced() {
		return Resolution{W: c.Engine.ForcedWidth, H: c.Engine.ForcedHeight}, nil
	}
	return BestFit(monitorW, monitorH)
}
