package engine

import (
	"sync"

	"golang.design/x/clipboard"
)

// Clipboard receives text copied out of the engine.
type Clipboard interface {
	WriteText(s string) error
}

// SystemClipboard writes to the OS clipboard. It is initialized on first
// use so headless runs never touch it.
type SystemClipboard struct {
	once sync.Once
	err  error
}

func (c *SystemClipboard) WriteText(s string) error {
	c.once.Do(func() { c.err = clipboard.Init() })
	if c.err != nil {
		return c.err
	}
	clipboard.Write(clipboard.FmtText, []byte(s))
	return nil
}
