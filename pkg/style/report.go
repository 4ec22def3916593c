package style

import (
	"fmt"
	"sync"
)

// Reporter receives non-fatal problems found while resolving settings,
// such as an unknown anchor name or a resolver function that cannot be
// serialized. *log.Logger from charmbracelet/log satisfies it.
type Reporter interface {
	Warn(msg any, keyvals ...any)
}

// NopReporter discards warnings.
type NopReporter struct{}

func (NopReporter) Warn(any, ...any) {}

// Collector records warnings as formatted strings.
type Collector struct {
	mu       sync.Mutex
	Warnings []string
}

// Warn implements Reporter.
func (c *Collector) Warn(msg any, keyvals ...any) {
	s := fmt.Sprint(msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		s += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	c.mu.Lock()
	c.Warnings = append(c.Warnings, s)
	c.mu.Unlock()
}

// Len returns the number of recorded warnings.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Warnings)
}

// OrNop returns r, or a NopReporter when r is nil.
func OrNop(r Reporter) Reporter {
	if r == nil {
		return NopReporter{}
	}
	return r
}
