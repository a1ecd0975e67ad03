// Package notify collects the transient messages shown to a viewer.
package notify

import "sync"

type Level string

const (
	Success Level = "success"
	Info    Level = "info"
	Error   Level = "error"
)

type Notification struct {
	Level       Level  `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type Notifier interface {
	Notify(n Notification)
}

// Collector keeps notifications in arrival order until drained.
type Collector struct {
	mu    sync.Mutex
	items []Notification
}

func (c *Collector) Notify(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, n)
}

// Drain returns everything collected so far and empties the collector.
func (c *Collector) Drain() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.items
	c.items = nil
	return out
}

func (c *Collector) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.items {
		if n.Level == Error {
			return true
		}
	}
	return false
}
