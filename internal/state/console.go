package state

import (
	"fmt"
	"sync"
)

// DefaultConsoleCapacity is the number of lines the console keeps.
const DefaultConsoleCapacity = 20

// consoleLine is the synthetic text the device prints; it is long on purpose
// so the UI's overflow handling gets exercised.
const consoleLine = "This is a very long value that will hopefull overflow the right hand side value <high> %d"

// ConsoleLog is a bounded FIFO of synthetic console lines. The line counter
// is shared by every connection ticking the log.
type ConsoleLog struct {
	mu       sync.Mutex
	capacity int
	lines    []string
	counter  uint64
}

// NewConsoleLog creates an empty log. A non-positive capacity uses
// DefaultConsoleCapacity.
func NewConsoleLog(capacity int) *ConsoleLog {
	if capacity <= 0 {
		capacity = DefaultConsoleCapacity
	}
	return &ConsoleLog{
		capacity: capacity,
		lines:    make([]string, 0, capacity),
	}
}

// Tick appends the next synthetic line, evicting the oldest once full, and
// returns a copy of the buffer.
func (c *ConsoleLog) Tick() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counter++
	if len(c.lines) == c.capacity {
		copy(c.lines, c.lines[1:])
		c.lines = c.lines[:len(c.lines)-1]
	}
	c.lines = append(c.lines, fmt.Sprintf(consoleLine, c.counter))
	return append([]string(nil), c.lines...)
}

// Lines returns a copy of the buffer.
func (c *ConsoleLog) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

// Len returns the number of buffered lines.
func (c *ConsoleLog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Capacity returns the maximum number of lines kept.
func (c *ConsoleLog) Capacity() int {
	return c.capacity
}
