// Package notify holds the single transient notice shown to the user.
package notify

import (
	"sync"
	"time"
)

type Kind int

const (
	Success Kind = iota
	Info
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Info:
		return "info"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Display durations.
const (
	SuccessTTL = 2500 * time.Millisecond
	RemovedTTL = 2000 * time.Millisecond
	InfoTTL    = 2500 * time.Millisecond
	ErrorTTL   = 3000 * time.Millisecond
)

// Notice is a message that dismisses itself after TTL.
type Notice struct {
	ID   uint64
	Kind Kind
	Text string
	TTL  time.Duration
}

func (n Notice) IsZero() bool {
	return n.Text == ""
}

func New(kind Kind, text string, ttl time.Duration) Notice {
	return Notice{Kind: kind, Text: text, TTL: ttl}
}

// Board is the single notice slot. Showing a notice replaces the current one; a dismissal
// for a notice that has already been replaced does nothing.
type Board struct {
	mu      sync.Mutex
	current Notice
	seq     uint64
}

// Show replaces the current notice and returns it with its assigned ID. The caller schedules
// Dismiss(id) after the TTL.
func (b *Board) Show(n Notice) Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	n.ID = b.seq
	b.current = n
	return n
}

// Dismiss clears the board only if id is still the notice on display.
func (b *Board) Dismiss(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current.IsZero() || b.current.ID != id {
		return false
	}
	b.current = Notice{}
	return true
}

// Current returns the notice on display, or the zero Notice.
func (b *Board) Current() Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// ShowFor shows n and dismisses it with a timer. Used outside the TUI event loop.
func (b *Board) ShowFor(n Notice) Notice {
	n = b.Show(n)
	if n.TTL > 0 {
		time.AfterFunc(n.TTL, func() { b.Dismiss(n.ID) })
	}
	return n
}
