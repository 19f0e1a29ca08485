// Package notice holds short-lived user-facing messages such as connection
// rejections and save results. A notice carries its own expiry; whoever
// drives the event loop asks for the current notice with its own clock.
package notice

import "time"

// DefaultTTL is how long a notice stays visible when no TTL is configured
const DefaultTTL = 3 * time.Second

// Level classifies a notice for display
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Notice is a message that is shown until ExpiresAt
type Notice struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the notice should no longer be shown at now
func (n Notice) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}

// Board keeps the most recent notice. Posting replaces whatever was shown.
type Board struct {
	ttl     time.Duration
	current *Notice
}

// NewBoard creates a board whose notices live for ttl.
// A non-positive ttl falls back to DefaultTTL.
func NewBoard(ttl time.Duration) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Board{ttl: ttl}
}

// TTL returns the display duration
func (b *Board) TTL() time.Duration {
	return b.ttl
}

// Post records a notice posted at now and returns it
func (b *Board) Post(level Level, message string, now time.Time) Notice {
	n := Notice{Level: level, Message: message, ExpiresAt: now.Add(b.ttl)}
	b.current = &n
	return n
}

// Current returns the visible notice at now. Expired notices are dropped.
func (b *Board) Current(now time.Time) (Notice, bool) {
	if b.current == nil {
		return Notice{}, false
	}
	if b.current.Expired(now) {
		b.current = nil
		return Notice{}, false
	}
	return *b.current, true
}

// Clear removes the current notice
func (b *Board) Clear() {
	b.current = nil
}
