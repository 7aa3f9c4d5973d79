// Package notify manages the single transient notification slot. The newest
// message always replaces the current one; each message is retired after a
// fixed visible duration unless something newer has taken the slot first.
package notify

import "time"

// Severity indicates how a notification should be styled.
type Severity int

const (
	Info Severity = iota
	Success
	Error
)

// Notification is one transient user-facing message.
type Notification struct {
	// Seq orders notifications within the session. Expiry timers carry the
	// seq they were armed for, so a late timer cannot clear a newer message.
	Seq      int
	Text     string
	Severity Severity
}

// Center owns the notification slot. It holds at most one message and keeps
// no backlog.
type Center struct {
	current *Notification
	seq     int
	ttl     time.Duration
}

// NewCenter returns a Center whose messages stay visible for ttl.
func NewCenter(ttl time.Duration) *Center {
	return &Center{ttl: ttl}
}

// Post replaces the current notification and returns the new one. The
// caller is responsible for scheduling expiry after TTL().
func (c *Center) Post(text string, sev Severity) Notification {
	c.seq++
	n := Notification{Seq: c.seq, Text: text, Severity: sev}
	c.current = &n
	return n
}

// Expire retires the notification with the given seq. It reports whether the
// slot was cleared; a stale seq (the slot has since been replaced or already
// cleared) is a no-op.
func (c *Center) Expire(seq int) bool {
	if c.current == nil || c.current.Seq != seq {
		return false
	}
	c.current = nil
	return true
}

// Current returns the visible notification, or nil.
func (c *Center) Current() *Notification {
	return c.current
}

// TTL returns the configured visible duration.
func (c *Center) TTL() time.Duration {
	return c.ttl
}
