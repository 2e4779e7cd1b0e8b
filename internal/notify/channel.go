// Package notify holds the single transient message shown to the user.
package notify

import (
	"sync"
	"time"

	"loginflow/pkg/logging"

	"github.com/google/uuid"
)

// Message is the user-facing notification. The zero value is "nothing shown".
type Message struct {
	ID        string
	Text      string
	Visible   bool
	CreatedAt time.Time
}

// Channel holds at most one message. A new message replaces the current one
// rather than queuing behind it.
type Channel struct {
	mu          sync.RWMutex
	current     Message
	autoDismiss time.Duration
	timer       *time.Timer
	subscribers []func(Message)
	now         func() time.Time
}

// Option configures a Channel.
type Option func(*Channel)

// WithAutoDismiss clears a message after d unless it has been replaced.
// Zero disables dismissal, which is the default.
func WithAutoDismiss(d time.Duration) Option {
	return func(c *Channel) {
		c.autoDismiss = d
	}
}

// NewChannel creates an empty channel.
func NewChannel(opts ...Option) *Channel {
	c := &Channel{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Show makes text the visible message, replacing any existing one.
func (c *Channel) Show(text string) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	msg := Message{
		ID:        uuid.NewString(),
		Text:      text,
		Visible:   true,
		CreatedAt: c.now(),
	}
	c.current = msg
	if c.autoDismiss > 0 {
		id := msg.ID
		c.timer = time.AfterFunc(c.autoDismiss, func() { c.dismiss(id) })
	}
	subs := c.subscribers
	c.mu.Unlock()

	logging.Debug("Notify", "Showing notification %s: %s", msg.ID, text)
	publish(subs, msg)
}

// Clear hides the current message. The text is kept so observers can still
// read what was last shown.
func (c *Channel) Clear() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if !c.current.Visible {
		c.mu.Unlock()
		return
	}
	c.current.Visible = false
	msg := c.current
	subs := c.subscribers
	c.mu.Unlock()

	publish(subs, msg)
}

// dismiss clears the message only if it is still the one with id.
func (c *Channel) dismiss(id string) {
	c.mu.RLock()
	stale := c.current.ID != id
	c.mu.RUnlock()
	if stale {
		return
	}
	c.Clear()
}

// Current returns the current message.
func (c *Channel) Current() Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Subscribe registers fn to be called after every change. Callbacks run
// synchronously on the goroutine that made the change.
func (c *Channel) Subscribe(fn func(Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

func publish(subs []func(Message), msg Message) {
	for _, fn := range subs {
		fn(msg)
	}
}
