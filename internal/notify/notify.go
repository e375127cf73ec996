package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"servicepro/internal/domain"
)

// Log writes notifications as structured log entries.
type Log struct {
	Logger logrus.FieldLogger
}

// Notify implements domain.Notifier.
func (l Log) Notify(n domain.Notification) {
	entry := l.Logger.WithFields(logrus.Fields{
		"component": "notify",
		"type":      string(n.Type),
		"detail":    n.Detail,
	})
	switch n.Type {
	case domain.NotifyError:
		entry.Warn(n.Title)
	default:
		entry.Info(n.Title)
	}
}

// Console prints notifications as single lines.
type Console struct {
	mu  sync.Mutex
	Out io.Writer
}

// Notify implements domain.Notifier.
func (c *Console) Notify(n domain.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n.Detail == "" {
		fmt.Fprintf(c.Out, "[%s] %s\n", n.Type, n.Title)
		return
	}
	fmt.Fprintf(c.Out, "[%s] %s: %s\n", n.Type, n.Title, n.Detail)
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu   sync.Mutex
	seen []domain.Notification
}

// Notify implements domain.Notifier.
func (r *Recorder) Notify(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
}

// All returns a copy of the recorded notifications in arrival order.
func (r *Recorder) All() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.seen...)
}

// Titles returns the recorded titles in arrival order.
func (r *Recorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.seen))
	for i, n := range r.seen {
		out[i] = n.Title
	}
	return out
}

// Multi fans a notification out to several sinks.
type Multi []domain.Notifier

// Notify implements domain.Notifier.
func (m Multi) Notify(n domain.Notification) {
	for _, sink := range m {
		sink.Notify(n)
	}
}

var (
	_ domain.Notifier = Log{}
	_ domain.Notifier = (*Console)(nil)
	_ domain.Notifier = (*Recorder)(nil)
	_ domain.Notifier = Multi(nil)
)
