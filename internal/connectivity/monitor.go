package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"servicepro/internal/domain"
)

// Offline notification text.
const (
	OfflineTitle  = "No Internet Connection"
	OfflineDetail = "Please check your network and try again"
)

// Monitor is the process-wide online gate.
type Monitor struct {
	notifier domain.Notifier
	log      logrus.FieldLogger

	mu     sync.Mutex
	online bool
	subs   map[int]chan bool
	nextID int
}

// New returns a Monitor that starts online.
func New(notifier domain.Notifier, log logrus.FieldLogger) *Monitor {
	return &Monitor{
		notifier: notifier,
		log:      log.WithField("component", "connectivity"),
		online:   true,
		subs:     make(map[int]chan bool),
	}
}

// IsOnline reports the last known state.
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline records a network-change event. Only transitions are published.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subs := make([]chan bool, 0, len(m.subs))
	for _, ch := range m.subs {
		subs = append(subs, ch)
	}
	m.mu.Unlock()

	m.log.WithField("online", online).Info("connectivity changed")
	if !online {
		m.notifier.Notify(domain.Notification{
			Type:   domain.NotifyError,
			Title:  OfflineTitle,
			Detail: OfflineDetail,
		})
	}
	for _, ch := range subs {
		// Slow subscribers miss intermediate states, never the latest one.
		select {
		case ch <- online:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- online:
			default:
			}
		}
	}
}

// Subscribe delivers every transition on the returned channel until cancel is
// called.
func (m *Monitor) Subscribe() (<-chan bool, func()) {
	ch := make(chan bool, 1)

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = ch
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
	return ch, cancel
}

// Run probes reachability every interval until ctx is cancelled. The first
// probe happens immediately.
func (m *Monitor) Run(ctx context.Context, prober Prober, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := prober.Probe(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			m.log.WithError(err).Debug("probe failed")
		}
		m.SetOnline(err == nil)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Compile-time assertion that Monitor implements domain.ConnectivityGate.
var _ domain.ConnectivityGate = (*Monitor)(nil)
