// Package connectivity tracks whether the learning service is reachable.
//
// The monitor is the single source of truth for the online/offline state. It
// is fed by the host environment's connectivity signal via SetOnline and,
// optionally, by an active HTTP probe. Consecutive identical signals are
// collapsed so subscribers see exactly one notification per transition.
package connectivity

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"
)

const probeTimeout = 5 * time.Second

// Monitor holds the current online state and fans out transition events.
type Monitor struct {
	mu     sync.RWMutex
	online bool
	subs   map[chan bool]struct{}

	httpClient *http.Client

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMonitor creates a monitor with the given initial state.
func NewMonitor(initialOnline bool) *Monitor {
	return &Monitor{
		online: initialOnline,
		subs:   make(map[chan bool]struct{}),
		httpClient: &http.Client{
			Timeout: probeTimeout,
		},
	}
}

// IsOnline reports the current online state.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// SetOnline records a connectivity signal. A signal matching the current
// state is ignored; a transition is broadcast to all subscribers.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online

	subs := make([]chan bool, 0, len(m.subs))
	for ch := range m.subs {
		subs = append(subs, ch)
	}
	m.mu.Unlock()

	if online {
		log.Printf("Connectivity: online")
	} else {
		log.Printf("Connectivity: offline")
	}

	for _, ch := range subs {
		select {
		case ch <- online:
		default:
			// Subscriber is behind; it will read the current state on its
			// next IsOnline call.
		}
	}
}

// Subscribe returns a channel receiving one value per state transition.
func (m *Monitor) Subscribe() chan bool {
	ch := make(chan bool, 4)
	m.mu.Lock()
	m.subs[ch] = struct{}{}
	m.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (m *Monitor) Unsubscribe(ch chan bool) {
	m.mu.Lock()
	_, ok := m.subs[ch]
	delete(m.subs, ch)
	m.mu.Unlock()
	if ok {
		close(ch)
	}
}

// StartProbe begins periodically checking reachability of probeURL. Probe
// results feed SetOnline, so missed host signals are eventually corrected.
func (m *Monitor) StartProbe(ctx context.Context, probeURL string, interval time.Duration) {
	if probeURL == "" || interval <= 0 {
		return
	}

	var probeCtx context.Context
	probeCtx, m.cancel = context.WithCancel(ctx)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-probeCtx.Done():
				return
			case <-ticker.C:
				m.SetOnline(m.probe(probeCtx, probeURL))
			}
		}
	}()

	log.Printf("Connectivity: probing %s every %v", probeURL, interval)
}

// Stop terminates the probe loop, if one is running.
func (m *Monitor) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

// probe reports whether the probe URL answered at all. Any HTTP response,
// including an error status, proves the network path works.
func (m *Monitor) probe(ctx context.Context, probeURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, probeURL, nil)
	if err != nil {
		return false
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
