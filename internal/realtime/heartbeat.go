package realtime

import (
	"sync"
	"time"
)

// HeartbeatConfig configures one connection watchdog.
type HeartbeatConfig struct {
	Interval  time.Duration
	MaxMissed int
}

// HeartbeatMonitor is a per-connection liveness watchdog. One instance
// per connection; no shared state across connections.
//
// Every interval the missed-probe counter is incremented first, then:
// if the counter exceeds MaxMissed the connection is terminated and the
// watchdog stops; otherwise a probe is sent. Any pong resets the counter
// to zero regardless of timer phase.
//
// The very first tick therefore already counts as a missed probe: the
// remote must prove liveness by answering the first ping. This keeps
// time-to-detect-dead-connection at its minimum and is intentional.
type HeartbeatMonitor struct {
	interval  time.Duration
	maxMissed int

	ping      func()
	terminate func()

	mu     sync.Mutex
	missed int

	stopOnce sync.Once
	done     chan struct{}
}

// NewHeartbeatMonitor constructs a monitor with safe defaults when the
// config is invalid. ping sends a liveness probe to the remote end;
// terminate tears the connection down. Both are called from the watchdog
// goroutine, never concurrently with each other.
func NewHeartbeatMonitor(cfg HeartbeatConfig, ping, terminate func()) *HeartbeatMonitor {
	if cfg.Interval <= 0 {
		cfg.Interval = heartbeatInterval
	}
	if cfg.MaxMissed <= 0 {
		cfg.MaxMissed = heartbeatMaxMissed
	}
	return &HeartbeatMonitor{
		interval:  cfg.Interval,
		maxMissed: cfg.MaxMissed,
		ping:      ping,
		terminate: terminate,
		done:      make(chan struct{}),
	}
}

// Start runs the watchdog and returns its cleanup handle. The handle
// cancels the timer and detaches the monitor; it is safe to call exactly
// once even if termination already occurred, and is the only way to stop
// the watchdog short of termination.
func (m *HeartbeatMonitor) Start() (stop func()) {
	go func() {
		t := time.NewTicker(m.interval)
		defer t.Stop()

		for {
			select {
			case <-m.done:
				return
			case <-t.C:
				if m.tick() {
					return
				}
			}
		}
	}()

	return m.Stop
}

// Stop cancels the watchdog (idempotent).
func (m *HeartbeatMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

// Pong records a liveness response, resetting the missed counter.
func (m *HeartbeatMonitor) Pong() {
	m.mu.Lock()
	m.missed = 0
	m.mu.Unlock()
}

// tick processes one timer firing and reports whether the watchdog
// terminated the connection.
func (m *HeartbeatMonitor) tick() bool {
	m.mu.Lock()
	m.missed++
	missed := m.missed
	m.mu.Unlock()

	if missed > m.maxMissed {
		m.Stop()
		m.terminate()
		return true
	}

	m.ping()
	return false
}
