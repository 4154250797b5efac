package realtime

import "github.com/prometheus/client_golang/prometheus"

// Metrics instruments the realtime surface.
type Metrics struct {
	connects       prometheus.Counter
	onlineUsers    prometheus.Gauge
	rateLimited    prometheus.Counter
	heartbeatDrops prometheus.Counter
	relaySignals   prometheus.Counter
	roomMessages   prometheus.Counter
}

// NewMetrics registers the realtime collectors against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		connects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campfire_ws_connects_total",
			Help: "Authenticated websocket connections accepted.",
		}),
		onlineUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "campfire_presence_online_users",
			Help: "Identities currently tracked as online, away, or idle.",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campfire_ws_rate_limited_total",
			Help: "Events denied by the sliding-window rate limiter.",
		}),
		heartbeatDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campfire_ws_heartbeat_terminations_total",
			Help: "Connections terminated after missed liveness probes.",
		}),
		relaySignals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campfire_rtc_signals_relayed_total",
			Help: "RTC signaling payloads relayed between call participants.",
		}),
		roomMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campfire_room_messages_total",
			Help: "Room messages accepted and broadcast.",
		}),
	}

	reg.MustRegister(
		m.connects,
		m.onlineUsers,
		m.rateLimited,
		m.heartbeatDrops,
		m.relaySignals,
		m.roomMessages,
	)
	return m
}

func (m *Metrics) connect() {
	if m != nil {
		m.connects.Inc()
	}
}

func (m *Metrics) setOnline(n int) {
	if m != nil {
		m.onlineUsers.Set(float64(n))
	}
}

func (m *Metrics) rateLimit() {
	if m != nil {
		m.rateLimited.Inc()
	}
}

func (m *Metrics) heartbeatDrop() {
	if m != nil {
		m.heartbeatDrops.Inc()
	}
}

func (m *Metrics) relaySignal() {
	if m != nil {
		m.relaySignals.Inc()
	}
}

func (m *Metrics) roomMessage() {
	if m != nil {
		m.roomMessages.Inc()
	}
}
