package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// ChannelMetrics records push-channel activity for the display daemons.
type ChannelMetrics struct {
	messages   *prometheus.CounterVec
	reconnects prometheus.Counter
	boardSize  prometheus.Gauge
}

// NewChannelMetrics registers the push-channel metrics on the provided registerer.
func NewChannelMetrics(reg prometheus.Registerer) *ChannelMetrics {
	if reg == nil {
		return &ChannelMetrics{}
	}
	messages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "channel_messages_total",
		Help: "Push messages received per topic kind.",
	}, []string{"topic"})
	reconnects := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "channel_reconnects_total",
		Help: "Times the push channel had to be re-established.",
	})
	boardSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "board_orders",
		Help: "Orders currently visible on the board.",
	})
	reg.MustRegister(messages, reconnects, boardSize)
	return &ChannelMetrics{
		messages:   messages,
		reconnects: reconnects,
		boardSize:  boardSize,
	}
}

// IncMessage counts one received push message for the topic.
func (c *ChannelMetrics) IncMessage(topic string) {
	if c == nil || c.messages == nil {
		return
	}
	c.messages.WithLabelValues(normalizeLabel(topic)).Inc()
}

// IncReconnect counts one channel re-establishment.
func (c *ChannelMetrics) IncReconnect() {
	if c == nil || c.reconnects == nil {
		return
	}
	c.reconnects.Inc()
}

// SetBoardSize records the number of visible orders.
func (c *ChannelMetrics) SetBoardSize(n int) {
	if c == nil || c.boardSize == nil {
		return
	}
	c.boardSize.Set(float64(n))
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
