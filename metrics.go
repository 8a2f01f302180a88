package relaycontrol

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors a Board reports to. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	FramesSent      *prometheus.CounterVec // labels: opcode
	StatusReads     prometheus.Counter
	TransportErrors *prometheus.CounterVec // labels: op
	DrainedBytes    prometheus.Counter
	Connects        *prometheus.CounterVec // labels: result=ok|error
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FramesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relaycontrol_frames_sent_total",
			Help: "Command frames written to the board by opcode.",
		}, []string{"opcode"}),
		StatusReads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relaycontrol_status_reads_total",
			Help: "Status responses successfully decoded.",
		}),
		TransportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relaycontrol_transport_errors_total",
			Help: "Read or write failures on an established connection.",
		}, []string{"op"}),
		DrainedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relaycontrol_drained_bytes_total",
			Help: "Stale bytes discarded before a status query.",
		}),
		Connects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relaycontrol_connect_total",
			Help: "Connection attempts by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.FramesSent, m.StatusReads, m.TransportErrors, m.DrainedBytes, m.Connects)
	return m
}

func (m *Metrics) frameSent(op Opcode) {
	if m == nil {
		return
	}
	m.FramesSent.WithLabelValues(op.String()).Inc()
}

func (m *Metrics) statusRead() {
	if m == nil {
		return
	}
	m.StatusReads.Inc()
}

func (m *Metrics) transportError(op string) {
	if m == nil {
		return
	}
	m.TransportErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) drained(n int) {
	if m == nil || n == 0 {
		return
	}
	m.DrainedBytes.Add(float64(n))
}

func (m *Metrics) connect(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Connects.WithLabelValues("error").Inc()
		return
	}
	m.Connects.WithLabelValues("ok").Inc()
}
