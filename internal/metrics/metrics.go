// Package metrics exposes portal counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services and transport report into.
type Recorder interface {
	RecordLogin(ok bool)
	RecordRegistration()
	RecordBooking(anonymous bool)
	RecordStatusChange(to string)
	RecordRPC(method, code string, d time.Duration)
	RecordReminders(n int)
	ChatConnected()
	ChatDisconnected()
}

type Collector struct {
	logins        *prometheus.CounterVec
	registrations prometheus.Counter
	bookings      *prometheus.CounterVec
	statusChanges *prometheus.CounterVec
	rpcs          *prometheus.CounterVec
	rpcLatency    *prometheus.HistogramVec
	reminders     prometheus.Counter
	chatConns     prometheus.Gauge
}

// NewCollector registers every metric on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "therapath_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "therapath_registrations_total",
			Help: "Accounts created through registration.",
		}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "therapath_bookings_total",
			Help: "Appointments booked.",
		}, []string{"anonymous"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "therapath_appointment_status_changes_total",
			Help: "Appointment status transitions by target status.",
		}, []string{"status"}),
		rpcs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "therapath_rpc_total",
			Help: "Unary RPCs by method and status code.",
		}, []string{"method", "code"}),
		rpcLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "therapath_rpc_duration_seconds",
			Help:    "Unary RPC latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		reminders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "therapath_reminders_sent_total",
			Help: "Reminder notifications created by the scheduler.",
		}),
		chatConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "therapath_chat_connections",
			Help: "Open chat websocket connections.",
		}),
	}

	reg.MustRegister(
		c.logins,
		c.registrations,
		c.bookings,
		c.statusChanges,
		c.rpcs,
		c.rpcLatency,
		c.reminders,
		c.chatConns,
	)
	return c
}

func (c *Collector) RecordLogin(ok bool) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordRegistration() { c.registrations.Inc() }

func (c *Collector) RecordBooking(anonymous bool) {
	label := "false"
	if anonymous {
		label = "true"
	}
	c.bookings.WithLabelValues(label).Inc()
}

func (c *Collector) RecordStatusChange(to string) {
	c.statusChanges.WithLabelValues(to).Inc()
}

func (c *Collector) RecordRPC(method, code string, d time.Duration) {
	c.rpcs.WithLabelValues(method, code).Inc()
	c.rpcLatency.WithLabelValues(method).Observe(d.Seconds())
}

func (c *Collector) RecordReminders(n int) { c.reminders.Add(float64(n)) }

func (c *Collector) ChatConnected()    { c.chatConns.Inc() }
func (c *Collector) ChatDisconnected() { c.chatConns.Dec() }

// Handler serves the registry for scraping.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Tests and tools use it.
type Nop struct{}

func (Nop) RecordLogin(bool)                        {}
func (Nop) RecordRegistration()                     {}
func (Nop) RecordBooking(bool)                      {}
func (Nop) RecordStatusChange(string)               {}
func (Nop) RecordRPC(string, string, time.Duration) {}
func (Nop) RecordReminders(int)                     {}
func (Nop) ChatConnected()                          {}
func (Nop) ChatDisconnected()                       {}
