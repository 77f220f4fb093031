package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Recorder = (*Collector)(nil)
var _ Recorder = Nop{}

// gathered returns name{label=value} -> value for counters and gauges.
func gathered(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)

	out := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "{" + lp.GetName() + "=" + lp.GetValue() + "}"
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[key] = m.GetGauge().GetValue()
			}
		}
	}
	return out
}

func TestCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin(true)
	c.RecordLogin(false)
	c.RecordLogin(false)
	c.RecordRegistration()
	c.RecordBooking(true)
	c.RecordStatusChange("confirmed")
	c.RecordRPC("/therapath.v1.PortalService/Login", "OK", 10*time.Millisecond)
	c.RecordReminders(3)
	c.ChatConnected()
	c.ChatConnected()
	c.ChatDisconnected()

	got := gathered(t, reg)
	assert.Equal(t, 1.0, got["therapath_logins_total{outcome=success}"])
	assert.Equal(t, 2.0, got["therapath_logins_total{outcome=failure}"])
	assert.Equal(t, 1.0, got["therapath_registrations_total"])
	assert.Equal(t, 1.0, got["therapath_bookings_total{anonymous=true}"])
	assert.Equal(t, 1.0, got["therapath_appointment_status_changes_total{status=confirmed}"])
	assert.Equal(t, 1.0, got["therapath_rpc_total{code=OK}{method=/therapath.v1.PortalService/Login}"])
	assert.Equal(t, 3.0, got["therapath_reminders_sent_total"])
	assert.Equal(t, 1.0, got["therapath_chat_connections"])
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRegistration()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "therapath_registrations_total 1")
}
