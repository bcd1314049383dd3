package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymhub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RSVPsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_rsvps_total",
			Help: "Total number of RSVP writes",
		},
		[]string{"status", "source"},
	)

	OccurrenceCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymhub_occurrence_cancellations_total",
			Help: "Total number of occurrence cancellations",
		},
	)

	RemindersSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_reminders_sent_total",
			Help: "Total number of reminder notifications dispatched",
		},
		[]string{"type", "status"},
	)

	ReminderRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymhub_reminder_runs_total",
			Help: "Total number of reminder dispatcher runs",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymhub_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	InvitationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymhub_invitations_total",
			Help: "Total number of member invitations",
		},
		[]string{"role", "status"},
	)

	ChatMessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymhub_chat_messages_total",
			Help: "Total number of chat messages persisted",
		},
	)

	ChatConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymhub_chat_connections_active",
			Help: "Number of open chat websocket connections",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordRSVP(status, source string) {
	RSVPsTotal.WithLabelValues(status, source).Inc()
}

func RecordOccurrenceCancellation() {
	OccurrenceCancellationsTotal.Inc()
}

func RecordReminder(reminderType, status string) {
	RemindersSentTotal.WithLabelValues(reminderType, status).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordInvitation(role, status string) {
	InvitationsTotal.WithLabelValues(role, status).Inc()
}
