package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shawedgym_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shawedgym_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	GymsProvisionedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shawedgym_gyms_provisioned_total",
			Help: "Total number of gyms provisioned",
		},
		[]string{"trigger"},
	)

	MembersAdmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shawedgym_members_admitted_total",
			Help: "Total number of members admitted against a plan quota",
		},
	)

	QuotaRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shawedgym_quota_rejections_total",
			Help: "Total number of creations rejected by a plan quota",
		},
		[]string{"resource"},
	)

	SubscriptionsActivatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shawedgym_subscriptions_activated_total",
			Help: "Total number of gym subscriptions activated",
		},
		[]string{"plan"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shawedgym_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shawedgym_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordGymProvisioned(trigger string) {
	GymsProvisionedTotal.WithLabelValues(trigger).Inc()
}

func RecordMemberAdmitted() {
	MembersAdmittedTotal.Inc()
}

func RecordQuotaRejection(resource string) {
	QuotaRejectionsTotal.WithLabelValues(resource).Inc()
}

func RecordSubscription(plan string) {
	SubscriptionsActivatedTotal.WithLabelValues(plan).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func SetEmailQueueLength(n int64) {
	EmailQueueLength.Set(float64(n))
}
