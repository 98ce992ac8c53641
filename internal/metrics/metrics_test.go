package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/gyms/:id/members", "201", 0.5)
	RecordHTTPRequest("POST", "/gyms/:id/members", "201", 0.1)
	RecordHTTPRequest("POST", "/gyms/:id/members", "409", 0.05)

	created := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/gyms/:id/members", "201"))
	rejected := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/gyms/:id/members", "409"))

	assert.Equal(t, float64(2), created)
	assert.Equal(t, float64(1), rejected)
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordGymProvisioned(t *testing.T) {
	GymsProvisionedTotal.Reset()

	RecordGymProvisioned("explicit")
	RecordGymProvisioned("first_login")
	RecordGymProvisioned("explicit")

	assert.Equal(t, float64(2), testutil.ToFloat64(GymsProvisionedTotal.WithLabelValues("explicit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(GymsProvisionedTotal.WithLabelValues("first_login")))
}

func TestRecordQuotaRejection(t *testing.T) {
	QuotaRejectionsTotal.Reset()

	RecordQuotaRejection("members")

	assert.Equal(t, float64(1), testutil.ToFloat64(QuotaRejectionsTotal.WithLabelValues("members")))
}

func TestRecordMemberAdmitted(t *testing.T) {
	before := testutil.ToFloat64(MembersAdmittedTotal)

	RecordMemberAdmitted()
	RecordMemberAdmitted()

	assert.Equal(t, before+2, testutil.ToFloat64(MembersAdmittedTotal))
}

func TestRecordSubscription(t *testing.T) {
	SubscriptionsActivatedTotal.Reset()

	RecordSubscription("basic")
	RecordSubscription("basic")
	RecordSubscription("pro")

	assert.Equal(t, float64(2), testutil.ToFloat64(SubscriptionsActivatedTotal.WithLabelValues("basic")))
	assert.Equal(t, float64(1), testutil.ToFloat64(SubscriptionsActivatedTotal.WithLabelValues("pro")))
}

func TestRecordEmail(t *testing.T) {
	EmailsSentTotal.Reset()

	RecordEmail("gym_ready", "success")
	RecordEmail("gym_ready", "failed")
	RecordEmail("quota_warning", "success")

	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("gym_ready", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("gym_ready", "failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("quota_warning", "success")))
}

func TestEmailQueueLength(t *testing.T) {
	SetEmailQueueLength(10)
	assert.Equal(t, float64(10), testutil.ToFloat64(EmailQueueLength))

	SetEmailQueueLength(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(EmailQueueLength))
}
