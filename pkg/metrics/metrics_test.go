package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(OrdersSerialized.WithLabelValues("KYBER"))
	AddOrdersSerialized("KYBER", 3)
	assert.Equal(t, before+3, testutil.ToFloat64(OrdersSerialized.WithLabelValues("KYBER")))

	before = testutil.ToFloat64(SignerRequests.WithLabelValues("error"))
	IncSignerRequest("error")
	assert.Equal(t, before+1, testutil.ToFloat64(SignerRequests.WithLabelValues("error")))

	before = testutil.ToFloat64(ErrorsTotal.WithLabelValues("api", "bad_request"))
	IncError("api", "bad_request")
	assert.Equal(t, before+1, testutil.ToFloat64(ErrorsTotal.WithLabelValues("api", "bad_request")))
}

func TestObserveDuration(t *testing.T) {
	ObserveDuration(RequestDuration, time.Now(), "/health", "GET")
	ObserveDuration(SignerLatency, time.Now())
	ObserveSerializedBytes(512)

	assert.Equal(t, 1, testutil.CollectAndCount(RequestDuration, "setcodec_http_request_duration_seconds"))
	assert.Equal(t, 1, testutil.CollectAndCount(SignerLatency))
}
