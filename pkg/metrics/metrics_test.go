package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounterVec_LabelsAreIndependent(t *testing.T) {
	add := CartMutationsTotal.WithLabelValues("add", "success")
	remove := CartMutationsTotal.WithLabelValues("remove", "success")
	beforeAdd := testutil.ToFloat64(add)
	beforeRemove := testutil.ToFloat64(remove)

	add.Inc()
	add.Inc()
	remove.Inc()

	assert.Equal(t, beforeAdd+2, testutil.ToFloat64(add))
	assert.Equal(t, beforeRemove+1, testutil.ToFloat64(remove))
}

func TestGaugeVec_Set(t *testing.T) {
	CircuitBreakerState.WithLabelValues("order-events").Set(1)
	assert.Equal(t, float64(1), testutil.ToFloat64(CircuitBreakerState.WithLabelValues("order-events")))

	CircuitBreakerState.WithLabelValues("order-events").Set(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(CircuitBreakerState.WithLabelValues("order-events")))
}

func TestHistogram_Collects(t *testing.T) {
	OrderCreationDuration.Observe(0.02)
	assert.Equal(t, 1, testutil.CollectAndCount(OrderCreationDuration))
}

func TestResult(t *testing.T) {
	assert.Equal(t, "success", Result(nil))
	assert.Equal(t, "failure", Result(errors.New("x")))
}
