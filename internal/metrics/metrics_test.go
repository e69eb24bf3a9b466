package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.Predictions.WithLabelValues("Plate", "ok").Inc()
	r.ModelRejections.WithLabelValues("nan").Add(2)
	r.PredictionDuration.Observe(0.001)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.Predictions.WithLabelValues("Plate", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.ModelRejections.WithLabelValues("nan")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 3)
}

func TestNopIsUsable(t *testing.T) {
	r := Nop()
	r.HTTPRequests.WithLabelValues("/api/predict", "200").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(r.HTTPRequests.WithLabelValues("/api/predict", "200")))
}
