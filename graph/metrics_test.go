package graph

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finrouted/kgraph/types"
)

func TestGetGraphMetrics_Singleton(t *testing.T) {
	m1 := GetGraphMetrics()
	m2 := GetGraphMetrics()

	require.NotNil(t, m1)
	assert.Same(t, m1, m2, "should return same instance")
}

func TestGraphMetrics_AllFieldsInitialized(t *testing.T) {
	m := GetGraphMetrics()

	require.NotNil(t, m)
	assert.NotNil(t, m.buildsTotal)
	assert.NotNil(t, m.nodesGauge)
	assert.NotNil(t, m.edgesGauge)
	assert.NotNil(t, m.generationGauge)
	assert.NotNil(t, m.evaluationsTotal)
	assert.NotNil(t, m.evaluationDuration)
	assert.NotNil(t, m.diagnosticsTotal)
}

func TestGraphMetrics_Init(t *testing.T) {
	m := GetGraphMetrics()
	m.Init()
	m.Init()

	assert.Equal(t, float64(0), testutil.ToFloat64(m.buildsTotal.WithLabelValues("never-used")))
}

func TestGraphMetrics_MustRegister(t *testing.T) {
	registry := prometheus.NewRegistry()
	GetGraphMetrics().MustRegister(registry)

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestGraphMetrics_EvaluationCounters(t *testing.T) {
	m := GetGraphMetrics()

	b := NewBuilder(nil)
	_, err := b.Value(types.NewValue(types.KeyCountry, "US"))
	require.NoError(t, err)
	g, err := b.Finalize()
	require.NoError(t, err)

	before := testutil.ToFloat64(m.evaluationsTotal.WithLabelValues("valid"))
	Check(context.Background(), g, types.NewContext(), types.ValueIs(types.NewValue(types.KeyCountry, "US")))
	after := testutil.ToFloat64(m.evaluationsTotal.WithLabelValues("valid"))

	assert.Equal(t, before+1, after)
}
