package chart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-insights/internal/domain"
)

func TestColorFor_IsDeterministic(t *testing.T) {
	for _, metric := range domain.Metrics {
		first, err := ColorFor(metric)
		require.NoError(t, err)
		second, err := ColorFor(metric)
		require.NoError(t, err)
		assert.Equal(t, first, second, metric)
	}
}

func TestColorFor_FillAndBorderShareHue(t *testing.T) {
	for _, metric := range domain.Metrics {
		pair, err := ColorFor(metric)
		require.NoError(t, err)
		assert.Equal(t, pair.Fill.Hex(), pair.Border.Hex(), metric)
		assert.Less(t, pair.Fill.A, pair.Border.A, metric)
		assert.Equal(t, 1.0, pair.Border.A, metric)
	}
}

func TestColorFor_DistinctMetrics(t *testing.T) {
	seen := make(map[string]string)
	for _, metric := range domain.Metrics {
		pair, err := ColorFor(metric)
		require.NoError(t, err)
		if other, ok := seen[pair.Border.Hex()]; ok {
			t.Errorf("metrics %s and %s share color %s", metric, other, pair.Border.Hex())
		}
		seen[pair.Border.Hex()] = metric
	}
}

func TestColorFor_UnknownMetric(t *testing.T) {
	for _, name := range []string{"", "stars", "Commits", "commit"} {
		_, err := ColorFor(name)
		var unknown *UnknownMetricError
		require.ErrorAs(t, err, &unknown, name)
		assert.Equal(t, name, unknown.Metric)
	}
}

func TestColor_Formatting(t *testing.T) {
	pair, err := ColorFor(domain.MetricCommits)
	require.NoError(t, err)

	assert.Equal(t, "rgba(54, 162, 235, 0.5)", pair.Fill.String())
	assert.Equal(t, "rgba(54, 162, 235, 1)", pair.Border.String())
	assert.Equal(t, "#36a2eb", pair.Border.Hex())

	data, err := json.Marshal(pair)
	require.NoError(t, err)
	assert.JSONEq(t, `{"fill":"rgba(54, 162, 235, 0.5)","border":"rgba(54, 162, 235, 1)"}`, string(data))
}

func TestFrequencyColors(t *testing.T) {
	assert.Equal(t, "rgba(54, 162, 235, 0.5)", AdditionsColor().Fill.String())
	assert.Equal(t, "rgba(255, 99, 132, 1)", DeletionsColor().Border.String())
}
