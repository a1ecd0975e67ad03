package clients

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestParseMetrics(t *testing.T) {
	m, err := ParseMetrics([]byte(`{"leads": 50, "channel": "instagram", "active": true, "gone": null}`))
	require.NoError(t, err)

	leads, ok := m["leads"].Float()
	assert.True(t, ok)
	assert.Equal(t, 50.0, leads)
	assert.False(t, m["channel"].IsNumber())
	assert.Equal(t, "instagram", m["channel"].String())
	assert.Equal(t, "true", m["active"].String())
	assert.False(t, m["gone"].IsNumber())
}

func TestParseMetricsEmptyAndMalformed(t *testing.T) {
	m, err := ParseMetrics(nil)
	require.NoError(t, err)
	assert.Empty(t, m)

	_, err = ParseMetrics([]byte(`[1,2]`))
	assert.Error(t, err)

	c := Client{InitialMetrics: datatypes.JSON(`not json`)}
	assert.Empty(t, c.Initial())
}

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		key  string
		v    MetricValue
		want string
	}{
		{"monthly_revenue", Number(12000), "$12,000"},
		{"online_sales", Number(1500), "$1,500"},
		{"conversion_rate", Number(4.5), "4.5%"},
		{"customer_satisfaction", Number(92), "92%"},
		{"followers", Number(1250000), "1,250,000"},
		{"followers", Text("n/a"), "n/a"},
		{"conversion_rate", Text("alta"), "alta"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"/"+tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMetric(tt.key, tt.v))
		})
	}
}

func TestFormatMetricSuffixAndPrefix(t *testing.T) {
	for _, key := range []string{"rate", "bounce_rate", "satisfaction_score"} {
		assert.True(t, strings.HasSuffix(FormatMetric(key, Number(3)), "%"), key)
	}
	for _, key := range []string{"revenue", "total_sales", "sales_growth"} {
		assert.True(t, strings.HasPrefix(FormatMetric(key, Number(3)), "$"), key)
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Conversion Rate", Label("conversion_rate"))
	assert.Equal(t, "Leads", Label("leads"))
	assert.Equal(t, "ROI Total", Label("ROI_total"))
}

func TestImprovement(t *testing.T) {
	assert.Equal(t, 300, Improvement(Number(50), Number(200)))
	assert.Equal(t, -50, Improvement(Number(200), Number(100)))
	assert.Equal(t, 33, Improvement(Number(3), Number(4)))
	assert.Equal(t, 0, Improvement(Number(0), Number(100)))
	assert.Equal(t, 0, Improvement(Text("bajo"), Number(100)))
	assert.Equal(t, 0, Improvement(MetricValue{}, Number(100)))
	assert.Equal(t, 0, Improvement(Number(10), Text("alto")))
}

func TestImprovementOutOfRange(t *testing.T) {
	assert.Equal(t, 0, Improvement(Number(1e-300), Number(1e300)))
	assert.Equal(t, 0, Improvement(Number(-1e-300), Number(1e300)))
	assert.Equal(t, 0, Improvement(Number(1e300), Number(-math.MaxFloat64)))
	assert.Equal(t, 0, Improvement(Number(math.Inf(1)), Number(1)))
	assert.Equal(t, 0, Improvement(Number(1), Number(math.NaN())))
	assert.Equal(t, 1_000_000_000, Improvement(Number(1), Number(10_000_001)))
}

func TestCompare(t *testing.T) {
	initial, err := ParseMetrics([]byte(`{"leads": 50, "conversion_rate": 2, "brand": "local"}`))
	require.NoError(t, err)
	final, err := ParseMetrics([]byte(`{"leads": 200, "conversion_rate": 5}`))
	require.NoError(t, err)

	rows := Compare(initial, final)
	require.Len(t, rows, 3)

	assert.Equal(t, "brand", rows[0].Key)
	assert.Equal(t, "local", rows[0].Initial)
	assert.Equal(t, "", rows[0].Final)
	assert.Equal(t, 0, rows[0].Change)

	assert.Equal(t, "Conversion Rate", rows[1].Label)
	assert.Equal(t, "5%", rows[1].Final)
	assert.Equal(t, 150, rows[1].Change)

	assert.Equal(t, "leads", rows[2].Key)
	assert.Equal(t, 300, rows[2].Change)
}

func TestHighlights(t *testing.T) {
	final := Metrics{
		"a_rate":  Number(1),
		"b":       Number(2),
		"c_sales": Number(3),
		"d":       Number(4),
		"e":       Number(5),
	}

	got := Highlights(final, 4)
	require.Len(t, got, 4)
	assert.Equal(t, "A Rate", got[0].Label)
	assert.Equal(t, "1%", got[0].Value)
	assert.Equal(t, "$3", got[2].Value)
	assert.Equal(t, "d", got[3].Key)
}
