package clients

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MetricValue holds either a number or a piece of text.
type MetricValue struct {
	num   float64
	text  string
	isNum bool
}

func Number(v float64) MetricValue { return MetricValue{num: v, isNum: true} }

func Text(s string) MetricValue { return MetricValue{text: s} }

func (v MetricValue) IsNumber() bool { return v.isNum }

// Float returns the numeric value and whether there is one.
func (v MetricValue) Float() (float64, bool) { return v.num, v.isNum }

func (v MetricValue) String() string {
	if v.isNum {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.text
}

func (v MetricValue) MarshalJSON() ([]byte, error) {
	if v.isNum {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.text)
}

func (v *MetricValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = MetricValue{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			// booleans, objects and arrays are kept verbatim
			*v = Text(string(data))
			return nil
		}
		*v = Number(f)
	}
	return nil
}

// Metrics is an open mapping from metric key to value.
type Metrics map[string]MetricValue

// ParseMetrics decodes a JSON object of metrics. Empty input is an empty set.
func ParseMetrics(raw []byte) (Metrics, error) {
	m := Metrics{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return Metrics{}, err
	}
	return m, nil
}

// Keys returns the metric keys in a stable order.
func (m Metrics) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var numberPrinter = message.NewPrinter(language.English)

// Label turns a metric key like "conversion_rate" into "Conversion Rate".
func Label(key string) string {
	// casers keep state, so one per call
	return cases.Title(language.Spanish, cases.NoLower).String(strings.ReplaceAll(key, "_", " "))
}

// FormatMetric renders a value according to what its key measures.
func FormatMetric(key string, v MetricValue) string {
	f, ok := v.Float()
	if !ok {
		return v.text
	}

	k := strings.ToLower(key)
	switch {
	case strings.Contains(k, "revenue") || strings.Contains(k, "sales"):
		return "$" + formatNumber(f)
	case strings.Contains(k, "rate") || strings.Contains(k, "satisfaction"):
		return strconv.FormatFloat(f, 'f', -1, 64) + "%"
	default:
		return formatNumber(f)
	}
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return numberPrinter.Sprintf("%d", int64(f))
	}
	return numberPrinter.Sprint(number.Decimal(f, number.MaxFractionDigits(3)))
}

// Improvement is the rounded percentage change from initial to final.
// It is 0 unless both values are numbers and initial is non-zero, and 0
// again when the change does not fit in an int32.
func Improvement(initial, final MetricValue) int {
	i, okI := initial.Float()
	f, okF := final.Float()
	if !okI || !okF || i == 0 {
		return 0
	}
	// half rounds up
	pct := math.Floor((f-i)/i*100 + 0.5)
	if math.IsNaN(pct) || pct > math.MaxInt32 || pct < math.MinInt32 {
		return 0
	}
	return int(pct)
}

// Comparison is one before/after row of a case study.
type Comparison struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Initial string `json:"initial"`
	Final   string `json:"final"`
	Change  int    `json:"change"`
}

// Compare builds a row for every initial metric. A metric missing from
// final renders as empty with no change.
func Compare(initial, final Metrics) []Comparison {
	rows := make([]Comparison, 0, len(initial))
	for _, key := range initial.Keys() {
		before := initial[key]
		row := Comparison{
			Key:     key,
			Label:   Label(key),
			Initial: FormatMetric(key, before),
		}
		if after, ok := final[key]; ok {
			row.Final = FormatMetric(key, after)
			row.Change = Improvement(before, after)
		}
		rows = append(rows, row)
	}
	return rows
}

// Highlight is a single formatted metric.
type Highlight struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Highlights returns up to n formatted metrics in key order.
func Highlights(m Metrics, n int) []Highlight {
	keys := m.Keys()
	if n >= 0 && len(keys) > n {
		keys = keys[:n]
	}
	out := make([]Highlight, 0, len(keys))
	for _, key := range keys {
		out = append(out, Highlight{Key: key, Label: Label(key), Value: FormatMetric(key, m[key])})
	}
	return out
}
