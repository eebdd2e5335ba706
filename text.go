package histo

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

// SkipTimestamp disables the millisecond timestamp Prometheus text
// exposition otherwise appends to every sample line. Scrapers generally
// prefer to stamp samples with their own collection time, so the default
// (false) matches most Prometheus server configurations poorly; set this
// true to match them.
var SkipTimestamp = false

type labelPair struct{ name, value string }

// WriteText renders every histogram registered on r in Prometheus text
// exposition format.
func (r *Register) WriteText(w io.Writer) (int64, error) {
	r.mu.RLock()
	plain := append([]*namedHistogram(nil), r.plain...)
	l1 := append([]*Map1LabelHistogram(nil), r.l1...)
	l2 := append([]*Map2LabelHistogram(nil), r.l2...)
	r.mu.RUnlock()

	var ts string
	if !SkipTimestamp {
		ts = " " + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	var buf bytes.Buffer
	for _, m := range plain {
		fmt.Fprintf(&buf, "# HELP %s %s\n# TYPE %s histogram\n", m.name, m.help, m.name)
		count, sum, pairs := m.buckets.Collect()
		writeHistogramSeries(&buf, m.name, nil, count, sum, pairs, ts)
	}
	for _, m := range l1 {
		fmt.Fprintf(&buf, "# HELP %s %s\n# TYPE %s histogram\n", m.name, m.help, m.name)
		m.mu.Lock()
		values := append([]string(nil), m.values...)
		hists := append([]*Histogram[float64](nil), m.hists...)
		m.mu.Unlock()
		for i, v := range values {
			count, sum, pairs := hists[i].Collect()
			writeHistogramSeries(&buf, m.name, []labelPair{{m.labelName, v}}, count, sum, pairs, ts)
		}
	}
	for _, m := range l2 {
		fmt.Fprintf(&buf, "# HELP %s %s\n# TYPE %s histogram\n", m.name, m.help, m.name)
		m.mu.Lock()
		values := append([][2]string(nil), m.values...)
		hists := append([]*Histogram[float64](nil), m.hists...)
		m.mu.Unlock()
		for i, v := range values {
			count, sum, pairs := hists[i].Collect()
			labels := []labelPair{{m.labelName1, v[0]}, {m.labelName2, v[1]}}
			writeHistogramSeries(&buf, m.name, labels, count, sum, pairs, ts)
		}
	}
	return buf.WriteTo(w)
}

// writeHistogramSeries formats one histogram instance's bucket, sum and
// count lines. Bucket counts arrive per-bucket from Collect; the cumulative
// totals Prometheus expects are accumulated here, at serialization time, as
// spec'd — nothing in the hot path carries a running cumulative counter.
// NaN observations, which match no finite bound and are excluded from the
// +Inf bucket by Prometheus convention, are reported on a separate le="NaN"
// line rather than folded into the cumulative ladder.
func writeHistogramSeries(buf *bytes.Buffer, name string, labels []labelPair, count uint64, sum float64, pairs []BucketCount[float64], ts string) {
	var cumulative uint64
	var nanCount uint64
	var sawNaN bool
	for _, p := range pairs {
		if math.IsNaN(p.Bound) {
			nanCount = p.Count
			sawNaN = true
			continue
		}
		cumulative += p.Count
		fmt.Fprintf(buf, "%s_bucket%s %d%s\n", name, labelString(labels, "le", formatBound(p.Bound)), cumulative, ts)
	}
	fmt.Fprintf(buf, "%s_sum%s %s%s\n", name, labelString(labels, "", ""), formatFloat(sum), ts)
	fmt.Fprintf(buf, "%s_count%s %d%s\n", name, labelString(labels, "", ""), count, ts)
	if sawNaN && nanCount > 0 {
		fmt.Fprintf(buf, "%s_bucket%s %d%s\n", name, labelString(labels, "le", "NaN"), nanCount, ts)
	}
}

func labelString(labels []labelPair, extraName, extraValue string) string {
	if len(labels) == 0 && extraName == "" {
		return ""
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%s=%q", l.name, l.value)
	}
	if extraName != "" {
		if len(labels) > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%s=%q", extraName, extraValue)
	}
	buf.WriteByte('}')
	return buf.String()
}

func formatBound(f float64) string {
	if math.IsInf(f, 1) {
		return "+Inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// ServeHTTP implements http.Handler, writing r's metrics as Prometheus
// text exposition.
func (r *Register) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	r.WriteText(w)
}

// WriteText renders the default register's histograms.
func WriteText(w io.Writer) (int64, error) { return std.WriteText(w) }

// HTTPHandler serves the default register's metrics.
func HTTPHandler(w http.ResponseWriter, req *http.Request) { std.ServeHTTP(w, req) }
