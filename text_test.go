package histo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextUnlabeled(t *testing.T) {
	old := SkipTimestamp
	SkipTimestamp = true
	defer func() { SkipTimestamp = old }()

	r := NewRegister()
	h := r.MustNewHistogram("req_seconds", "request duration in seconds", 1, 5)
	h.Observe(0.5)
	h.Observe(3)
	h.Observe(10)

	var buf strings.Builder
	_, err := r.WriteText(&buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "# HELP req_seconds request duration in seconds\n")
	assert.Contains(t, out, "# TYPE req_seconds histogram\n")
	assert.Contains(t, out, `req_seconds_bucket{le="1"} 1`)
	assert.Contains(t, out, `req_seconds_bucket{le="5"} 2`)
	assert.Contains(t, out, `req_seconds_bucket{le="+Inf"} 3`)
	assert.Contains(t, out, "req_seconds_sum 13.5")
	assert.Contains(t, out, "req_seconds_count 3")
}

func TestWriteTextLabeled(t *testing.T) {
	old := SkipTimestamp
	SkipTimestamp = true
	defer func() { SkipTimestamp = old }()

	r := NewRegister()
	m := r.MustNew1LabelHistogram("req_seconds", "request duration", "route", 1)
	m.With("/a").Observe(0.5)

	var buf strings.Builder
	_, err := r.WriteText(&buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `req_seconds_bucket{route="/a",le="1"} 1`)
}

func TestWriteTextNaNBucketIsNotCumulative(t *testing.T) {
	old := SkipTimestamp
	SkipTimestamp = true
	defer func() { SkipTimestamp = old }()

	r := NewRegister()
	h := r.MustNewHistogram("samples", "", 1)
	h.Observe(0.5)
	h.Observe(nanValue[float64]())

	var buf strings.Builder
	_, err := r.WriteText(&buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `samples_bucket{le="1"} 1`)
	assert.Contains(t, out, `samples_bucket{le="+Inf"} 1`)
	assert.Contains(t, out, `samples_bucket{le="NaN"} 1`)
	assert.Contains(t, out, "samples_count 2")
}
