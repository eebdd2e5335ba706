package histo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap1LabelHistogramCachesByValue(t *testing.T) {
	r := NewRegister()
	m := r.MustNew1LabelHistogram("latency_seconds", "latency", "route", 1)

	a1 := m.With("/a")
	a2 := m.With("/a")
	b := m.With("/b")

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
}

func TestMap2LabelHistogramCachesByValuePair(t *testing.T) {
	r := NewRegister()
	m := r.MustNew2LabelHistogram("latency_seconds2", "latency", "route", "method", 1)

	a1 := m.With("/a", "GET")
	a2 := m.With("/a", "GET")
	diff := m.With("/a", "POST")

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, diff)
}
