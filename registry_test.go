package histo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterMustNewHistogram(t *testing.T) {
	r := NewRegister()
	h := r.MustNewHistogram("request_seconds", "request latency", 0.1, 0.5, 1)
	h.Observe(0.2)

	count, _, _ := h.Collect()
	assert.Equal(t, uint64(1), count)
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	r := NewRegister()
	r.MustNewHistogram("dup", "first", 1)
	assert.Panics(t, func() { r.MustNewHistogram("dup", "second", 1) })
}

func TestRegisterRejectsMalformedName(t *testing.T) {
	r := NewRegister()
	assert.Panics(t, func() { r.MustNewHistogram("1bad-name", "", 1) })
}

func TestRegisterRejectsMalformedLabelName(t *testing.T) {
	r := NewRegister()
	assert.Panics(t, func() { r.MustNew1LabelHistogram("ok_name", "", "1bad", 1) })
}
