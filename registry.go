package histo

import "sync"

// namedHistogram pairs an unlabeled Histogram with its exposition name and
// help text.
type namedHistogram struct {
	name    string
	help    string
	buckets *Histogram[float64]
}

// Register is a collection of histograms to be exposed together, e.g. on
// one /metrics endpoint. The zero value is not usable; construct one with
// NewRegister, or use the package-level default register via the
// MustNewHistogram family of functions.
type Register struct {
	mu    sync.RWMutex
	names map[string]bool

	plain []*namedHistogram
	l1    []*Map1LabelHistogram
	l2    []*Map2LabelHistogram
}

// NewRegister returns an empty Register.
func NewRegister() *Register {
	return &Register{names: make(map[string]bool)}
}

var std = NewRegister()

func (r *Register) claim(name string) {
	mustValidName(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.names[name] {
		panic("histo: metric name already registered: " + name)
	}
	r.names[name] = true
}

// MustNewHistogram registers a new unlabeled histogram with the given
// bucket upper bounds. It panics if name is malformed or already in use.
func (r *Register) MustNewHistogram(name, help string, buckets ...float64) *Histogram[float64] {
	r.claim(name)
	h := New(buckets...)
	r.mu.Lock()
	r.plain = append(r.plain, &namedHistogram{name: name, help: help, buckets: h})
	r.mu.Unlock()
	return h
}

// MustNew1LabelHistogram registers a family of histograms distinguished by
// one label, each created lazily the first time its label value is seen.
func (r *Register) MustNew1LabelHistogram(name, help, labelName string, buckets ...float64) *Map1LabelHistogram {
	r.claim(name)
	mustValidLabelName(labelName)
	m := &Map1LabelHistogram{name: name, help: help, labelName: labelName, bounds: append([]float64(nil), buckets...)}
	r.mu.Lock()
	r.l1 = append(r.l1, m)
	r.mu.Unlock()
	return m
}

// MustNew2LabelHistogram registers a family of histograms distinguished by
// two labels.
func (r *Register) MustNew2LabelHistogram(name, help, labelName1, labelName2 string, buckets ...float64) *Map2LabelHistogram {
	r.claim(name)
	mustValidLabelName(labelName1)
	mustValidLabelName(labelName2)
	m := &Map2LabelHistogram{name: name, help: help, labelName1: labelName1, labelName2: labelName2, bounds: append([]float64(nil), buckets...)}
	r.mu.Lock()
	r.l2 = append(r.l2, m)
	r.mu.Unlock()
	return m
}

// MustNewHistogram registers name on the default register.
func MustNewHistogram(name, help string, buckets ...float64) *Histogram[float64] {
	return std.MustNewHistogram(name, help, buckets...)
}

// MustNew1LabelHistogram registers name on the default register.
func MustNew1LabelHistogram(name, help, labelName string, buckets ...float64) *Map1LabelHistogram {
	return std.MustNew1LabelHistogram(name, help, labelName, buckets...)
}

// MustNew2LabelHistogram registers name on the default register.
func MustNew2LabelHistogram(name, help, labelName1, labelName2 string, buckets ...float64) *Map2LabelHistogram {
	return std.MustNew2LabelHistogram(name, help, labelName1, labelName2, buckets...)
}
