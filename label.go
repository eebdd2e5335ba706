package histo

import "sync"

// Map1LabelHistogram is a family of histograms sharing one name and bucket
// layout, indexed by a single label value. Histograms are created lazily
// the first time a label value is requested through With, then cached for
// the lifetime of the process; label cardinality is the caller's
// responsibility to bound.
type Map1LabelHistogram struct {
	name      string
	help      string
	labelName string
	bounds    []float64

	mu     sync.Mutex
	values []string
	hists  []*Histogram[float64]
}

// With returns the histogram for labelValue, creating it if this is the
// first time the value has been seen.
func (m *Map1LabelHistogram) With(labelValue string) *Histogram[float64] {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, v := range m.values {
		if v == labelValue {
			return m.hists[i]
		}
	}
	h := New(m.bounds...)
	m.values = append(m.values, labelValue)
	m.hists = append(m.hists, h)
	return h
}

// Map2LabelHistogram is the two-label analogue of Map1LabelHistogram.
type Map2LabelHistogram struct {
	name       string
	help       string
	labelName1 string
	labelName2 string
	bounds     []float64

	mu     sync.Mutex
	values [][2]string
	hists  []*Histogram[float64]
}

// With returns the histogram for the (labelValue1, labelValue2) pair,
// creating it if this combination hasn't been seen before.
func (m *Map2LabelHistogram) With(labelValue1, labelValue2 string) *Histogram[float64] {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, v := range m.values {
		if v[0] == labelValue1 && v[1] == labelValue2 {
			return m.hists[i]
		}
	}
	h := New(m.bounds...)
	m.values = append(m.values, [2]string{labelValue1, labelValue2})
	m.hists = append(m.hists, h)
	return h
}
