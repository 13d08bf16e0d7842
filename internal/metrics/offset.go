package metrics

type MaxOffset struct {
	name string
	peak float64
}

func NewMaxOffset() *MaxOffset {
	return &MaxOffset{
		name: "max_offset",
	}
}

func (m *MaxOffset) Name() string { return m.name }

func (m *MaxOffset) Observe(s Sample) {
	if s.MaxOffset > m.peak {
		m.peak = s.MaxOffset
	}
}

func (m *MaxOffset) Value() float64 { return m.peak }

func (m *MaxOffset) Reset() { m.peak = 0 }

// MeanScale averages the field's mean point scale over all samples.
type MeanScale struct {
	name    string
	sum     float64
	samples int
}

func NewMeanScale() *MeanScale {
	return &MeanScale{
		name: "mean_scale",
	}
}

func (m *MeanScale) Name() string { return m.name }

func (m *MeanScale) Observe(s Sample) {
	m.sum += s.MeanScale
	m.samples++
}

func (m *MeanScale) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanScale) Reset() {
	m.sum = 0
	m.samples = 0
}
