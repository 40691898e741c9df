package jpegls

import "log/slog"

// ContextCount is the number of regular-mode contexts (ISO 14495-1 A.3.4).
const ContextCount = 365

// GradientQuantizer maps local gradients to one of the 365 regular-mode
// contexts using the thresholds of a preset parameter set.
type GradientQuantizer struct {
	T1, T2, T3 int
	Near       int
}

// NewGradientQuantizer configures a quantizer from resolved preset
// parameters, i.e. the set written into the LSE segment or its defaults.
func NewGradientQuantizer(p PresetCodingParameters, near int) *GradientQuantizer {
	return &GradientQuantizer{
		T1:   p.Threshold1,
		T2:   p.Threshold2,
		T3:   p.Threshold3,
		Near: near,
	}
}

// LogValue implements slog.LogValuer.
func (q *GradientQuantizer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("t1", q.T1),
		slog.Int("t2", q.T2),
		slog.Int("t3", q.T3),
		slog.Int("near", q.Near),
		slog.Int("contexts", ContextCount),
	)
}

// Quantize returns the region of gradient d in [-4, 4] (ISO 14495-1 A.3.3).
func (q *GradientQuantizer) Quantize(d int) int {
	switch {
	case d <= -q.T3:
		return -4
	case d <= -q.T2:
		return -3
	case d <= -q.T1:
		return -2
	case d < -q.Near:
		return -1
	case d <= q.Near:
		return 0
	case d < q.T1:
		return 1
	case d < q.T2:
		return 2
	case d < q.T3:
		return 3
	default:
		return 4
	}
}

// ContextIndex computes the context index for gradients d1, d2, d3.
// If the first non-zero region is negative all regions are negated and
// sign is -1. The index is always within [0, ContextCount).
func (q *GradientQuantizer) ContextIndex(d1, d2, d3 int) (index, sign int) {
	q1 := q.Quantize(d1)
	q2 := q.Quantize(d2)
	q3 := q.Quantize(d3)

	sign = 1
	if q1 < 0 || (q1 == 0 && q2 < 0) || (q1 == 0 && q2 == 0 && q3 < 0) {
		q1, q2, q3 = -q1, -q2, -q3
		sign = -1
	}
	return q1*81 + q2*9 + q3, sign
}
