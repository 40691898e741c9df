// Package jpegls implements the header layer of JPEG-LS (ISO/IEC 14495-1,
// ITU-T T.87): derivation and validation of the preset coding parameters
// and construction of the marker segments that carry frame, scan and
// parameter information.
package jpegls

import (
	"fmt"
	"math"
)

// Default threshold values (ISO/IEC 14495-1 Table C.3, 8-bit lossless)
const (
	DefaultThreshold1 = 3
	DefaultThreshold2 = 7
	DefaultThreshold3 = 21
	DefaultResetValue = 64
)

// MaximumComponentValue is the largest MAXVAL a JPEG-LS stream can carry.
const MaximumComponentValue = math.MaxUint16

// PresetCodingParameters holds the JPEG-LS preset coding parameters (LSE id 1).
// A zero field means "not specified, use the default".
type PresetCodingParameters struct {
	MaximumSampleValue int // MAXVAL
	Threshold1         int // T1
	Threshold2         int // T2
	Threshold3         int // T3
	ResetValue         int // RESET
}

// clamp is the clamping function of ISO/IEC 14495-1 Figure C.3.
// Values above maximumSampleValue snap to j, not to maximumSampleValue.
func clamp(i, j, maximumSampleValue int) int {
	if i > maximumSampleValue || i < j {
		return j
	}
	return i
}

// MaximumNearLossless returns the largest NEAR value allowed for samples
// bounded by maximumSampleValue.
func MaximumNearLossless(maximumSampleValue int) int {
	return min(255, maximumSampleValue/2)
}

// ComputeDefault returns the default thresholds of ISO/IEC 14495-1 C.2.4.1.1.1.
// Callers must ensure 0 < maximumSampleValue <= 65535 and
// 0 <= allowedLossyError <= MaximumNearLossless(maximumSampleValue).
func ComputeDefault(maximumSampleValue, allowedLossyError int) PresetCodingParameters {
	if maximumSampleValue >= 128 {
		factor := (min(maximumSampleValue, 4095) + 128) / 256
		t1 := clamp(factor*(DefaultThreshold1-2)+2+3*allowedLossyError, allowedLossyError+1, maximumSampleValue)
		t2 := clamp(factor*(DefaultThreshold2-3)+3+5*allowedLossyError, t1, maximumSampleValue)
		t3 := clamp(factor*(DefaultThreshold3-4)+4+7*allowedLossyError, t2, maximumSampleValue)
		return PresetCodingParameters{
			MaximumSampleValue: maximumSampleValue,
			Threshold1:         t1,
			Threshold2:         t2,
			Threshold3:         t3,
			ResetValue:         DefaultResetValue,
		}
	}

	factor := 256 / (maximumSampleValue + 1)
	t1 := clamp(max(2, DefaultThreshold1/factor+3*allowedLossyError), allowedLossyError+1, maximumSampleValue)
	t2 := clamp(max(3, DefaultThreshold2/factor+5*allowedLossyError), t1, maximumSampleValue)
	t3 := clamp(max(4, DefaultThreshold3/factor+7*allowedLossyError), t2, maximumSampleValue)
	return PresetCodingParameters{
		MaximumSampleValue: maximumSampleValue,
		Threshold1:         t1,
		Threshold2:         t2,
		Threshold3:         t3,
		ResetValue:         DefaultResetValue,
	}
}

// IsDefault reports whether every field is zero, i.e. the caller wants the
// standard defaults.
func (p PresetCodingParameters) IsDefault() bool {
	return p == PresetCodingParameters{}
}

// IsValid checks p against the legal ranges of ISO/IEC 14495-1 Table C.1.
// Zero fields are replaced by their defaults when checking dependent fields.
func (p PresetCodingParameters) IsValid(maximumComponentValue, allowedLossyError int) bool {
	if p.MaximumSampleValue != 0 && (p.MaximumSampleValue < 1 || p.MaximumSampleValue > maximumComponentValue) {
		return false
	}

	maximumSampleValue := p.MaximumSampleValue
	if maximumSampleValue == 0 {
		maximumSampleValue = maximumComponentValue
	}
	if p.Threshold1 != 0 && (p.Threshold1 < allowedLossyError+1 || p.Threshold1 > maximumSampleValue) {
		return false
	}

	defaults := ComputeDefault(maximumSampleValue, allowedLossyError)
	t1 := p.Threshold1
	if t1 == 0 {
		t1 = defaults.Threshold1
	}
	if p.Threshold2 != 0 && (p.Threshold2 < t1 || p.Threshold2 > maximumSampleValue) {
		return false
	}

	t2 := p.Threshold2
	if t2 == 0 {
		t2 = defaults.Threshold2
	}
	if p.Threshold3 != 0 && (p.Threshold3 < t2 || p.Threshold3 > maximumSampleValue) {
		return false
	}

	if p.ResetValue != 0 && (p.ResetValue < 3 || p.ResetValue > max(255, maximumSampleValue)) {
		return false
	}
	return true
}

// Resolve validates p as an override for samples bounded by
// maximumComponentValue and returns the complete parameter set with every
// zero field replaced by its default.
func (p PresetCodingParameters) Resolve(maximumComponentValue, allowedLossyError int) (PresetCodingParameters, error) {
	if maximumComponentValue < 1 || maximumComponentValue > MaximumComponentValue {
		return PresetCodingParameters{}, fmt.Errorf("%w: maximum component value %d", ErrInvalidParameters, maximumComponentValue)
	}
	if allowedLossyError < 0 || allowedLossyError > MaximumNearLossless(maximumComponentValue) {
		return PresetCodingParameters{}, fmt.Errorf("%w: near lossless %d exceeds %d", ErrInvalidParameters, allowedLossyError, MaximumNearLossless(maximumComponentValue))
	}
	if !p.IsValid(maximumComponentValue, allowedLossyError) {
		return PresetCodingParameters{}, fmt.Errorf("%w: preset coding parameters %v", ErrInvalidParameters, p)
	}

	resolved := p
	if resolved.MaximumSampleValue == 0 {
		resolved.MaximumSampleValue = maximumComponentValue
	}
	// A smaller MAXVAL can lower the NEAR ceiling below the requested value.
	if allowedLossyError > MaximumNearLossless(resolved.MaximumSampleValue) {
		return PresetCodingParameters{}, fmt.Errorf("%w: near lossless %d exceeds %d for MAXVAL %d",
			ErrInvalidParameters, allowedLossyError, MaximumNearLossless(resolved.MaximumSampleValue), resolved.MaximumSampleValue)
	}
	defaults := ComputeDefault(resolved.MaximumSampleValue, allowedLossyError)
	if resolved.Threshold1 == 0 {
		resolved.Threshold1 = defaults.Threshold1
	}
	if resolved.Threshold2 == 0 {
		resolved.Threshold2 = max(defaults.Threshold2, resolved.Threshold1)
	}
	if resolved.Threshold3 == 0 {
		resolved.Threshold3 = max(defaults.Threshold3, resolved.Threshold2)
	}
	if resolved.ResetValue == 0 {
		resolved.ResetValue = defaults.ResetValue
	}
	// An explicit T3 is checked against the default T2, but a large T1 can
	// raise the filled-in T2 above it.
	if !resolved.IsValid(maximumComponentValue, allowedLossyError) {
		return PresetCodingParameters{}, fmt.Errorf("%w: preset coding parameters %v resolve to %v", ErrInvalidParameters, p, resolved)
	}
	return resolved, nil
}

// String returns a compact form for logs and CLI output.
func (p PresetCodingParameters) String() string {
	return fmt.Sprintf("MAXVAL=%d T1=%d T2=%d T3=%d RESET=%d",
		p.MaximumSampleValue, p.Threshold1, p.Threshold2, p.Threshold3, p.ResetValue)
}
