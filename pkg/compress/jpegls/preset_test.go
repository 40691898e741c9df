package jpegls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name    string
		i, j, m int
		want    int
	}{
		{"InRange", 100, 5, 255, 100},
		{"BelowLow", 3, 5, 255, 5},
		{"AboveHighSnapsToLow", 300, 5, 255, 5},
		{"EqualLow", 5, 5, 255, 5},
		{"EqualHigh", 255, 5, 255, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clamp(tt.i, tt.j, tt.m))
		})
	}
}

func TestMaximumNearLossless(t *testing.T) {
	assert.Equal(t, 0, MaximumNearLossless(1))
	assert.Equal(t, 3, MaximumNearLossless(7))
	assert.Equal(t, 127, MaximumNearLossless(255))
	assert.Equal(t, 255, MaximumNearLossless(4095))
	assert.Equal(t, 255, MaximumNearLossless(65535))
}

func TestComputeDefault(t *testing.T) {
	tests := []struct {
		name   string
		maxVal int
		near   int
		want   PresetCodingParameters
	}{
		{"8BitLossless", 255, 0, PresetCodingParameters{255, 3, 7, 21, 64}},
		{"8BitNear3", 255, 3, PresetCodingParameters{255, 12, 22, 42, 64}},
		{"10BitLossless", 1023, 0, PresetCodingParameters{1023, 6, 19, 72, 64}},
		{"12BitLossless", 4095, 0, PresetCodingParameters{4095, 18, 67, 276, 64}},
		{"16BitLossless", 65535, 0, PresetCodingParameters{65535, 18, 67, 276, 64}},
		{"7BitLossless", 127, 0, PresetCodingParameters{127, 2, 3, 10, 64}},
		{"4BitLossless", 15, 0, PresetCodingParameters{15, 2, 3, 4, 64}},
		{"1BitLossless", 1, 0, PresetCodingParameters{1, 1, 1, 1, 64}},
		{"7BitMaxNear", 127, 63, PresetCodingParameters{127, 64, 64, 64, 64}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeDefault(tt.maxVal, tt.near))
		})
	}
}

func TestComputeDefault_Monotonic(t *testing.T) {
	step := 1
	if testing.Short() {
		step = 97
	}
	for maxVal := 1; maxVal <= MaximumComponentValue; maxVal += step {
		for near := 0; near <= MaximumNearLossless(maxVal); near++ {
			p := ComputeDefault(maxVal, near)
			if !(near < p.Threshold1 && p.Threshold1 <= p.Threshold2 && p.Threshold2 <= p.Threshold3 && p.Threshold3 <= maxVal) {
				t.Fatalf("ComputeDefault(%d, %d) = %v is not ordered", maxVal, near, p)
			}
			if p.MaximumSampleValue != maxVal || p.ResetValue != DefaultResetValue {
				t.Fatalf("ComputeDefault(%d, %d) = %v", maxVal, near, p)
			}
		}
	}
}

func TestComputeDefault_IsValid(t *testing.T) {
	for _, maxVal := range []int{1, 2, 3, 7, 15, 127, 128, 255, 256, 1023, 4095, 4096, 65535} {
		for near := 0; near <= MaximumNearLossless(maxVal); near++ {
			p := ComputeDefault(maxVal, near)
			require.Truef(t, p.IsValid(maxVal, near), "defaults %v rejected for near %d", p, near)
		}
	}
}

func TestIsDefault(t *testing.T) {
	assert.True(t, PresetCodingParameters{}.IsDefault())
	for _, p := range []PresetCodingParameters{
		{MaximumSampleValue: 1},
		{Threshold1: 1},
		{Threshold2: 1},
		{Threshold3: 1},
		{ResetValue: 1},
		ComputeDefault(255, 0),
	} {
		assert.Falsef(t, p.IsDefault(), "%v", p)
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name         string
		params       PresetCodingParameters
		maxComponent int
		near         int
		want         bool
	}{
		{"AllDefault", PresetCodingParameters{}, 255, 0, true},
		{"T2BelowDefaultT1", PresetCodingParameters{Threshold2: 2}, 255, 0, false},
		{"T2EqualDefaultT1", PresetCodingParameters{Threshold2: 3}, 255, 0, true},
		{"MaxValAboveComponent", PresetCodingParameters{MaximumSampleValue: 256}, 255, 0, false},
		{"MaxValNegative", PresetCodingParameters{MaximumSampleValue: -1}, 255, 0, false},
		{"MaxValSmaller", PresetCodingParameters{MaximumSampleValue: 100}, 255, 0, true},
		{"T1Minimum", PresetCodingParameters{Threshold1: 1}, 255, 0, true},
		{"T1AboveMaxVal", PresetCodingParameters{Threshold1: 256}, 255, 0, false},
		{"T1AboveOverriddenMaxVal", PresetCodingParameters{MaximumSampleValue: 100, Threshold1: 101}, 255, 0, false},
		{"T1NotAboveNear", PresetCodingParameters{Threshold1: 2}, 255, 2, false},
		{"T1AboveNear", PresetCodingParameters{Threshold1: 3}, 255, 2, true},
		{"T3BelowT2", PresetCodingParameters{Threshold2: 10, Threshold3: 9}, 255, 0, false},
		{"T3BelowDefaultT2", PresetCodingParameters{Threshold3: 6}, 255, 0, false},
		{"T3AboveMaxVal", PresetCodingParameters{Threshold3: 256}, 255, 0, false},
		{"Thresholds", PresetCodingParameters{Threshold1: 4, Threshold2: 8, Threshold3: 30}, 255, 0, true},
		{"ResetTooSmall", PresetCodingParameters{ResetValue: 2}, 255, 0, false},
		{"ResetMinimum", PresetCodingParameters{ResetValue: 3}, 255, 0, true},
		{"Reset255", PresetCodingParameters{ResetValue: 255}, 255, 0, true},
		{"ResetAbove255", PresetCodingParameters{ResetValue: 256}, 255, 0, false},
		{"Reset255SmallMaxVal", PresetCodingParameters{ResetValue: 255}, 15, 0, true},
		{"ResetMaxVal12Bit", PresetCodingParameters{ResetValue: 4095}, 4095, 0, true},
		{"ResetAboveMaxVal12Bit", PresetCodingParameters{ResetValue: 4096}, 4095, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.params.IsValid(tt.maxComponent, tt.near))
		})
	}
}

func TestResolve(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		got, err := PresetCodingParameters{}.Resolve(255, 0)
		require.NoError(t, err)
		assert.Equal(t, ComputeDefault(255, 0), got)
	})

	t.Run("PartialOverride", func(t *testing.T) {
		got, err := PresetCodingParameters{Threshold1: 10}.Resolve(255, 0)
		require.NoError(t, err)
		assert.Equal(t, PresetCodingParameters{255, 10, 10, 21, 64}, got)
		assert.True(t, got.IsValid(255, 0))
	})

	t.Run("MaxValOverride", func(t *testing.T) {
		got, err := PresetCodingParameters{MaximumSampleValue: 1023}.Resolve(4095, 0)
		require.NoError(t, err)
		assert.Equal(t, ComputeDefault(1023, 0), got)
	})

	tests := []struct {
		name         string
		params       PresetCodingParameters
		maxComponent int
		near         int
	}{
		{"InvalidOverride", PresetCodingParameters{Threshold2: 2}, 255, 0},
		{"T3BelowFilledT2", PresetCodingParameters{Threshold1: 10, Threshold3: 8}, 255, 0},
		{"ComponentValueZero", PresetCodingParameters{}, 0, 0},
		{"ComponentValueTooLarge", PresetCodingParameters{}, 65536, 0},
		{"NearNegative", PresetCodingParameters{}, 255, -1},
		{"NearTooLarge", PresetCodingParameters{}, 255, 128},
		{"NearTooLargeForMaxVal", PresetCodingParameters{MaximumSampleValue: 7}, 255, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.params.Resolve(tt.maxComponent, tt.near)
			assert.ErrorIs(t, err, ErrInvalidParameters)
		})
	}
}

func TestPresetCodingParameters_String(t *testing.T) {
	assert.Equal(t, "MAXVAL=255 T1=3 T2=7 T3=21 RESET=64", ComputeDefault(255, 0).String())
}
