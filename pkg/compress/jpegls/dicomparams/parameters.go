// Package dicomparams exposes JPEG-LS header parameters through the
// go-dicom codec parameter interface so DICOM transcoding pipelines can
// carry preset coding overrides alongside NEAR.
package dicomparams

import (
	"fmt"

	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/cocosip/go-dicom/pkg/imaging/codec"
	"github.com/jpfielding/jpegls.go/pkg/compress/jpegls"
)

var _ codec.Parameters = (*Parameters)(nil)

// Parameter names understood by GetParameter and SetParameter.
const (
	NameNear           = "near"
	NameInterleave     = "interleave"
	NameColorTransform = "colorTransform"
	NameMaxVal         = "maxVal"
	NameT1             = "t1"
	NameT2             = "t2"
	NameT3             = "t3"
	NameReset          = "reset"
)

// Parameters holds the scan-level settings and preset coding overrides of a
// JPEG-LS encode.
type Parameters struct {
	Near           int
	Interleave     jpegls.InterleaveMode
	ColorTransform jpegls.ColorTransformation
	Preset         jpegls.PresetCodingParameters

	// unknown names, kept for other codecs sharing the parameter set
	params map[string]interface{}
}

// New returns lossless parameters with default thresholds.
func New() *Parameters {
	return &Parameters{params: make(map[string]interface{})}
}

// GetParameter implements codec.Parameters.
func (p *Parameters) GetParameter(name string) interface{} {
	switch name {
	case NameNear:
		return p.Near
	case NameInterleave:
		return int(p.Interleave)
	case NameColorTransform:
		return int(p.ColorTransform)
	case NameMaxVal:
		return p.Preset.MaximumSampleValue
	case NameT1:
		return p.Preset.Threshold1
	case NameT2:
		return p.Preset.Threshold2
	case NameT3:
		return p.Preset.Threshold3
	case NameReset:
		return p.Preset.ResetValue
	default:
		return p.params[name]
	}
}

// SetParameter implements codec.Parameters. Known names only accept int
// values; anything else is ignored.
func (p *Parameters) SetParameter(name string, value interface{}) {
	v, isInt := value.(int)
	switch name {
	case NameNear:
		if isInt {
			p.Near = v
		}
	case NameInterleave:
		if isInt {
			p.Interleave = jpegls.InterleaveMode(v)
		}
	case NameColorTransform:
		if isInt {
			p.ColorTransform = jpegls.ColorTransformation(v)
		}
	case NameMaxVal:
		if isInt {
			p.Preset.MaximumSampleValue = v
		}
	case NameT1:
		if isInt {
			p.Preset.Threshold1 = v
		}
	case NameT2:
		if isInt {
			p.Preset.Threshold2 = v
		}
	case NameT3:
		if isInt {
			p.Preset.Threshold3 = v
		}
	case NameReset:
		if isInt {
			p.Preset.ResetValue = v
		}
	default:
		if p.params == nil {
			p.params = make(map[string]interface{})
		}
		p.params[name] = value
	}
}

// Validate checks the settings that do not depend on the image: NEAR,
// interleave mode, color transform, and the preset overrides against the
// widest (16-bit) sample range. Header performs the full check.
func (p *Parameters) Validate() error {
	switch {
	case p.Near < 0 || p.Near > 255:
		return fmt.Errorf("%w: near lossless %d", jpegls.ErrInvalidParameters, p.Near)
	case p.Interleave > jpegls.InterleaveSample:
		return fmt.Errorf("%w: interleave mode %d", jpegls.ErrInvalidParameters, p.Interleave)
	case p.ColorTransform > jpegls.ColorTransformHP3:
		return fmt.Errorf("%w: color transformation %d", jpegls.ErrInvalidParameters, p.ColorTransform)
	case !p.Preset.IsValid(jpegls.MaximumComponentValue, p.Near):
		return fmt.Errorf("%w: preset coding parameters %v", jpegls.ErrInvalidParameters, p.Preset)
	}
	return nil
}

// Header combines the parameters with a frame description and checks the
// result, including the preset overrides against the frame's sample range.
func (p *Parameters) Header(frame jpegls.FrameInfo) (jpegls.Header, error) {
	if err := p.Validate(); err != nil {
		return jpegls.Header{}, err
	}
	h := jpegls.Header{
		Frame: frame,
		Scan: jpegls.ScanParameters{
			ComponentCount:    frame.ComponentCount,
			AllowedLossyError: p.Near,
			InterleaveMode:    p.Interleave,
		},
		Preset:         p.Preset,
		ColorTransform: p.ColorTransform,
	}
	if _, err := h.CodingParameters(); err != nil {
		return jpegls.Header{}, err
	}
	return h, nil
}

// TransferSyntax returns the DICOM transfer syntax for streams encoded with
// these parameters.
func (p *Parameters) TransferSyntax() *transfer.Syntax {
	if p.Near == 0 {
		return transfer.JPEGLSLossless
	}
	return transfer.JPEGLSNearLossless
}
