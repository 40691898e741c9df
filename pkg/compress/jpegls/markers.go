package jpegls

import (
	"fmt"
	"slices"
)

// MarkerCode is the second byte of a JPEG marker (the first is always 0xFF).
type MarkerCode byte

// JPEG-LS marker codes (ITU-T T.87 Table C.1, ITU-T T.81 Table B.1)
const (
	MarkerSOI   MarkerCode = 0xD8 // Start of image
	MarkerEOI   MarkerCode = 0xD9 // End of image
	MarkerSOS   MarkerCode = 0xDA // Start of scan
	MarkerAPP0  MarkerCode = 0xE0 // Application data 0 (JFIF)
	MarkerAPP8  MarkerCode = 0xE8 // Application data 8 (HP color transform)
	MarkerSOF55 MarkerCode = 0xF7 // Start of frame, JPEG-LS
	MarkerLSE   MarkerCode = 0xF8 // JPEG-LS preset parameters
	MarkerCOM   MarkerCode = 0xFE // Comment
)

// String returns the marker mnemonic
func (c MarkerCode) String() string {
	switch c {
	case MarkerSOI:
		return "SOI"
	case MarkerEOI:
		return "EOI"
	case MarkerSOS:
		return "SOS"
	case MarkerAPP0:
		return "APP0"
	case MarkerAPP8:
		return "APP8"
	case MarkerSOF55:
		return "SOF55"
	case MarkerLSE:
		return "LSE"
	case MarkerCOM:
		return "COM"
	default:
		return fmt.Sprintf("0x%02X", byte(c))
	}
}

// LSEPresetCodingParameters is the LSE id of a preset coding parameter set
// (ITU-T T.87 Table C.2).
const LSEPresetCodingParameters = 1

// InterleaveMode is the ILV field of the scan header.
type InterleaveMode byte

const (
	InterleaveNone   InterleaveMode = 0
	InterleaveLine   InterleaveMode = 1
	InterleaveSample InterleaveMode = 2
)

// ColorTransformation identifies the HP color transforms signalled in the
// "mrfx" APP8 segment.
type ColorTransformation byte

const (
	ColorTransformNone ColorTransformation = 0
	ColorTransformHP1  ColorTransformation = 1
	ColorTransformHP2  ColorTransformation = 2
	ColorTransformHP3  ColorTransformation = 3
)

// DensityUnits is the JFIF units field.
type DensityUnits byte

const (
	DensityAspectRatio DensityUnits = 0
	DensityPerInch     DensityUnits = 1
	DensityPerCm       DensityUnits = 2
)

// FrameInfo holds the frame header fields (ITU-T T.87 C.2.2).
type FrameInfo struct {
	Width          int // X, 0..65535
	Height         int // Y, 0..65535
	BitsPerSample  int // P
	ComponentCount int // Nf, 1..254
}

// JFIFParameters holds the fields of a JFIF v1.02 APP0 segment.
type JFIFParameters struct {
	Version    int // e.g. 0x0102
	Units      DensityUnits
	XDensity   int
	YDensity   int
	XThumbnail int    // 0..255
	YThumbnail int    // 0..255
	Thumbnail  []byte // packed 24-bit RGB, 3*XThumbnail*YThumbnail bytes
}

// ScanParameters holds the fields needed for a scan header.
type ScanParameters struct {
	ComponentCount    int
	AllowedLossyError int // NEAR
	InterleaveMode    InterleaveMode
}

// MarkerSegment is a marker code with its content. The content excludes the
// 0xFF prefix and the length field; Writer adds both.
type MarkerSegment struct {
	code    MarkerCode
	content []byte
}

// Code returns the marker code.
func (s MarkerSegment) Code() MarkerCode { return s.code }

// Content returns a copy of the segment content.
func (s MarkerSegment) Content() []byte { return slices.Clone(s.content) }

// Len returns the content length in bytes.
func (s MarkerSegment) Len() int { return len(s.content) }

// appendUint16 appends v in big-endian order, the byte order of every
// multi-byte JPEG marker field.
func appendUint16(dst []byte, v uint16) []byte {
	return append(dst, byte(v>>8), byte(v))
}

// NewStartOfFrameSegment builds a SOF55 frame header (T.87 C.2.2, T.81 B.2.2).
// Callers must ensure 0 <= Width, Height <= 65535, 0 < BitsPerSample <= 255
// and 0 < ComponentCount <= 254.
func NewStartOfFrameSegment(frame FrameInfo) MarkerSegment {
	content := make([]byte, 0, 6+3*frame.ComponentCount)
	content = append(content, byte(frame.BitsPerSample))  // P
	content = appendUint16(content, uint16(frame.Height)) // Y
	content = appendUint16(content, uint16(frame.Width))  // X
	content = append(content, byte(frame.ComponentCount)) // Nf
	for i := 0; i < frame.ComponentCount; i++ {
		// Ci, Hi:Vi (JPEG-LS has no subsampling), Tqi (reserved)
		content = append(content, byte(i+1), 0x11, 0x00)
	}
	return MarkerSegment{code: MarkerSOF55, content: content}
}

var jfifIdentifier = []byte{'J', 'F', 'I', 'F', 0}

// NewJFIFSegment builds a JFIF APP0 segment. A thumbnail is written only
// when XThumbnail > 0; it then needs at least 3*XThumbnail*YThumbnail bytes
// of RGB data, otherwise ErrInvalidParameters is returned.
// Callers must ensure Units is 0, 1 or 2, densities are positive and the
// thumbnail dimensions are in 0..255.
func NewJFIFSegment(params JFIFParameters) (MarkerSegment, error) {
	thumbnailSize := 0
	if params.XThumbnail > 0 {
		thumbnailSize = 3 * params.XThumbnail * params.YThumbnail
		if len(params.Thumbnail) < thumbnailSize {
			return MarkerSegment{}, fmt.Errorf("%w: JFIF thumbnail %dx%d needs %d bytes, got %d",
				ErrInvalidParameters, params.XThumbnail, params.YThumbnail, thumbnailSize, len(params.Thumbnail))
		}
	}

	content := make([]byte, 0, 14+thumbnailSize)
	content = append(content, jfifIdentifier...)
	content = appendUint16(content, uint16(params.Version))
	content = append(content, byte(params.Units))
	content = appendUint16(content, uint16(params.XDensity))
	content = appendUint16(content, uint16(params.YDensity))
	content = append(content, byte(params.XThumbnail), byte(params.YThumbnail))
	if thumbnailSize > 0 {
		content = append(content, params.Thumbnail[:thumbnailSize]...)
	}
	return MarkerSegment{code: MarkerAPP0, content: content}, nil
}

// NewPresetParametersSegment builds an LSE segment carrying preset coding
// parameters (T.87 C.2.4.1.1).
func NewPresetParametersSegment(params PresetCodingParameters) MarkerSegment {
	content := make([]byte, 0, 11)
	content = append(content, LSEPresetCodingParameters)
	content = appendUint16(content, uint16(params.MaximumSampleValue))
	content = appendUint16(content, uint16(params.Threshold1))
	content = appendUint16(content, uint16(params.Threshold2))
	content = appendUint16(content, uint16(params.Threshold3))
	content = appendUint16(content, uint16(params.ResetValue))
	return MarkerSegment{code: MarkerLSE, content: content}
}

// NewColorTransformSegment builds the HP "mrfx" APP8 segment.
func NewColorTransformSegment(transformation ColorTransformation) MarkerSegment {
	return MarkerSegment{
		code:    MarkerAPP8,
		content: []byte{'m', 'r', 'f', 'x', byte(transformation)},
	}
}

// NewStartOfScanSegment builds a scan header (T.87 C.2.3). A negative
// componentIndex lists every component of the scan with ids 1..N; otherwise
// the scan holds the single component with id componentIndex.
func NewStartOfScanSegment(scan ScanParameters, componentIndex int) MarkerSegment {
	const mappingTable = 0

	var content []byte
	if componentIndex < 0 {
		content = make([]byte, 0, 4+2*scan.ComponentCount)
		content = append(content, byte(scan.ComponentCount)) // Ns
		for i := 0; i < scan.ComponentCount; i++ {
			content = append(content, byte(i+1), mappingTable) // Ci, Tmi
		}
	} else {
		content = make([]byte, 0, 6)
		content = append(content, 1, byte(componentIndex), mappingTable)
	}

	content = append(content,
		byte(scan.AllowedLossyError), // NEAR
		byte(scan.InterleaveMode),    // ILV
		0,                            // Al:Ah point transform
	)
	return MarkerSegment{code: MarkerSOS, content: content}
}
