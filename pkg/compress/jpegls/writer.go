package jpegls

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
)

// maxSegmentContent is the largest content that fits the 16-bit length
// field, which counts itself.
const maxSegmentContent = 0xFFFF - 2

// Writer frames marker segments onto an output stream.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer buffering output to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteMarker writes a bare marker (0xFF code), e.g. SOI or EOI.
func (w *Writer) WriteMarker(code MarkerCode) error {
	if err := w.w.WriteByte(0xFF); err != nil {
		return err
	}
	return w.w.WriteByte(byte(code))
}

// WriteSegment writes the marker, the big-endian length (2 + content) and
// the content of s.
func (w *Writer) WriteSegment(s MarkerSegment) error {
	if len(s.content) > maxSegmentContent {
		return fmt.Errorf("%w: %v content is %d bytes", ErrSegmentTooLarge, s.code, len(s.content))
	}
	if err := w.WriteMarker(s.code); err != nil {
		return err
	}
	if err := w.writeWord(2 + len(s.content)); err != nil {
		return err
	}
	_, err := w.w.Write(s.content)
	return err
}

func (w *Writer) writeWord(v int) error {
	_, err := w.w.Write(appendUint16(nil, uint16(v)))
	return err
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Header describes everything written ahead of the first scan's entropy
// coded data.
type Header struct {
	Frame          FrameInfo
	Scan           ScanParameters
	JFIF           *JFIFParameters // optional APP0
	Preset         PresetCodingParameters
	ColorTransform ColorTransformation
}

// Segments validates h and returns the marker segments that follow SOI, in
// stream order. Preset overrides are checked against the frame's sample
// range; an all-zero Preset emits no LSE segment.
func (h Header) Segments() ([]MarkerSegment, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}

	var segments []MarkerSegment
	if h.JFIF != nil {
		app0, err := NewJFIFSegment(*h.JFIF)
		if err != nil {
			return nil, err
		}
		segments = append(segments, app0)
	}
	segments = append(segments, NewStartOfFrameSegment(h.Frame))
	if h.ColorTransform != ColorTransformNone {
		segments = append(segments, NewColorTransformSegment(h.ColorTransform))
	}
	if !h.Preset.IsDefault() {
		preset, err := h.Preset.Resolve(h.MaximumComponentValue(), h.Scan.AllowedLossyError)
		if err != nil {
			return nil, err
		}
		segments = append(segments, NewPresetParametersSegment(preset))
	}
	segments = append(segments, h.ScanHeader(1))
	return segments, nil
}

// ScanHeader returns the SOS segment for the scan holding component id
// component. In line or sample interleaved mode a single scan carries every
// component and component is ignored.
func (h Header) ScanHeader(component int) MarkerSegment {
	scan := h.Scan
	scan.ComponentCount = h.Frame.ComponentCount
	if h.Frame.ComponentCount > 1 && scan.InterleaveMode != InterleaveNone {
		return NewStartOfScanSegment(scan, -1)
	}
	return NewStartOfScanSegment(scan, component)
}

// MaximumComponentValue is the largest sample value the frame precision allows.
func (h Header) MaximumComponentValue() int {
	return 1<<h.Frame.BitsPerSample - 1
}

// CodingParameters returns the preset parameters the context model must use
// for this header: the override when given, the defaults otherwise.
func (h Header) CodingParameters() (PresetCodingParameters, error) {
	if err := h.validate(); err != nil {
		return PresetCodingParameters{}, err
	}
	return h.Preset.Resolve(h.MaximumComponentValue(), h.Scan.AllowedLossyError)
}

func (h Header) validate() error {
	f := h.Frame
	switch {
	case f.Width < 0 || f.Width > 0xFFFF:
		return fmt.Errorf("%w: width %d", ErrInvalidParameters, f.Width)
	case f.Height < 0 || f.Height > 0xFFFF:
		return fmt.Errorf("%w: height %d", ErrInvalidParameters, f.Height)
	case f.BitsPerSample < 2 || f.BitsPerSample > 16:
		return fmt.Errorf("%w: bits per sample %d", ErrInvalidParameters, f.BitsPerSample)
	case f.ComponentCount < 1 || f.ComponentCount > 254:
		return fmt.Errorf("%w: component count %d", ErrInvalidParameters, f.ComponentCount)
	}

	s := h.Scan
	if s.AllowedLossyError < 0 || s.AllowedLossyError > MaximumNearLossless(h.MaximumComponentValue()) {
		return fmt.Errorf("%w: near lossless %d", ErrInvalidParameters, s.AllowedLossyError)
	}
	if s.InterleaveMode > InterleaveSample {
		return fmt.Errorf("%w: interleave mode %d", ErrInvalidParameters, s.InterleaveMode)
	}
	if h.ColorTransform > ColorTransformHP3 {
		return fmt.Errorf("%w: color transformation %d", ErrInvalidParameters, h.ColorTransform)
	}
	if h.ColorTransform != ColorTransformNone && f.ComponentCount != 3 {
		return fmt.Errorf("%w: color transformation needs 3 components, have %d", ErrInvalidParameters, f.ComponentCount)
	}

	if j := h.JFIF; j != nil {
		switch {
		case j.Units > DensityPerCm:
			return fmt.Errorf("%w: JFIF units %d", ErrInvalidParameters, j.Units)
		case j.XDensity < 1 || j.XDensity > 0xFFFF || j.YDensity < 1 || j.YDensity > 0xFFFF:
			return fmt.Errorf("%w: JFIF density %dx%d", ErrInvalidParameters, j.XDensity, j.YDensity)
		case j.XThumbnail < 0 || j.XThumbnail > 255 || j.YThumbnail < 0 || j.YThumbnail > 255:
			return fmt.Errorf("%w: JFIF thumbnail %dx%d", ErrInvalidParameters, j.XThumbnail, j.YThumbnail)
		}
	}
	return nil
}

// WriteHeader writes SOI followed by the segments of h and flushes.
func WriteHeader(w io.Writer, h Header) error {
	segments, err := h.Segments()
	if err != nil {
		return err
	}

	jw := NewWriter(w)
	if err := jw.WriteMarker(MarkerSOI); err != nil {
		return err
	}
	for _, s := range segments {
		slog.Debug("writing marker segment", slog.String("marker", s.Code().String()), slog.Int("length", 2+s.Len()))
		if err := jw.WriteSegment(s); err != nil {
			return err
		}
	}
	return jw.Flush()
}
