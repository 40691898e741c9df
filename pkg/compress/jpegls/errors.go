package jpegls

import "errors"

var (
	// ErrInvalidParameters reports a frame, scan, JFIF or preset parameter
	// set that cannot be written into a conforming JPEG-LS stream.
	ErrInvalidParameters = errors.New("jpegls: invalid parameters")
	// ErrSegmentTooLarge reports segment content that does not fit the
	// 16-bit length field of a marker segment.
	ErrSegmentTooLarge = errors.New("jpegls: marker segment too large")
)
