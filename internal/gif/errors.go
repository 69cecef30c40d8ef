package gif

// ErrorCode identifies a decode failure. Codes are stable; the rendered
// message is resolved through a message table so callers can localize
// diagnostics by substituting the table (Options.Messages).
type ErrorCode int

const (
	ErrRead ErrorCode = iota + 1
	ErrUnsupportedBlock
	ErrNoImage
	ErrDecode
	ErrInvalidLZWMinCodeSize
	ErrNotAGIF
	ErrInvalidDimensions
)

// DefaultMessages maps each error code to its English message.
var DefaultMessages = map[ErrorCode]string{
	ErrRead:                  "failed to read GIF file",
	ErrUnsupportedBlock:      "invalid or unsupported GIF file",
	ErrNoImage:               "no image in file",
	ErrDecode:                "GIF decoding error",
	ErrInvalidLZWMinCodeSize: "invalid LZW minimum code size",
	ErrNotAGIF:               "not a GIF file",
	ErrInvalidDimensions:     "unsupported image dimensions",
}

// Error is a terminal decode failure. There are no partial results: any
// Error aborts the whole decode.
type Error struct {
	Code ErrorCode
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// CodeOf returns the error code carried by err, or 0 if err is not a
// decoder error.
func CodeOf(err error) ErrorCode {
	if de, ok := err.(*Error); ok {
		return de.Code
	}
	return 0
}
