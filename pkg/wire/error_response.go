package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// ErrorResponseSize is the fixed size of a gateway error frame.
	ErrorResponseSize = 6

	// ErrorResponseCommand is the command byte of every error frame.
	ErrorResponseCommand = 8
)

// Frame decoding errors.
var (
	ErrFrameSize    = errors.New("error frame must be 6 bytes")
	ErrFrameCommand = errors.New("unexpected error frame command")
)

// ErrorResponse is the gateway's rejection of previously written content.
// It is returned as an error from a write that the gateway refused.
type ErrorResponse struct {
	// Raw is the error frame exactly as received.
	Raw [ErrorResponseSize]byte

	// Content is the outbound content the frame was received in reply to.
	Content []byte

	// Command is the frame command byte (8 for well-formed frames).
	Command uint8

	// Status is the rejection reason.
	Status Status

	// Identifier is the identifier of the rejected notification.
	Identifier uint32
}

// NewErrorResponse builds an ErrorResponse from a raw frame and the content
// that was written before the frame arrived. Frames with an unexpected command
// byte are kept as-is; use Validate to check them.
func NewErrorResponse(frame []byte, content []byte) (*ErrorResponse, error) {
	if len(frame) != ErrorResponseSize {
		return nil, fmt.Errorf("%w: got %d", ErrFrameSize, len(frame))
	}

	r := &ErrorResponse{
		Content:    content,
		Command:    frame[0],
		Status:     Status(frame[1]),
		Identifier: binary.BigEndian.Uint32(frame[2:6]),
	}
	copy(r.Raw[:], frame)
	return r, nil
}

// Validate checks the command byte.
func (r *ErrorResponse) Validate() error {
	if r.Command != ErrorResponseCommand {
		return fmt.Errorf("%w: %d", ErrFrameCommand, r.Command)
	}
	return nil
}

// Error implements the error interface.
func (r *ErrorResponse) Error() string {
	return fmt.Sprintf("gateway rejected notification %d: %s (status %d)",
		r.Identifier, r.Status.Description(), uint8(r.Status))
}

// EncodeErrorResponse encodes an error frame for the given status and identifier.
func EncodeErrorResponse(status Status, identifier uint32) []byte {
	frame := make([]byte, ErrorResponseSize)
	frame[0] = ErrorResponseCommand
	frame[1] = byte(status)
	binary.BigEndian.PutUint32(frame[2:], identifier)
	return frame
}
