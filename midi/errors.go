package midi

import "errors"

// ErrUnexpectedEOF is returned when the stream ends in the middle of a value.
var ErrUnexpectedEOF = errors.New("midi: unexpected end of data")

// ErrVarLenTooLong is returned when a variable-length quantity exceeds four bytes.
var ErrVarLenTooLong = errors.New("midi: variable-length quantity exceeds 4 bytes")

// ErrFileNotFound is returned when the chart file does not exist.
var ErrFileNotFound = errors.New("midi: file not found")

// ErrInvalidHeader is returned when the MThd chunk is missing or unusable.
var ErrInvalidHeader = errors.New("midi: invalid header")

// ErrBadChunk is returned in strict mode when a track chunk tag is not MTrk.
var ErrBadChunk = errors.New("midi: unexpected chunk tag")

// ErrMalformedTrack is returned when a track contains a byte sequence that
// is not a valid event, such as a data byte with no running status.
var ErrMalformedTrack = errors.New("midi: malformed track event")
