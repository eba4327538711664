package midi

// Reader is a cursor over an in-memory SMF byte stream. All reads are
// big-endian. A read that runs past the end returns ErrUnexpectedEOF and
// leaves the cursor at the start of the value that could not be read.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a reader positioned at the first byte of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the cursor offset.
func (r *Reader) Pos() int { return r.pos }

// Len returns the total length of the underlying stream.
func (r *Reader) Len() int { return len(r.data) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Peek returns the next byte without advancing.
func (r *Reader) Peek() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	return r.data[r.pos], nil
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBE16 reads a big-endian uint16.
func (r *Reader) ReadBE16() (uint16, error) {
	if r.Remaining() < 2 {
		return 0, ErrUnexpectedEOF
	}
	v := uint16(r.data[r.pos])<<8 | uint16(r.data[r.pos+1])
	r.pos += 2
	return v, nil
}

// ReadBE24 reads a big-endian 24-bit value, the width of a tempo payload.
func (r *Reader) ReadBE24() (uint32, error) {
	if r.Remaining() < 3 {
		return 0, ErrUnexpectedEOF
	}
	v := uint32(r.data[r.pos])<<16 | uint32(r.data[r.pos+1])<<8 | uint32(r.data[r.pos+2])
	r.pos += 3
	return v, nil
}

// ReadBE32 reads a big-endian uint32.
func (r *Reader) ReadBE32() (uint32, error) {
	if r.Remaining() < 4 {
		return 0, ErrUnexpectedEOF
	}
	v := uint32(r.data[r.pos])<<24 | uint32(r.data[r.pos+1])<<16 |
		uint32(r.data[r.pos+2])<<8 | uint32(r.data[r.pos+3])
	r.pos += 4
	return v, nil
}

// maxVarLenBytes is the SMF limit for a variable-length quantity (0x0FFFFFFF).
const maxVarLenBytes = 4

// ReadVarLen reads a MIDI variable-length quantity: 7 bits per byte, high
// bit set on every byte except the last.
func (r *Reader) ReadVarLen() (uint32, error) {
	start := r.pos
	var value uint32
	for i := 0; i < maxVarLenBytes; i++ {
		if r.pos >= len(r.data) {
			r.pos = start
			return 0, ErrUnexpectedEOF
		}
		b := r.data[r.pos]
		r.pos++
		value = value<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return value, nil
		}
	}
	r.pos = start
	return 0, ErrVarLenTooLong
}

// ReadBytes returns the next n bytes. The returned slice aliases the
// stream and must not be modified.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, ErrUnexpectedEOF
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if n < 0 || r.Remaining() < n {
		return ErrUnexpectedEOF
	}
	r.pos += n
	return nil
}

// Sub returns a reader over the next n bytes and advances past them. When
// fewer than n bytes remain the sub-reader gets what is left and
// ErrUnexpectedEOF is returned alongside it.
func (r *Reader) Sub(n int) (*Reader, error) {
	if n < 0 {
		return nil, ErrUnexpectedEOF
	}
	if r.Remaining() < n {
		sub := &Reader{data: r.data[r.pos:]}
		r.pos = len(r.data)
		return sub, ErrUnexpectedEOF
	}
	sub := &Reader{data: r.data[r.pos : r.pos+n]}
	r.pos += n
	return sub, nil
}
