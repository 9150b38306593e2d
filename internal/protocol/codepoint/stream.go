package codepoint

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Decoder reads code points from a byte stream. Offsets in its errors are
// absolute stream offsets. A Decoder is not safe for concurrent use.
type Decoder struct {
	r      io.ByteReader
	offset int64
	err    error
}

func NewDecoder(r io.Reader) *Decoder {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Decoder{r: br}
}

// Offset returns the number of bytes consumed by successful Next calls.
func (d *Decoder) Offset() int64 {
	return d.offset
}

// Next returns the next code point, io.EOF at a clean end of stream, or
// *InvalidEncodingError. Errors are sticky.
func (d *Decoder) Next() (rune, error) {
	if d.err != nil {
		return 0, d.err
	}

	var buf [UTFMax]byte
	c0, err := d.r.ReadByte()
	if err != nil {
		return 0, d.fail(err)
	}
	buf[0] = c0
	size := 1
	for n := sequenceLen(c0); size < n; {
		c, err := d.r.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, d.fail(fmt.Errorf("codepoint: read at offset %d: %w", d.offset+int64(size), err))
		}
		buf[size] = c
		size++
		if !isContinuation(c) {
			break
		}
	}

	r, consumed, err := DecodeRune(buf[:size], int(d.offset))
	if err != nil {
		return 0, d.fail(err)
	}
	d.offset += int64(consumed)
	return r, nil
}

// DecodeAll drains the stream.
func (d *Decoder) DecodeAll() ([]rune, error) {
	out := make([]rune, 0, 64)
	for {
		r, err := d.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
}

func (d *Decoder) fail(err error) error {
	d.err = err
	return err
}
