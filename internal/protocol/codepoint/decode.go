package codepoint

const (
	MaxRune = 0x10FFFF
	UTFMax  = 4

	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
)

const (
	tx = 0x80 // 1000 0000
	t2 = 0xC0 // 1100 0000
	t3 = 0xE0 // 1110 0000
	t4 = 0xF0 // 1111 0000
	t5 = 0xF8 // 1111 1000

	maskx = 0x3F // 0011 1111
	mask2 = 0x1F // 0001 1111
	mask3 = 0x0F // 0000 1111
	mask4 = 0x07 // 0000 0111
)

// minRune is the smallest code point that needs a sequence of the indexed length.
var minRune = [UTFMax + 1]rune{0, 0, 0x80, 0x800, 0x10000}

// Span is the byte range of the input that produced one code point.
type Span struct {
	Offset int
	Size   int
	Rune   rune
}

// sequenceLen returns the sequence length announced by lead byte c, or 0
// when c cannot start a sequence.
func sequenceLen(c byte) int {
	switch {
	case c < tx:
		return 1
	case c < t2:
		return 0
	case c < t3:
		return 2
	case c < t4:
		return 3
	case c < t5:
		return 4
	default:
		return 0
	}
}

func leadBits(c byte, n int) rune {
	switch n {
	case 2:
		return rune(c & mask2)
	case 3:
		return rune(c & mask3)
	case 4:
		return rune(c & mask4)
	default:
		return rune(c)
	}
}

func isContinuation(c byte) bool {
	return c&t2 == tx
}

// DecodeRune decodes the sequence at the head of p and returns the code
// point and the number of bytes it occupied. offset is the position of
// p[0] in the enclosing input; it only labels errors.
func DecodeRune(p []byte, offset int) (rune, int, error) {
	if len(p) == 0 {
		return 0, 0, invalid(offset, ReasonTruncated)
	}
	c0 := p[0]
	n := sequenceLen(c0)
	switch n {
	case 0:
		return 0, 0, invalid(offset, ReasonInvalidLead)
	case 1:
		return rune(c0), 1, nil
	}

	r := leadBits(c0, n)
	for i := 1; i < n; i++ {
		if i >= len(p) {
			return 0, 0, invalid(offset, ReasonTruncated)
		}
		if !isContinuation(p[i]) {
			return 0, 0, invalid(offset+i, ReasonBadContinuation)
		}
		r = r<<6 | rune(p[i]&maskx)
	}
	if err := checkScalar(r, n, offset); err != nil {
		return 0, 0, err
	}
	return r, n, nil
}

func checkScalar(r rune, n, offset int) error {
	switch {
	case r < minRune[n]:
		return invalid(offset, ReasonOverlong)
	case r > MaxRune:
		return invalid(offset, ReasonOutOfRange)
	case surrogateMin <= r && r <= surrogateMax:
		return invalid(offset, ReasonSurrogate)
	}
	return nil
}

// Decode converts b into code points. It fails with *InvalidEncodingError
// on the first malformed sequence and returns no partial result.
func Decode(b []byte) ([]rune, error) {
	out := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		r, size, err := DecodeRune(b[i:], i)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
		i += size
	}
	return out, nil
}

// DecodeSpans is Decode that also reports the bytes behind each code point.
// The input is validated by a counting pass first so the result is sized
// to the number of code points rather than the number of bytes.
func DecodeSpans(b []byte) ([]Span, error) {
	n, err := Count(b)
	if err != nil {
		return nil, err
	}
	out := make([]Span, 0, n)
	for i := 0; i < len(b); {
		r, size, err := DecodeRune(b[i:], i)
		if err != nil {
			return nil, err
		}
		out = append(out, Span{Offset: i, Size: size, Rune: r})
		i += size
	}
	return out, nil
}

// Count returns the number of code points in b.
func Count(b []byte) (int, error) {
	n := 0
	for i := 0; i < len(b); {
		_, size, err := DecodeRune(b[i:], i)
		if err != nil {
			return 0, err
		}
		i += size
		n++
	}
	return n, nil
}

func Valid(b []byte) bool {
	_, err := Count(b)
	return err == nil
}
