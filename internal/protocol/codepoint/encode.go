package codepoint

func EncodeRune(r rune) ([]byte, error) {
	return appendRune(make([]byte, 0, UTFMax), r, 0)
}

// Encode is the inverse of Decode.
func Encode(runes []rune) ([]byte, error) {
	out := make([]byte, 0, len(runes))
	for i, r := range runes {
		var err error
		out, err = appendRune(out, r, i)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// appendRune appends the minimal encoding of r to dst; index labels errors.
func appendRune(dst []byte, r rune, index int) ([]byte, error) {
	switch {
	case r < 0, r > MaxRune, surrogateMin <= r && r <= surrogateMax:
		return nil, &InvalidCodePointError{Index: index, Rune: r}
	case r < minRune[2]:
		return append(dst, byte(r)), nil
	case r < minRune[3]:
		return append(dst,
			t2|byte(r>>6),
			tx|byte(r)&maskx,
		), nil
	case r < minRune[4]:
		return append(dst,
			t3|byte(r>>12),
			tx|byte(r>>6)&maskx,
			tx|byte(r)&maskx,
		), nil
	default:
		return append(dst,
			t4|byte(r>>18),
			tx|byte(r>>12)&maskx,
			tx|byte(r>>6)&maskx,
			tx|byte(r)&maskx,
		), nil
	}
}
