// Package bytemap renders raw bytes as printable characters.
//
// The 188 visually printable bytes ('!'..'~', '¡'..'¬', '®'..'ÿ') map to
// the code point of the same value. The remaining 68 bytes map, in
// ascending byte order, to U+0100, U+0101, ... so every byte has a
// distinct printable stand-in and the rendering can be parsed back.
package bytemap

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnmapped = errors.New("bytemap: rune has no byte")

var (
	toRune [256]rune
	toByte = make(map[rune]byte, 256)
)

func init() {
	shifted := rune(0)
	for b := 0; b < 256; b++ {
		r := rune(b)
		if !printable(byte(b)) {
			r = 0x100 + shifted
			shifted++
		}
		toRune[b] = r
		toByte[r] = byte(b)
	}
}

func printable(b byte) bool {
	return ('!' <= b && b <= '~') || (0xA1 <= b && b <= 0xAC) || 0xAE <= b
}

// Rune returns the printable stand-in for b.
func Rune(b byte) rune {
	return toRune[b]
}

// Byte is the inverse of Rune.
func Byte(r rune) (byte, bool) {
	b, ok := toByte[r]
	return b, ok
}

func Render(p []byte) string {
	var sb strings.Builder
	sb.Grow(len(p) * 2)
	for _, b := range p {
		sb.WriteRune(toRune[b])
	}
	return sb.String()
}

// Parse reverses Render.
func Parse(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i, r := range s {
		b, ok := Byte(r)
		if !ok {
			return nil, fmt.Errorf("%w: %U at offset %d", ErrUnmapped, r, i)
		}
		out = append(out, b)
	}
	return out, nil
}
