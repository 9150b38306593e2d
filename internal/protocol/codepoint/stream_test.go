package codepoint

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/danmuck/runecheck/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

func TestDecoderStreamsAcrossReads(t *testing.T) {
	testlog.Start(t)

	in := "a€\U0001F600é"
	d := NewDecoder(iotest.OneByteReader(strings.NewReader(in)))
	got, err := d.DecodeAll()
	if err != nil {
		t.Fatalf("decode all: %v", err)
	}
	if diff := cmp.Diff([]rune(in), got); diff != "" {
		t.Fatalf("unexpected code points (-want +got):\n%s", diff)
	}
	if d.Offset() != int64(len(in)) {
		t.Fatalf("expected offset %d, got %d", len(in), d.Offset())
	}
	if _, err := d.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after drain, got %v", err)
	}
}

func TestDecoderReportsAbsoluteOffsets(t *testing.T) {
	testlog.Start(t)

	cases := []struct {
		name   string
		in     []byte
		offset int
		reason Reason
		before int
	}{
		{"truncated at end", []byte{'x', 'y', 0xE2, 0x82}, 2, ReasonTruncated, 2},
		{"bad continuation", []byte{0xC3, 0xA9, 0xC3, 0x28}, 3, ReasonBadContinuation, 1},
		{"overlong", []byte{'a', 0xE0, 0x80, 0x80}, 1, ReasonOverlong, 1},
		{"surrogate", []byte{0xED, 0xB0, 0x80}, 0, ReasonSurrogate, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDecoder(bytes.NewReader(tc.in))
			for i := 0; i < tc.before; i++ {
				if _, err := d.Next(); err != nil {
					t.Fatalf("next %d: %v", i, err)
				}
			}
			_, err := d.Next()
			var encErr *InvalidEncodingError
			if !errors.As(err, &encErr) {
				t.Fatalf("expected *InvalidEncodingError, got %v", err)
			}
			if encErr.Offset != tc.offset || encErr.Reason != tc.reason {
				t.Fatalf("got offset=%d reason=%q want offset=%d reason=%q",
					encErr.Offset, encErr.Reason, tc.offset, tc.reason)
			}
			if _, again := d.Next(); again != err {
				t.Fatalf("expected sticky error, got %v", again)
			}
		})
	}
}

func TestDecoderSurfacesReadErrors(t *testing.T) {
	testlog.Start(t)

	boom := errors.New("boom")
	d := NewDecoder(io.MultiReader(bytes.NewReader([]byte{0xE2}), iotest.ErrReader(boom)))
	_, err := d.Next()
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
	if errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("read error must not look like an encoding error")
	}
}
