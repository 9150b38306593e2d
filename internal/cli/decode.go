package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/runecheck/internal/config"
	"github.com/danmuck/runecheck/internal/protocol/bytemap"
	"github.com/danmuck/runecheck/internal/protocol/codepoint"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func decodeCmd() *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode UTF-8 input and print its code points",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeIn, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer closeIn()

			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush()
			return decodeStream(in, out, format)
		},
	}

	c.Flags().StringVarP(&format, "format", "f", config.RenderCodePoints, "output format (codepoints|text|spans)")
	return c
}

func bytesCmd() *cobra.Command {
	var parse bool

	c := &cobra.Command{
		Use:   "bytes [file]",
		Short: "Print input bytes as printable stand-in characters, or reverse a rendering",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeIn, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer closeIn()

			raw, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			if !parse {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), bytemap.Render(raw))
				return err
			}

			// a rendering never contains a raw newline; drop the one Render output ends with
			out, err := bytemap.Parse(strings.TrimRight(string(raw), "\r\n"))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	c.Flags().BoolVar(&parse, "parse", false, "read a rendering and write the raw bytes it stands for")
	return c
}

// decodeStream writes one line per code point (or the text itself) as it
// is decoded; output already written stays written when a later sequence
// is rejected.
func decodeStream(in io.Reader, out io.Writer, format string) error {
	switch format {
	case config.RenderCodePoints, config.RenderText, config.RenderSpans:
	default:
		return fmt.Errorf("unknown format: %q", format)
	}

	dec := codepoint.NewDecoder(in)
	count := 0
	for {
		start := dec.Offset()
		r, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var encErr *codepoint.InvalidEncodingError
			if errors.As(err, &encErr) {
				log.Warn().Int("offset", encErr.Offset).Str("reason", string(encErr.Reason)).Msg("decode rejected input")
				return fmt.Errorf("offset=%d reason=%q: %w", encErr.Offset, encErr.Reason, err)
			}
			return err
		}
		count++

		switch format {
		case config.RenderText:
			_, err = fmt.Fprintf(out, "%c", r)
		case config.RenderSpans:
			_, err = fmt.Fprintf(out, "%d\t%d\t%U\n", start, dec.Offset()-start, r)
		default:
			_, err = fmt.Fprintf(out, "%U\n", r)
		}
		if err != nil {
			return err
		}
	}
	log.Debug().Int("code_points", count).Int64("bytes", dec.Offset()).Msg("decode complete")
	return nil
}

func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
