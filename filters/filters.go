// Package filters implements the two text-safe stream encodings used in the
// output file, ASCII base-85 and ASCII hex, together with their decoders.
package filters

import (
	"bytes"
	"context"
	stdascii85 "encoding/ascii85"
	"encoding/hex"
	"errors"
	"fmt"
)

// Filter names as they appear in a stream dictionary.
const (
	ASCII85Name  = "ASCII85Decode"
	ASCIIHexName = "ASCIIHexDecode"
)

const (
	ascii85EOD  = "~>"
	asciiHexEOD = '>'
)

// ASCII85Encode encodes data in 4-byte big-endian groups. A full all-zero
// group becomes 'z'; a final partial group is zero-padded and trimmed back by
// the padding length. The output ends with the "~>" terminator.
func ASCII85Encode(data []byte) []byte {
	dst := make([]byte, stdascii85.MaxEncodedLen(len(data)), stdascii85.MaxEncodedLen(len(data))+len(ascii85EOD))
	n := stdascii85.Encode(dst, data)
	return append(dst[:n], ascii85EOD...)
}

// ASCIIHexEncode writes every byte as two lowercase hex digits. Bytes are
// grouped by sample size, each group followed by a space, and the output is
// closed with '>'. A sample size below 1 is treated as 1.
func ASCIIHexEncode(data []byte, sample int) []byte {
	if sample < 1 {
		sample = 1
	}
	groups := (len(data) + sample - 1) / sample
	out := make([]byte, 0, hex.EncodedLen(len(data))+groups+1)
	for i := 0; i < len(data); i += sample {
		end := i + sample
		if end > len(data) {
			end = len(data)
		}
		out = append(out, hex.EncodeToString(data[i:end])...)
		out = append(out, ' ')
	}
	return append(out, asciiHexEOD)
}

type Decoder interface {
	Name() string
	Decode(ctx context.Context, input []byte) ([]byte, error)
}

type Pipeline struct {
	decoders []Decoder
}

// NewPipeline constructs a pipeline with provided decoders.
func NewPipeline(decoders ...Decoder) *Pipeline {
	return &Pipeline{decoders: decoders}
}

// DefaultPipeline knows every filter this package writes.
func DefaultPipeline() *Pipeline {
	return NewPipeline(NewASCII85Decoder(), NewASCIIHexDecoder())
}

func (p *Pipeline) findDecoder(name string) Decoder {
	for _, d := range p.decoders {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

// Decode applies the named filters in order.
func (p *Pipeline) Decode(ctx context.Context, input []byte, filterNames ...string) ([]byte, error) {
	data := input
	for _, name := range filterNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dec := p.findDecoder(name)
		if dec == nil {
			return nil, errors.New("unknown filter: " + name)
		}
		out, err := dec.Decode(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		data = out
	}
	return data, nil
}

type ascii85Decoder struct{}

func (ascii85Decoder) Name() string { return ASCII85Name }
func (ascii85Decoder) Decode(ctx context.Context, in []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(in)
	trimmed = bytes.TrimPrefix(trimmed, []byte("<~"))
	if i := bytes.Index(trimmed, []byte(ascii85EOD)); i >= 0 {
		trimmed = trimmed[:i]
	}
	// every 'z' expands to four bytes, every other five bytes to four
	out := make([]byte, 4*len(trimmed)+4)
	n, _, err := stdascii85.Decode(out, trimmed, true)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}
func NewASCII85Decoder() Decoder { return ascii85Decoder{} }

type asciiHexDecoder struct{}

func (asciiHexDecoder) Name() string { return ASCIIHexName }
func (asciiHexDecoder) Decode(ctx context.Context, in []byte) ([]byte, error) {
	digits := make([]byte, 0, len(in))
	for _, c := range in {
		if c == asciiHexEOD {
			break
		}
		switch c {
		case ' ', '\t', '\r', '\n', '\f', 0:
			continue
		}
		digits = append(digits, c)
	}
	// an odd trailing digit is padded with 0
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	result := make([]byte, hex.DecodedLen(len(digits)))
	n, err := hex.Decode(result, digits)
	if err != nil {
		return nil, err
	}
	return result[:n], nil
}
func NewASCIIHexDecoder() Decoder { return asciiHexDecoder{} }
