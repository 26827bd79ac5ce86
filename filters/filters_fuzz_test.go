package filters

import (
	"bytes"
	"context"
	"testing"
)

func FuzzASCII85RoundTrip(f *testing.F) {
	f.Add([]byte("some content stream"))
	f.Add([]byte{0, 0, 0, 0})
	f.Add([]byte{0, 0, 0, 0, 0, 0})
	f.Add([]byte{})

	dec := NewASCII85Decoder()
	f.Fuzz(func(t *testing.T, data []byte) {
		out, err := dec.Decode(context.Background(), ASCII85Encode(data))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("round trip mismatch for %v", data)
		}
	})
}

func FuzzASCIIHexRoundTrip(f *testing.F) {
	f.Add([]byte("pixels"), 3)
	f.Add([]byte{0xff}, 1)

	dec := NewASCIIHexDecoder()
	f.Fuzz(func(t *testing.T, data []byte, sample int) {
		out, err := dec.Decode(context.Background(), ASCIIHexEncode(data, sample%8))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(data) == 0 {
			data = []byte{}
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("round trip mismatch for %v", data)
		}
	})
}
