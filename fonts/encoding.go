package fonts

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// replacementByte stands in for runes the encoding cannot represent.
const replacementByte = '?'

func (e Encoding) charmap() *charmap.Charmap {
	switch e {
	case WinAnsi:
		return charmap.Windows1252
	case MacRoman:
		return charmap.Macintosh
	default:
		return nil
	}
}

// EncodeString converts UTF-8 text to the single-byte codes of e. Runes
// outside the code page become '?'. MacExpertEncoding has no text code page,
// so only ASCII passes through unchanged.
func (e Encoding) EncodeString(s string) string {
	cm := e.charmap()
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == utf8.RuneError {
			b.WriteByte(replacementByte)
			continue
		}
		if cm == nil {
			if r < utf8.RuneSelf {
				b.WriteByte(byte(r))
			} else {
				b.WriteByte(replacementByte)
			}
			continue
		}
		c, ok := cm.EncodeRune(r)
		if !ok {
			c = replacementByte
		}
		b.WriteByte(c)
	}
	return b.String()
}
