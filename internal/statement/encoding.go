package statement

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader returns a reader that yields r decoded to UTF-8.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped, UTF-16 LE/BE is decoded)
//  2. content that is already valid UTF-8 passes through
//  3. chardet heuristics
//  4. Windows-1252
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(buf, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF16LE):
		return decode(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)), nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return decode(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)), nil
	case utf8.Valid(trimPartialRune(buf)):
		return br, nil
	}

	return decode(br, guess(buf)), nil
}

func guess(sample []byte) encoding.Encoding {
	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return charmap.Windows1252
	}

	switch result.Charset {
	case "UTF-8":
		return encoding.Nop
	case "ISO-8859-9":
		return charmap.ISO8859_9
	case "ISO-8859-15":
		return charmap.ISO8859_15
	default:
		return charmap.Windows1252
	}
}

func decode(r io.Reader, enc encoding.Encoding) io.Reader {
	if enc == encoding.Nop {
		return r
	}

	return transform.NewReader(r, enc.NewDecoder())
}

// trimPartialRune drops a multi-byte sequence cut off by the sniff window.
func trimPartialRune(b []byte) []byte {
	for i := 1; i <= utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}

			break
		}
	}

	return b
}
