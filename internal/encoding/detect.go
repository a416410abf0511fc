package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// peekSize is how many bytes are sniffed for BOM and charset detection.
const peekSize = 4096

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

var utf16BOMs = []struct {
	prefix []byte
	endian unicode.Endianness
}{
	{prefix: []byte{0xFF, 0xFE}, endian: unicode.LittleEndian},
	{prefix: []byte{0xFE, 0xFF}, endian: unicode.BigEndian},
}

// NewUTF8Reader wraps r in a reader that yields UTF-8 regardless of the
// input encoding. Bank and billing portals export remittance files in a mix
// of UTF-8, UTF-16 and Windows-1252, usually without declaring which.
//
// Detection order: BOM, valid-UTF-8 passthrough, chardet heuristics, then a
// Windows-1252 fallback.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(buf, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	for _, bom := range utf16BOMs {
		if bytes.HasPrefix(buf, bom.prefix) {
			decoder := unicode.UTF16(bom.endian, unicode.UseBOM).NewDecoder()
			return transform.NewReader(br, decoder), nil
		}
	}

	if utf8.Valid(buf) {
		return br, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		switch result.Charset {
		case "UTF-8":
			return br, nil
		case "ISO-8859-1", "windows-1252":
			return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
		case "ISO-8859-9":
			return transform.NewReader(br, charmap.ISO8859_9.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}
