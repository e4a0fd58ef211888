package sources

import (
	"bufio"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeBOM wraps r so that a leading UTF-8 or UTF-16 byte order mark is
// consumed and, for UTF-16, the stream is transcoded to UTF-8. Municipal
// exports produced on Windows routinely carry one.
func decodeBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err != nil {
		// Too short to carry a BOM; hand the buffered reader back as is.
		return br
	}

	if (head[0] == 0xFF && head[1] == 0xFE) || (head[0] == 0xFE && head[1] == 0xFF) {
		utf16 := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
		return transform.NewReader(br, utf16.NewDecoder())
	}

	utf8 := unicode.UTF8BOM
	return transform.NewReader(br, utf8.NewDecoder())
}
