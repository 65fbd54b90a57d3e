package source

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

const sniffLen = 8 * 1024

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

type candidate struct {
	name string
	enc  encoding.Encoding
}

// Legacy encodings tried, in order, when the content is not valid UTF-8.
var candidates = []candidate{
	{"gbk", simplifiedchinese.GBK},
	{"big5", traditionalchinese.Big5},
	{"gb18030", simplifiedchinese.GB18030},
}

// Decode detects the encoding of raw and returns its UTF-8 text together
// with the encoding name. Content that cannot be decoded without
// replacement characters is rejected.
func Decode(raw []byte) (string, string, error) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		rest := raw[len(bomUTF8):]
		if !utf8.Valid(rest) {
			return "", "", errors.New("invalid utf-8 after byte order mark")
		}
		return string(rest), "utf-8", nil
	case bytes.HasPrefix(raw, bomUTF16LE):
		return decodeWith(raw, "utf-16le", unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM))
	case bytes.HasPrefix(raw, bomUTF16BE):
		return decodeWith(raw, "utf-16be", unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM))
	}

	head := raw
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return "", "", ErrBinary
	}

	if utf8.Valid(raw) {
		return string(raw), "utf-8", nil
	}

	for _, c := range candidates {
		if text, name, err := decodeWith(raw, c.name, c.enc); err == nil {
			return text, name, nil
		}
	}

	enc, name, _ := charset.DetermineEncoding(head, "text/plain")
	return decodeWith(raw, name, enc)
}

func decodeWith(raw []byte, name string, enc encoding.Encoding) (string, string, error) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", fmt.Errorf("decode as %s: %w", name, err)
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", "", fmt.Errorf("content is not valid %s", name)
	}
	return string(out), strings.ToLower(name), nil
}
