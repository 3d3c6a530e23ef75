package sniffer

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

const encodingUTF8 = "utf-8"

// Decoded is statement text converted to UTF-8.
type Decoded struct {
	Text     string
	Encoding string
	Lossy    bool // invalid sequences were replaced with U+FFFD
}

// DecodeText converts raw bytes to UTF-8 text. It never fails: when neither
// the detected charset nor the fallback chain can decode the bytes, invalid
// sequences are replaced.
func DecodeText(data []byte) Decoded {
	if len(data) == 0 {
		return Decoded{Encoding: encodingUTF8}
	}

	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return decodeUTF8(data[3:])
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}), bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		if out, err := dec.Bytes(data); err == nil {
			return Decoded{Text: string(out), Encoding: "utf-16"}
		}
	}

	// Detectors often report a Latin-1 family charset for UTF-8 files with
	// sparse non-ASCII content. Valid UTF-8 wins over any such guess.
	if utf8.Valid(data) {
		return decodeUTF8(data)
	}

	if charset, ok := detectCharset(data); ok && charset != encodingUTF8 {
		if enc, err := htmlindex.Get(charset); err == nil {
			if text, err := decodeWith(enc, data); err == nil {
				return Decoded{Text: text, Encoding: charset}
			}
		}
		return decodeUTF8(data)
	}

	// windows-1251 maps every byte, so later fallbacks are unreachable from here
	if text, err := decodeWith(charmap.Windows1251, data); err == nil {
		return Decoded{Text: text, Encoding: "windows-1251"}
	}
	return decodeUTF8(data)
}

func detectCharset(data []byte) (string, bool) {
	res, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || res == nil || res.Charset == "" {
		return "", false
	}
	return strings.ToLower(res.Charset), true
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func decodeUTF8(data []byte) Decoded {
	if utf8.Valid(data) {
		return Decoded{Text: string(data), Encoding: encodingUTF8}
	}
	return Decoded{
		Text:     strings.ToValidUTF8(string(data), string(utf8.RuneError)),
		Encoding: encodingUTF8,
		Lossy:    true,
	}
}
