package sniffer

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeResult reports how the raw bytes were interpreted.
type DecodeResult struct {
	Encoding  string // canonical name of the detected encoding
	Ambiguous bool   // true when detection fell back to a guess
}

// DecodeToUTF8 detects the encoding of raw file bytes and returns UTF-8 text.
//
// Detection order:
//  1. BOM (UTF-8 BOM stripped; UTF-16 LE/BE decoded)
//  2. Pure 7-bit ASCII or valid UTF-8 passes through
//  3. Heuristic detection via chardet
//  4. Fallback to Windows-1252, flagged ambiguous
func DecodeToUTF8(data []byte) ([]byte, DecodeResult, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], DecodeResult{Encoding: "utf-8"}, nil
	case bytes.HasPrefix(data, bomUTF16LE):
		decoded, err := decodeWith(data, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM))
		return decoded, DecodeResult{Encoding: "utf-16le"}, err
	case bytes.HasPrefix(data, bomUTF16BE):
		decoded, err := decodeWith(data, unicode.UTF16(unicode.BigEndian, unicode.UseBOM))
		return decoded, DecodeResult{Encoding: "utf-16be"}, err
	}

	if isASCII(data) {
		return data, DecodeResult{Encoding: "us-ascii"}, nil
	}
	if utf8.Valid(data) {
		return data, DecodeResult{Encoding: "utf-8"}, nil
	}

	detector := chardet.NewTextDetector()
	if result, err := detector.DetectBest(data); err == nil {
		switch result.Charset {
		case "UTF-8":
			return data, DecodeResult{Encoding: "utf-8", Ambiguous: result.Confidence < 80}, nil
		case "ISO-8859-1", "windows-1252":
			decoded, err := decodeWith(data, charmap.Windows1252)
			return decoded, DecodeResult{Encoding: "windows-1252", Ambiguous: result.Confidence < 80}, err
		case "ISO-8859-9":
			decoded, err := decodeWith(data, charmap.ISO8859_9)
			return decoded, DecodeResult{Encoding: "iso-8859-9", Ambiguous: result.Confidence < 80}, err
		}
	}

	decoded, err := decodeWith(data, charmap.Windows1252)
	return decoded, DecodeResult{Encoding: "windows-1252", Ambiguous: true}, err
}

func decodeWith(data []byte, enc encoding.Encoding) ([]byte, error) {
	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("transcode: %w", err)
	}
	return decoded, nil
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
