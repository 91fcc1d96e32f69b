package preview

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Decode decodes data with the first candidate encoding that accepts it.
// Encoding names are WHATWG labels ("utf-8", "utf-16le", "shift_jis"...).
// Unknown names are skipped.
func Decode(data []byte, candidates []string) (Text, error) {
	var tried []string
	for _, name := range candidates {
		s, ok := decodeWith(data, name)
		if ok {
			return Text{Decoded: s, EncodingUsed: canonical(name)}, nil
		}
		tried = append(tried, name)
	}
	return Text{}, fmt.Errorf("%w: tried %s", ErrDecodeFailure, strings.Join(tried, ", "))
}

// Detect guesses the encoding of data. It returns false when the guess is
// below minConfidence (0-100) or its charset is unknown.
func Detect(data []byte, minConfidence int) (string, bool) {
	res, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || res.Confidence < minConfidence {
		return "", false
	}
	if _, err := htmlindex.Get(res.Charset); err != nil {
		return "", false
	}
	return canonical(res.Charset), true
}

func decodeWith(data []byte, name string) (string, bool) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", false
	}
	if canonical(name) == "utf-8" {
		if !utf8.Valid(data) {
			return "", false
		}
		return string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))), true
	}
	return decodeStrict(enc, data)
}

// decodeStrict rejects decodings that produced a replacement character.
func decodeStrict(enc encoding.Encoding, data []byte) (string, bool) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return strings.TrimPrefix(string(out), "\ufeff"), true
}

func canonical(name string) string {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return strings.ToLower(name)
	}
	n, err := htmlindex.Name(enc)
	if err != nil {
		return strings.ToLower(name)
	}
	return strings.ToLower(n)
}
