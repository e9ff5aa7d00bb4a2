package probe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Truncation limits used in traces.
const (
	RawBodyLimit   = 500
	ErrorBodyLimit = 200
)

// Rule widths used in traces.
const (
	WideRule   = 80
	NarrowRule = 60
)

// Truncate shortens s to at most n characters, appending "..." when it cut.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// PrettyJSON indents body, keeping key order as sent. Escaped slashes
// and \u escapes of non-ASCII text are printed as plain characters.
// It returns false when body is not valid JSON.
func PrettyJSON(body []byte) (string, bool) {
	if !json.Valid(body) {
		return "", false
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", "  "); err != nil {
		return "", false
	}
	return unescapeText(buf.Bytes()), true
}

// unescapeText rewrites \/ and \uXXXX escapes of non-ASCII runes in valid
// JSON. Other escapes stay as they are so the output remains valid JSON.
func unescapeText(b []byte) string {
	if bytes.IndexByte(b, '\\') < 0 {
		return string(b)
	}

	var out strings.Builder
	out.Grow(len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out.WriteByte(b[i])
			continue
		}
		switch b[i+1] {
		case '/':
			out.WriteByte('/')
			i++
		case 'u':
			r, n := decodeUnicodeEscape(b[i:])
			if n == 0 {
				out.WriteString(string(b[i : i+6]))
				i += 5
				continue
			}
			out.WriteRune(r)
			i += n - 1
		default:
			out.WriteByte(b[i])
			out.WriteByte(b[i+1])
			i++
		}
	}
	return out.String()
}

// decodeUnicodeEscape decodes a \uXXXX escape, or a surrogate pair of
// them, at the start of b. n is 0 when the escape should be kept as-is.
func decodeUnicodeEscape(b []byte) (r rune, n int) {
	r1, ok := hexRune(b)
	if !ok || r1 < utf8.RuneSelf || r1 == '\u2028' || r1 == '\u2029' {
		return 0, 0
	}
	if !utf16.IsSurrogate(r1) {
		return r1, 6
	}
	if len(b) < 12 || b[6] != '\\' || b[7] != 'u' {
		return 0, 0
	}
	r2, ok := hexRune(b[6:])
	if !ok {
		return 0, 0
	}
	if dec := utf16.DecodeRune(r1, r2); dec != utf8.RuneError {
		return dec, 12
	}
	return 0, 0
}

func hexRune(b []byte) (rune, bool) {
	if len(b) < 6 {
		return 0, false
	}
	n, err := strconv.ParseUint(string(b[2:6]), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}

// FormatParams renders query parameters with s first and the rest sorted.
func FormatParams(params map[string]string) string {
	if len(params) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		if k != "s" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := params["s"]; ok {
		keys = append([]string{"s"}, keys...)
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("'%s': '%s'", k, params[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FormatHeaders renders response headers on one line, sorted by name.
func FormatHeaders(h http.Header) string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("'%s': '%s'", k, strings.Join(h[k], ", ")))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Rule writes a line of n copies of ch.
func Rule(w io.Writer, ch string, n int) {
	fmt.Fprintln(w, strings.Repeat(ch, n))
}
