package http1

import (
	"strings"
	"unicode/utf8"

	"github.com/indigo-web/staticd/http"
	"github.com/indigo-web/staticd/kv"
	"github.com/indigo-web/utils/uf"
)

// headersPrealloc is how many headers are expected in a typical request.
const headersPrealloc = 8

// Parse parses a request read at once. It never fails: invalid UTF-8 sequences are
// replaced, a missing request target defaults to the root and header lines without a
// colon are skipped. Everything after the first empty line is ignored.
//
// The returned request may reference the passed data, so it must not be modified
// until the request is discarded.
func Parse(data []byte) *http.Request {
	text := uf.B2S(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}

	requestLine, rest := nextLine(text)
	request := http.NewRequest(kv.NewPrealloc(headersPrealloc))
	fields := strings.Fields(requestLine)
	if len(fields) > 0 {
		request.Method = fields[0]
	}
	if len(fields) > 1 {
		request.Path = fields[1]
	}

	for len(rest) > 0 {
		var line string
		line, rest = nextLine(rest)
		if len(line) == 0 {
			break
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		request.Headers.Set(strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value))
	}

	return request
}

// nextLine cuts the first line terminated by either LF or CRLF.
func nextLine(text string) (line, rest string) {
	line, rest, _ = strings.Cut(text, "\n")
	return strings.TrimSuffix(line, "\r"), rest
}
