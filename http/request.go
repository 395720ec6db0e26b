package http

import (
	"github.com/indigo-web/staticd/kv"
)

type Headers = *kv.Storage

// Request represents an HTTP request. It lives no longer than the connection it was
// received from.
type Request struct {
	// Method is captured as-is and isn't used for anything but logging.
	Method string
	// Path is the raw request target. It isn't decoded nor validated.
	Path string
	// Headers holds lower-cased header keys and trimmed values. Every key is presented at
	// most once, the last occurrence wins.
	Headers Headers
}

func NewRequest(headers Headers) *Request {
	return &Request{
		Path:    "/",
		Headers: headers,
	}
}
