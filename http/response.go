package http

import (
	"slices"
	"strconv"

	"github.com/indigo-web/staticd/http/mime"
	"github.com/indigo-web/staticd/http/status"
	"github.com/indigo-web/utils/uf"
)

const protocol = "HTTP/1.1 "

// Response is a complete HTTP response. Its body is always fully in memory, therefore
// Content-Length always matches the body exactly.
type Response struct {
	Code        status.Code
	Status      status.Status
	ContentType mime.MIME
	Body        []byte
}

func NewResponse(code status.Code, text status.Status, contentType mime.MIME, body []byte) *Response {
	return &Response{
		Code:        code,
		Status:      text,
		ContentType: contentType,
		Body:        body,
	}
}

// Error returns a canned text/plain response for the error code. Codes other than
// 403 and 404 are reported as 500 Internal Server Error.
func Error(code status.Code) *Response {
	var message string

	switch code {
	case status.NotFound:
		message = "Not Found"
	case status.Forbidden:
		message = "Access denied"
	default:
		code, message = status.InternalServerError, "Server Error"
	}

	return NewResponse(code, status.Text(code), mime.Plain, uf.S2B(message))
}

// Len returns the length of the serialized response.
func (r *Response) Len() int {
	const fixed = len(protocol) + len(" \r\nContent-Type: \r\nContent-Length: \r\n\r\n")

	return fixed + digits(int(r.Code)) + len(r.Status) + len(r.ContentType) +
		digits(len(r.Body)) + len(r.Body)
}

// AppendBytes serializes the response into the buffer and returns it. The buffer is grown
// at most once.
func (r *Response) AppendBytes(buff []byte) []byte {
	buff = slices.Grow(buff, r.Len())
	buff = append(buff, protocol...)
	buff = strconv.AppendUint(buff, uint64(r.Code), 10)
	buff = append(buff, ' ')
	buff = append(buff, r.Status...)
	buff = append(buff, "\r\nContent-Type: "...)
	buff = append(buff, r.ContentType...)
	buff = append(buff, "\r\nContent-Length: "...)
	buff = strconv.AppendInt(buff, int64(len(r.Body)), 10)
	buff = append(buff, "\r\n\r\n"...)

	return append(buff, r.Body...)
}

// Bytes returns the serialized response.
func (r *Response) Bytes() []byte {
	return r.AppendBytes(nil)
}

func digits(n int) (d int) {
	for d = 1; n >= 10; d++ {
		n /= 10
	}

	return d
}
