package status

type (
	Code   uint16
	Status string
)

// HTTP status codes the server is able to respond with, as registered with IANA.
const (
	OK                  Code = 200 // RFC 9110, 15.3.1
	Forbidden           Code = 403 // RFC 9110, 15.5.4
	NotFound            Code = 404 // RFC 9110, 15.5.5
	InternalServerError Code = 500 // RFC 9110, 15.6.1
)

// Text returns a reason phrase for the HTTP status code. Unknown codes result in
// "Unknown Status Code".
func Text(code Code) Status {
	switch code {
	case OK:
		return "OK"
	case Forbidden:
		return "Forbidden"
	case NotFound:
		return "Not Found"
	case InternalServerError:
		return "Internal Server Error"
	default:
		return "Unknown Status Code"
	}
}
