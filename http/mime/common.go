package mime

type MIME = string

const (
	Plain MIME = "text/plain"
	HTML  MIME = "text/html"
)
