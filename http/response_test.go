package http

import (
	"bufio"
	"bytes"
	"io"
	stdhttp "net/http"
	"testing"

	"github.com/indigo-web/staticd/http/mime"
	"github.com/indigo-web/staticd/http/status"
	"github.com/stretchr/testify/require"
)

func readResponse(t *testing.T, data []byte) (*stdhttp.Response, []byte) {
	resp, err := stdhttp.ReadResponse(bufio.NewReader(bytes.NewReader(data)), nil)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, body
}

func TestResponse(t *testing.T) {
	t.Run("exact bytes", func(t *testing.T) {
		response := NewResponse(status.OK, "OK", mime.HTML, []byte("hi"))
		want := "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\nContent-Length: 2\r\n\r\nhi"
		require.Equal(t, want, string(response.Bytes()))
		require.Equal(t, len(want), response.Len())
	})

	t.Run("empty body", func(t *testing.T) {
		data := NewResponse(status.OK, "OK", mime.HTML, nil).Bytes()
		resp, body := readResponse(t, data)
		require.Equal(t, 200, resp.StatusCode)
		require.Equal(t, int64(0), resp.ContentLength)
		require.Empty(t, body)
	})

	t.Run("binary body", func(t *testing.T) {
		payload := make([]byte, 4096)
		for i := range payload {
			payload[i] = byte(i * 7)
		}
		payload = append(payload, 0xff, 0xfe, 0x00, 0xc3, 0x28)

		response := NewResponse(status.OK, "OK", mime.HTML, payload)
		data := response.Bytes()
		require.Equal(t, len(data), response.Len())

		resp, body := readResponse(t, data)
		require.Equal(t, int64(len(payload)), resp.ContentLength)
		require.Equal(t, payload, body)
	})

	t.Run("no extra headers", func(t *testing.T) {
		resp, _ := readResponse(t, NewResponse(status.OK, "OK", mime.HTML, []byte("x")).Bytes())
		require.Equal(t, 2, len(resp.Header))
		require.Equal(t, "text/html", resp.Header.Get("Content-Type"))
		require.Nil(t, resp.TransferEncoding)
	})

	t.Run("append to existing buffer", func(t *testing.T) {
		buff := []byte("garbage")
		buff = NewResponse(status.NotFound, "Not Found", mime.Plain, []byte("nope")).AppendBytes(buff[:0])
		resp, body := readResponse(t, buff)
		require.Equal(t, 404, resp.StatusCode)
		require.Equal(t, "nope", string(body))
	})

	t.Run("serialized in place", func(t *testing.T) {
		response := NewResponse(status.OK, "OK", mime.HTML, bytes.Repeat([]byte("a"), 1024))
		buff := make([]byte, 0, response.Len())
		data := response.AppendBytes(buff)
		require.Len(t, data, response.Len())
		require.Same(t, &buff[:1][0], &data[0])

		data = response.AppendBytes(make([]byte, 0, 16))
		require.Len(t, data, response.Len())
		require.Equal(t, response.Bytes(), data)
	})
}

func TestError(t *testing.T) {
	for _, tc := range []struct {
		code     status.Code
		wantCode int
		wantText string
		wantBody string
	}{
		{status.NotFound, 404, "404 Not Found", "Not Found"},
		{status.Forbidden, 403, "403 Forbidden", "Access denied"},
		{status.InternalServerError, 500, "500 Internal Server Error", "Server Error"},
		{400, 500, "500 Internal Server Error", "Server Error"},
		{status.OK, 500, "500 Internal Server Error", "Server Error"},
		{999, 500, "500 Internal Server Error", "Server Error"},
	} {
		resp, body := readResponse(t, Error(tc.code).Bytes())
		require.Equal(t, tc.wantCode, resp.StatusCode)
		require.Equal(t, tc.wantText, resp.Status)
		require.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
		require.Equal(t, tc.wantBody, string(body))
	}
}
