package staticd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"net"
	stdhttp "net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/indigo-web/staticd/config"
	"github.com/stretchr/testify/require"
)

func getConfig(t *testing.T) *config.Config {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("first file"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("second file"), 0o644))

	cfg := config.Default()
	cfg.Addr = "127.0.0.1:0"
	cfg.Root = root
	cfg.NET.ReadTimeout = 200 * time.Millisecond
	cfg.NET.AcceptLoopInterruptPeriod = 50 * time.Millisecond

	return cfg
}

func run(t *testing.T, cfg *config.Config) *App {
	started := make(chan struct{})
	stopped := make(chan error, 1)
	app := New(cfg).
		Logger(log.New(io.Discard, "", 0)).
		NotifyOnStart(func() {
			close(started)
		})

	go func() {
		stopped <- app.Serve()
	}()

	select {
	case <-started:
	case err := <-stopped:
		require.FailNow(t, "server failed to start", err)
	case <-time.After(time.Second):
		require.FailNow(t, "server did not start in time")
	}

	t.Cleanup(func() {
		app.Stop()
		require.NoError(t, <-stopped)
	})

	return app
}

func send(t *testing.T, addr net.Addr, data string) (*stdhttp.Response, []byte) {
	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(data))
	require.NoError(t, err)
	raw, err := io.ReadAll(conn)
	require.NoError(t, err)

	resp, err := stdhttp.ReadResponse(bufio.NewReader(bytes.NewReader(raw)), nil)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, body
}

func get(path string) string {
	return fmt.Sprintf("GET %s HTTP/1.1\r\nHost: localhost\r\n\r\n", path)
}

func TestApp(t *testing.T) {
	app := run(t, getConfig(t))

	t.Run("root", func(t *testing.T) {
		resp, body := send(t, app.Addr(), get("/"))
		require.Equal(t, 200, resp.StatusCode)
		require.Equal(t, int64(2), resp.ContentLength)
		require.Equal(t, "hi", string(body))
	})

	t.Run("missing", func(t *testing.T) {
		resp, body := send(t, app.Addr(), get("/missing.txt"))
		require.Equal(t, 404, resp.StatusCode)
		require.Equal(t, "Not Found", string(body))
	})

	t.Run("traversal", func(t *testing.T) {
		resp, _ := send(t, app.Addr(), get("/../../etc/passwd"))
		require.Equal(t, 403, resp.StatusCode)
	})

	t.Run("simultaneous requests", func(t *testing.T) {
		want := map[string]string{
			"/a.txt": "first file",
			"/b.txt": "second file",
		}

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			got  = make(map[string]string)
			code = make(map[string]int)
		)

		for path := range want {
			wg.Add(1)
			go func(path string) {
				defer wg.Done()

				conn, err := net.Dial("tcp", app.Addr().String())
				if err != nil {
					return
				}
				defer conn.Close()

				if _, err = conn.Write([]byte(get(path))); err != nil {
					return
				}

				raw, _ := io.ReadAll(conn)
				resp, err := stdhttp.ReadResponse(bufio.NewReader(bytes.NewReader(raw)), nil)
				if err != nil {
					return
				}
				body, _ := io.ReadAll(resp.Body)

				mu.Lock()
				got[path], code[path] = string(body), resp.StatusCode
				mu.Unlock()
			}(path)
		}

		wg.Wait()
		require.Equal(t, want, got)
		require.Equal(t, map[string]int{"/a.txt": 200, "/b.txt": 200}, code)
	})

	t.Run("silent client", func(t *testing.T) {
		conn, err := net.Dial("tcp", app.Addr().String())
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		received, err := io.ReadAll(conn)
		require.NoError(t, err)
		require.Empty(t, received)
	})
}

func TestApp_BindFailure(t *testing.T) {
	app := run(t, getConfig(t))

	cfg := getConfig(t)
	cfg.Addr = app.Addr().String()
	require.Error(t, New(cfg).Logger(log.New(io.Discard, "", 0)).Serve())
}

func TestApp_MissingRoot(t *testing.T) {
	cfg := getConfig(t)
	cfg.Root = filepath.Join(cfg.Root, "nonexistent")
	require.Error(t, New(cfg).Logger(log.New(io.Discard, "", 0)).Serve())
}
