package handler

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	stdhttp "net/http"
	"testing"
	"time"

	"github.com/freekieb7/rubble/filesystem"
	"github.com/freekieb7/rubble/http"
	"github.com/freekieb7/rubble/test"
)

func startServer(t *testing.T, store filesystem.Store) string {
	t.Helper()

	srv := http.NewServer("handler-test")
	srv.WorkerCount = 4
	Register(srv.Router, store)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	go srv.Serve(listener)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})

	return listener.Addr().String()
}

// send writes one raw request and reads back the single response.
func send(t *testing.T, addr, raw string) (*stdhttp.Response, []byte) {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(raw)); err != nil {
		t.Fatal(err)
	}

	resp, err := stdhttp.ReadResponse(bufio.NewReader(conn), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	return resp, body
}

func TestRootAlwaysEmpty200(t *testing.T) {
	addr := startServer(t, filesystem.NewLocalStore(""))

	resp, body := send(t, addr, "GET / HTTP/1.1\r\nUser-Agent: whatever\r\nAccept-Encoding: gzip\r\n\r\n")

	test.AssertEqual(t, 200, resp.StatusCode)
	test.AssertEqual(t, 0, len(body))
}

func TestEcho(t *testing.T) {
	addr := startServer(t, filesystem.NewLocalStore(""))

	resp, body := send(t, addr, "GET /echo/abc-123 HTTP/1.1\r\n\r\n")

	test.AssertEqual(t, 200, resp.StatusCode)
	test.AssertEqual(t, "text/plain", resp.Header.Get("Content-Type"))
	test.AssertEqual(t, "7", resp.Header.Get("Content-Length"))
	test.AssertEqual(t, "abc-123", string(body))
}

func TestUserAgent(t *testing.T) {
	addr := startServer(t, filesystem.NewLocalStore(""))

	resp, body := send(t, addr, "GET /user-agent HTTP/1.1\r\nUser-Agent: foo\r\n\r\n")

	test.AssertEqual(t, 200, resp.StatusCode)
	test.AssertEqual(t, "3", resp.Header.Get("Content-Length"))
	test.AssertEqual(t, "foo", string(body))
}

func TestUserAgentMissing(t *testing.T) {
	addr := startServer(t, filesystem.NewLocalStore(""))

	resp, body := send(t, addr, "GET /user-agent HTTP/1.1\r\n\r\n")

	test.AssertEqual(t, 200, resp.StatusCode)
	test.AssertEqual(t, "0", resp.Header.Get("Content-Length"))
	test.AssertEqual(t, "", string(body))
}

func TestFilesRoundTrip(t *testing.T) {
	addr := startServer(t, filesystem.NewLocalStore(t.TempDir()))

	payload := "file payload bytes"
	raw := fmt.Sprintf("POST /files/f.txt HTTP/1.1\r\nContent-Length: %d\r\n\r\n%s", len(payload), payload)
	resp, body := send(t, addr, raw)

	test.AssertEqual(t, 201, resp.StatusCode)
	test.AssertEqual(t, 0, len(body))

	resp, body = send(t, addr, "GET /files/f.txt HTTP/1.1\r\n\r\n")

	test.AssertEqual(t, 200, resp.StatusCode)
	test.AssertEqual(t, "application/octet-stream", resp.Header.Get("Content-Type"))
	test.AssertEqual(t, payload, string(body))
}

func TestFilesNotFound(t *testing.T) {
	addr := startServer(t, filesystem.NewLocalStore(t.TempDir()))

	resp, body := send(t, addr, "GET /files/missing.txt HTTP/1.1\r\n\r\n")

	test.AssertEqual(t, 404, resp.StatusCode)
	test.AssertEqual(t, 0, len(body))
}

func TestFilesWithoutDirectoryConfigured(t *testing.T) {
	addr := startServer(t, filesystem.NewLocalStore(""))

	resp, _ := send(t, addr, "GET /files/f.txt HTTP/1.1\r\n\r\n")
	test.AssertEqual(t, 404, resp.StatusCode)
}

func TestFilesMethodNotAllowed(t *testing.T) {
	addr := startServer(t, filesystem.NewLocalStore(t.TempDir()))

	resp, _ := send(t, addr, "DELETE /files/f.txt HTTP/1.1\r\n\r\n")
	test.AssertEqual(t, 405, resp.StatusCode)
}

type failingStore struct{}

func (failingStore) Open(string) ([]byte, error) { return nil, errors.New("store unavailable") }
func (failingStore) Create(string, []byte) error { return errors.New("store unavailable") }

func TestFilesCreateFailure(t *testing.T) {
	addr := startServer(t, failingStore{})

	resp, _ := send(t, addr, "POST /files/f.txt HTTP/1.1\r\nContent-Length: 1\r\n\r\nx")
	test.AssertEqual(t, 500, resp.StatusCode)
}

func TestUnknownPathNotFound(t *testing.T) {
	addr := startServer(t, filesystem.NewLocalStore(""))

	resp, body := send(t, addr, "GET /does-not-exist HTTP/1.1\r\n\r\n")

	test.AssertEqual(t, 404, resp.StatusCode)
	test.AssertEqual(t, 0, len(body))
}

func TestEchoGzip(t *testing.T) {
	addr := startServer(t, filesystem.NewLocalStore(""))

	resp, body := send(t, addr, "GET /echo/abc HTTP/1.1\r\nAccept-Encoding: gzip\r\n\r\n")

	test.AssertEqual(t, 200, resp.StatusCode)
	test.AssertEqual(t, "gzip", resp.Header.Get("Content-Encoding"))

	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, "abc", string(decoded))

	test.AssertEqual(t, fmt.Sprint(len(body)), resp.Header.Get("Content-Length"))
}

func TestEchoGzipNotAccepted(t *testing.T) {
	addr := startServer(t, filesystem.NewLocalStore(""))

	resp, body := send(t, addr, "GET /echo/abc HTTP/1.1\r\nAccept-Encoding: invalid-encoding\r\n\r\n")

	test.AssertEqual(t, 200, resp.StatusCode)
	test.AssertEqual(t, "", resp.Header.Get("Content-Encoding"))
	test.AssertEqual(t, "abc", string(body))
}
