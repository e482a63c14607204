package zonefile

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestOpenPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("example.com\ntest.org\n"))
	}))
	defer srv.Close()

	s := New(srv.URL, "tok")
	rc, err := s.Open(t.Context(), "snapshot.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	sc := Lines(rc)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if len(lines) != 2 || lines[0] != "example.com" {
		t.Fatalf("lines = %v", lines)
	}
}

func TestOpenGzip(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	gw.Write([]byte("example.com\n"))
	gw.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(w, bytes.NewReader(buf.Bytes()))
	}))
	defer srv.Close()

	s := New(srv.URL, "")
	rc, err := s.Open(t.Context(), "daily.gz")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "example.com\n" {
		t.Fatalf("data = %q", data)
	}
}

func TestOpenErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := New(srv.URL, "bad-token")
	_, err := s.Open(t.Context(), "snapshot.txt")
	if err == nil {
		t.Fatal("expected error on 401")
	}
}
