package helper

import (
	"bytes"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewStructFromFile(t *testing.T) {
	type TestStruct struct {
		Name string `json:"name"`
	}
	f, _ := os.CreateTemp("", "test.json")
	defer os.Remove(f.Name())
	f.WriteString(`{"name": "test"}`)
	f.Close()

	var v TestStruct
	err := NewStructFromFile(f.Name(), &v)
	if err != nil {
		t.Errorf("NewStructFromFile failed: %v", err)
	}
	if v.Name != "test" {
		t.Errorf("Expected 'test', got %s", v.Name)
	}

	if err := NewStructFromFile("non_existent_file", &v); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestParseResponse(t *testing.T) {
	t.Run("crlf", func(t *testing.T) {
		raw := []byte("HTTP/1.1 302 Found\r\nLocation: /target\r\nContent-Type: text/html\r\n\r\nbody bytes")
		resp, err := ParseResponse(raw)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusLine != "HTTP/1.1 302 Found" {
			t.Errorf("status line = %q", resp.StatusLine)
		}
		wantHeaders := []string{"Location: /target", "Content-Type: text/html"}
		if diff := cmp.Diff(wantHeaders, resp.Headers); diff != "" {
			t.Errorf("headers mismatch (-want +got):\n%s", diff)
		}
		if string(resp.Body) != "body bytes" {
			t.Errorf("body = %q", resp.Body)
		}
	})

	t.Run("bare lf", func(t *testing.T) {
		raw := []byte("HTTP/1.1 200 OK\nServer: test\n\nhello")
		resp, err := ParseResponse(raw)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusLine != "HTTP/1.1 200 OK" {
			t.Errorf("status line = %q", resp.StatusLine)
		}
		if string(resp.Body) != "hello" {
			t.Errorf("body = %q", resp.Body)
		}
	})

	t.Run("no body", func(t *testing.T) {
		raw := []byte("HTTP/1.1 204 No Content\r\nServer: test")
		resp, err := ParseResponse(raw)
		if err != nil {
			t.Fatal(err)
		}
		if len(resp.Body) != 0 {
			t.Errorf("body = %q, want empty", resp.Body)
		}
		if len(resp.Headers) != 1 {
			t.Errorf("headers = %v", resp.Headers)
		}
	})

	t.Run("binary body preserved", func(t *testing.T) {
		body := []byte{0x1f, 0x8b, 0x08, 0x00, 0xff, 0xfe}
		raw := append([]byte("HTTP/1.1 302 Found\r\nContent-Encoding: gzip\r\n\r\n"), body...)
		resp, err := ParseResponse(raw)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(resp.Body, body) {
			t.Errorf("body = %v, want %v", resp.Body, body)
		}
	})

	t.Run("not a response", func(t *testing.T) {
		if _, err := ParseResponse([]byte("GET / HTTP/1.1\r\n\r\n")); err == nil {
			t.Error("expected an error for a request")
		}
	})
}

func TestBuildRaw(t *testing.T) {
	raw := []byte("HTTP/1.1 200 OK\r\nServer: test\r\nContent-Type: text/plain\r\n\r\npayload")
	resp, err := ParseResponse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if got := BuildRaw(resp); !bytes.Equal(got, raw) {
		t.Errorf("round trip mismatch:\ngot  %q\nwant %q", got, raw)
	}
}
