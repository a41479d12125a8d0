package storage

import (
	"net/url"
	"strings"
	"testing"

	"github.com/retutils/redirectfix/message"
	"github.com/retutils/redirectfix/notify"
)

func annotatedFlow(t *testing.T, rawurl string) *message.Flow {
	t.Helper()
	u, err := url.Parse(rawurl)
	if err != nil {
		t.Fatal(err)
	}
	f := message.NewFlow()
	f.Request = &message.Request{Method: "GET", URL: u}
	f.Response = &message.Response{
		StatusLine: "HTTP/1.1 200 OK",
		Headers:    []string{"Content-Type: application/x-javascript"},
		Body:       []byte("var x=1;"),
	}
	return f
}

func TestService_AnnotateAndSearch(t *testing.T) {
	svc, err := NewService(t.TempDir())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	defer svc.Close()

	f := annotatedFlow(t, "http://example.com/app.js")
	ann := notify.Annotation{
		Highlight: "cyan",
		Comment:   "Redirect modified and decompressed for URL: http://example.com/app.js",
	}
	if err := svc.Annotate(f, ann); err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	results, err := svc.Search("decompressed")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	entry := results[0]
	if entry.URL != "http://example.com/app.js" {
		t.Errorf("URL = %q", entry.URL)
	}
	if entry.Highlight != "cyan" {
		t.Errorf("Highlight = %q", entry.Highlight)
	}
	if entry.StatusCode != 200 {
		t.Errorf("StatusCode = %d", entry.StatusCode)
	}
	if entry.BodySize != len("var x=1;") {
		t.Errorf("BodySize = %d", entry.BodySize)
	}

	none, err := svc.Search("nosuchterm")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d results, want 0", len(none))
	}
}

func TestNewEntry(t *testing.T) {
	f := annotatedFlow(t, "http://example.com/a.js")
	entry := NewEntry(f, notify.Annotation{Highlight: "cyan", Comment: "c"})

	if entry.ID != f.Id.String() {
		t.Errorf("ID = %q, want flow id", entry.ID)
	}
	if entry.Method != "GET" {
		t.Errorf("Method = %q", entry.Method)
	}
	if entry.Preview != "var x=1;" {
		t.Errorf("Preview = %q", entry.Preview)
	}
	if entry.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestNewEntry_PreviewTruncated(t *testing.T) {
	f := annotatedFlow(t, "http://example.com/big.js")
	f.Response.Body = []byte(strings.Repeat("a", previewLimit+100))
	entry := NewEntry(f, notify.Annotation{})
	if len(entry.Preview) != previewLimit {
		t.Errorf("preview length = %d, want %d", len(entry.Preview), previewLimit)
	}
	if entry.BodySize != previewLimit+100 {
		t.Errorf("BodySize = %d", entry.BodySize)
	}
}
