package storage

import (
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/retutils/redirectfix/message"
	"github.com/retutils/redirectfix/notify"
)

// Entry is the stored record of one annotated rewrite.
type Entry struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Method     string    `json:"method"`
	StatusCode int       `json:"status_code"`
	Highlight  string    `json:"highlight"`
	Comment    string    `json:"comment"`
	BodySize   int       `json:"body_size"`
	Preview    string    `json:"-"` // indexed, not persisted
	CreatedAt  time.Time `json:"created_at"`
}

// previewLimit caps how much body text goes into the search index.
const previewLimit = 4096

// NewEntry converts an annotated flow to a storage-ready Entry. The
// response body is decoded so the index holds readable text; decode
// failures fall back to the raw bytes.
func NewEntry(f *message.Flow, a notify.Annotation) *Entry {
	id := f.Id
	if uuid.Equal(id, uuid.Nil) {
		id = uuid.NewV4()
	}

	entry := &Entry{
		ID:        id.String(),
		URL:       f.RequestURL(),
		Highlight: a.Highlight,
		Comment:   a.Comment,
		CreatedAt: time.Now(),
	}
	if f.Request != nil {
		entry.Method = f.Request.Method
	}
	if f.Response != nil {
		entry.StatusCode = f.Response.StatusCode()
		entry.BodySize = len(f.Response.Body)
		body, _ := f.Response.DecodedBody()
		if len(body) > previewLimit {
			body = body[:previewLimit]
		}
		entry.Preview = string(body)
	}
	return entry
}
