package helper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/retutils/redirectfix/message"
)

// NewStructFromFile fills v from a JSON file.
func NewStructFromFile(filename string, v interface{}) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}
	return nil
}

// ParseResponse splits a captured raw HTTP response into the status line,
// header lines and body. Header parsing is deliberately shallow: lines
// are kept verbatim and in order, the way the interception layer captured
// them. Bare-LF captures are tolerated.
func ParseResponse(raw []byte) (*message.Response, error) {
	sep, nl := []byte("\r\n\r\n"), "\r\n"
	head, body, found := bytes.Cut(raw, sep)
	if !found {
		sep, nl = []byte("\n\n"), "\n"
		head, body, found = bytes.Cut(raw, sep)
		if !found {
			head, body = raw, nil
		}
	}

	lines := strings.Split(string(head), nl)
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "HTTP/") {
		return nil, fmt.Errorf("malformed response: missing status line")
	}

	resp := &message.Response{
		StatusLine: lines[0],
		Body:       body,
	}
	resp.Headers = append(resp.Headers, lines[1:]...)
	return resp, nil
}

// BuildRaw reassembles a response view into wire bytes with CRLF line
// endings.
func BuildRaw(resp *message.Response) []byte {
	var buf bytes.Buffer
	buf.WriteString(resp.StatusLine)
	buf.WriteString("\r\n")
	for _, line := range resp.Headers {
		buf.WriteString(line)
		buf.WriteString("\r\n")
	}
	buf.WriteString("\r\n")
	buf.Write(resp.Body)
	return buf.Bytes()
}
