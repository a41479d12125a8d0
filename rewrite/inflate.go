package rewrite

import (
	"bytes"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
	log "github.com/sirupsen/logrus"
)

const gzipMagic = "\x1f\x8b"

// Payload signatures the sniffer recognizes. Only gzip triggers
// inflation; the rest are logged at debug level to aid diagnosis of
// look-alike payloads.
var (
	sigPatterns = []string{gzipMagic, "\x78\x9c", "PK\x03\x04"}
	sigNames    = []string{"gzip", "zlib", "zip"}
)

var sigScanner = buildSignatureScanner()

func buildSignatureScanner() ahocorasick.AhoCorasick {
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: false,
		MatchOnlyWholeWords:  false,
	})
	return builder.Build(sigPatterns)
}

// hasJavascriptContentType reports whether any Content-Type header line
// names the javascript MIME type the misconfigured server emits. The
// whole line is matched case-insensitively.
func hasJavascriptContentType(headers []string) bool {
	for _, line := range headers {
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "content-type:") && strings.Contains(lower, "application/x-javascript") {
			return true
		}
	}
	return false
}

// firstGzipOffset returns the offset of the first gzip magic number in
// body, or -1 when none exists.
func firstGzipOffset(body []byte) int {
	first := -1
	for _, m := range sigScanner.FindAll(string(body)) {
		if sigPatterns[m.Pattern()] == gzipMagic {
			if first < 0 || m.Start() < first {
				first = m.Start()
			}
			continue
		}
		log.Debugf("body contains %s signature at offset %d, ignoring", sigNames[m.Pattern()], m.Start())
	}
	return first
}

// inflatePayload scans body for an embedded gzip stream and inflates it.
// Bytes before the magic number are discarded as leftover padding. The
// bool result reports whether a stream was found; a found-but-broken
// stream is an error and the caller must abandon the whole rewrite.
func inflatePayload(body []byte) ([]byte, bool, error) {
	offset := firstGzipOffset(body)
	if offset < 0 {
		return body, false, nil
	}
	log.Debugf("found gzip data at offset %d, decompressing", offset)

	zr, err := gzip.NewReader(bytes.NewReader(body[offset:]))
	if err != nil {
		return nil, false, err
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}
