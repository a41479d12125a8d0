package message

import (
	"bytes"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// DecodedBody returns the body with its Content-Encoding undone. Missing
// or unknown encodings return the body as is. On a decode error the raw
// body is returned together with the error so callers can fall back to it.
func (r *Response) DecodedBody() ([]byte, error) {
	switch strings.ToLower(r.Header("Content-Encoding")) {
	case "", "identity":
		return r.Body, nil
	case "gzip":
		zr, err := gzip.NewReader(bytes.NewReader(r.Body))
		if err != nil {
			return r.Body, err
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return r.Body, err
		}
		return out, nil
	case "deflate":
		fr := flate.NewReader(bytes.NewReader(r.Body))
		defer fr.Close()
		out, err := io.ReadAll(fr)
		if err != nil {
			return r.Body, err
		}
		return out, nil
	case "br":
		out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(r.Body)))
		if err != nil {
			return r.Body, err
		}
		return out, nil
	case "zstd":
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return r.Body, err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(r.Body, nil)
		if err != nil {
			return r.Body, err
		}
		return out, nil
	default:
		return r.Body, nil
	}
}
